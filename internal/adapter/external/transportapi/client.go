// Package transportapi reads live UK rail departures from TransportAPI.
package transportapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
)

const defaultBaseURL = "https://transportapi.com/v3/uk/train/station"

type Client struct {
	appID   string
	appKey  string
	baseURL string
	http    *circuitbreaker.HTTPClient
	log     *zap.Logger
}

func NewClient(appID, appKey, baseURL string, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) (*Client, error) {
	if appID == "" || appKey == "" {
		return nil, fmt.Errorf("transportapi: %w", domain.ErrConfigMissing)
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		appID:   appID,
		appKey:  appKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}, nil
}

type liveResponse struct {
	StationName string `json:"station_name"`
	Departures  struct {
		All []liveDeparture `json:"all"`
	} `json:"departures"`
}

type liveDeparture struct {
	AimedDepartureTime    string `json:"aimed_departure_time"`
	ExpectedDepartureTime string `json:"expected_departure_time"`
	Platform              string `json:"platform"`
	Status                string `json:"status"`
	OperatorName          string `json:"operator_name"`
	Category              string `json:"category"`
	DestinationName       string `json:"destination_name"`
	TrainUID              string `json:"train_uid"`
}

// LiveDepartures lists passenger trains leaving origin that call at destination.
func (c *Client) LiveDepartures(ctx context.Context, origin, destination string) ([]domain.Departure, error) {
	q := url.Values{
		"app_id":       {c.appID},
		"app_key":      {c.appKey},
		"calling_at":   {destination},
		"darwin":       {"true"},
		"train_status": {"passenger"},
	}
	endpoint := fmt.Sprintf("%s/%s/live.json?%s", c.baseURL, url.PathEscape(origin), q.Encode())

	var resp liveResponse
	if err := c.http.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	departures := make([]domain.Departure, 0, len(resp.Departures.All))
	for _, d := range resp.Departures.All {
		departures = append(departures, toDeparture(d))
	}

	c.log.Info("Transport API response received",
		zap.String("origin", origin),
		zap.String("destination", destination),
		zap.Int("departures", len(departures)),
	)
	return departures, nil
}

func toDeparture(d liveDeparture) domain.Departure {
	dep := domain.Departure{
		ScheduledTime: d.AimedDepartureTime,
		ExpectedTime:  d.ExpectedDepartureTime,
		Platform:      d.Platform,
		Status:        d.Status,
		Operator:      d.OperatorName,
		TrainType:     d.Category,
		Destination:   d.DestinationName,
		TrainUID:      d.TrainUID,
	}
	if dep.ExpectedTime != "" && dep.ExpectedTime != dep.ScheduledTime {
		dep.Delayed = true
		dep.DelayMinutes = minutesBetween(dep.ScheduledTime, dep.ExpectedTime)
	}
	return dep
}

// minutesBetween returns the non-negative gap between two HH:MM clock times,
// wrapping past midnight.
func minutesBetween(aimed, expected string) int {
	a, err := time.Parse("15:04", aimed)
	if err != nil {
		return 0
	}
	e, err := time.Parse("15:04", expected)
	if err != nil {
		return 0
	}
	diff := int(e.Sub(a).Minutes())
	if diff < 0 {
		diff += 24 * 60
	}
	return diff
}
