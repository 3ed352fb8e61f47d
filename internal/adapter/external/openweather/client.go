// Package openweather reads current conditions from the OpenWeatherMap API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
)

const defaultBaseURL = "http://api.openweathermap.org/data/2.5/weather"

type Client struct {
	apiKey  string
	baseURL string
	http    *circuitbreaker.HTTPClient
	log     *zap.Logger
}

func NewClient(apiKey, baseURL string, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", domain.ErrConfigMissing)
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, http: httpClient, log: log}, nil
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Current fetches metric conditions for location.
func (c *Client) Current(ctx context.Context, location string) (*domain.Weather, error) {
	q := url.Values{
		"q":     {location},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	var raw json.RawMessage
	if err := c.http.GetJSON(ctx, c.baseURL+"?"+q.Encode(), nil, &raw); err != nil {
		return nil, err
	}

	var resp currentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("openweather: decode response: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("openweather: decode response: %w", err)
	}

	w := &domain.Weather{
		Location:    resp.Name,
		Temperature: resp.Main.Temp,
		FeelsLike:   resp.Main.FeelsLike,
		Humidity:    resp.Main.Humidity,
		Raw:         fields,
	}
	if w.Location == "" {
		w.Location = location
	}
	if len(resp.Weather) > 0 {
		w.Description = resp.Weather[0].Description
	}

	c.log.Info("Weather API response received", zap.String("location", w.Location))
	return w, nil
}
