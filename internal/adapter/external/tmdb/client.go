// Package tmdb reads the movie catalogue from The Movie Database.
package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

type Client struct {
	apiKey  string
	baseURL string
	http    *circuitbreaker.HTTPClient
	log     *zap.Logger
}

// NewClient returns domain.ErrConfigMissing when apiKey is empty.
func NewClient(apiKey, baseURL string, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tmdb: %w", domain.ErrConfigMissing)
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}, nil
}

type page struct {
	Results []domain.Movie `json:"results"`
}

type credits struct {
	Crew []domain.CrewMember `json:"crew"`
}

func (c *Client) SearchByTitle(ctx context.Context, title string) ([]domain.Movie, error) {
	return c.list(ctx, "/search/movie", url.Values{"query": {title}}, "search")
}

func (c *Client) DiscoverByGenre(ctx context.Context, genreIDs []int) ([]domain.Movie, error) {
	ids := make([]string, len(genreIDs))
	for i, id := range genreIDs {
		ids[i] = strconv.Itoa(id)
	}
	return c.list(ctx, "/discover/movie", url.Values{
		"with_genres": {strings.Join(ids, ",")},
		"sort_by":     {"popularity.desc"},
	}, "discover")
}

func (c *Client) Recommendations(ctx context.Context, movieID int) ([]domain.Movie, error) {
	return c.list(ctx, fmt.Sprintf("/movie/%d/recommendations", movieID), nil, "recommendations")
}

func (c *Client) Similar(ctx context.Context, movieID int) ([]domain.Movie, error) {
	return c.list(ctx, fmt.Sprintf("/movie/%d/similar", movieID), nil, "similar")
}

func (c *Client) Popular(ctx context.Context) ([]domain.Movie, error) {
	return c.list(ctx, "/movie/popular", nil, "popular")
}

func (c *Client) Credits(ctx context.Context, movieID int) ([]domain.CrewMember, error) {
	var out credits
	if err := c.http.GetJSON(ctx, c.endpoint(fmt.Sprintf("/movie/%d/credits", movieID), nil), nil, &out); err != nil {
		return nil, fmt.Errorf("tmdb: credits: %w", err)
	}
	return out.Crew, nil
}

func (c *Client) list(ctx context.Context, path string, params url.Values, op string) ([]domain.Movie, error) {
	var out page
	if err := c.http.GetJSON(ctx, c.endpoint(path, params), nil, &out); err != nil {
		return nil, fmt.Errorf("tmdb: %s: %w", op, err)
	}
	c.log.Debug("TMDB results", zap.String("op", op), zap.Int("count", len(out.Results)))
	return out.Results, nil
}

func (c *Client) endpoint(path string, params url.Values) string {
	q := url.Values{"api_key": {c.apiKey}, "language": {"en-US"}}
	for k, v := range params {
		q[k] = v
	}
	return c.baseURL + path + "?" + q.Encode()
}
