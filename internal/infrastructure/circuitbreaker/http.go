package circuitbreaker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/observability/telemetry"
)

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 4 << 20

// HTTPClient wraps an HTTP client with circuit breaker protection
type HTTPClient struct {
	name    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

type response struct {
	status int
	body   []byte
}

// NewHTTPClient creates a new HTTP client with circuit breaker
func NewHTTPClient(name string, client *http.Client, breaker *gobreaker.CircuitBreaker, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &HTTPClient{
		name:    name,
		client:  client,
		breaker: breaker,
		log:     log,
	}
}

// HTTPClientSettings configures the HTTP client with circuit breaker
type HTTPClientSettings struct {
	Timeout time.Duration
	Breaker Settings
}

// DefaultHTTPClientSettings returns default settings
func DefaultHTTPClientSettings(name string) HTTPClientSettings {
	breaker := DefaultSettings()
	breaker.Name = name
	return HTTPClientSettings{
		Timeout: 30 * time.Second,
		Breaker: breaker,
	}
}

// NewHTTPClientWithSettings creates a new HTTP client with the given settings
func NewHTTPClientWithSettings(settings HTTPClientSettings, log *zap.Logger) *HTTPClient {
	client := &http.Client{
		Timeout: settings.Timeout,
	}
	return NewHTTPClient(settings.Breaker.Name, client, New(settings.Breaker, log), log)
}

// Do executes req under the breaker and returns the status code and body.
// Transport errors and 5xx answers count as breaker failures.
func (c *HTTPClient) Do(req *http.Request) (int, []byte, error) {
	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}

		r := &response{status: resp.StatusCode, body: body}
		if resp.StatusCode >= 500 {
			return r, fmt.Errorf("server error: %d", resp.StatusCode)
		}
		return r, nil
	})
	telemetry.ProviderLatency.WithLabelValues(c.name).Observe(time.Since(start).Seconds())

	if r, ok := result.(*response); ok && r != nil {
		telemetry.ProviderRequests.WithLabelValues(c.name, fmt.Sprintf("%d", r.status)).Inc()
		return r.status, r.body, nil
	}

	telemetry.ProviderRequests.WithLabelValues(c.name, "error").Inc()
	if IsCircuitOpen(err) {
		c.log.Warn("Circuit breaker open, request blocked",
			zap.String("url", req.URL.Redacted()),
			zap.String("breaker", c.breaker.Name()),
		)
	}
	return 0, nil, err
}

// DoJSON sends body (when non-nil) as JSON and decodes a 2xx answer into out.
// Non-2xx answers come back as *domain.ProviderError.
func (c *HTTPClient) DoJSON(ctx context.Context, method, url string, headers map[string]string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.name, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	status, respBody, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	if status < 200 || status > 299 {
		return &domain.ProviderError{Provider: c.name, Status: status, Body: string(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

// GetJSON performs a GET and decodes the answer into out.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	return c.DoJSON(ctx, http.MethodGet, url, headers, nil, out)
}
