package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/sms-assistant/internal/observability/telemetry"
)

const (
	defaultBaseURL  = "https://api.openai.com/v1"
	defaultMaxPolls = 10
	defaultInterval = time.Second
)

// Config holds the assistant credentials and polling bounds.
type Config struct {
	APIKey       string
	AssistantID  string
	BaseURL      string
	MaxPolls     int
	PollInterval time.Duration
}

// Client composes replies with an OpenAI assistant: one thread per prompt, one
// run, then a bounded poll until the run finishes.
type Client struct {
	cfg  Config
	http *circuitbreaker.HTTPClient
	log  *zap.Logger
}

// NewClient creates an assistant client. It returns domain.ErrConfigMissing
// when the key or assistant id is absent.
func NewClient(cfg Config, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" || cfg.AssistantID == "" {
		return nil, fmt.Errorf("openai: %w", domain.ErrConfigMissing)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = defaultMaxPolls
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultInterval
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: httpClient, log: log}, nil
}

type thread struct {
	ID string `json:"id"`
}

type messageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runRequest struct {
	AssistantID string `json:"assistant_id"`
}

type run struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type messageList struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

// Compose sends prompt to the assistant and returns its answer. After
// MaxPolls unfinished polls it returns domain.ErrAssistantTimeout.
func (c *Client) Compose(ctx context.Context, prompt string) (string, error) {
	var th thread
	if err := c.post(ctx, "/threads", struct{}{}, &th); err != nil {
		return "", fmt.Errorf("openai: create thread: %w", err)
	}

	if err := c.post(ctx, "/threads/"+th.ID+"/messages", messageRequest{Role: "user", Content: prompt}, nil); err != nil {
		return "", fmt.Errorf("openai: add message: %w", err)
	}

	var r run
	if err := c.post(ctx, "/threads/"+th.ID+"/runs", runRequest{AssistantID: c.cfg.AssistantID}, &r); err != nil {
		return "", fmt.Errorf("openai: create run: %w", err)
	}

	if err := c.wait(ctx, th.ID, &r); err != nil {
		return "", err
	}

	var msgs messageList
	if err := c.get(ctx, "/threads/"+th.ID+"/messages?order=desc&limit=1", &msgs); err != nil {
		return "", fmt.Errorf("openai: list messages: %w", err)
	}
	for _, m := range msgs.Data {
		for _, part := range m.Content {
			if part.Type == "text" && part.Text.Value != "" {
				return part.Text.Value, nil
			}
		}
	}
	return "", errors.New("openai: no response received from assistant")
}

func (c *Client) wait(ctx context.Context, threadID string, r *run) error {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		switch r.Status {
		case "completed":
			telemetry.AssistantPolls.Observe(float64(attempt - 1))
			return nil
		case "failed", "cancelled", "expired":
			return fmt.Errorf("openai: assistant run %s", r.Status)
		}

		if attempt > c.cfg.MaxPolls {
			c.log.Warn("Assistant run did not finish", zap.String("run_id", r.ID), zap.Int("polls", c.cfg.MaxPolls))
			return domain.ErrAssistantTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := c.get(ctx, "/threads/"+threadID+"/runs/"+r.ID, r); err != nil {
			return fmt.Errorf("openai: retrieve run: %w", err)
		}
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
		"OpenAI-Beta":   "assistants=v2",
	}
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.http.DoJSON(ctx, http.MethodPost, c.cfg.BaseURL+path, c.headers(), body, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.http.GetJSON(ctx, c.cfg.BaseURL+path, c.headers(), out)
}
