// Package anthropic answers free-text messages through the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	defaultModel     = "claude-sonnet-4-20250514"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 512
)

type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	// System is sent as the system prompt on every request.
	System string
}

// Client is a single-shot alternative to the polling OpenAI assistant.
type Client struct {
	cfg  Config
	http *circuitbreaker.HTTPClient
	log  *zap.Logger
}

func NewClient(cfg Config, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w", domain.ErrConfigMissing)
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: httpClient, log: log}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Compose sends prompt as one user turn and joins the text blocks of the answer.
func (c *Client) Compose(ctx context.Context, prompt string) (string, error) {
	req := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    c.cfg.System,
		Messages:  []message{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": apiVersion,
	}

	var resp messagesResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, c.cfg.BaseURL+"/messages", headers, req, &resp); err != nil {
		return "", err
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("anthropic: no content returned")
	}

	c.log.Info("Anthropic message completed",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)
	return strings.Join(parts, "\n"), nil
}
