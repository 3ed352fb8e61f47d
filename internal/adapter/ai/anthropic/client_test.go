package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := circuitbreaker.NewHTTPClientWithSettings(circuitbreaker.DefaultHTTPClientSettings("anthropic"), zap.NewNop())
	c, err := NewClient(Config{APIKey: "sk-ant", BaseURL: srv.URL, System: "Reply in under 160 characters."}, httpClient, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestClient_Compose(t *testing.T) {
	// Arrange
	var got messagesRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "sk-ant" || r.Header.Get("anthropic-version") != apiVersion {
			t.Errorf("missing headers: %v", r.Header)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"content":[{"type":"text","text":"Hello!"},{"type":"text","text":"How can I help?"}],"usage":{"input_tokens":10,"output_tokens":5}}`))
	})

	// Act
	answer, err := c.Compose(context.Background(), "hi")

	// Assert
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if answer != "Hello!\nHow can I help?" {
		t.Errorf("unexpected answer %q", answer)
	}
	if got.Model != defaultModel || got.MaxTokens != defaultMaxTokens || got.System == "" {
		t.Errorf("unexpected request: %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "hi" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestClient_ComposeEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	})

	if _, err := c.Compose(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error for empty content")
	}
}

func TestClient_ComposeErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error"}`))
	})

	_, err := c.Compose(context.Background(), "hi")
	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 ProviderError, got %v", err)
	}
}

func TestNewClient_MissingKey(t *testing.T) {
	if _, err := NewClient(Config{}, nil, zap.NewNop()); !errors.Is(err, domain.ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
}
