package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
)

// fakeAssistant serves the thread/run endpoints. The run completes after
// completeAfter status polls; a negative value never completes.
func fakeAssistant(t *testing.T, completeAfter int32, gotPrompt *string) (*httptest.Server, *int32) {
	t.Helper()
	var polls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/threads", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" || r.Header.Get("OpenAI-Beta") != "assistants=v2" {
			t.Errorf("missing headers: %v", r.Header)
		}
		w.Write([]byte(`{"id":"thread_1"}`))
	})
	mux.HandleFunc("/threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var req messageRequest
			json.NewDecoder(r.Body).Decode(&req)
			*gotPrompt = req.Content
			w.Write([]byte(`{"id":"msg_1"}`))
			return
		}
		w.Write([]byte(`{"data":[{"role":"assistant","content":[{"type":"text","text":{"value":"It is sunny."}}]}]}`))
	})
	mux.HandleFunc("/threads/thread_1/runs", func(w http.ResponseWriter, r *http.Request) {
		var req runRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.AssistantID != "asst_1" {
			t.Errorf("unexpected assistant id %q", req.AssistantID)
		}
		w.Write([]byte(`{"id":"run_1","status":"queued"}`))
	})
	mux.HandleFunc("/threads/thread_1/runs/run_1", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&polls, 1)
		status := "in_progress"
		if completeAfter >= 0 && n >= completeAfter {
			status = "completed"
		}
		w.Write([]byte(`{"id":"run_1","status":"` + status + `"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &polls
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	httpClient := circuitbreaker.NewHTTPClientWithSettings(circuitbreaker.DefaultHTTPClientSettings("openai"), zap.NewNop())
	c, err := NewClient(Config{
		APIKey:       "sk-test",
		AssistantID:  "asst_1",
		BaseURL:      baseURL,
		MaxPolls:     3,
		PollInterval: time.Millisecond,
	}, httpClient, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestClient_Compose(t *testing.T) {
	// Arrange
	var prompt string
	srv, polls := fakeAssistant(t, 2, &prompt)
	c := newTestClient(t, srv.URL)

	// Act
	answer, err := c.Compose(context.Background(), "User message: hi")

	// Assert
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if answer != "It is sunny." {
		t.Errorf("unexpected answer %q", answer)
	}
	if prompt != "User message: hi" {
		t.Errorf("unexpected prompt %q", prompt)
	}
	if atomic.LoadInt32(polls) != 2 {
		t.Errorf("expected 2 polls, got %d", *polls)
	}
}

func TestClient_ComposeTimesOut(t *testing.T) {
	// Arrange
	var prompt string
	srv, polls := fakeAssistant(t, -1, &prompt)
	c := newTestClient(t, srv.URL)

	// Act
	_, err := c.Compose(context.Background(), "hi")

	// Assert
	if !errors.Is(err, domain.ErrAssistantTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if atomic.LoadInt32(polls) != 3 {
		t.Errorf("expected exactly 3 polls, got %d", *polls)
	}
}

func TestClient_ProviderError(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	// Act
	_, err := c.Compose(context.Background(), "hi")

	// Assert
	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.Status != http.StatusUnauthorized {
		t.Fatalf("expected provider error, got %v", err)
	}
	if !strings.Contains(err.Error(), "create thread") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestNewClient_MissingConfig(t *testing.T) {
	// Act
	_, err := NewClient(Config{APIKey: "sk-test"}, nil, zap.NewNop())

	// Assert
	if !errors.Is(err, domain.ErrConfigMissing) {
		t.Errorf("expected config missing, got %v", err)
	}
}
