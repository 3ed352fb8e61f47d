package circuitbreaker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

func TestManager_GetReusesBreaker(t *testing.T) {
	m := NewManager(DefaultSettings(), zap.NewNop())

	first := m.Get("tmdb")
	second := m.Get("tmdb")
	other := m.Get("openweather")

	if first != second {
		t.Errorf("expected the same breaker for the same name")
	}
	if first == other {
		t.Errorf("expected distinct breakers for distinct names")
	}

	status := m.Status()
	if len(status) != 2 {
		t.Fatalf("expected 2 breakers, got %d", len(status))
	}
	if status["tmdb"].State != "closed" {
		t.Errorf("expected closed breaker, got %q", status["tmdb"].State)
	}
}

func TestHTTPClient_DoJSONProviderError(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"missing"}`))
	}))
	defer srv.Close()
	client := NewHTTPClientWithSettings(DefaultHTTPClientSettings("test"), zap.NewNop())

	// Act
	err := client.GetJSON(context.Background(), srv.URL, nil, &struct{}{})

	// Assert
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Status != http.StatusNotFound || perr.Provider != "test" {
		t.Errorf("unexpected error %+v", perr)
	}
}

func TestHTTPClient_BreakerOpensOnServerErrors(t *testing.T) {
	// Arrange
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	settings := HTTPClientSettings{
		Timeout: time.Second,
		Breaker: Settings{Name: "flaky", MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureThreshold: 2},
	}
	client := NewHTTPClientWithSettings(settings, zap.NewNop())

	// Act
	for i := 0; i < 2; i++ {
		client.GetJSON(context.Background(), srv.URL, nil, nil)
	}
	err := client.GetJSON(context.Background(), srv.URL, nil, nil)

	// Assert
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("expected 2 requests to reach the server, got %d", got)
	}
}
