package transportapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
)

const board = `{"station_name":"Urmston","departures":{"all":[
{"aimed_departure_time":"08:05","expected_departure_time":"08:05","platform":"1","status":"ON TIME","operator_name":"Northern","category":"OO","destination_name":"Manchester Piccadilly","train_uid":"C12345"},
{"aimed_departure_time":"23:55","expected_departure_time":"00:07","platform":null,"status":"LATE","operator_name":"Northern","destination_name":"Manchester Piccadilly","train_uid":"C67890"}
]}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := circuitbreaker.NewHTTPClientWithSettings(circuitbreaker.DefaultHTTPClientSettings("transportapi"), zap.NewNop())
	c, err := NewClient("app-1", "key-1", srv.URL, httpClient, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestClient_LiveDepartures(t *testing.T) {
	// Arrange
	var path string
	var query map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(board))
	})

	// Act
	deps, err := c.LiveDepartures(context.Background(), "URM", "MAN")

	// Assert
	if err != nil {
		t.Fatalf("LiveDepartures failed: %v", err)
	}
	if path != "/URM/live.json" {
		t.Errorf("unexpected path %s", path)
	}
	want := map[string]string{"app_id": "app-1", "app_key": "key-1", "calling_at": "MAN", "darwin": "true", "train_status": "passenger"}
	for k, v := range want {
		if query[k] != v {
			t.Errorf("param %s: expected %q, got %q", k, v, query[k])
		}
	}
	if len(deps) != 2 {
		t.Fatalf("expected 2 departures, got %d", len(deps))
	}
	if deps[0].Delayed || deps[0].Operator != "Northern" || deps[0].TrainType != "OO" || deps[0].Platform != "1" {
		t.Errorf("unexpected first departure: %+v", deps[0])
	}
	if !deps[1].Delayed || deps[1].DelayMinutes != 12 {
		t.Errorf("expected 12 minute delay across midnight, got %+v", deps[1])
	}
	if deps[1].Platform != "" || deps[1].Simulated {
		t.Errorf("unexpected second departure: %+v", deps[1])
	}
}

func TestClient_LiveDeparturesEmptyBoard(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"station_name":"Urmston"}`))
	})

	deps, err := c.LiveDepartures(context.Background(), "URM", "MAN")
	if err != nil {
		t.Fatalf("LiveDepartures failed: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("expected no departures, got %d", len(deps))
	}
}

func TestClient_LiveDeparturesErrorStatus(t *testing.T) {
	// Arrange
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"Authorisation failed"}`))
	})

	// Act
	_, err := c.LiveDepartures(context.Background(), "URM", "MAN")

	// Assert
	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 ProviderError, got %v", err)
	}
}

func TestMinutesBetween(t *testing.T) {
	tests := []struct {
		aimed, expected string
		want            int
	}{
		{"10:00", "10:04", 4},
		{"23:58", "00:03", 5},
		{"10:00", "Cancelled", 0},
	}
	for _, tt := range tests {
		if got := minutesBetween(tt.aimed, tt.expected); got != tt.want {
			t.Errorf("minutesBetween(%s, %s) = %d, want %d", tt.aimed, tt.expected, got, tt.want)
		}
	}
}

func TestNewClient_MissingCredentials(t *testing.T) {
	if _, err := NewClient("app", "", "", nil, zap.NewNop()); !errors.Is(err, domain.ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
}
