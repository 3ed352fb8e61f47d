package health

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestService_Ready(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		probes     map[string]Probe
		wantReady  bool
		wantStatus Status
	}{
		{"no probes", nil, true, StatusHealthy},
		{"all healthy", map[string]Probe{"database": {Check: ok, Critical: true}, "redis": {Check: ok}}, true, StatusHealthy},
		{"optional down", map[string]Probe{"database": {Check: ok, Critical: true}, "redis": {Check: down}}, true, StatusDegraded},
		{"critical down", map[string]Probe{"database": {Check: down, Critical: true}, "redis": {Check: down}}, false, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			s := NewService(Config{Version: "test"}, zap.NewNop())
			for name, p := range tt.probes {
				s.Register(name, p)
			}

			// Act
			resp := s.Ready(context.Background())

			// Assert
			if resp.Ready != tt.wantReady || resp.Status != tt.wantStatus {
				t.Errorf("expected ready=%v status=%s, got ready=%v status=%s", tt.wantReady, tt.wantStatus, resp.Ready, resp.Status)
			}
			if len(resp.Checks) != len(tt.probes) {
				t.Errorf("expected %d checks, got %d", len(tt.probes), len(resp.Checks))
			}
		})
	}
}

func TestService_Health(t *testing.T) {
	s := NewService(Config{Version: "1.2.3", Capabilities: map[string]bool{"weather": false}}, zap.NewNop())

	resp := s.Health(context.Background())

	if resp.Status != StatusHealthy || resp.Version != "1.2.3" {
		t.Errorf("unexpected health: %+v", resp)
	}
	if enabled, ok := resp.Capabilities["weather"]; !ok || enabled {
		t.Errorf("expected weather capability reported as disabled, got %v", resp.Capabilities)
	}
}
