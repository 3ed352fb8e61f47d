package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

const probeTimeout = 5 * time.Second

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse is the liveness answer. Capabilities lists which optional
// features were enabled at startup.
type HealthResponse struct {
	Status       Status          `json:"status"`
	Version      string          `json:"version,omitempty"`
	Uptime       string          `json:"uptime,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	Capabilities map[string]bool `json:"capabilities,omitempty"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Probe pings one dependency. A failing critical probe makes the service
// unready; any other failure only degrades it.
type Probe struct {
	Check    func(ctx context.Context) error
	Critical bool
}

type Config struct {
	Version      string
	Capabilities map[string]bool
}

// Service handles health checks
type Service struct {
	startTime    time.Time
	version      string
	capabilities map[string]bool
	probes       map[string]Probe
	log          *zap.Logger
	mu           sync.RWMutex
}

func NewService(cfg Config, log *zap.Logger) *Service {
	return &Service{
		startTime:    time.Now(),
		version:      cfg.Version,
		capabilities: cfg.Capabilities,
		probes:       make(map[string]Probe),
		log:          log,
	}
}

// Register adds a dependency probe under name.
func (s *Service) Register(name string, probe Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes[name] = probe
	s.log.Info("Registered health checker", zap.String("name", name), zap.Bool("critical", probe.Critical))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:       StatusHealthy,
		Version:      s.version,
		Uptime:       time.Since(s.startTime).String(),
		Timestamp:    time.Now(),
		Capabilities: s.capabilities,
	}
}

// Ready runs every probe concurrently.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	probes := make(map[string]Probe, len(s.probes))
	for k, v := range s.probes {
		probes[k] = v
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult, len(probes))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, probe := range probes {
		wg.Add(1)
		go func(name string, probe Probe) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			result := s.run(checkCtx, name, probe)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, probe)
	}

	wg.Wait()

	overall := StatusHealthy
	ready := true
	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
			ready = false
		case StatusDegraded:
			if overall != StatusUnhealthy {
				overall = StatusDegraded
			}
		}
	}

	return &ReadyResponse{
		Ready:     ready,
		Status:    overall,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

func (s *Service) run(ctx context.Context, name string, probe Probe) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      name,
		Timestamp: start,
	}

	err := probe.Check(ctx)
	result.Duration = time.Since(start)

	if err == nil {
		result.Status = StatusHealthy
		result.Message = "connection ok"
		return result
	}

	result.Status = StatusDegraded
	if probe.Critical {
		result.Status = StatusUnhealthy
	}
	result.Message = fmt.Sprintf("ping failed: %v", err)
	s.log.Warn("Health check failed", zap.String("name", name), zap.Error(err))
	return result
}
