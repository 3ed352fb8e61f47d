package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/observability/telemetry"
)

// Settings configures one named breaker.
type Settings struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultSettings returns default circuit breaker settings
func DefaultSettings() Settings {
	return Settings{
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// New builds a gobreaker breaker that trips after FailureThreshold consecutive failures.
func New(settings Settings, log *zap.Logger) *gobreaker.CircuitBreaker {
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = DefaultSettings().FailureThreshold
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Info("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			telemetry.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
}

// Manager keeps one breaker per provider name.
type Manager struct {
	breakers map[string]*gobreaker.CircuitBreaker
	defaults Settings
	mu       sync.RWMutex
	log      *zap.Logger
}

func NewManager(defaults Settings, log *zap.Logger) *Manager {
	return &Manager{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		defaults: defaults,
		log:      log,
	}
}

// Get returns a circuit breaker by name, creating it if it doesn't exist
func (m *Manager) Get(name string) *gobreaker.CircuitBreaker {
	m.mu.RLock()
	cb, exists := m.breakers[name]
	m.mu.RUnlock()

	if exists {
		return cb
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if cb, exists = m.breakers[name]; exists {
		return cb
	}

	settings := m.defaults
	settings.Name = name
	cb = New(settings, m.log)
	m.breakers[name] = cb

	return cb
}

// BreakerStatus represents the status of a circuit breaker
type BreakerStatus struct {
	Name                string `json:"name"`
	State               string `json:"state"`
	Requests            uint32 `json:"requests"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

// Status returns the status of all circuit breakers
func (m *Manager) Status() map[string]BreakerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := make(map[string]BreakerStatus, len(m.breakers))
	for name, cb := range m.breakers {
		counts := cb.Counts()
		status[name] = BreakerStatus{
			Name:                name,
			State:               cb.State().String(),
			Requests:            counts.Requests,
			ConsecutiveFailures: counts.ConsecutiveFailures,
		}
	}
	return status
}

// IsCircuitOpen checks if the error is due to an open circuit
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState)
}

// IsTooManyRequests checks if the error is due to too many half-open requests
func IsTooManyRequests(err error) bool {
	return errors.Is(err, gobreaker.ErrTooManyRequests)
}
