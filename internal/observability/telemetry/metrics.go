package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas de negócio
	MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_messages_total",
		Help: "Messages processed by domain and outcome",
	}, []string{"domain", "status"})

	HandlerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_handler_latency_seconds",
		Help:    "Time spent handling one message, by domain",
		Buckets: prometheus.DefBuckets,
	}, []string{"domain"})

	FallbackSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_fallback_steps_total",
		Help: "Fallback strategies reached, by chain and step",
	}, []string{"chain", "step"})

	SimulatedResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_simulated_responses_total",
		Help: "Responses served from simulated data, by domain",
	}, []string{"domain"})

	HandlerPanics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_handler_panics_total",
		Help: "Handler panics recovered by the dispatcher",
	}, []string{"domain"})

	// Métricas de infraestrutura
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_provider_requests_total",
		Help: "Outbound provider requests by provider and status code",
	}, []string{"provider", "status"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_provider_latency_seconds",
		Help:    "Outbound provider request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "assistant_circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})

	AssistantPolls = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_compose_polls",
		Help:    "Poll attempts needed before the assistant run completed",
		Buckets: []float64{1, 2, 3, 5, 8, 10},
	})

	StoreSchemaFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_store_schema_fallbacks_total",
		Help: "Writes retried with the alternate field naming, by table",
	}, []string{"table"})

	QueueEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_queue_events_total",
		Help: "Events published and consumed, by subject and direction",
	}, []string{"subject", "direction"})
)
