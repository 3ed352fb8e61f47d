package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/observability/telemetry"
	"github.com/seu-repo/sms-assistant/internal/ports"
	"github.com/seu-repo/sms-assistant/internal/service/slots"
)

// Board is the payload of a departures answer.
type Board struct {
	Origin          string             `json:"origin"`
	Destination     string             `json:"destination"`
	OriginCode      string             `json:"origin_code"`
	DestinationCode string             `json:"destination_code"`
	Departures      []domain.Departure `json:"departures"`
	Simulated       bool               `json:"simulated"`
}

type Options struct {
	// Live selects the provider; otherwise departures are simulated.
	Live               bool
	HomeStation        string
	DefaultDestination string
	// FallbackCode is used for stations that cannot be resolved.
	FallbackCode string
	Now          func() time.Time
}

type Handler struct {
	provider ports.TransitProvider
	opts     Options
	log      *zap.Logger
}

// NewHandler creates a transport handler. provider may be nil in simulated mode.
func NewHandler(provider ports.TransitProvider, opts Options, log *zap.Logger) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HomeStation == "" {
		opts.HomeStation = "Urmston"
	}
	if opts.DefaultDestination == "" {
		opts.DefaultDestination = "Manchester"
	}
	if opts.FallbackCode == "" {
		opts.FallbackCode = "MAN"
	}
	return &Handler{provider: provider, opts: opts, log: log}
}

func (h *Handler) Domain() domain.Domain { return domain.DomainTransport }

func (h *Handler) Handle(ctx context.Context, msg domain.Message) (domain.Intent, domain.Result) {
	intent := Parse(msg.Text, h.opts.HomeStation, h.opts.DefaultDestination)
	h.log.Info("Parsed locations", zap.String("from", intent.Origin), zap.String("to", intent.Destination))
	return intent.Generic(), h.Execute(ctx, intent)
}

// Execute resolves station codes and reads the board from the configured source.
func (h *Handler) Execute(ctx context.Context, intent Intent) domain.Result {
	board := Board{
		Origin:          slots.TitleCase(intent.Origin),
		Destination:     slots.TitleCase(intent.Destination),
		OriginCode:      h.resolve(intent.Origin),
		DestinationCode: h.resolve(intent.Destination),
	}

	if !h.opts.Live {
		board.Departures = Simulate(board.OriginCode, board.DestinationCode, h.opts.Now())
		board.Simulated = true
		telemetry.SimulatedResponses.WithLabelValues(string(domain.DomainTransport)).Inc()
		h.log.Info("Generated simulated departures", zap.String("from", board.OriginCode), zap.String("to", board.DestinationCode))
		return domain.OK(board, "")
	}

	if h.provider == nil {
		h.log.Error("Transport provider not configured")
		return domain.Fail(domain.ErrorConfigMissing, "Transport API not configured correctly. Please check configuration.")
	}

	departures, err := h.provider.LiveDepartures(ctx, board.OriginCode, board.DestinationCode)
	if err != nil {
		var perr *domain.ProviderError
		if errors.As(err, &perr) {
			// The provider answered; an unusable answer still reads as an empty board.
			h.log.Warn("Transport provider returned an error status", zap.Int("status", perr.Status), zap.Error(err))
			return domain.OK(board, "")
		}
		if errors.Is(err, domain.ErrConfigMissing) {
			return domain.Fail(domain.ErrorConfigMissing, "Transport API not configured correctly. Please check configuration.")
		}
		h.log.Error("Transport request failed", zap.Error(err))
		return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Network Error: %v", err))
	}

	board.Departures = departures
	return domain.OK(board, "")
}

func (h *Handler) resolve(name string) string {
	code, ok := slots.ResolveStation(name, h.opts.FallbackCode)
	if !ok {
		h.log.Warn("Unknown station, using fallback", zap.String("station", name), zap.String("code", code))
	}
	return code
}
