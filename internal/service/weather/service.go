package weather

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

const defaultLocation = "London"

// Report is the payload of a weather answer: the provider reading plus the
// location that was asked for.
type Report struct {
	Requested string         `json:"requested_location"`
	Weather   domain.Weather `json:"weather"`
}

type Options struct {
	// Available is false when no provider key is configured.
	Available       bool
	DefaultLocation string
}

type Handler struct {
	provider ports.WeatherProvider
	opts     Options
	log      *zap.Logger
}

func NewHandler(provider ports.WeatherProvider, opts Options, log *zap.Logger) *Handler {
	if opts.DefaultLocation == "" {
		opts.DefaultLocation = defaultLocation
	}
	return &Handler{provider: provider, opts: opts, log: log}
}

func (h *Handler) Domain() domain.Domain { return domain.DomainWeather }

func (h *Handler) Handle(ctx context.Context, msg domain.Message) (domain.Intent, domain.Result) {
	intent := Parse(msg, h.opts.DefaultLocation)
	h.log.Info("Weather requested", zap.String("location", intent.Location), zap.String("source", string(intent.Source)))
	return intent.Generic(), h.Execute(ctx, intent)
}

func (h *Handler) Execute(ctx context.Context, intent Intent) domain.Result {
	if !h.opts.Available || h.provider == nil {
		return domain.Fail(domain.ErrorConfigMissing, "Weather API key not configured")
	}

	w, err := h.provider.Current(ctx, intent.Location)
	if err != nil {
		var perr *domain.ProviderError
		if errors.As(err, &perr) {
			h.log.Error("Weather API error", zap.Int("status", perr.Status), zap.String("body", perr.Body))
			return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Weather API error: %d - %s", perr.Status, perr.Body))
		}
		h.log.Error("Weather handler error", zap.Error(err))
		return domain.Fail(domain.KindOf(err), err.Error())
	}

	if w == nil {
		h.log.Error("Weather provider returned no data", zap.String("location", intent.Location))
		return domain.Fail(domain.ErrorProvider, "Weather API error: empty response")
	}

	return domain.OK(Report{Requested: intent.Location, Weather: *w}, "")
}
