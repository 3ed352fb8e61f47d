// Package dispatcher routes an inbound message to the domain handler that
// owns it and turns the result into the reply and its structured form.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/observability/telemetry"
	"github.com/seu-repo/sms-assistant/internal/ports"
	"github.com/seu-repo/sms-assistant/internal/service/conversation"
)

const apology = "Sorry, something went wrong while handling your message. Please try again."

// Domains whose handlers read an assistant answer composed before they run,
// and domains whose rendered reply is handed to the assistant afterwards.
var (
	answerFirst = map[domain.Domain]bool{domain.DomainWeather: true}
	answerAfter = map[domain.Domain]bool{domain.DomainTransport: true}
)

// Payloader is implemented by handlers with their own structured output.
type Payloader interface {
	Payload(result domain.Result) map[string]interface{}
}

// History is the conversation service as seen by the dispatcher.
type History interface {
	Context(ctx context.Context, userID string, intent domain.Domain) conversation.Context
	Record(ctx context.Context, userID, body, response string, intent domain.Intent) error
}

type Dispatcher struct {
	handlers  map[domain.Domain]ports.Handler
	assistant ports.Assistant
	history   History
	log       *zap.Logger
}

// New creates a dispatcher. assistant and history may be nil; general and
// email messages then fail with a configuration error and nothing is recorded.
func New(handlers []ports.Handler, assistant ports.Assistant, history History, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		handlers:  make(map[domain.Domain]ports.Handler, len(handlers)),
		assistant: assistant,
		history:   history,
		log:       log,
	}
	for _, h := range handlers {
		d.handlers[h.Domain()] = h
	}
	return d
}

// Process classifies text, runs the owning handler and renders the reply. It
// never returns an error; failures become unsuccessful responses.
func (d *Dispatcher) Process(ctx context.Context, text, userID string) domain.Response {
	return d.ProcessMessage(ctx, domain.Message{Text: text, UserID: userID})
}

// ProcessMessage is Process for a message carrying extra hints.
func (d *Dispatcher) ProcessMessage(ctx context.Context, msg domain.Message) (resp domain.Response) {
	start := time.Now()
	dom := Classify(msg.Text)

	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, "dispatcher.Process")
	span.SetAttributes(attribute.String("assistant.domain", string(dom)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			telemetry.HandlerPanics.WithLabelValues(string(dom)).Inc()
			d.log.Error("Handler panicked",
				zap.String("domain", string(dom)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			span.SetStatus(codes.Error, fmt.Sprint(r))
			resp = apologize(dom)
		}

		status := "success"
		if !resp.Success {
			status = "failure"
		}
		telemetry.MessagesTotal.WithLabelValues(string(dom), status).Inc()
		telemetry.HandlerLatency.WithLabelValues(string(dom)).Observe(time.Since(start).Seconds())
	}()

	d.log.Info("Processing message", zap.String("user_id", msg.UserID), zap.String("domain", string(dom)))

	var intent domain.Intent
	var result domain.Result
	var text string
	var payload map[string]interface{}

	if h, ok := d.handlers[dom]; ok {
		if answerFirst[dom] && msg.AssistantAnswer == "" {
			msg.AssistantAnswer = d.ask(ctx, dom, msg, "")
		}
		intent, result = h.Handle(ctx, msg)
		text = h.Format(result)
		if p, ok := h.(Payloader); ok {
			payload = p.Payload(result)
		} else {
			payload = defaultPayload(dom, result)
		}
		if answerAfter[dom] && result.Success && payload != nil {
			if answer := d.ask(ctx, dom, msg, text); answer != "" {
				payload["assistant_answer"] = answer
			}
		}
	} else {
		intent = domain.Intent{Domain: dom, Action: "converse"}
		result = d.converse(ctx, dom, msg)
		text = formatConversation(result)
		payload = defaultPayload(dom, result)
	}

	if !result.Success {
		span.SetStatus(codes.Error, result.Detail())
	}

	resp = domain.Response{
		Domain:      dom,
		Success:     result.Success,
		DisplayText: text,
		Payload:     payload,
		Intent:      intent,
	}

	if d.history != nil && msg.UserID != "" {
		if err := d.history.Record(ctx, msg.UserID, msg.Text, text, intent); err != nil {
			d.log.Error("Error storing conversation", zap.Error(err))
		}
	}
	return resp
}

// converse answers general and email messages through the assistant.
func (d *Dispatcher) converse(ctx context.Context, dom domain.Domain, msg domain.Message) domain.Result {
	if d.assistant == nil {
		return domain.Fail(domain.ErrorConfigMissing, "Assistant not configured")
	}

	answer, err := d.assistant.Compose(ctx, conversation.Prompt(d.historyContext(ctx, dom, msg), msg.Text, ""))
	if err != nil {
		d.log.Error("Assistant failed", zap.Error(err))
		if errors.Is(err, domain.ErrAssistantTimeout) {
			return domain.Fail(domain.ErrorProvider, "The assistant took too long to answer")
		}
		return domain.Fail(domain.KindOf(err), fmt.Sprintf("Assistant error: %v", err))
	}
	return domain.Info(answer)
}

// ask composes an answer next to a handler. It returns "" when no assistant is
// configured or the assistant fails; the handler's reply stands on its own.
func (d *Dispatcher) ask(ctx context.Context, dom domain.Domain, msg domain.Message, apiResponse string) string {
	if d.assistant == nil {
		return ""
	}
	answer, err := d.assistant.Compose(ctx, conversation.Prompt(d.historyContext(ctx, dom, msg), msg.Text, apiResponse))
	if err != nil {
		d.log.Warn("Assistant answer skipped", zap.String("domain", string(dom)), zap.Error(err))
		return ""
	}
	return answer
}

func (d *Dispatcher) historyContext(ctx context.Context, dom domain.Domain, msg domain.Message) conversation.Context {
	if d.history == nil || msg.UserID == "" {
		return conversation.Context{}
	}
	return d.history.Context(ctx, msg.UserID, dom)
}

func formatConversation(result domain.Result) string {
	if !result.Success {
		return "Sorry, I couldn't answer that right now: " + result.Detail()
	}
	return result.Message
}

func defaultPayload(dom domain.Domain, result domain.Result) map[string]interface{} {
	out := map[string]interface{}{
		"type":    string(dom),
		"success": result.Success,
	}
	if result.Payload != nil {
		out["data"] = result.Payload
	}
	if result.Message != "" {
		out["message"] = result.Message
	}
	if result.Error != nil {
		out["error"] = result.Error
	}
	return out
}

func apologize(dom domain.Domain) domain.Response {
	return domain.Response{
		Domain:      dom,
		DisplayText: apology,
		Payload: map[string]interface{}{
			"type":    string(dom),
			"success": false,
			"error":   &domain.Failure{Kind: domain.ErrorInternal, Detail: "internal error"},
		},
		Intent: domain.Intent{Domain: dom},
	}
}
