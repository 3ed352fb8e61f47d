package handlers

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

type stubProcessor struct {
	got  []domain.Message
	resp domain.Response
}

func (s *stubProcessor) ProcessMessage(ctx context.Context, msg domain.Message) domain.Response {
	s.got = append(s.got, msg)
	return s.resp
}

func newTestApp(p Processor) *fiber.App {
	h := NewMessageHandler(p, zap.NewNop())
	app := fiber.New()
	app.Post("/webhook/sms", h.Webhook)
	app.Post("/api/v1/messages", h.Process)
	return app
}

func TestMessageHandler_Webhook(t *testing.T) {
	// Arrange
	p := &stubProcessor{resp: domain.Response{Domain: domain.DomainWeather, Success: true, DisplayText: "Rain & wind <later>"}}
	app := newTestApp(p)

	form := url.Values{"From": {"+447700900001"}, "Body": {"weather in paris"}}
	req := httptest.NewRequest("POST", "/webhook/sms", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Act
	resp, err := app.Test(req)

	// Assert
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "<Response><Message>Rain &amp; wind &lt;later&gt;</Message></Response>") {
		t.Errorf("unexpected TwiML: %s", body)
	}
	if len(p.got) != 1 || p.got[0].UserID != "+447700900001" || p.got[0].Text != "weather in paris" {
		t.Errorf("unexpected message passed on: %+v", p.got)
	}
}

func TestMessageHandler_WebhookEmptyBody(t *testing.T) {
	p := &stubProcessor{}
	app := newTestApp(p)

	req := httptest.NewRequest("POST", "/webhook/sms", strings.NewReader("From=%2B44&Body=+"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var reply twiml
	if err := xml.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode TwiML failed: %v", err)
	}
	if reply.Message != emptyBodyReply {
		t.Errorf("expected empty-body reply, got %q", reply.Message)
	}
	if len(p.got) != 0 {
		t.Errorf("processor should not be called for an empty body")
	}
}

func TestMessageHandler_Process(t *testing.T) {
	// Arrange
	p := &stubProcessor{resp: domain.Response{Domain: domain.DomainShift, Success: true, DisplayText: "ok"}}
	app := newTestApp(p)

	req := httptest.NewRequest("POST", "/api/v1/messages", strings.NewReader(`{"text":"next shift","user_id":"u1","location":"leeds"}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp, err := app.Test(req)

	// Assert
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var out domain.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Domain != domain.DomainShift || !out.Success || out.DisplayText != "ok" {
		t.Errorf("unexpected response: %+v", out)
	}
	if p.got[0].Location != "leeds" {
		t.Errorf("expected location to be passed on, got %+v", p.got[0])
	}
}

func TestMessageHandler_ProcessValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing text", `{"user_id":"u1"}`},
		{"missing user", `{"text":"hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubProcessor{})
			req := httptest.NewRequest("POST", "/api/v1/messages", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}
