package middleware

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const publicURL = "https://assistant.example.com/webhook/sms"

func newSignedApp(token string) *fiber.App {
	app := fiber.New()
	app.Post("/webhook/sms", TwilioSignature(token, publicURL, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestTwilioSignature(t *testing.T) {
	form := url.Values{"From": {"+447700900001"}, "Body": {"next shift"}}
	valid := Sign("secret", publicURL, map[string]string{"From": "+447700900001", "Body": "next shift"})

	tests := []struct {
		name      string
		token     string
		signature string
		want      int
	}{
		{"valid signature", "secret", valid, fiber.StatusOK},
		{"wrong signature", "secret", "bm9wZQ==", fiber.StatusForbidden},
		{"missing signature", "secret", "", fiber.StatusForbidden},
		{"validation disabled", "", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			app := newSignedApp(tt.token)
			req := httptest.NewRequest("POST", "/webhook/sms", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.signature != "" {
				req.Header.Set(signatureHeader, tt.signature)
			}

			// Act
			resp, err := app.Test(req)

			// Assert
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestSign_OrdersParameters(t *testing.T) {
	a := Sign("secret", publicURL, map[string]string{"Body": "x", "From": "y"})
	b := Sign("secret", publicURL, map[string]string{"From": "y", "Body": "x"})
	if a != b || a == "" {
		t.Errorf("expected order-independent signature, got %q and %q", a, b)
	}
	if Sign("other", publicURL, map[string]string{"Body": "x", "From": "y"}) == a {
		t.Errorf("expected signature to depend on the token")
	}
}

func TestAPIKeyRequired(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header string
		want   int
	}{
		{"disabled", "", "", fiber.StatusOK},
		{"valid", "k1", "Bearer k1", fiber.StatusOK},
		{"missing", "k1", "", fiber.StatusUnauthorized},
		{"malformed", "k1", "k1", fiber.StatusUnauthorized},
		{"wrong", "k1", "Bearer k2", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", APIKeyRequired(tt.key), func(c *fiber.Ctx) error { return c.SendString("ok") })

			req := httptest.NewRequest("GET", "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}
