package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seu-repo/sms-assistant/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/sms-assistant/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/sms-assistant/internal/service/health"
)

// NewServer mounts the webhook, the JSON API, health and metrics routes.
func (a *App) NewServer() *fiber.App {
	cfg := a.Config

	server := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(a.log),
	})

	server.Use(recover.New())
	server.Use(fiberlogger.New())

	health.NewFiberHandler(a.Health).RegisterRoutes(server)
	server.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	messages := handlers.NewMessageHandler(a.Dispatcher, a.log)

	breaker := circuitbreaker.DefaultSettings()
	breaker.Name = "http-api"
	guard := middleware.CircuitBreaker(breaker, a.log)

	webhook := middleware.TwilioSignature(cfg.Twilio.AuthToken, cfg.Twilio.WebhookURL, a.log)
	server.Post("/webhook/sms", webhook, guard, messages.Webhook)

	v1 := server.Group("/api/v1", middleware.NewCORS(cfg.HTTP.AllowedOrigins), middleware.APIKeyRequired(cfg.HTTP.APIKey))
	v1.Post("/messages", guard, messages.Process)
	v1.Get("/breakers", func(c *fiber.Ctx) error {
		return c.JSON(a.Breakers.Status())
	})

	return server
}
