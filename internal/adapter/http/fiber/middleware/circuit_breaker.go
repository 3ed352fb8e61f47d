package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
)

// CircuitBreaker sheds load with 503 while handlers keep failing with 5xx.
func CircuitBreaker(settings circuitbreaker.Settings, log *zap.Logger) fiber.Handler {
	cb := circuitbreaker.New(settings, log)

	return func(c *fiber.Ctx) error {
		_, err := cb.Execute(func() (interface{}, error) {
			if err := c.Next(); err != nil {
				return nil, err
			}
			if c.Response().StatusCode() >= fiber.StatusInternalServerError {
				return nil, errServerError
			}
			return nil, nil
		})

		if circuitbreaker.IsCircuitOpen(err) || circuitbreaker.IsTooManyRequests(err) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Service temporarily unavailable",
			})
		}
		if errors.Is(err, errServerError) {
			return nil
		}
		return err
	}
}

var errServerError = errors.New("handler answered 5xx")
