package weather

import (
	"fmt"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

func (h *Handler) Format(result domain.Result) string {
	return Format(result)
}

// Format renders current conditions for an SMS reply.
func Format(result domain.Result) string {
	if !result.Success {
		return "Sorry, I couldn't get the weather information: " + result.Detail()
	}
	r, ok := result.Payload.(Report)
	if !ok {
		return result.Message
	}

	name := r.Weather.Location
	if name == "" {
		name = r.Requested
	}
	return fmt.Sprintf("🌤️ Current weather in %s:\nTemperature: %.1f°C (feels like %.1f°C)\nConditions: %s\nHumidity: %d%%",
		name, r.Weather.Temperature, r.Weather.FeelsLike, r.Weather.Description, r.Weather.Humidity)
}
