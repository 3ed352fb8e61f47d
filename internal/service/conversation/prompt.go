package conversation

import (
	"fmt"
	"strings"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

const noAPIData = "No API data available"

// Prompt renders the context block, the user message and any provider answer
// already fetched for this turn.
func Prompt(cc Context, message, apiResponse string) string {
	if apiResponse == "" {
		apiResponse = noAPIData
	}
	return fmt.Sprintf(`Context:
- Recent interactions: %s
- Related history: %s
- User preferences: %s

User message: %s

API Response: %s
`, summarize(cc.Recent), summarize(cc.Related), describe(cc.Preferences), message, apiResponse)
}

func summarize(history []domain.Conversation) string {
	if len(history) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(history))
	for _, c := range history {
		parts = append(parts, fmt.Sprintf("%q -> %q", c.Body, c.Response))
	}
	return strings.Join(parts, "; ")
}

func describe(p domain.Preferences) string {
	var parts []string
	if p.MostUsed != "" {
		parts = append(parts, "most used service "+string(p.MostUsed))
	}
	if len(p.PeakHours) > 0 {
		hours := make([]string, len(p.PeakHours))
		for i, h := range p.PeakHours {
			hours[i] = fmt.Sprintf("%02d:00", h)
		}
		parts = append(parts, "usually active at "+strings.Join(hours, ", "))
	}
	if len(p.Locations) > 0 {
		parts = append(parts, "places "+strings.Join(p.Locations, ", "))
	}
	if len(p.Topics) > 0 {
		parts = append(parts, "likes "+strings.Join(p.Topics, ", "))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "; ")
}
