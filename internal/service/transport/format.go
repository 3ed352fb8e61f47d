package transport

import (
	"fmt"
	"strings"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

const maxTrains = 5

func (h *Handler) Format(result domain.Result) string {
	return Format(result)
}

// Format renders a departures board for an SMS reply.
func Format(result domain.Result) string {
	if !result.Success {
		return "Sorry, I couldn't get train information at this time: " + result.Detail()
	}
	if result.Message != "" {
		return result.Message
	}

	board, ok := result.Payload.(Board)
	if !ok {
		return ""
	}
	if len(board.Departures) == 0 {
		return fmt.Sprintf("No train departures found from %s to %s at this time.", board.Origin, board.Destination)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚂 Next trains from %s to %s:\n\n", board.Origin, board.Destination)
	for i, d := range board.Departures {
		if i == maxTrains {
			break
		}
		fmt.Fprintf(&b, "Train %d:\n", i+1)
		fmt.Fprintf(&b, "Scheduled: %s\n", or(d.ScheduledTime, "Unknown"))
		fmt.Fprintf(&b, "Expected: %s\n", or(d.ExpectedTime, or(d.ScheduledTime, "Unknown")))
		fmt.Fprintf(&b, "Platform: %s\n", or(d.Platform, "TBC"))
		fmt.Fprintf(&b, "Status: %s\n", or(d.Status, "On time"))
		fmt.Fprintf(&b, "Operator: %s\n", or(d.Operator, "Unknown"))
		fmt.Fprintf(&b, "Type: %s\n\n", or(d.TrainType, "Service"))
	}
	return b.String()
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
