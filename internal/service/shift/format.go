package shift

import (
	"fmt"
	"strings"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

const briefDayLayout = "Mon, Jan 02"

// Format renders a shift result for an SMS reply.
func (h *Handler) Format(result domain.Result) string {
	return Format(result)
}

func Format(result domain.Result) string {
	if !result.Success {
		text := "Sorry, I couldn't process your shift request: " + result.Detail()
		if result.Error != nil && len(result.Error.Candidates) > 0 {
			text += "\n" + strings.Join(result.Error.Candidates, "\n")
		}
		return text
	}

	if result.Message != "" {
		return result.Message
	}

	switch p := result.Payload.(type) {
	case domain.Shift:
		return formatShift(p)
	case Listing:
		return formatListing(p.Shifts)
	case Confirmation:
		return formatShift(p.Shift)
	default:
		return ""
	}
}

func formatListing(shifts []domain.Shift) string {
	if len(shifts) == 0 {
		return "No shifts found for that time period."
	}
	if len(shifts) == 1 {
		return formatShift(shifts[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Found %d upcoming shifts:\n\n", len(shifts))
	for i, s := range shifts {
		fmt.Fprintf(&b, "Shift %d: %s\n", i+1, formatBrief(s))
	}
	return b.String()
}

func formatShift(s domain.Shift) string {
	day := s.Date.Format(dayLayout)
	if s.IsDayOff() {
		return "📅 Day Off: " + day
	}

	text := fmt.Sprintf("📅 Shift on %s:\nTime: %s - %s", day, s.StartTime, s.EndTime)
	if s.Notes != "" {
		text += "\nNotes: " + s.Notes
	}
	return text
}

func formatBrief(s domain.Shift) string {
	day := s.Date.Format(briefDayLayout)
	if s.IsDayOff() {
		return day + " (Day Off)"
	}

	text := fmt.Sprintf("%s (%s - %s)", day, s.StartTime, s.EndTime)
	if s.Notes != "" {
		notes := s.Notes
		if r := []rune(notes); len(r) > 15 {
			notes = string(r[:15]) + "..."
		}
		text += " - " + notes
	}
	return text
}
