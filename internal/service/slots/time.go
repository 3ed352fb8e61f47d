package slots

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	meridiemPattern = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)
	clockPattern    = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	hourPattern     = regexp.MustCompile(`^(\d{1,2})$`)
)

// NormalizeTime converts "9am", "9:30pm", "14:30" or "9" into zero-padded
// 24-hour HH:MM. Input it cannot read is returned unchanged with ok=false.
func NormalizeTime(s string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(s))

	if m := meridiemPattern.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch {
		case m[3] == "pm" && hour < 12:
			hour += 12
		case m[3] == "am" && hour == 12:
			hour = 0
		}
		return clock(hour, minute), true
	}

	if m := clockPattern.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return clock(hour, minute), true
	}

	if m := hourPattern.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return clock(hour, 0), true
	}

	return s, false
}

// ParseClock splits an HH:MM string into hour and minute.
func ParseClock(s string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, true
}

func clock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
