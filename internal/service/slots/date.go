package slots

import (
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// explicitLayouts are tried in order after relative words and weekday names.
// Month-day layouts take the year from now.
var explicitLayouts = []struct {
	layout      string
	currentYear bool
}{
	{"1/2/2006", false},
	{"January 2", true},
	{"Jan 2", true},
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate resolves a date phrase relative to now. Weekday names always
// resolve to the next occurrence, one to seven days ahead.
func ParseDate(phrase string, now time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(phrase))
	today := Day(now)

	switch s {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "yesterday":
		return today.AddDate(0, 0, -1), true
	}

	if wd, ok := weekdays[s]; ok {
		return NextWeekday(wd, now), true
	}

	for _, l := range explicitLayouts {
		t, err := time.ParseInLocation(l.layout, s, now.Location())
		if err != nil {
			continue
		}
		if l.currentYear {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
		}
		return t, true
	}

	return time.Time{}, false
}

// ParseDatePhrase tries the whole phrase first, then its first word. Captures
// such as "monday from" still resolve while "march 24" keeps both words.
func ParseDatePhrase(phrase string, now time.Time) (time.Time, bool) {
	if t, ok := ParseDate(phrase, now); ok {
		return t, true
	}
	fields := strings.Fields(phrase)
	if len(fields) > 1 {
		return ParseDate(fields[0], now)
	}
	return time.Time{}, false
}

// NextWeekday returns the next date falling on wd, never today.
func NextWeekday(wd time.Weekday, now time.Time) time.Time {
	ahead := (int(wd) - int(now.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return Day(now).AddDate(0, 0, ahead)
}

// ParseStoredDate reads a date as kept in the record store, either D/M/Y or ISO Y-M-D.
func ParseStoredDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	var layout string
	switch {
	case strings.Contains(s, "/"):
		layout = "2/1/2006"
	case strings.Contains(s, "-"):
		layout = "2006-01-02"
	default:
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StartOfWeek returns the Monday of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return Day(t).AddDate(0, 0, -offset)
}
