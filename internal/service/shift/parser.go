// Package shift manages work shifts and days off kept in the record store.
package shift

import (
	"regexp"
	"strings"
	"time"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/service/slots"
)

type Action string

const (
	ActionList       Action = "list"
	ActionNext       Action = "next"
	ActionAdd        Action = "add"
	ActionMarkDayOff Action = "mark_day_off"
	ActionDelete     Action = "delete"
)

// Window restricts which shifts a list action returns.
type Window string

const (
	WindowAll      Window = "all"
	WindowDate     Window = "date"
	WindowWeek     Window = "week"
	WindowNextWeek Window = "next_week"
	WindowMonth    Window = "month"
)

// Intent is a parsed shift request. Phrases are kept raw and resolved by the
// handler, so an unreadable date surfaces as a parse failure there.
type Intent struct {
	Action Action
	Window Window

	// Date is set for WindowDate.
	Date time.Time

	DatePhrase    string
	EndDatePhrase string
	StartPhrase   string
	EndPhrase     string
	Overnight     bool
	DayOff        bool
	Notes         string
}

// Generic renders the intent for structured output.
func (i Intent) Generic() domain.Intent {
	s := map[string]interface{}{}
	if i.Action == ActionList {
		s["window"] = string(i.Window)
		if i.Window == WindowDate {
			s["date"] = i.Date.Format("2006-01-02")
		}
	}
	if i.DatePhrase != "" {
		s["date"] = i.DatePhrase
	}
	if i.EndDatePhrase != "" {
		s["end_date"] = i.EndDatePhrase
	}
	if i.StartPhrase != "" {
		s["start_time"] = i.StartPhrase
	}
	if i.EndPhrase != "" {
		s["end_time"] = i.EndPhrase
	}
	if i.Overnight {
		s["overnight"] = true
	}
	if i.DayOff {
		s["status"] = string(domain.ShiftOff)
	}
	if i.Notes != "" {
		s["notes"] = i.Notes
	}
	return domain.Intent{Domain: domain.DomainShift, Action: string(i.Action), Slots: s}
}

const timeExpr = `\d{1,2}(?::\d{2})?\s*(?:am|pm)?`

var (
	listPattern    = regexp.MustCompile(`(list|show|get|what are).*shift`)
	nextPattern    = regexp.MustCompile(`(next|upcoming|what'?s my next).*shift`)
	addPattern     = regexp.MustCompile(`(add|create|new|schedule).*shift`)
	markPattern    = regexp.MustCompile(`(mark|set)\s+([\w/]+)\s+(?:as\s+)?(off day|day off)`)
	deletePattern  = regexp.MustCompile(`(delete|remove|cancel).*shift`)
	dayOffPattern  = regexp.MustCompile(`(off day|day off|off shift|shift off)`)
	onDatePattern  = regexp.MustCompile(`\b(?:on|for)\s+([\w/]+(?:\s+\w+)?)(?:\s|$)`)
	onDayPattern   = regexp.MustCompile(`\b(?:on|for)\s+([\w/]+)(?:\s|$)`)
	overnightRange = regexp.MustCompile(`(?:from\s+)?(\w+)\s+(` + timeExpr + `)\s*(?:to|-)\s*(\w+)\s+(` + timeExpr + `)`)
	timeRange      = regexp.MustCompile(`from\s+(` + timeExpr + `)\s*(?:to|-)\s*(` + timeExpr + `)`)
	notesPattern   = regexp.MustCompile(`notes:?\s+(.+?)(?:$|\?|\.)`)
)

type rule struct {
	action  Action
	pattern *regexp.Regexp
	build   func(text string, now time.Time) Intent
}

// rules are evaluated in order; the first matching pattern wins.
var rules = []rule{
	{ActionList, listPattern, parseList},
	{ActionNext, nextPattern, func(string, time.Time) Intent { return Intent{Action: ActionNext} }},
	{ActionAdd, addPattern, parseAdd},
	{ActionMarkDayOff, markPattern, parseMark},
	{ActionDelete, deletePattern, parseDelete},
}

// Parse classifies a shift message. Anything unrecognised lists every shift.
func Parse(text string, now time.Time) Intent {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.pattern.MatchString(lower) {
			return r.build(lower, now)
		}
	}
	return Intent{Action: ActionList, Window: WindowAll}
}

func parseList(text string, now time.Time) Intent {
	in := Intent{Action: ActionList, Window: WindowAll}
	today := slots.Day(now)

	switch {
	case strings.Contains(text, "today"):
		in.Window, in.Date = WindowDate, today
	case strings.Contains(text, "tomorrow"):
		in.Window, in.Date = WindowDate, today.AddDate(0, 0, 1)
	case strings.Contains(text, "this week"):
		in.Window = WindowWeek
	case strings.Contains(text, "next week"):
		in.Window = WindowNextWeek
	case strings.Contains(text, "month"):
		in.Window = WindowMonth
	default:
		if m := onDatePattern.FindStringSubmatch(text); m != nil {
			if d, ok := slots.ParseDatePhrase(m[1], now); ok {
				in.Window, in.Date = WindowDate, d
			}
		}
	}
	return in
}

func parseAdd(text string, _ time.Time) Intent {
	in := Intent{Action: ActionAdd}
	if dayOffPattern.MatchString(text) {
		in.DayOff = true
	}

	if m := onDatePattern.FindStringSubmatch(text); m != nil {
		in.DatePhrase = m[1]
	}

	// The two-day form is more specific than a plain range and is tried first.
	if m := overnightRange.FindStringSubmatch(text); m != nil {
		in.Overnight = true
		in.DatePhrase = m[1]
		in.StartPhrase = m[2]
		in.EndDatePhrase = m[3]
		in.EndPhrase = m[4]
	} else if m := timeRange.FindStringSubmatch(text); m != nil {
		in.StartPhrase = m[1]
		in.EndPhrase = m[2]
	}

	if m := notesPattern.FindStringSubmatch(text); m != nil {
		in.Notes = m[1]
	}
	return in
}

func parseMark(text string, _ time.Time) Intent {
	in := Intent{Action: ActionMarkDayOff, DayOff: true}
	if m := markPattern.FindStringSubmatch(text); m != nil {
		in.DatePhrase = m[2]
	}
	return in
}

func parseDelete(text string, _ time.Time) Intent {
	in := Intent{Action: ActionDelete}
	if m := onDayPattern.FindStringSubmatch(text); m != nil {
		in.DatePhrase = m[1]
	}
	return in
}
