// Package weather answers current-conditions questions.
package weather

import (
	"regexp"
	"strings"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

type Action string

const ActionCurrent Action = "current"

// Source records where the location came from.
type Source string

const (
	SourceParameter Source = "parameter"
	SourceAssistant Source = "assistant"
	SourceMessage   Source = "message"
	SourceDefault   Source = "default"
)

type Intent struct {
	Action   Action
	Location string
	Source   Source
}

func (i Intent) Generic() domain.Intent {
	return domain.Intent{
		Domain: domain.DomainWeather,
		Action: string(i.Action),
		Slots: map[string]interface{}{
			"location": i.Location,
			"source":   string(i.Source),
		},
	}
}

var locationPattern = regexp.MustCompile(`weather\s+(?:in|at|for)\s+([a-z\s]+)(?:\?|\.|\s|$)`)

// Parse picks the location from, in order: the explicit hint on the message,
// a "weather in X" phrase in an upstream assistant answer, the message text,
// and finally defaultLocation.
func Parse(msg domain.Message, defaultLocation string) Intent {
	in := Intent{Action: ActionCurrent}

	switch {
	case strings.TrimSpace(msg.Location) != "":
		in.Location, in.Source = strings.TrimSpace(msg.Location), SourceParameter
	case fromAnswer(msg.AssistantAnswer) != "":
		in.Location, in.Source = fromAnswer(msg.AssistantAnswer), SourceAssistant
	default:
		if m := locationPattern.FindStringSubmatch(strings.ToLower(msg.Text)); m != nil && strings.TrimSpace(m[1]) != "" {
			in.Location, in.Source = strings.TrimSpace(m[1]), SourceMessage
		} else {
			in.Location, in.Source = defaultLocation, SourceDefault
		}
	}
	return in
}

// fromAnswer takes the word after "weather in", the way assistant answers
// phrase it.
func fromAnswer(answer string) string {
	_, after, found := strings.Cut(strings.ToLower(answer), "weather in ")
	if !found {
		return ""
	}
	fields := strings.Fields(after)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
