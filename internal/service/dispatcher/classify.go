package dispatcher

import (
	"strings"
	"unicode"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

type domainRule struct {
	domain   domain.Domain
	keywords []string
}

// domainRules are checked in order against the message words; the first
// domain with a keyword present wins.
var domainRules = []domainRule{
	{domain.DomainWeather, []string{"weather", "temperature", "forecast"}},
	{domain.DomainMovie, []string{"movie", "movies", "film", "films", "watch"}},
	{domain.DomainEmail, []string{"email", "mail", "inbox"}},
	{domain.DomainTransport, []string{"bus", "train", "trains", "transport"}},
	{domain.DomainShift, []string{"shift", "shifts", "schedule", "work"}},
}

// Classify picks the domain of a message by keyword. Matching is on whole
// words, so "network" does not count as "work".
func Classify(text string) domain.Domain {
	words := tokenize(text)
	for _, r := range domainRules {
		for _, k := range r.keywords {
			if words[k] {
				return r.domain
			}
		}
	}
	return domain.DomainGeneral
}

func tokenize(text string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	words := make(map[string]bool, len(fields))
	for _, f := range fields {
		words[strings.Trim(f, "'")] = true
	}
	return words
}
