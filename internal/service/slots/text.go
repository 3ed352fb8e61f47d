package slots

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase capitalises every word, as used for place and genre names in replies.
// Casers keep state, so one is built per call.
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}
