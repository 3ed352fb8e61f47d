package slots

import (
	"strings"
	"unicode"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

// ResolveStation maps a station name to its CRS code: exact alias first, then a
// substring match in either direction, then a three-letter input taken as a
// code. Anything else yields fallback with matched=false.
func ResolveStation(name, fallback string) (code string, matched bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return fallback, false
	}

	if code, ok := domain.StationCode(s); ok {
		return code, true
	}

	for _, key := range domain.StationNames() {
		if strings.Contains(s, key) || strings.Contains(key, s) {
			code, _ := domain.StationCode(key)
			return code, true
		}
	}

	if len(s) == 3 && isAlpha(s) {
		return strings.ToUpper(s), true
	}

	return fallback, false
}

// StationDisplayName turns a code back into a title-cased station name,
// or returns the code itself when it is not in the table.
func StationDisplayName(code string) string {
	name, ok := domain.StationName(code)
	if !ok {
		return code
	}
	return TitleCase(name)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
