package slots

import (
	"strings"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

// FindGenre returns the first genre name, in table order, that occurs anywhere in text.
func FindGenre(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, name := range domain.GenreKeys() {
		if strings.Contains(lower, name) {
			return name, true
		}
	}
	return "", false
}
