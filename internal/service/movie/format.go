package movie

import (
	"fmt"
	"strings"
	"time"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

const (
	overviewLimit = 100
	genreLimit    = 2
)

// Format renders a movie result for an SMS reply.
func (h *Handler) Format(result domain.Result) string {
	return Format(result)
}

func Format(result domain.Result) string {
	if !result.Success {
		return "Sorry, I couldn't find movie recommendations: " + result.Detail()
	}
	if result.Message != "" {
		return result.Message
	}

	sel, ok := result.Payload.(Selection)
	if !ok || len(sel.Movies) == 0 {
		return "I couldn't find any movies matching your request."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎬 %s:\n\n", sel.Category)
	for i, m := range sel.Movies {
		fmt.Fprintf(&b, "%d. %s (%s) - %.1f/10\n", i+1, m.Title, m.Year(), m.VoteAverage)
		if names := domain.GenreNamesFor(m.GenreIDs); len(names) > 0 {
			if len(names) > genreLimit {
				names = names[:genreLimit]
			}
			fmt.Fprintf(&b, "   Genres: %s\n", strings.Join(names, ", "))
		}
		if m.Overview != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(m.Overview, overviewLimit))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Payload renders the structured form of a movie result.
func (h *Handler) Payload(result domain.Result) map[string]interface{} {
	out := map[string]interface{}{
		"type":      "movie_recommendations",
		"success":   result.Success,
		"timestamp": h.opts.Now().Format(time.RFC3339),
	}
	if !result.Success {
		out["error"] = result.Detail()
		return out
	}
	if result.Message != "" {
		out["message"] = result.Message
	}

	sel, ok := result.Payload.(Selection)
	if !ok {
		return out
	}

	movies := make([]map[string]interface{}, 0, len(sel.Movies))
	for _, m := range sel.Movies {
		item := map[string]interface{}{
			"title":    m.Title,
			"id":       m.ID,
			"year":     m.Year(),
			"rating":   m.VoteAverage,
			"overview": m.Overview,
			"genres":   domain.GenreNamesFor(m.GenreIDs),
		}
		if m.PosterPath != "" {
			item["poster_url"] = h.opts.ImageBaseURL + m.PosterPath
		}
		movies = append(movies, item)
	}
	out["category"] = sel.Category
	out["count"] = len(movies)
	out["movies"] = movies
	return out
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
