package movie

import (
	"strings"
	"testing"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

func TestFormat_Selection(t *testing.T) {
	// Arrange
	movie := inception
	movie.Overview = strings.Repeat("a", 120)
	result := domain.OK(Selection{Category: "Popular Movies", Movies: []domain.Movie{movie}}, "")

	// Act
	got := Format(result)

	// Assert
	if !strings.HasPrefix(got, "🎬 Popular Movies:\n\n") {
		t.Errorf("missing header in %q", got)
	}
	if !strings.Contains(got, "1. Inception (2010) - 8.4/10\n") {
		t.Errorf("missing title line in %q", got)
	}
	if !strings.Contains(got, "   Genres: Science Fiction, Action\n") {
		t.Errorf("missing genres in %q", got)
	}
	if !strings.Contains(got, "   "+strings.Repeat("a", 97)+"...\n") {
		t.Errorf("overview not truncated in %q", got)
	}
}

func TestFormat_AtMostTwoGenres(t *testing.T) {
	// Arrange
	movie := domain.Movie{ID: 157336, Title: "Interstellar", ReleaseDate: "2014-11-05", VoteAverage: 8.4, GenreIDs: []int{12, 18, 878}}
	result := domain.OK(Selection{Category: "Popular Movies", Movies: []domain.Movie{movie}}, "")

	// Act
	got := Format(result)

	// Assert
	if !strings.Contains(got, "   Genres: Adventure, Drama\n") {
		t.Errorf("expected the first two genres only in %q", got)
	}
	if strings.Contains(got, "Science Fiction") {
		t.Errorf("third genre rendered in %q", got)
	}
}

func TestFormat_MissingYear(t *testing.T) {
	// Arrange
	result := domain.OK(Selection{Category: "X", Movies: []domain.Movie{{Title: "Untitled", VoteAverage: 7}}}, "")

	// Act
	got := Format(result)

	// Assert
	if !strings.Contains(got, "1. Untitled (N/A) - 7.0/10") {
		t.Errorf("unexpected text %q", got)
	}
}

func TestFormat_FailureAndMessage(t *testing.T) {
	// Act
	failed := Format(domain.Fail(domain.ErrorNotFound, "No horror movies found"))
	info := Format(domain.Info("Added 'Heat' to your favorites"))

	// Assert
	if failed != "Sorry, I couldn't find movie recommendations: No horror movies found" {
		t.Errorf("unexpected failure text %q", failed)
	}
	if info != "Added 'Heat' to your favorites" {
		t.Errorf("unexpected info text %q", info)
	}
}

func TestHandler_Payload(t *testing.T) {
	// Arrange
	h := newFixture().handler()
	movie := inception
	movie.PosterPath = "/poster.jpg"
	result := domain.OK(Selection{Category: "Popular Movies", Movies: []domain.Movie{movie}}, "")

	// Act
	p := h.Payload(result)

	// Assert
	if p["type"] != "movie_recommendations" || p["success"] != true || p["count"] != 1 {
		t.Fatalf("unexpected payload %+v", p)
	}
	if p["timestamp"] != "2025-03-12T10:00:00Z" {
		t.Errorf("unexpected timestamp %v", p["timestamp"])
	}
	movies := p["movies"].([]map[string]interface{})
	if movies[0]["poster_url"] != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Errorf("unexpected poster url %v", movies[0]["poster_url"])
	}
	if movies[0]["year"] != "2010" {
		t.Errorf("unexpected year %v", movies[0]["year"])
	}
}

func TestHandler_PayloadFailure(t *testing.T) {
	// Arrange
	h := newFixture().handler()

	// Act
	p := h.Payload(domain.Fail(domain.ErrorProvider, "boom"))

	// Assert
	if p["success"] != false || p["error"] != "boom" {
		t.Errorf("unexpected payload %+v", p)
	}
	if _, ok := p["movies"]; ok {
		t.Error("failed payload must not list movies")
	}
}
