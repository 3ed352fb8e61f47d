package movie

import "testing"

func TestParse_Actions(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		action Action
	}{
		{"rating with scale", "rate The Matrix 4/5", ActionRate},
		{"favorite", "add Inception to my favorites", ActionAddFavorite},
		{"british spelling", "add inception to favourites", ActionAddFavorite},
		{"search", "find movies called inception", ActionSearch},
		{"genre mention", "recommend a comedy movie", ActionGenre},
		{"popular", "show me popular movies", ActionPopular},
		{"trending", "what's trending in movies", ActionPopular},
		{"recommend like", "recommend a movie like inception", ActionRecommend},
		{"should watch", "What movie should I watch tonight", ActionRecommend},
		{"fallback", "i love movies", ActionPopular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := Parse(tt.text)

			// Assert
			if got.Action != tt.action {
				t.Errorf("Parse(%q) action = %s, want %s", tt.text, got.Action, tt.action)
			}
		})
	}
}

func TestParse_RatingSlots(t *testing.T) {
	tests := []struct {
		text   string
		title  string
		rating float64
	}{
		{"rate The Matrix 4/5", "matrix", 4},
		{"rate inception 8/10", "inception", 4},
		{"rate the movie arrival as 3 stars", "arrival", 3},
		{"rate heat 9", "heat", 5},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			// Act
			got := Parse(tt.text)

			// Assert
			if !got.HasRating {
				t.Fatalf("expected a rating for %q", tt.text)
			}
			if got.Title != tt.title {
				t.Errorf("title = %q, want %q", got.Title, tt.title)
			}
			if got.Rating != tt.rating {
				t.Errorf("rating = %v, want %v", got.Rating, tt.rating)
			}
		})
	}
}

func TestParse_QuerySlots(t *testing.T) {
	// Act
	search := Parse("find movies called inception")
	like := Parse("recommend a movie like the dark knight")
	similar := Parse("suggest a movie similar to heat, please")
	plain := Parse("what movie should i watch")
	genre := Parse("any good horror movies?")

	// Assert
	if search.Query != "inception" {
		t.Errorf("search query = %q", search.Query)
	}
	if like.Query != "the dark knight" {
		t.Errorf("like query = %q", like.Query)
	}
	if similar.Query != "heat" {
		t.Errorf("similar query = %q", similar.Query)
	}
	if plain.Query != "" {
		t.Errorf("expected no reference title, got %q", plain.Query)
	}
	if genre.Action != ActionGenre || genre.Genre != "horror" {
		t.Errorf("expected horror genre, got %+v", genre)
	}
}

func TestIntent_Generic(t *testing.T) {
	// Arrange
	in := Intent{Action: ActionRate, Title: "heat", Rating: 4, HasRating: true}

	// Act
	g := in.Generic()

	// Assert
	if g.Action != "rate" || g.Slots["title"] != "heat" || g.Slots["rating"] != 4.0 {
		t.Errorf("unexpected generic intent %+v", g)
	}
	if _, ok := g.Slots["genre"]; ok {
		t.Errorf("empty slots should be omitted: %+v", g.Slots)
	}
}
