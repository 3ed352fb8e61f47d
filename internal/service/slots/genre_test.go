package slots

import "testing"

func TestFindGenre(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"show me some horror films", "horror", true},
		{"any good Science Fiction?", "science fiction", true},
		{"recommend a movie", "", false},
	}

	for _, tt := range tests {
		got, ok := FindGenre(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FindGenre(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
