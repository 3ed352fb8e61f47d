package transport

import "testing"

func TestParse_Locations(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		origin string
		dest   string
	}{
		{"from then to", "trains from Urmston to Manchester", "urmston", "manchester"},
		{"to then from", "how do I get to leeds from york?", "york", "leeds"},
		{"to only", "next train to liverpool please", "urmston", "liverpool"},
		{"quoted destination", `train to "london kings cross"`, "urmston", "london kings cross"},
		{"oxford road override", "trains to oxford road", "urmston", "manchester oxford road"},
		{"no locations", "when is the next train", "urmston", "manchester"},
		{"punctuation", "any trains from stockport to altrincham?", "stockport", "altrincham"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := Parse(tt.text, "Urmston", "Manchester")

			// Assert
			if got.Action != ActionDepartures {
				t.Errorf("action = %s", got.Action)
			}
			if got.Origin != tt.origin || got.Destination != tt.dest {
				t.Errorf("Parse(%q) = %q -> %q, want %q -> %q", tt.text, got.Origin, got.Destination, tt.origin, tt.dest)
			}
		})
	}
}

func TestIntent_Generic(t *testing.T) {
	// Act
	g := Parse("trains from york to leeds", "Urmston", "Manchester").Generic()

	// Assert
	if g.Action != "departures" || g.Slots["origin"] != "york" || g.Slots["destination"] != "leeds" {
		t.Errorf("unexpected generic intent %+v", g)
	}
}
