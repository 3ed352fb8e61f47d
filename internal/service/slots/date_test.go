package slots

import (
	"testing"
	"time"
)

func TestParseDate_WeekdayAlwaysInFuture(t *testing.T) {
	names := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

	// Two full weeks of reference days so every name is seen on its own weekday.
	base := time.Date(2025, time.March, 3, 15, 4, 0, 0, time.UTC)
	for offset := 0; offset < 14; offset++ {
		now := base.AddDate(0, 0, offset)
		today := Day(now)

		for _, name := range names {
			got, ok := ParseDate(name, now)
			if !ok {
				t.Fatalf("ParseDate(%q) failed", name)
			}

			days := int(got.Sub(today).Hours() / 24)
			if days < 1 || days > 7 {
				t.Errorf("ParseDate(%q) on %s = %s, %d days ahead", name, now.Weekday(), got.Format("2006-01-02"), days)
			}
			if got.Equal(today) {
				t.Errorf("ParseDate(%q) resolved to today", name)
			}
		}
	}
}

func TestParseDate_SameWeekdayAdvancesAWeek(t *testing.T) {
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC) // Monday

	got, ok := ParseDate("Monday", now)
	if !ok {
		t.Fatal("expected Monday to parse")
	}

	want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestParseDate_Formats(t *testing.T) {
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"today", "2025-03-03", true},
		{"Tomorrow", "2025-03-04", true},
		{"yesterday", "2025-03-02", true},
		{"03/15/2025", "2025-03-15", true},
		{"3/5/2026", "2026-03-05", true},
		{"March 24", "2025-03-24", true},
		{"mar 24", "2025-03-24", true},
		{"december 1", "2025-12-01", true},
		{"someday", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input, now)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestParseDatePhrase_FallsBackToFirstWord(t *testing.T) {
	now := time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC) // Wednesday

	got, ok := ParseDatePhrase("monday from", now)
	if !ok {
		t.Fatal("expected phrase to resolve")
	}
	if got.Format("2006-01-02") != "2025-03-10" {
		t.Errorf("expected 2025-03-10, got %s", got.Format("2006-01-02"))
	}

	got, ok = ParseDatePhrase("march 24", now)
	if !ok || got.Format("2006-01-02") != "2025-03-24" {
		t.Errorf("expected two-word phrase to keep both words, got %s (ok=%v)", got, ok)
	}
}

func TestParseStoredDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"15/03/2025", "2025-03-15", true},
		{"1/4/2025", "2025-04-01", true},
		{"2025-03-15", "2025-03-15", true},
		{"March 15", "", false},
		{"2025/99/99", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStoredDate(tt.input, time.UTC)
		if ok != tt.ok {
			t.Errorf("ParseStoredDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseStoredDate(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	sunday := time.Date(2025, time.March, 9, 18, 0, 0, 0, time.UTC)
	if got := StartOfWeek(sunday); got.Format("2006-01-02") != "2025-03-03" {
		t.Errorf("expected Monday 2025-03-03, got %s", got.Format("2006-01-02"))
	}

	monday := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	if got := StartOfWeek(monday); !got.Equal(monday) {
		t.Errorf("expected Monday to be its own week start, got %s", got)
	}
}
