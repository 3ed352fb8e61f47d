package records

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/adapter/storage/memory"
)

var watchedSchema = Schema{
	Primary:   Convention{"title": "Title", "date": "Date Watched", "rating": "User Rating"},
	Alternate: Convention{"title": "Name", "date": "Date", "rating": "Rating"},
}

func TestTable_NegotiatePicksAlternateFromExistingRecords(t *testing.T) {
	// Arrange
	store := memory.NewStore(zap.NewNop())
	raw := store.Define("Movies Watched")
	raw.Seed(map[string]interface{}{"Name": "Heat", "Date": "2025-01-02", "Rating": 4.0})
	table := NewTable(raw, watchedSchema, zap.NewNop())

	// Act
	if err := table.Negotiate(context.Background()); err != nil {
		t.Fatalf("Negotiate failed: %v", err)
	}

	// Assert
	if got := table.Field("title"); got != "Name" {
		t.Errorf("expected alternate title field, got %q", got)
	}
	recs, _ := table.All(context.Background())
	if got := table.String(recs[0], "title"); got != "Heat" {
		t.Errorf("expected title Heat, got %q", got)
	}
	if r, ok := table.Float(recs[0], "rating"); !ok || r != 4.0 {
		t.Errorf("expected rating 4, got %v (%v)", r, ok)
	}
}

func TestTable_CreateRetriesWithAlternateOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewStore(zap.NewNop())
	raw := store.Define("Movies Watched", "Name", "Date", "Rating")
	table := NewTable(raw, watchedSchema, zap.NewNop())

	// Act
	rec, err := table.Create(ctx, map[string]interface{}{"title": "Alien", "rating": 5.0})

	// Assert
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.String("Name") != "Alien" {
		t.Errorf("expected record written under Name, got %+v", rec.Fields)
	}
	if table.Field("title") != "Name" {
		t.Errorf("expected the alternate naming to stick")
	}

	if _, err := table.Create(ctx, map[string]interface{}{"title": "Aliens"}); err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if raw.Creates() != 2 {
		t.Errorf("expected 2 stored records, got %d", raw.Creates())
	}
}

func TestTable_CreateFailsWhenNoConventionFits(t *testing.T) {
	store := memory.NewStore(zap.NewNop())
	raw := store.Define("Movies Watched", "Film")
	table := NewTable(raw, watchedSchema, zap.NewNop())

	if _, err := table.Create(context.Background(), map[string]interface{}{"title": "Alien"}); err == nil {
		t.Fatal("expected an error when both namings are rejected")
	}
}

func TestTable_OptionalFieldsSkippedWhenTableLacksThem(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewStore(zap.NewNop())
	raw := store.Define("Shifts", "Date", "Start Time", "End Time")
	raw.Seed(map[string]interface{}{"Date": "2025-03-10", "Start Time": "09:00", "End Time": "17:00"})
	table := NewTable(raw, Schema{
		Primary:  Convention{"id": "ID", "date": "Date", "start": "Start Time", "end": "End Time", "status": "Status"},
		Optional: []string{"id", "status"},
	}, zap.NewNop())

	// Act
	rec, err := table.Create(ctx, map[string]interface{}{
		"id": "shift_20250311_0900", "date": "2025-03-11", "start": "09:00", "end": "17:00", "status": "working",
	})

	// Assert
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.Has("Status") || rec.Has("ID") {
		t.Errorf("optional fields should have been dropped, got %+v", rec.Fields)
	}
	if table.Has("status") {
		t.Errorf("expected status to be reported unavailable")
	}
}
