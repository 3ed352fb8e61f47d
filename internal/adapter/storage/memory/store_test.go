package memory

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

func TestStore_CreateFilterDelete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := NewStore(zap.NewNop())
	table, err := store.Table(ctx, "Shifts")
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}

	// Act
	a, _ := table.Create(ctx, map[string]interface{}{"Date": "2025-03-10"})
	table.Create(ctx, map[string]interface{}{"Date": "2025-03-11"})

	matches, err := table.Filter(ctx, func(r domain.Record) bool { return r.String("Date") == "2025-03-10" })

	// Assert
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != a.ID {
		t.Fatalf("expected only the first record, got %+v", matches)
	}

	if err := table.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := table.Delete(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	all, _ := table.All(ctx)
	if len(all) != 1 {
		t.Errorf("expected 1 record left, got %d", len(all))
	}
}

func TestStore_DefinedTableRejectsUnknownFields(t *testing.T) {
	store := NewStore(zap.NewNop())
	table := store.Define("Movies Watched", "Name", "Date", "Rating")

	_, err := table.Create(context.Background(), map[string]interface{}{"Title": "Heat"})
	if !errors.Is(err, domain.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if table.Creates() != 0 {
		t.Errorf("expected no record written, got %d", table.Creates())
	}
}
