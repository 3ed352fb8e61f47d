//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

func setupDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("assistant_test"),
		tcpostgres.WithUsername("assistant"),
		tcpostgres.WithPassword("assistant_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := NewConnection(dsn, Options{MaxOpenConns: 5}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewConnection failed: %v", err)
	}
	t.Cleanup(func() { Close(db) })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	return db
}

func TestConversationRepository(t *testing.T) {
	db := setupDatabase(t)
	repo := NewConversationRepository(db, zap.NewNop())
	ctx := context.Background()

	base := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	history := []domain.Conversation{
		{Body: "weather in paris", Intent: domain.DomainWeather, CreatedAt: base},
		{Body: "next shift", Intent: domain.DomainShift, CreatedAt: base.Add(time.Hour)},
		{Body: "weather in rome", Intent: domain.DomainWeather, CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range history {
		history[i].ID = uuid.New().String()
		history[i].UserID = "+447700900001"
		if err := repo.Save(ctx, &history[i]); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	other := domain.Conversation{ID: uuid.New().String(), UserID: "+447700900002", Body: "hi", Intent: domain.DomainGeneral, CreatedAt: base}
	if err := repo.Save(ctx, &other); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Run("Recent", func(t *testing.T) {
		recent, err := repo.Recent(ctx, "+447700900001", 2)
		if err != nil {
			t.Fatalf("Recent failed: %v", err)
		}
		if len(recent) != 2 || recent[0].Body != "weather in rome" || recent[1].Body != "next shift" {
			t.Errorf("unexpected recent history: %+v", recent)
		}
	})

	t.Run("ByIntent", func(t *testing.T) {
		related, err := repo.ByIntent(ctx, "+447700900001", domain.DomainWeather, 5)
		if err != nil {
			t.Fatalf("ByIntent failed: %v", err)
		}
		if len(related) != 2 {
			t.Fatalf("expected 2 weather conversations, got %d", len(related))
		}
		for _, c := range related {
			if c.Intent != domain.DomainWeather {
				t.Errorf("unexpected intent %s", c.Intent)
			}
		}
	})

	t.Run("All", func(t *testing.T) {
		all, err := repo.All(ctx, "+447700900001")
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(all) != 3 || all[0].Body != "weather in paris" {
			t.Errorf("expected oldest first, got %+v", all)
		}
	})
}
