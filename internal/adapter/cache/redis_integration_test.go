//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get redis url: %v", err)
	}

	c, err := NewRedisCache(url, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRedisCache failed: %v", err)
	}
	defer c.Close()

	t.Run("SetGet", func(t *testing.T) {
		if err := c.Set(ctx, "tmdb:popular", "[]", time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		val, err := c.Get(ctx, "tmdb:popular")
		if err != nil || val != "[]" {
			t.Errorf("expected cached value, got %q (%v)", val, err)
		}
	})

	t.Run("Miss", func(t *testing.T) {
		if _, err := c.Get(ctx, "absent"); !errors.Is(err, domain.ErrCacheMiss) {
			t.Errorf("expected ErrCacheMiss, got %v", err)
		}
	})

	t.Run("Expiry", func(t *testing.T) {
		c.Set(ctx, "short", "v", 100*time.Millisecond)
		time.Sleep(200 * time.Millisecond)
		if _, err := c.Get(ctx, "short"); !errors.Is(err, domain.ErrCacheMiss) {
			t.Errorf("expected expired key to miss, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		c.Set(ctx, "prefs:u1", "{}", time.Minute)
		if err := c.Delete(ctx, "prefs:u1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := c.Get(ctx, "prefs:u1"); !errors.Is(err, domain.ErrCacheMiss) {
			t.Errorf("expected miss after delete, got %v", err)
		}
	})
}
