package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

func TestLocalCache_SetGetDelete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()

	// Act
	if err := c.Set(ctx, "prefs:u1", "value", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "prefs:u1")

	// Assert
	if err != nil || got != "value" {
		t.Fatalf("expected value, got %q (%v)", got, err)
	}

	c.Delete(ctx, "prefs:u1")
	if _, err := c.Get(ctx, "prefs:u1"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestLocalCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()

	c.Set(ctx, "short", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("expected expired entry to miss, got %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	// Arrange
	ctx := context.Background()
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	in := domain.Preferences{MostUsed: domain.DomainWeather, PeakHours: []int{8}}

	// Act
	var miss domain.Preferences
	found, err := GetJSON(ctx, c, "prefs:u1", &miss)
	if err != nil || found {
		t.Fatalf("expected clean miss, got found=%v err=%v", found, err)
	}
	if err := SetJSON(ctx, c, "prefs:u1", in, time.Minute); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}
	var out domain.Preferences
	found, err = GetJSON(ctx, c, "prefs:u1", &out)

	// Assert
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if out.MostUsed != domain.DomainWeather || len(out.PeakHours) != 1 || out.PeakHours[0] != 8 {
		t.Errorf("unexpected decoded value: %+v", out)
	}
}

func TestGetJSON_CorruptValue(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	c.Set(ctx, "bad", "{not json", 0)

	var out domain.Preferences
	if _, err := GetJSON(ctx, c, "bad", &out); err == nil {
		t.Errorf("expected decode error")
	}
}
