package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

// GetJSON decodes a cached value into out. It reports false on a miss.
func GetJSON(ctx context.Context, c ports.Cache, key string, out interface{}) (bool, error) {
	raw, err := c.Get(ctx, key)
	if errors.Is(err, domain.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, c ports.Cache, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return c.Set(ctx, key, string(data), expiration)
}
