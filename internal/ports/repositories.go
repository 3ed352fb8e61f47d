package ports

import (
	"context"
	"time"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

// RecordStore is the external key/value-by-user store holding shifts and movie history.
type RecordStore interface {
	// Table returns a handle for the named table, creating it when the store allows.
	Table(ctx context.Context, name string) (RecordTable, error)
}

// RecordTable is a handle on one table of the record store. Create and Delete
// return an error wrapping domain.ErrUnknownField when a field name is rejected.
type RecordTable interface {
	Name() string
	All(ctx context.Context) ([]domain.Record, error)
	Filter(ctx context.Context, match func(domain.Record) bool) ([]domain.Record, error)
	Create(ctx context.Context, fields map[string]interface{}) (domain.Record, error)
	Delete(ctx context.Context, id string) error
}

// ConversationRepository keeps the history of processed messages.
type ConversationRepository interface {
	Save(ctx context.Context, c *domain.Conversation) error
	Recent(ctx context.Context, userID string, limit int) ([]domain.Conversation, error)
	ByIntent(ctx context.Context, userID string, intent domain.Domain, limit int) ([]domain.Conversation, error)
	All(ctx context.Context, userID string) ([]domain.Conversation, error)
}

// Cache is a string key/value cache. Get returns domain.ErrCacheMiss for absent keys.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
