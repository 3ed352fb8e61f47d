package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/ports"
)

const probeTimeout = 5 * time.Second

// Capabilities records which optional features are usable. It is computed
// once at startup and handed to the handlers.
type Capabilities struct {
	Store         bool `json:"store"`
	Shifts        bool `json:"shifts"`
	Watched       bool `json:"watched"`
	Favorites     bool `json:"favorites"`
	Conversations bool `json:"conversations"`
	LiveTransport bool `json:"live_transport"`
	Weather       bool `json:"weather"`
	Content       bool `json:"content"`
	Assistant     bool `json:"assistant"`
}

// Map flattens the flags for the health endpoint.
func (c Capabilities) Map() map[string]bool {
	return map[string]bool{
		"store":          c.Store,
		"shifts":         c.Shifts,
		"watched":        c.Watched,
		"favorites":      c.Favorites,
		"conversations":  c.Conversations,
		"live_transport": c.LiveTransport,
		"weather":        c.Weather,
		"content":        c.Content,
		"assistant":      c.Assistant,
	}
}

// probeTable opens a table and reads it once. A table that cannot be read is
// treated as absent for the lifetime of the process.
func probeTable(ctx context.Context, store ports.RecordStore, name string, log *zap.Logger) (ports.RecordTable, bool) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	table, err := store.Table(ctx, name)
	if err != nil {
		log.Warn("Record table unavailable", zap.String("table", name), zap.Error(err))
		return nil, false
	}
	if _, err := table.All(ctx); err != nil {
		log.Warn("Record table unavailable", zap.String("table", name), zap.Error(err))
		return nil, false
	}
	return table, true
}
