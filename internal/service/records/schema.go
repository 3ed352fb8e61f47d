// Package records negotiates field names with the record store. Tables set up
// by hand do not share one naming, so each table handle probes its fields
// once, remembers the convention that worked, and writes through it.
package records

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/observability/telemetry"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

// Convention maps canonical field keys to the names used in the store.
type Convention map[string]string

// Schema declares how a table may be named and which fields are optional.
// Optional fields are only written when the probe shows the table has them.
type Schema struct {
	Primary   Convention
	Alternate Convention
	Optional  []string
}

// Table is a negotiated handle on a store table.
type Table struct {
	table  ports.RecordTable
	schema Schema
	log    *zap.Logger

	mu         sync.RWMutex
	negotiated bool
	active     Convention
	available  map[string]bool
}

func NewTable(table ports.RecordTable, schema Schema, log *zap.Logger) *Table {
	return &Table{
		table:  table,
		schema: schema,
		log:    log.With(zap.String("table", table.Name())),
		active: schema.Primary,
	}
}

func (t *Table) Name() string { return t.table.Name() }

// Negotiate probes the table once. An empty table assumes every primary field.
func (t *Table) Negotiate(ctx context.Context) error {
	t.mu.RLock()
	done := t.negotiated
	t.mu.RUnlock()
	if done {
		return nil
	}

	recs, err := t.table.All(ctx)
	if err != nil {
		return fmt.Errorf("records: probe %s: %w", t.table.Name(), err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.negotiated {
		return nil
	}

	if len(recs) == 0 {
		t.active = t.schema.Primary
		t.available = fieldSet(t.schema.Primary)
	} else {
		present := make(map[string]bool, len(recs[0].Fields))
		for name := range recs[0].Fields {
			present[name] = true
		}
		t.active = t.schema.Primary
		if t.schema.Alternate != nil && score(t.schema.Alternate, present) > score(t.schema.Primary, present) {
			t.active = t.schema.Alternate
		}
		t.available = present
	}
	t.negotiated = true

	t.log.Debug("Negotiated table fields", zap.Int("probed_records", len(recs)), zap.Bool("alternate", t.usingAlternate()))
	return nil
}

// Field returns the store name for a canonical key under the active convention.
func (t *Table) Field(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active[key]
}

// Has reports whether the table carries the canonical field.
func (t *Table) Has(key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	name, ok := t.active[key]
	return ok && t.available[name]
}

// String reads a canonical field from rec, trying the active convention first.
func (t *Table) String(rec domain.Record, key string) string {
	for _, conv := range t.conventions() {
		if name, ok := conv[key]; ok && rec.Has(name) {
			return rec.String(name)
		}
	}
	return ""
}

// Float reads a numeric canonical field from rec.
func (t *Table) Float(rec domain.Record, key string) (float64, bool) {
	for _, conv := range t.conventions() {
		if name, ok := conv[key]; ok && rec.Has(name) {
			return rec.Float(name)
		}
	}
	return 0, false
}

// HasValue reports whether rec carries the canonical field under any convention.
func (t *Table) HasValue(rec domain.Record, key string) bool {
	for _, conv := range t.conventions() {
		if name, ok := conv[key]; ok && rec.Has(name) {
			return true
		}
	}
	return false
}

func (t *Table) All(ctx context.Context) ([]domain.Record, error) {
	return t.table.All(ctx)
}

func (t *Table) Filter(ctx context.Context, match func(domain.Record) bool) ([]domain.Record, error) {
	return t.table.Filter(ctx, match)
}

func (t *Table) Delete(ctx context.Context, id string) error {
	return t.table.Delete(ctx, id)
}

// Create writes canonical values through the negotiated convention. When the
// store rejects a field name it switches to the alternate convention for good
// and retries once.
func (t *Table) Create(ctx context.Context, values map[string]interface{}) (domain.Record, error) {
	if err := t.Negotiate(ctx); err != nil {
		return domain.Record{}, err
	}

	rec, err := t.table.Create(ctx, t.render(values))
	if err == nil || !errors.Is(err, domain.ErrUnknownField) {
		return rec, err
	}

	if !t.switchToAlternate() {
		return domain.Record{}, err
	}
	telemetry.StoreSchemaFallbacks.WithLabelValues(t.table.Name()).Inc()
	t.log.Warn("Field name rejected, retrying with alternate naming", zap.Error(err))

	rec, err = t.table.Create(ctx, t.render(values))
	if err != nil {
		return domain.Record{}, fmt.Errorf("records: create in %s with alternate naming: %w", t.table.Name(), err)
	}
	return rec, nil
}

func (t *Table) render(values map[string]interface{}) map[string]interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()

	optional := make(map[string]bool, len(t.schema.Optional))
	for _, key := range t.schema.Optional {
		optional[key] = true
	}

	fields := make(map[string]interface{}, len(values))
	for key, v := range values {
		name, ok := t.active[key]
		if !ok {
			continue
		}
		if optional[key] && !t.available[name] {
			continue
		}
		fields[name] = v
	}
	return fields
}

// switchToAlternate reports false when there is no alternate left to try.
func (t *Table) switchToAlternate() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.schema.Alternate == nil || t.usingAlternate() {
		return false
	}
	t.active = t.schema.Alternate
	t.available = fieldSet(t.schema.Alternate)
	return true
}

func (t *Table) usingAlternate() bool {
	return t.schema.Alternate != nil && sameConvention(t.active, t.schema.Alternate)
}

func (t *Table) conventions() []Convention {
	t.mu.RLock()
	defer t.mu.RUnlock()
	convs := []Convention{t.active}
	if t.schema.Alternate != nil && !sameConvention(t.active, t.schema.Alternate) {
		convs = append(convs, t.schema.Alternate)
	} else if !sameConvention(t.active, t.schema.Primary) {
		convs = append(convs, t.schema.Primary)
	}
	return convs
}

func fieldSet(c Convention) map[string]bool {
	set := make(map[string]bool, len(c))
	for _, name := range c {
		set[name] = true
	}
	return set
}

func score(c Convention, present map[string]bool) int {
	n := 0
	for _, name := range c {
		if present[name] {
			n++
		}
	}
	return n
}

func sameConvention(a, b Convention) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
