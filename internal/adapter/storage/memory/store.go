// Package memory is an in-process record store used in simulated mode and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

type Store struct {
	mu     sync.Mutex
	tables map[string]*Table
	log    *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	return &Store{
		tables: make(map[string]*Table),
		log:    log,
	}
}

// Define creates a table that only accepts the given field names, the way a
// hand-built table rejects unknown columns. An empty list accepts anything.
func (s *Store) Define(name string, fields ...string) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := newTable(name, fields)
	s.tables[name] = t
	return t
}

// Table returns the named table, creating an unrestricted one when missing.
func (s *Store) Table(ctx context.Context, name string) (ports.RecordTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[name]
	if !ok {
		t = newTable(name, nil)
		s.tables[name] = t
		s.log.Debug("Created in-memory table", zap.String("table", name))
	}
	return t, nil
}

type Table struct {
	name    string
	allowed map[string]bool

	mu      sync.RWMutex
	records []domain.Record
	creates int
	deletes int
}

func newTable(name string, fields []string) *Table {
	t := &Table{name: name}
	if len(fields) > 0 {
		t.allowed = make(map[string]bool, len(fields))
		for _, f := range fields {
			t.allowed[f] = true
		}
	}
	return t
}

func (t *Table) Name() string { return t.name }

func (t *Table) All(ctx context.Context) ([]domain.Record, error) {
	return t.Filter(ctx, nil)
}

func (t *Table) Filter(ctx context.Context, match func(domain.Record) bool) ([]domain.Record, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.Record, 0, len(t.records))
	for _, r := range t.records {
		if match == nil || match(r) {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

func (t *Table) Create(ctx context.Context, fields map[string]interface{}) (domain.Record, error) {
	if t.allowed != nil {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !t.allowed[name] {
				return domain.Record{}, fmt.Errorf("memory: %s: %q: %w", t.name, name, domain.ErrUnknownField)
			}
		}
	}

	rec := domain.Record{ID: "rec" + uuid.NewString(), Fields: make(map[string]interface{}, len(fields))}
	for k, v := range fields {
		rec.Fields[k] = v
	}

	t.mu.Lock()
	t.records = append(t.records, rec)
	t.creates++
	t.mu.Unlock()

	return copyRecord(rec), nil
}

func (t *Table) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, r := range t.records {
		if r.ID == id {
			t.records = append(t.records[:i], t.records[i+1:]...)
			t.deletes++
			return nil
		}
	}
	return fmt.Errorf("memory: %s: record %s: %w", t.name, id, domain.ErrNotFound)
}

// Seed inserts records as they are, bypassing field checks.
func (t *Table) Seed(fields ...map[string]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range fields {
		t.records = append(t.records, domain.Record{ID: "rec" + uuid.NewString(), Fields: f})
	}
}

// Creates returns how many records were written through Create.
func (t *Table) Creates() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.creates
}

// Deletes returns how many records were removed through Delete.
func (t *Table) Deletes() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.deletes
}

func copyRecord(r domain.Record) domain.Record {
	fields := make(map[string]interface{}, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return domain.Record{ID: r.ID, Fields: fields}
}
