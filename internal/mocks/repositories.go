package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

// MockRecordStore is a mock implementation of RecordStore
type MockRecordStore struct {
	TableFunc func(ctx context.Context, name string) (ports.RecordTable, error)
}

func (m *MockRecordStore) Table(ctx context.Context, name string) (ports.RecordTable, error) {
	if m.TableFunc != nil {
		return m.TableFunc(ctx, name)
	}
	return &MockRecordTable{TableName: name}, nil
}

// MockRecordTable is a mock implementation of RecordTable. It counts calls so
// tests can assert that a write was or was not issued.
type MockRecordTable struct {
	TableName  string
	AllFunc    func(ctx context.Context) ([]domain.Record, error)
	FilterFunc func(ctx context.Context, match func(domain.Record) bool) ([]domain.Record, error)
	CreateFunc func(ctx context.Context, fields map[string]interface{}) (domain.Record, error)
	DeleteFunc func(ctx context.Context, id string) error

	mu          sync.Mutex
	CreateCalls []map[string]interface{}
	DeleteCalls []string
}

func (m *MockRecordTable) Name() string { return m.TableName }

func (m *MockRecordTable) All(ctx context.Context) ([]domain.Record, error) {
	if m.AllFunc != nil {
		return m.AllFunc(ctx)
	}
	return []domain.Record{}, nil
}

func (m *MockRecordTable) Filter(ctx context.Context, match func(domain.Record) bool) ([]domain.Record, error) {
	if m.FilterFunc != nil {
		return m.FilterFunc(ctx, match)
	}
	all, err := m.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Record, 0, len(all))
	for _, r := range all {
		if match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRecordTable) Create(ctx context.Context, fields map[string]interface{}) (domain.Record, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, fields)
	m.mu.Unlock()

	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, fields)
	}
	return domain.Record{ID: "rec_mock", Fields: fields}, nil
}

func (m *MockRecordTable) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	m.mu.Unlock()

	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// Creates returns a copy of the recorded Create calls.
func (m *MockRecordTable) Creates() []map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]interface{}(nil), m.CreateCalls...)
}

// Deletes returns a copy of the recorded Delete calls.
func (m *MockRecordTable) Deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.DeleteCalls...)
}

// MockConversationRepository is a mock implementation of ConversationRepository
type MockConversationRepository struct {
	SaveFunc     func(ctx context.Context, c *domain.Conversation) error
	RecentFunc   func(ctx context.Context, userID string, limit int) ([]domain.Conversation, error)
	ByIntentFunc func(ctx context.Context, userID string, intent domain.Domain, limit int) ([]domain.Conversation, error)
	AllFunc      func(ctx context.Context, userID string) ([]domain.Conversation, error)
}

func (m *MockConversationRepository) Save(ctx context.Context, c *domain.Conversation) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, c)
	}
	return nil
}

func (m *MockConversationRepository) Recent(ctx context.Context, userID string, limit int) ([]domain.Conversation, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, userID, limit)
	}
	return []domain.Conversation{}, nil
}

func (m *MockConversationRepository) ByIntent(ctx context.Context, userID string, intent domain.Domain, limit int) ([]domain.Conversation, error) {
	if m.ByIntentFunc != nil {
		return m.ByIntentFunc(ctx, userID, intent, limit)
	}
	return []domain.Conversation{}, nil
}

func (m *MockConversationRepository) All(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if m.AllFunc != nil {
		return m.AllFunc(ctx, userID)
	}
	return []domain.Conversation{}, nil
}
