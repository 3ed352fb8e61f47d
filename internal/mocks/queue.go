package mocks

import (
	"context"
	"sync"
)

// MockMessageQueue is a mock implementation of MessageQueue interface
type MockMessageQueue struct {
	mu                sync.Mutex
	PublishedMessages map[string][][]byte
	Subscribers       map[string][]func(ctx context.Context, data []byte) error
	PublishFunc       func(ctx context.Context, subject string, data []byte) error
	SubscribeFunc     func(subject string, handler func(ctx context.Context, data []byte) error) error
	CloseFunc         func() error
}

func NewMockMessageQueue() *MockMessageQueue {
	return &MockMessageQueue{
		PublishedMessages: make(map[string][][]byte),
		Subscribers:       make(map[string][]func(ctx context.Context, data []byte) error),
	}
}

func (m *MockMessageQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, subject, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedMessages[subject] = append(m.PublishedMessages[subject], data)
	return nil
}

func (m *MockMessageQueue) Subscribe(subject string, handler func(ctx context.Context, data []byte) error) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(subject, handler)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Subscribers[subject] = append(m.Subscribers[subject], handler)
	return nil
}

func (m *MockMessageQueue) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// GetPublishedMessages returns all messages published to a subject
func (m *MockMessageQueue) GetPublishedMessages(subject string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.PublishedMessages[subject]...)
}

// ClearMessages clears all published messages
func (m *MockMessageQueue) ClearMessages() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedMessages = make(map[string][][]byte)
}
