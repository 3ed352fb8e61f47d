package queue

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/ports"
)

// LocalQueue delivers events in-process. Used when no broker is configured.
type LocalQueue struct {
	mu       sync.RWMutex
	handlers map[string][]func(ctx context.Context, data []byte) error
	wg       sync.WaitGroup
	closed   bool
	log      *zap.Logger
}

func NewLocalQueue(log *zap.Logger) ports.MessageQueue {
	log.Info("Local in-process queue initialized")
	return &LocalQueue{
		handlers: make(map[string][]func(ctx context.Context, data []byte) error),
		log:      log,
	}
}

// Publish hands data to every subscriber of subject on its own goroutine.
func (q *LocalQueue) Publish(ctx context.Context, subject string, data []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return nil
	}

	for _, h := range q.handlers[subject] {
		q.wg.Add(1)
		go func(h func(ctx context.Context, data []byte) error) {
			defer q.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					q.log.Error("Subscriber panicked", zap.String("subject", subject), zap.Any("panic", r))
				}
			}()
			if err := h(context.WithoutCancel(ctx), data); err != nil {
				q.log.Error("Error processing message", zap.String("subject", subject), zap.Error(err))
			}
		}(h)
	}
	return nil
}

func (q *LocalQueue) Subscribe(subject string, handler func(ctx context.Context, data []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[subject] = append(q.handlers[subject], handler)
	return nil
}

// Close waits for in-flight deliveries.
func (q *LocalQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wg.Wait()
	return nil
}
