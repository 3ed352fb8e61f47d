package ports

import "context"

// MessageQueue carries assistant events between the request path and background workers.
type MessageQueue interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Subscribe(subject string, handler func(ctx context.Context, data []byte) error) error
	Close() error
}
