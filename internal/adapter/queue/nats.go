package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/ports"
)

// queueGroup spreads each subject across running instances so an event is handled once.
const queueGroup = "sms-assistant"

type NATSQueue struct {
	conn *nats.Conn
	log  *zap.Logger
}

func NewNATSQueue(url string, log *zap.Logger) (ports.MessageQueue, error) {
	nc, err := nats.Connect(url,
		nats.Name("sms-assistant"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("Successfully connected to NATS", zap.String("url", url))
	return &NATSQueue{
		conn: nc,
		log:  log,
	}, nil
}

func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := q.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("nats: publish %s: %w", subject, err)
	}
	return nil
}

func (q *NATSQueue) Subscribe(subject string, handler func(ctx context.Context, data []byte) error) error {
	_, err := q.conn.QueueSubscribe(subject, queueGroup, func(msg *nats.Msg) {
		if err := handler(context.Background(), msg.Data); err != nil {
			q.log.Error("Error processing message", zap.String("subject", subject), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("nats: subscribe %s: %w", subject, err)
	}
	return nil
}

func (q *NATSQueue) Close() error {
	if err := q.conn.Drain(); err != nil {
		q.conn.Close()
		return err
	}
	return nil
}
