package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/ports"
)

// RabbitMQQueue publishes every subject on one topic exchange, using the
// subject as routing key. Each subject gets a durable queue so events survive
// worker restarts.
type RabbitMQQueue struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	url      string
	exchange string
	mu       sync.RWMutex
	log      *zap.Logger
}

func NewRabbitMQQueue(url, exchange string, log *zap.Logger) (ports.MessageQueue, error) {
	q := &RabbitMQQueue{
		url:      url,
		exchange: exchange,
		log:      log,
	}
	if err := q.connect(); err != nil {
		return nil, err
	}

	go q.monitorConnection()

	log.Info("Successfully connected to RabbitMQ", zap.String("exchange", exchange))
	return q, nil
}

func (q *RabbitMQQueue) connect() error {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := ch.ExchangeDeclare(q.exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}

	q.mu.Lock()
	q.conn = conn
	q.channel = ch
	q.mu.Unlock()
	return nil
}

func (q *RabbitMQQueue) Publish(ctx context.Context, subject string, data []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.channel == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	err := q.channel.PublishWithContext(ctx,
		q.exchange, subject, false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         data,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", subject, err)
	}

	return nil
}

func (q *RabbitMQQueue) Subscribe(subject string, handler func(ctx context.Context, data []byte) error) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.channel == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	name := queueGroup + "." + subject
	queue, err := q.channel.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}

	if err := q.channel.QueueBind(queue.Name, subject, q.exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue: %w", err)
	}

	msgs, err := q.channel.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(context.Background(), msg.Body); err != nil {
				q.log.Error("Error processing RabbitMQ message",
					zap.String("subject", subject),
					zap.Error(err),
				)
				msg.Nack(false, false)
				continue
			}
			msg.Ack(false)
		}
	}()

	q.log.Info("Subscribed to RabbitMQ subject", zap.String("subject", subject), zap.String("queue", name))
	return nil
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

func (q *RabbitMQQueue) monitorConnection() {
	for {
		q.mu.RLock()
		conn := q.conn
		q.mu.RUnlock()

		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok {
			return
		}
		q.log.Warn("RabbitMQ connection lost, reconnecting", zap.String("reason", reason.Reason))

		for {
			time.Sleep(5 * time.Second)
			if err := q.connect(); err != nil {
				q.log.Error("Failed to reconnect to RabbitMQ", zap.Error(err))
				continue
			}
			q.log.Info("Successfully reconnected to RabbitMQ")
			break
		}
	}
}
