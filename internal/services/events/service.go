package events

import (
	"fmt"
	"time"

	"github.com/phambaophuc/showcase/internal/config"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	DefaultQueueName = "showcase_events"

	dialTimeout = 5 * time.Second
	heartbeat   = 10 * time.Second
)

// QueueService publishes and consumes showcase events on one durable queue.
// A nil *QueueService reports itself as not configured.
type QueueService struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	logger    *zap.Logger
	queueName string
}

func NewQueueService(cfg config.RabbitMQConfig, logger *zap.Logger) (*QueueService, error) {
	queueName := cfg.Queue
	if queueName == "" {
		queueName = DefaultQueueName
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Heartbeat: heartbeat,
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	q := &QueueService{conn: conn, logger: logger, queueName: queueName}
	if err := q.declare(); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("Event queue connected", zap.String("queue", queueName))
	return q, nil
}

// declare opens the channel and makes sure the durable queue exists.
func (q *QueueService) declare() error {
	channel, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	// durable, not auto-deleted, not exclusive, wait for the server
	if _, err := channel.QueueDeclare(q.queueName, true, false, false, false, nil); err != nil {
		channel.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	q.channel = channel
	return nil
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q == nil {
		return nil
	}
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
