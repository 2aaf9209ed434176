package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Handler receives decoded events. Returning an error rejects the message
// without requeueing it.
type Handler func(ctx context.Context, event ShowcaseEvent) error

// Consume delivers events to handler until ctx is done or the channel closes.
func (q *QueueService) Consume(ctx context.Context, consumer string, handler Handler) error {
	if q == nil || q.channel == nil {
		return ErrNotConnected
	}

	msgs, err := q.channel.Consume(
		q.queueName, // queue
		consumer,    // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("Consumer started", zap.String("consumer", consumer))

	for {
		select {
		case <-ctx.Done():
			q.logger.Info("Consumer stopping", zap.String("consumer", consumer))
			return nil
		case msg, ok := <-msgs:
			if !ok {
				q.logger.Warn("Message channel closed", zap.String("consumer", consumer))
				return nil
			}
			q.processMessage(ctx, msg, handler)
		}
	}
}

// acknowledger is the subset of amqp.Delivery that processMessage needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (q *QueueService) processMessage(ctx context.Context, msg amqp.Delivery, handler Handler) {
	q.handleDelivery(ctx, msg.Body, &msg, handler)
}

func (q *QueueService) handleDelivery(ctx context.Context, body []byte, ack acknowledger, handler Handler) {
	var event ShowcaseEvent
	if err := json.Unmarshal(body, &event); err != nil {
		q.logger.Error("Failed to unmarshal event", zap.Error(err))
		ack.Nack(false, false) // Don't requeue malformed messages
		return
	}

	if err := handler(ctx, event); err != nil {
		q.logger.Error("Event handler failed",
			zap.String("id", event.ID),
			zap.Error(err))
		ack.Nack(false, false)
		return
	}

	if err := ack.Ack(false); err != nil {
		q.logger.Error("Failed to ack message",
			zap.String("id", event.ID),
			zap.Error(err))
	}
}
