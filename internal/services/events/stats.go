package events

import (
	"fmt"

	"github.com/phambaophuc/showcase/internal/models"
)

func (q *QueueService) GetQueueStats() (map[string]any, error) {
	if q == nil || q.channel == nil {
		return nil, ErrNotConnected
	}

	queueInfo, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue: %w", err)
	}

	stats := map[string]any{
		"messages":  queueInfo.Messages,
		"consumers": queueInfo.Consumers,
		"name":      queueInfo.Name,
	}

	return stats, nil
}

// HealthCheck checks if RabbitMQ is available
func (q *QueueService) HealthCheck() string {
	if q == nil {
		return models.StatusDisabled
	}

	if q.conn == nil || q.conn.IsClosed() {
		return models.StatusUnhealthy + ": connection closed"
	}

	if q.channel == nil {
		return models.StatusUnhealthy + ": channel not available"
	}

	return models.StatusHealthy
}
