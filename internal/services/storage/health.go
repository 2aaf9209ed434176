package storage

import (
	"context"

	"github.com/phambaophuc/showcase/internal/models"
)

// HealthCheck pings the namespace backend.
func (s *RecordStore) HealthCheck(ctx context.Context) map[string]string {
	status := make(map[string]string)

	if err := s.namespace.Ping(ctx); err != nil {
		status["store"] = models.StatusUnhealthy + ": " + err.Error()
	} else {
		status["store"] = models.StatusHealthy
	}

	return status
}
