package models

import "time"

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "not configured"
)

type HealthCheck struct {
	Status       string            `json:"status"`
	StoreBackend string            `json:"store_backend"`
	Timestamp    time.Time         `json:"timestamp"`
	Components   map[string]string `json:"components"`
}
