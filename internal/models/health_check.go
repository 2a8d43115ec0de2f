package models

import "time"

// Service states reported by health checks. Anything else is a failure
// description and counts as unhealthy.
const (
	HealthHealthy       = "healthy"
	HealthUnhealthy     = "unhealthy"
	HealthNotConfigured = "not configured"
)

// HealthCheck is the overall status plus one entry per backing service.
type HealthCheck struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
