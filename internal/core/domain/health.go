package domain

// HealthStatus is the node's self-reported health.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "Healthy"
	HealthStatusUnhealthy HealthStatus = "Unhealthy"
)

// ParseHealthStatus maps the raw status string from the health endpoint.
// Only the exact value "Healthy" is healthy; anything else is Unhealthy.
func ParseHealthStatus(s string) HealthStatus {
	if s == string(HealthStatusHealthy) {
		return HealthStatusHealthy
	}
	return HealthStatusUnhealthy
}

// HealthReport is one response from the node's /health endpoint.
type HealthReport struct {
	Status      HealthStatus `json:"status"`
	Description string       `json:"description"`
}

// IsHealthy reports whether the node says it is healthy.
func (r HealthReport) IsHealthy() bool {
	return r.Status == HealthStatusHealthy
}
