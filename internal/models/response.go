package models

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Transport string `json:"transport"`
	Connected bool   `json:"connected"`
	Timestamp int64  `json:"timestamp"`
}
