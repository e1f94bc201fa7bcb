package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	Provider       string `json:"provider"`
	RatesRetrieved bool   `json:"ratesRetrieved"`
}

// ReadinessReporter exposes whether live currency data has been loaded
type ReadinessReporter interface {
	RatesRetrieved() bool
}

// HealthHandler handles health check requests
type HealthHandler struct {
	version   string
	provider  string
	readiness ReadinessReporter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, provider string, readiness ReadinessReporter) *HealthHandler {
	return &HealthHandler{version: version, provider: provider, readiness: readiness}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:         "ok",
		Version:        h.version,
		Provider:       h.provider,
		RatesRetrieved: h.readiness.RatesRetrieved(),
	})
}
