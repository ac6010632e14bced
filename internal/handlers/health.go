package handlers

import (
	"net/http"
	"time"

	"github.com/nahidhasan98/webhook-shunt/internal/models"
)

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, &models.HealthResponse{
		Status:    "ok",
		Transport: h.transport,
		Connected: h.dispatcher.Connected(),
		Timestamp: time.Now().Unix(),
	}, http.StatusOK)
}
