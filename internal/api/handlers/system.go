package handlers

import (
	"net/http"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
	now           func() time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
		now:           time.Now,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Error     string `json:"error,omitempty"`
}

// Health reports that the API is up, together with snapshot database connectivity.
// The holdings file and price providers do not depend on the database, so a
// database failure is reported but does not change the status code.
//
// Endpoint: GET /api/health
// Response: 200 OK with HealthResponse
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Database:  "connected",
	}

	if err := h.systemService.CheckHealth(r.Context()); err != nil {
		resp.Database = "disconnected"
		resp.Error = err.Error()
	}

	respondJSON(w, http.StatusOK, resp)
}
