package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/service"
)

// InsightHandler handles AI insight HTTP requests
type InsightHandler struct {
	insightService *service.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
	}
}

// Insights handles POST requests to generate an LLM analysis of the portfolio.
//
// Endpoint: POST /api/ai-insights
// Response: 200 OK with {insights, portfolio_summary}
// Error: 500 Internal Server Error if no API key is configured or generation fails
func (h *InsightHandler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.insightService.Generate(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrAIServiceNotConfigured) {
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrAIServiceNotConfigured.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGenerateInsights.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, insights)
}
