package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/validation"
)

// PortfolioHandler handles portfolio-wide HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// RefreshResponse is the body returned after a price refresh.
type RefreshResponse struct {
	Message  string                 `json:"message"`
	Holdings []model.Holding        `json:"holdings"`
	Metrics  model.PortfolioMetrics `json:"metrics"`
}

// Portfolio handles GET requests for all holdings with aggregate metrics.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with {holdings, metrics}
// Error: 500 Internal Server Error if the holdings file cannot be read
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	view, err := h.portfolioService.GetPortfolio(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, view)
}

// RefreshPrices handles POST requests to refresh the current price of every holding.
//
// Endpoint: POST /api/refresh-prices
// Response: 200 OK with RefreshResponse
// Error: 500 Internal Server Error if the holdings file cannot be read or written
func (h *PortfolioHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.portfolioService.RefreshPrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshPrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, RefreshResponse{
		Message:  fmt.Sprintf("Prices refreshed successfully (%d/%d from live data)", result.LiveCount, result.Total),
		Holdings: result.Holdings,
		Metrics:  result.Metrics,
	})
}

// PortfolioHistory handles GET requests for the daily portfolio value series.
//
// Endpoint: GET /api/portfolio-history?days=30
// Response: 200 OK with array of HistoryValue, oldest first
// Error: 400 Bad Request if days is not an integer between 1 and 3650
// Error: 500 Internal Server Error if the holdings file cannot be read
func (h *PortfolioHandler) PortfolioHistory(w http.ResponseWriter, r *http.Request) {
	days, err := validation.ValidateDays(r.URL.Query().Get("days"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDays.Error(), err.Error())
		return
	}

	history, err := h.portfolioService.GetPortfolioHistory(r.Context(), days)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDays) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDays.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetPortfolioHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

// SectorBreakdown handles GET requests for the value per sector.
//
// Endpoint: GET /api/sector-breakdown
// Response: 200 OK with array of SectorAllocation, largest first
// Error: 500 Internal Server Error if the holdings file cannot be read
func (h *PortfolioHandler) SectorBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.portfolioService.GetSectorBreakdown(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, breakdown)
}

// PortfolioMetrics handles GET requests for aggregate metrics with best and worst performers.
//
// Endpoint: GET /api/portfolio-metrics
// Response: 200 OK with DetailedMetrics
// Error: 500 Internal Server Error if the holdings file cannot be read
func (h *PortfolioHandler) PortfolioMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.portfolioService.GetDetailedMetrics(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, metrics)
}
