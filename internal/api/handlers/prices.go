package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/provider"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/service"
)

// PriceHandler handles market price HTTP requests
type PriceHandler struct {
	stockService     *service.StockService
	portfolioService *service.PortfolioService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(stockService *service.StockService, portfolioService *service.PortfolioService) *PriceHandler {
	return &PriceHandler{
		stockService:     stockService,
		portfolioService: portfolioService,
	}
}

// StockHistoryResponse is the price history of one ticker.
type StockHistoryResponse struct {
	Ticker  string               `json:"ticker"`
	Period  provider.Period      `json:"period"`
	History []model.HistoryPoint `json:"history"`
}

// StockHistory handles GET requests for the daily price history of a ticker.
//
// Endpoint: GET /api/stock-history/{ticker}?period=1mo
// Response: 200 OK with StockHistoryResponse
// Error: 400 Bad Request if the period is not supported
// Error: 404 Not Found if no provider has history for the ticker
func (h *PriceHandler) StockHistory(w http.ResponseWriter, r *http.Request) {
	ticker := model.NormalizeTicker(chi.URLParam(r, "ticker"))

	period, err := provider.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
		return
	}

	history, err := h.stockService.History(r.Context(), ticker, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrHistoryUnavailable) {
			response.RespondError(w, http.StatusNotFound, "Unable to fetch history for "+ticker, err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrHistoryUnavailable.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, StockHistoryResponse{
		Ticker:  ticker,
		Period:  period,
		History: history,
	})
}

// RealTimePrices handles GET requests for live quotes of every held ticker.
// Tickers no provider can price are omitted.
//
// Endpoint: GET /api/real-time-prices
// Response: 200 OK with {ticker: {price, change, change_percent}}
// Error: 500 Internal Server Error if the holdings file cannot be read
func (h *PriceHandler) RealTimePrices(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.portfolioService.GetLivePrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quotes)
}
