package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/validation"
)

// HoldingHandler handles HTTP requests for holding endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the portfolioService.
type HoldingHandler struct {
	portfolioService *service.PortfolioService
	now              func() time.Time
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependency.
func NewHoldingHandler(portfolioService *service.PortfolioService) *HoldingHandler {
	return &HoldingHandler{
		portfolioService: portfolioService,
		now:              time.Now,
	}
}

// AddHoldingResponse is the body returned after a holding is created.
type AddHoldingResponse struct {
	Message string        `json:"message"`
	Holding model.Holding `json:"holding"`
}

// Holdings handles GET requests to list all holdings in file order.
//
// Endpoint: GET /api/holdings
// Response: 200 OK with array of Holding
// Error: 500 Internal Server Error if the holdings file cannot be read
func (h *HoldingHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.portfolioService.GetHoldings(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// AddHolding handles POST requests to add a holding.
// Without buy_price, the purchase price is looked up for purchase_date.
//
// Endpoint: POST /api/holdings
// Request Body: AddHoldingRequest (ticker, shares, purchase_date, buy_price?, sector?)
// Response: 201 Created with AddHoldingResponse
// Error: 400 Bad Request if validation fails, the ticker is a duplicate or unknown, or no price exists for the date
// Error: 500 Internal Server Error if the holdings file cannot be read or written
func (h *HoldingHandler) AddHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AddHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidRequestBody.Error(), err.Error())
		return
	}

	if err := validation.ValidateAddHolding(req, h.now()); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
			return
		}
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holding, err := h.portfolioService.AddHolding(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicateTicker):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrDuplicateTicker.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidTicker):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTicker.Error(), err.Error())
		case errors.Is(err, apperrors.ErrPriceUnavailable):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrPriceUnavailable.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to add holding", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, AddHoldingResponse{
		Message: fmt.Sprintf("Successfully added %s to portfolio (bought at $%.2f on %s)", holding.Ticker, holding.BuyPrice, holding.PurchaseDate),
		Holding: holding,
	})
}

// DeleteHolding handles DELETE requests to remove a holding by ID.
//
// Endpoint: DELETE /api/holdings/{id}
// Response: 200 OK with MessageResponse
// Error: 404 Not Found if no holding has the ID, including IDs that are not positive integers
// Error: 500 Internal Server Error if the holdings file cannot be written
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ValidateHoldingID(chi.URLParam(r, "id"))
	if err != nil {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
		return
	}

	if _, err := h.portfolioService.DeleteHolding(r.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete holding", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.MessageResponse{Message: "Holding deleted successfully"})
}
