// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/validation"
)

// ValidateHoldingIDMiddleware validates that the id URL parameter is a positive integer.
// Holding IDs start at 1, so any other value cannot name a holding and
// returns 404 Not Found.
//
// Example usage in router:
//
//	r.Route("/{id}", func(r chi.Router) {
//	    r.Use(middleware.ValidateHoldingIDMiddleware)
//	    r.Delete("/", handler.DeleteHolding)
//	})
func ValidateHoldingIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := validation.ValidateHoldingID(chi.URLParam(r, "id")); err != nil {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
