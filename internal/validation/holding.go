package validation

import (
	"math"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

// ValidateAddHolding validates a holding creation request against today's date.
//
// Required fields:
//   - ticker: Must be non-empty after trimming
//   - shares: Must be present and positive
//   - purchase_date: Must be in YYYY-MM-DD format and not after today
//
// Optional fields:
//   - buy_price: Must be positive if provided
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateAddHolding(req request.AddHoldingRequest, today time.Time) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	if !req.Shares.Set {
		errors["shares"] = "shares is required"
	} else if !finite(req.Shares.Value) {
		errors["shares"] = "shares must be a finite number"
	} else if req.Shares.Value <= 0 {
		errors["shares"] = "shares must be positive"
	}

	purchaseDate := strings.TrimSpace(req.PurchaseDate)
	if purchaseDate == "" {
		errors["purchase_date"] = "purchase_date is required"
	} else if parsed, err := model.ParseDate(purchaseDate); err != nil {
		errors["purchase_date"] = "invalid date format, use YYYY-MM-DD"
	} else if parsed.Format(model.DateLayout) > today.Format(model.DateLayout) {
		errors["purchase_date"] = "purchase date cannot be in the future"
	}

	if req.BuyPrice.Set {
		if !finite(req.BuyPrice.Value) {
			errors["buy_price"] = "buy_price must be a finite number"
		} else if req.BuyPrice.Value <= 0 {
			errors["buy_price"] = "buy_price must be positive"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
