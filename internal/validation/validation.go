// Package validation checks request input before it reaches the services.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
)

// History day-count bounds.
const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 3650
)

// ValidateHoldingID parses a holding ID path parameter. IDs are positive integers.
func ValidateHoldingID(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidHoldingID, id)
	}
	return n, nil
}

// ValidateDays parses the days query parameter. An empty value yields DefaultHistoryDays.
func ValidateDays(days string) (int, error) {
	days = strings.TrimSpace(days)
	if days == "" {
		return DefaultHistoryDays, nil
	}
	n, err := strconv.Atoi(days)
	if err != nil || n < 1 || n > MaxHistoryDays {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidDays, days)
	}
	return n, nil
}
