package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrHoldingNotFound indicates that a holding with the given ID does not exist.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrHistoryUnavailable indicates that no provider returned a price series for a ticker.
	ErrHistoryUnavailable = errors.New("price history unavailable")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrDuplicateTicker indicates that the portfolio already holds the ticker.
	ErrDuplicateTicker = errors.New("ticker already exists in portfolio")

	// ErrInvalidTicker indicates that no provider could price the ticker at all.
	ErrInvalidTicker = errors.New("invalid ticker symbol")

	// ErrPriceUnavailable indicates that a historical price could not be resolved for the purchase date.
	ErrPriceUnavailable = errors.New("historical price unavailable")

	// ErrInvalidPeriod indicates that a history period is not one of the supported values.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidHoldingID indicates that a holding ID is not a positive integer.
	ErrInvalidHoldingID = errors.New("holding ID must be a positive integer")

	// ErrInvalidDays indicates that the history day count is out of range.
	ErrInvalidDays = errors.New("days must be an integer between 1 and 3650")

	// ErrAIServiceNotConfigured indicates that no LLM API key has been configured.
	ErrAIServiceNotConfigured = errors.New("gemini API key not configured, set GEMINI_API_KEY in your .env file")

	// ErrInvalidRequestBody indicates that the request body could not be decoded.
	ErrInvalidRequestBody = errors.New("invalid request body")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Holdings store errors
	ErrFailedToLoadHoldings = errors.New("failed to load holdings")
	ErrFailedToSaveHoldings = errors.New("failed to save holdings")

	// Portfolio operation errors
	ErrFailedToRefreshPrices       = errors.New("failed to refresh prices")
	ErrFailedToGetPortfolioHistory = errors.New("failed to get portfolio history")
	ErrFailedToRetrieveSnapshots   = errors.New("failed to retrieve portfolio snapshots")
	ErrFailedToRecordSnapshot      = errors.New("failed to record portfolio snapshot")

	// Insight operation errors
	ErrFailedToGenerateInsights = errors.New("failed to generate insights")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrCorruptHoldingsFile indicates that the persisted holdings file cannot be parsed.
	ErrCorruptHoldingsFile = errors.New("holdings file is corrupt")

	// ErrInvalidCSVHeaders indicates that the holdings file header is missing required columns.
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")
)
