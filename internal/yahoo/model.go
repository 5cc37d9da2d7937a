package yahoo

import (
	"fmt"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/provider"
)

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
//
// The structure includes:
//   - Chart.Result: Array of result objects (one element, or null on errors)
//   - Chart.Result[].Meta: Symbol metadata and the latest market price
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Price data arrays; missing trading days are null
//   - Chart.Error: Optional error object from Yahoo
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level chart envelope.
type Chart struct {
	Result []Result    `json:"result"`
	Error  *ChartError `json:"error"`
}

// Result holds the chart data for one symbol.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta is the symbol metadata block.
type Meta struct {
	Currency           string   `json:"currency"`
	Symbol             string   `json:"symbol"`
	ExchangeName       string   `json:"exchangeName"`
	FullExchangeName   string   `json:"fullExchangeName"`
	LongName           string   `json:"longName"`
	Shortname          string   `json:"shortName"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	ChartPreviousClose *float64 `json:"chartPreviousClose"`
}

// IndicatorsContainer wraps the quote arrays.
type IndicatorsContainer struct {
	Quote []Quote `json:"quote"`
}

// Quote holds parallel OHLCV arrays. Entries are nil for days without trades.
type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// ChartError is the error object Yahoo returns in place of a result.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *ChartError) Error() string {
	return fmt.Sprintf("yahoo error %s: %s", e.Code, e.Description)
}

// Unwrap maps unknown-symbol errors to provider.ErrNoData.
func (e *ChartError) Unwrap() error {
	if e.Code == "Not Found" {
		return provider.ErrNoData
	}
	return nil
}

// PriceChart is a parsed price chart: symbol metadata plus daily price points,
// oldest first, with null-close days dropped.
type PriceChart struct {
	Symbol   string
	Currency string
	LongName string
	Points   []model.PricePoint
}
