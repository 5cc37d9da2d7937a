package model

import (
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for purchase dates, cache keys and API dates.
const DateLayout = "2006-01-02"

// Holding represents a position in one ticker, as persisted in the holdings file.
type Holding struct {
	ID           int     `json:"id"`
	Ticker       string  `json:"ticker"`        // Upper-case exchange symbol, unique within the portfolio
	Shares       float64 `json:"shares"`        // Number of shares held, always positive
	BuyPrice     float64 `json:"buy_price"`     // Cost per share at purchase
	CurrentPrice float64 `json:"current_price"` // Last known price per share
	PurchaseDate string  `json:"purchase_date"` // Date in YYYY-MM-DD format
	Sector       string  `json:"sector"`
}

// MarketValue returns shares × current price.
func (h Holding) MarketValue() float64 {
	return h.Shares * h.CurrentPrice
}

// Cost returns shares × buy price.
func (h Holding) Cost() float64 {
	return h.Shares * h.BuyPrice
}

// ReturnPercentage returns (current - buy) / buy × 100, or 0 when the buy price is not positive.
func (h Holding) ReturnPercentage() float64 {
	if h.BuyPrice <= 0 {
		return 0
	}
	return (h.CurrentPrice - h.BuyPrice) / h.BuyPrice * 100
}

// NormalizeTicker trims and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// NextHoldingID returns the id for a new holding: max existing id + 1, or 1 when empty.
func NextHoldingID(holdings []Holding) int {
	maxID := 0
	for _, h := range holdings {
		if h.ID > maxID {
			maxID = h.ID
		}
	}
	return maxID + 1
}

// FindByTicker returns the index of the holding with the given ticker (case-insensitive), or -1.
func FindByTicker(holdings []Holding, ticker string) int {
	for i, h := range holdings {
		if strings.EqualFold(h.Ticker, ticker) {
			return i
		}
	}
	return -1
}

// Round2 rounds a value to two decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// SeedHoldings returns the holdings written when no holdings file exists yet.
func SeedHoldings() []Holding {
	return []Holding{
		{ID: 1, Ticker: "AAPL", Shares: 10, BuyPrice: 150.00, CurrentPrice: 185.20, PurchaseDate: "2024-06-15", Sector: "Technology"},
		{ID: 2, Ticker: "GOOGL", Shares: 5, BuyPrice: 2400.00, CurrentPrice: 2650.30, PurchaseDate: "2024-05-20", Sector: "Technology"},
		{ID: 3, Ticker: "TSLA", Shares: 8, BuyPrice: 200.00, CurrentPrice: 245.80, PurchaseDate: "2024-07-10", Sector: "Consumer Cyclical"},
		{ID: 4, Ticker: "MSFT", Shares: 12, BuyPrice: 300.00, CurrentPrice: 380.50, PurchaseDate: "2024-04-01", Sector: "Technology"},
		{ID: 5, Ticker: "NVDA", Shares: 6, BuyPrice: 400.00, CurrentPrice: 875.20, PurchaseDate: "2024-03-15", Sector: "Technology"},
	}
}
