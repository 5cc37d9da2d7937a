package model

import "time"

// PricePoint represents a single trading day of OHLCV data.
// Date is midnight UTC of the trading day.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// DateKey returns the trading day in YYYY-MM-DD format.
func (p PricePoint) DateKey() string {
	return p.Date.UTC().Format(DateLayout)
}

// LiveQuote is a freshly resolved price compared with the stored current price.
type LiveQuote struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// HistoryPoint is one trading day of a stock's price history as served to clients.
// Prices are rounded to two decimal places.
type HistoryPoint struct {
	Date          string  `json:"date"`
	FormattedDate string  `json:"formatted_date"`
	Price         float64 `json:"price"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        int64   `json:"volume"`
}

// ShortDateLayout is the chart label format, e.g. "Jun 14".
const ShortDateLayout = "Jan 02"

// ToHistoryPoint converts a price point into its client representation.
func (p PricePoint) ToHistoryPoint() HistoryPoint {
	return HistoryPoint{
		Date:          p.DateKey(),
		FormattedDate: p.Date.UTC().Format(ShortDateLayout),
		Price:         Round2(p.Close),
		Open:          Round2(p.Open),
		High:          Round2(p.High),
		Low:           Round2(p.Low),
		Volume:        p.Volume,
	}
}
