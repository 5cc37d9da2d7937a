package model

import "time"

// PortfolioSnapshot is the recorded valuation of the whole portfolio for one calendar date.
type PortfolioSnapshot struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	TotalValue    float64   `json:"total_value"`
	TotalCost     float64   `json:"total_cost"`
	HoldingsCount int       `json:"holdings_count"`
	CreatedAt     time.Time `json:"created_at"`
}
