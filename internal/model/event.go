package model

import "time"

// Portfolio event types published on the event topic.
const (
	EventHoldingAdded    = "HOLDING_ADDED"
	EventHoldingRemoved  = "HOLDING_REMOVED"
	EventPricesRefreshed = "PRICES_REFRESHED"
)

// PortfolioEvent is a change notification for downstream consumers.
type PortfolioEvent struct {
	EventType     string    `json:"event_type"`
	HoldingID     int       `json:"holding_id,omitempty"`
	Ticker        string    `json:"ticker,omitempty"`
	HoldingsCount int       `json:"holdings_count,omitempty"`
	UpdatedCount  int       `json:"updated_count,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
