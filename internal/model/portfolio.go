package model

// PortfolioMetrics holds the aggregate valuation of a set of holdings.
// All monetary values are rounded to two decimal places.
type PortfolioMetrics struct {
	TotalValue         float64 `json:"total_value"`          // Σ shares × current price
	TotalCost          float64 `json:"total_cost"`           // Σ shares × buy price
	TotalGainLoss      float64 `json:"total_gain_loss"`      // Value minus cost
	GainLossPercentage float64 `json:"gain_loss_percentage"` // Gain/loss relative to cost, 0 when cost is 0
}

// Performer identifies a holding by its percentage return.
type Performer struct {
	Ticker    string  `json:"ticker"`
	ReturnPct float64 `json:"return_pct"`
}

// DetailedMetrics extends PortfolioMetrics with holding count and best/worst performers.
// Performers are nil when the portfolio is empty.
type DetailedMetrics struct {
	PortfolioMetrics
	TotalHoldings  int        `json:"total_holdings"`
	BestPerformer  *Performer `json:"best_performer"`
	WorstPerformer *Performer `json:"worst_performer"`
}

// SectorAllocation is the share of the portfolio value held in one sector.
type SectorAllocation struct {
	Sector     string  `json:"sector"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// HistoryValue is one point of the portfolio value-over-time series.
type HistoryValue struct {
	Date          string  `json:"date"`
	Value         float64 `json:"value"`
	FormattedDate string  `json:"formatted_date"`
	Source        string  `json:"source"` // HistorySourceSimulated or HistorySourceSnapshot
}

const (
	HistorySourceSimulated = "simulated"
	HistorySourceSnapshot  = "snapshot"
)

// HoldingContext describes one holding in the summary sent to the LLM.
type HoldingContext struct {
	Ticker           string  `json:"ticker"`
	Sector           string  `json:"sector"`
	Shares           float64 `json:"shares"`
	BuyPrice         float64 `json:"buy_price"`
	CurrentPrice     float64 `json:"current_price"`
	MarketValue      float64 `json:"market_value"`
	ReturnPercentage float64 `json:"return_percentage"`
	PurchaseDate     string  `json:"purchase_date"`
}

// PortfolioContext is the portfolio summary forwarded to the LLM and echoed to the client.
type PortfolioContext struct {
	TotalHoldings      int              `json:"total_holdings"`
	TotalValue         float64          `json:"total_value"`
	TotalGainLoss      float64          `json:"total_gain_loss"`
	GainLossPercentage float64          `json:"gain_loss_percentage"`
	Holdings           []HoldingContext `json:"holdings"`
}
