package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

// sectorColors is the palette assigned to sectors in order of first appearance.
var sectorColors = []string{"#00FFFF", "#FF00FF", "#00FF00", "#FFFF00", "#FF0099", "#00FFAA", "#FF6600"}

var hundred = decimal.NewFromInt(100)

// ComputeMetrics aggregates value and cost over holdings.
// Sums are accumulated as decimals so that rounding happens once, on the totals.
func ComputeMetrics(holdings []model.Holding) model.PortfolioMetrics {
	totalValue := decimal.Zero
	totalCost := decimal.Zero
	for _, h := range holdings {
		shares := decimal.NewFromFloat(h.Shares)
		totalValue = totalValue.Add(shares.Mul(decimal.NewFromFloat(h.CurrentPrice)))
		totalCost = totalCost.Add(shares.Mul(decimal.NewFromFloat(h.BuyPrice)))
	}

	gain := totalValue.Sub(totalCost)
	pct := decimal.Zero
	if totalCost.IsPositive() {
		pct = gain.Div(totalCost).Mul(hundred)
	}

	return model.PortfolioMetrics{
		TotalValue:         totalValue.Round(2).InexactFloat64(),
		TotalCost:          totalCost.Round(2).InexactFloat64(),
		TotalGainLoss:      gain.Round(2).InexactFloat64(),
		GainLossPercentage: pct.Round(2).InexactFloat64(),
	}
}

// BestWorstPerformers returns the holdings with the highest and lowest percentage return.
// Ties resolve to the holding that comes first. Both are nil for an empty portfolio.
func BestWorstPerformers(holdings []model.Holding) (best, worst *model.Performer) {
	if len(holdings) == 0 {
		return nil, nil
	}

	bestIdx, worstIdx := 0, 0
	for i := 1; i < len(holdings); i++ {
		r := holdings[i].ReturnPercentage()
		if r > holdings[bestIdx].ReturnPercentage() {
			bestIdx = i
		}
		if r < holdings[worstIdx].ReturnPercentage() {
			worstIdx = i
		}
	}

	return performer(holdings[bestIdx]), performer(holdings[worstIdx])
}

func performer(h model.Holding) *model.Performer {
	return &model.Performer{Ticker: h.Ticker, ReturnPct: round(h.ReturnPercentage())}
}

// ComputeDetailedMetrics extends ComputeMetrics with holding count and performers.
func ComputeDetailedMetrics(holdings []model.Holding) model.DetailedMetrics {
	best, worst := BestWorstPerformers(holdings)
	return model.DetailedMetrics{
		PortfolioMetrics: ComputeMetrics(holdings),
		TotalHoldings:    len(holdings),
		BestPerformer:    best,
		WorstPerformer:   worst,
	}
}

// SectorBreakdown groups market value by sector, sorted by value descending.
// Colours are assigned from the palette in order of first appearance, before sorting.
func SectorBreakdown(holdings []model.Holding) []model.SectorAllocation {
	var order []string
	totals := make(map[string]decimal.Decimal)
	total := decimal.Zero

	for _, h := range holdings {
		value := decimal.NewFromFloat(h.Shares).Mul(decimal.NewFromFloat(h.CurrentPrice))
		if _, seen := totals[h.Sector]; !seen {
			order = append(order, h.Sector)
		}
		totals[h.Sector] = totals[h.Sector].Add(value)
		total = total.Add(value)
	}

	breakdown := make([]model.SectorAllocation, 0, len(order))
	for i, sector := range order {
		value := totals[sector]
		pct := decimal.Zero
		if total.IsPositive() {
			pct = value.Div(total).Mul(hundred)
		}
		breakdown = append(breakdown, model.SectorAllocation{
			Sector:     sector,
			Value:      value.Round(2).InexactFloat64(),
			Percentage: pct.Round(2).InexactFloat64(),
			Color:      sectorColors[i%len(sectorColors)],
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Value > breakdown[j].Value
	})
	return breakdown
}

// BuildPortfolioContext summarizes the portfolio for the insight prompt.
func BuildPortfolioContext(holdings []model.Holding) model.PortfolioContext {
	metrics := ComputeMetrics(holdings)

	summary := model.PortfolioContext{
		TotalHoldings:      len(holdings),
		TotalValue:         metrics.TotalValue,
		TotalGainLoss:      metrics.TotalGainLoss,
		GainLossPercentage: metrics.GainLossPercentage,
		Holdings:           make([]model.HoldingContext, 0, len(holdings)),
	}
	for _, h := range holdings {
		summary.Holdings = append(summary.Holdings, model.HoldingContext{
			Ticker:           h.Ticker,
			Sector:           h.Sector,
			Shares:           h.Shares,
			BuyPrice:         h.BuyPrice,
			CurrentPrice:     h.CurrentPrice,
			MarketValue:      round(h.MarketValue()),
			ReturnPercentage: round(h.ReturnPercentage()),
			PurchaseDate:     h.PurchaseDate,
		})
	}
	return summary
}
