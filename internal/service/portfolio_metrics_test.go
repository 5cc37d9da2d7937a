package service_test

import (
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/testutil"
)

func TestComputeMetrics(t *testing.T) {
	t.Run("seed portfolio totals", func(t *testing.T) {
		m := service.ComputeMetrics(model.SeedHoldings())

		if m.TotalValue != 26887.10 {
			t.Errorf("Expected total value 26887.10, got %v", m.TotalValue)
		}
		if m.TotalCost != 21100 {
			t.Errorf("Expected total cost 21100, got %v", m.TotalCost)
		}
		if m.TotalGainLoss != 5787.10 {
			t.Errorf("Expected gain 5787.10, got %v", m.TotalGainLoss)
		}
		if m.GainLossPercentage != 27.43 {
			t.Errorf("Expected gain percentage 27.43, got %v", m.GainLossPercentage)
		}
	})

	t.Run("empty portfolio is all zero", func(t *testing.T) {
		m := service.ComputeMetrics(nil)

		if m != (model.PortfolioMetrics{}) {
			t.Errorf("Expected zero metrics, got %+v", m)
		}
	})

	t.Run("fractional shares sum without drift", func(t *testing.T) {
		holdings := []model.Holding{
			testutil.NewHolding().WithShares(0.1).WithPrices(0.1, 0.2).Build(),
			testutil.NewHolding().WithShares(0.2).WithPrices(0.1, 0.2).Build(),
		}

		m := service.ComputeMetrics(holdings)
		if m.TotalValue != 0.06 {
			t.Errorf("Expected total value 0.06, got %v", m.TotalValue)
		}
		if m.GainLossPercentage != 100 {
			t.Errorf("Expected gain percentage 100, got %v", m.GainLossPercentage)
		}
	})
}

func TestBestWorstPerformers(t *testing.T) {
	t.Run("seed portfolio", func(t *testing.T) {
		best, worst := service.BestWorstPerformers(model.SeedHoldings())

		if best == nil || best.Ticker != "NVDA" || best.ReturnPct != 118.8 {
			t.Errorf("Expected best NVDA 118.8, got %+v", best)
		}
		if worst == nil || worst.Ticker != "GOOGL" || worst.ReturnPct != 10.43 {
			t.Errorf("Expected worst GOOGL 10.43, got %+v", worst)
		}
	})

	t.Run("ties resolve to the first holding", func(t *testing.T) {
		holdings := []model.Holding{
			testutil.NewHolding().WithTicker("AAA").WithPrices(100, 110).Build(),
			testutil.NewHolding().WithTicker("BBB").WithPrices(50, 55).Build(),
		}

		best, worst := service.BestWorstPerformers(holdings)
		if best.Ticker != "AAA" || worst.Ticker != "AAA" {
			t.Errorf("Expected AAA for both on a tie, got best=%s worst=%s", best.Ticker, worst.Ticker)
		}
	})

	t.Run("empty portfolio has no performers", func(t *testing.T) {
		best, worst := service.BestWorstPerformers(nil)
		if best != nil || worst != nil {
			t.Errorf("Expected nil performers, got %+v %+v", best, worst)
		}
	})
}

func TestSectorBreakdown(t *testing.T) {
	t.Run("seed portfolio", func(t *testing.T) {
		breakdown := service.SectorBreakdown(model.SeedHoldings())

		if len(breakdown) != 2 {
			t.Fatalf("Expected 2 sectors, got %d", len(breakdown))
		}

		tech, cyclical := breakdown[0], breakdown[1]
		if tech.Sector != "Technology" || tech.Value != 24920.7 || tech.Percentage != 92.69 {
			t.Errorf("Unexpected Technology allocation: %+v", tech)
		}
		if cyclical.Sector != "Consumer Cyclical" || cyclical.Value != 1966.4 || cyclical.Percentage != 7.31 {
			t.Errorf("Unexpected Consumer Cyclical allocation: %+v", cyclical)
		}
		if tech.Color != "#00FFFF" || cyclical.Color != "#FF00FF" {
			t.Errorf("Expected colours by first appearance, got %s and %s", tech.Color, cyclical.Color)
		}
	})

	t.Run("sorted by value with percentages summing to 100", func(t *testing.T) {
		holdings := []model.Holding{
			testutil.NewHolding().WithTicker("JPM").WithSector("Financial").WithShares(1).WithPrices(1, 100).Build(),
			testutil.NewHolding().WithTicker("JNJ").WithSector("Healthcare").WithShares(1).WithPrices(1, 300).Build(),
			testutil.NewHolding().WithTicker("WMT").WithSector("Consumer Defensive").WithShares(1).WithPrices(1, 200).Build(),
		}

		breakdown := service.SectorBreakdown(holdings)

		sum := 0.0
		for i, s := range breakdown {
			sum += s.Percentage
			if i > 0 && breakdown[i-1].Value < s.Value {
				t.Errorf("Expected descending order, got %v before %v", breakdown[i-1].Value, s.Value)
			}
		}
		if sum < 99.99 || sum > 100.01 {
			t.Errorf("Expected percentages to sum to 100, got %v", sum)
		}
		if breakdown[0].Sector != "Healthcare" || breakdown[0].Color != "#FF00FF" {
			t.Errorf("Expected Healthcare first with its first-appearance colour, got %+v", breakdown[0])
		}
	})

	t.Run("empty portfolio", func(t *testing.T) {
		if breakdown := service.SectorBreakdown(nil); len(breakdown) != 0 {
			t.Errorf("Expected empty breakdown, got %v", breakdown)
		}
	})
}

func TestBuildPortfolioContext(t *testing.T) {
	summary := service.BuildPortfolioContext(model.SeedHoldings())

	if summary.TotalHoldings != 5 {
		t.Errorf("Expected 5 holdings, got %d", summary.TotalHoldings)
	}
	if summary.TotalValue != 26887.10 {
		t.Errorf("Expected total value 26887.10, got %v", summary.TotalValue)
	}

	aapl := summary.Holdings[0]
	if aapl.MarketValue != 1852 || aapl.ReturnPercentage != 23.47 {
		t.Errorf("Unexpected AAPL context: %+v", aapl)
	}
}
