package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/repository"
)

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	// Simple creation with defaults
//	holding := testutil.NewHolding().Build()
//
//	// Customized holding
//	holding := testutil.NewHolding().
//	    WithTicker("MSFT").
//	    WithShares(12).
//	    WithPrices(300, 380.50).
//	    Build()
type HoldingBuilder struct {
	holding model.Holding
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding() *HoldingBuilder {
	return &HoldingBuilder{holding: model.Holding{
		ID:           1,
		Ticker:       "AAPL",
		Shares:       10,
		BuyPrice:     150,
		CurrentPrice: 185.20,
		PurchaseDate: "2024-06-15",
		Sector:       "Technology",
	}}
}

// WithID sets a custom ID.
func (b *HoldingBuilder) WithID(id int) *HoldingBuilder {
	b.holding.ID = id
	return b
}

// WithTicker sets a custom ticker.
func (b *HoldingBuilder) WithTicker(ticker string) *HoldingBuilder {
	b.holding.Ticker = ticker
	return b
}

// WithShares sets a custom share count.
func (b *HoldingBuilder) WithShares(shares float64) *HoldingBuilder {
	b.holding.Shares = shares
	return b
}

// WithPrices sets the buy and current price.
func (b *HoldingBuilder) WithPrices(buy, current float64) *HoldingBuilder {
	b.holding.BuyPrice = buy
	b.holding.CurrentPrice = current
	return b
}

// WithPurchaseDate sets a custom purchase date (YYYY-MM-DD).
func (b *HoldingBuilder) WithPurchaseDate(date string) *HoldingBuilder {
	b.holding.PurchaseDate = date
	return b
}

// WithSector sets a custom sector.
func (b *HoldingBuilder) WithSector(sector string) *HoldingBuilder {
	b.holding.Sector = sector
	return b
}

// Build returns the holding.
func (b *HoldingBuilder) Build() model.Holding {
	return b.holding
}

// TempHoldingsPath returns a path inside a per-test temp directory. The file
// does not exist yet, so the first load writes the seed portfolio.
func TempHoldingsPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "portfolio_holdings.csv")
}

// NewHoldingStore creates a holdings repository backed by a temp file
// containing the given holdings. With no holdings the file is left absent.
func NewHoldingStore(t *testing.T, holdings ...model.Holding) *repository.HoldingRepository {
	t.Helper()

	repo := repository.NewHoldingRepository(TempHoldingsPath(t))
	if len(holdings) > 0 {
		if err := repo.Save(holdings); err != nil {
			t.Fatalf("Failed to save test holdings: %v", err)
		}
	}
	return repo
}

// WriteHoldingsFile writes raw CSV content to a temp holdings file and returns its path.
func WriteHoldingsFile(t *testing.T, content string) string {
	t.Helper()

	path := TempHoldingsPath(t)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write holdings file: %v", err)
	}
	return path
}

// LoadHoldings reads the holdings back from the store, failing the test on error.
func LoadHoldings(t *testing.T, repo *repository.HoldingRepository) []model.Holding {
	t.Helper()

	holdings, err := repo.Load()
	if err != nil {
		t.Fatalf("Failed to load holdings: %v", err)
	}
	return holdings
}
