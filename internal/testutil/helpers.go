package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/events"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/service"
)

// FixedNow is the clock used by test services: Monday 2025-03-10 15:00 UTC.
var FixedNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

// TestSeed makes simulated values reproducible across test runs.
const TestSeed = 42

// ServiceDeps bundles the collaborators of a test PortfolioService so tests
// can inspect them after exercising the service.
type ServiceDeps struct {
	Holdings  *repository.HoldingRepository
	Snapshots *repository.SnapshotRepository
	Prices    *MockPrices
	Publisher *RecordingPublisher
}

// TestPortfolioConfig returns a service config without refresh delays and
// with the synthetic fallback disabled, so refresh results are deterministic.
func TestPortfolioConfig() service.PortfolioServiceConfig {
	return service.PortfolioServiceConfig{
		SectorMap:            config.DefaultSectorMap(),
		RefreshDelay:         0,
		SyntheticFallback:    false,
		LiveQuoteConcurrency: 2,
	}
}

// NewTestPortfolioService creates a PortfolioService over a temp holdings file,
// an in-memory snapshot database and mock prices.
func NewTestPortfolioService(t *testing.T, holdings *repository.HoldingRepository, prices *MockPrices) (*service.PortfolioService, ServiceDeps) {
	t.Helper()
	return NewTestPortfolioServiceWithConfig(t, holdings, prices, TestPortfolioConfig())
}

// NewTestPortfolioServiceWithConfig is NewTestPortfolioService with a custom config.
func NewTestPortfolioServiceWithConfig(t *testing.T, holdings *repository.HoldingRepository, prices *MockPrices, cfg service.PortfolioServiceConfig) (*service.PortfolioService, ServiceDeps) {
	t.Helper()

	if holdings == nil {
		holdings = NewHoldingStore(t)
	}
	if prices == nil {
		prices = NewMockPrices()
	}

	deps := ServiceDeps{
		Holdings:  holdings,
		Snapshots: repository.NewSnapshotRepository(SetupTestDB(t)),
		Prices:    prices,
		Publisher: &RecordingPublisher{},
	}

	svc := service.NewPortfolioService(deps.Holdings, deps.Snapshots, deps.Prices, deps.Publisher, cfg, zerolog.Nop()).
		WithClock(func() time.Time { return FixedNow }).
		WithSeed(TestSeed)

	return svc, deps
}

// NewTestStockService creates a StockService over mock prices.
func NewTestStockService(prices *MockPrices) *service.StockService {
	return service.NewStockService(prices)
}

// NewTestInsightService creates an InsightService. A nil generator leaves it unconfigured.
func NewTestInsightService(holdings *repository.HoldingRepository, generator service.TextGenerator) *service.InsightService {
	return service.NewInsightService(holdings, generator, zerolog.Nop())
}

var _ events.Publisher = (*RecordingPublisher)(nil)

// NewTestSystemService creates a SystemService over db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}
