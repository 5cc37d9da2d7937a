package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/provider"
)

// MockPrices is an in-memory implementation of provider.Prices for testing.
// Tickers without a configured price resolve to provider.NoData.
type MockPrices struct {
	mu         sync.Mutex
	current    map[string]float64
	historical map[string]float64 // ticker|YYYY-MM-DD
	history    map[string][]model.PricePoint
	failing    map[string]bool

	currentCalls    int
	historicalCalls int
	historyCalls    int
}

// NewMockPrices creates a MockPrices with no configured prices.
func NewMockPrices() *MockPrices {
	return &MockPrices{
		current:    make(map[string]float64),
		historical: make(map[string]float64),
		history:    make(map[string][]model.PricePoint),
		failing:    make(map[string]bool),
	}
}

// WithCurrent configures the current price of a ticker.
func (m *MockPrices) WithCurrent(ticker string, price float64) *MockPrices {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current[ticker] = price
	return m
}

// WithHistorical configures the close of a ticker on a date (YYYY-MM-DD).
func (m *MockPrices) WithHistorical(ticker, date string, price float64) *MockPrices {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historical[ticker+"|"+date] = price
	return m
}

// WithHistory configures the price series returned for a ticker regardless of period.
func (m *MockPrices) WithHistory(ticker string, series []model.PricePoint) *MockPrices {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[ticker] = series
	return m
}

// WithFailure makes every lookup of the ticker fail instead of reporting no data.
func (m *MockPrices) WithFailure(ticker string) *MockPrices {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[ticker] = true
	return m
}

// CurrentPrice implements provider.Prices.
func (m *MockPrices) CurrentPrice(_ context.Context, ticker string) provider.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentCalls++

	price, ok := m.current[ticker]
	return m.result(ticker, price, ok)
}

// HistoricalPrice implements provider.Prices.
func (m *MockPrices) HistoricalPrice(_ context.Context, ticker string, date time.Time) provider.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historicalCalls++

	price, ok := m.historical[ticker+"|"+date.Format(model.DateLayout)]
	return m.result(ticker, price, ok)
}

// PriceHistory implements provider.Prices.
func (m *MockPrices) PriceHistory(_ context.Context, ticker string, _ provider.Period) []model.PricePoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyCalls++

	if series, ok := m.history[ticker]; ok {
		return series
	}
	return []model.PricePoint{}
}

// Calls returns the number of calls per operation.
func (m *MockPrices) Calls() (current, historical, history int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentCalls, m.historicalCalls, m.historyCalls
}

func (m *MockPrices) result(ticker string, price float64, ok bool) provider.Result {
	switch {
	case m.failing[ticker]:
		return provider.Result{Outcome: provider.Failed, Source: "mock", Err: context.DeadlineExceeded}
	case !ok:
		return provider.Result{Outcome: provider.NoData, Source: "mock", Err: provider.ErrNoData}
	default:
		return provider.Result{Price: price, Outcome: provider.Found, Source: "mock"}
	}
}

// MockGenerator is a service.TextGenerator returning a fixed reply.
type MockGenerator struct {
	mu         sync.Mutex
	Reply      string
	Err        error
	LastPrompt string
}

// Generate records the prompt and returns the configured reply.
func (g *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.LastPrompt = prompt
	if g.Err != nil {
		return "", g.Err
	}
	return g.Reply, nil
}

// RecordingPublisher is an events.Publisher that keeps published events in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []model.PortfolioEvent
	Err    error
}

// Publish records the event.
func (p *RecordingPublisher) Publish(_ context.Context, event model.PortfolioEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

// Close implements events.Publisher.
func (p *RecordingPublisher) Close() error { return nil }

// Events returns a copy of the published events.
func (p *RecordingPublisher) Events() []model.PortfolioEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.PortfolioEvent(nil), p.events...)
}
