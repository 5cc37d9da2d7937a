package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/events"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/provider"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/validation"
)

// defaultSector is assigned when neither the sector map nor the request names one.
const defaultSector = "Other"

// PortfolioServiceConfig holds the tunables of PortfolioService.
type PortfolioServiceConfig struct {
	SectorMap            map[string]string
	RefreshDelay         time.Duration // Pause between upstream lookups during a refresh
	SyntheticFallback    bool          // Perturb unresolved prices during a refresh
	LiveQuoteConcurrency int
}

// PortfolioService handles portfolio-related business logic operations.
// Holdings are always read fresh from the holdings repository; prices come
// from the injected price lookup.
type PortfolioService struct {
	holdingRepo  *repository.HoldingRepository
	snapshotRepo *repository.SnapshotRepository
	prices       provider.Prices
	publisher    events.Publisher
	cfg          PortfolioServiceConfig
	log          zerolog.Logger
	now          func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// PortfolioView is the portfolio with its aggregate metrics.
type PortfolioView struct {
	Holdings []model.Holding       `json:"holdings"`
	Metrics  model.PortfolioMetrics `json:"metrics"`
}

// RefreshResult is the outcome of a bulk price refresh.
type RefreshResult struct {
	PortfolioView
	LiveCount int // Holdings priced from live data
	Total     int
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	holdingRepo *repository.HoldingRepository,
	snapshotRepo *repository.SnapshotRepository,
	prices provider.Prices,
	publisher events.Publisher,
	cfg PortfolioServiceConfig,
	log zerolog.Logger,
) *PortfolioService {
	if cfg.LiveQuoteConcurrency < 1 {
		cfg.LiveQuoteConcurrency = 1
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PortfolioService{
		holdingRepo:  holdingRepo,
		snapshotRepo: snapshotRepo,
		prices:       prices,
		publisher:    publisher,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// WithClock replaces the time source.
func (s *PortfolioService) WithClock(now func() time.Time) *PortfolioService {
	s.now = now
	return s
}

// WithSeed makes the simulated values reproducible.
func (s *PortfolioService) WithSeed(seed uint64) *PortfolioService {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng = rand.New(rand.NewPCG(seed, seed))
	return s
}

// GetHoldings returns all holdings in file order.
func (s *PortfolioService) GetHoldings(_ context.Context) ([]model.Holding, error) {
	holdings, err := s.holdingRepo.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadHoldings, err)
	}
	return holdings, nil
}

// GetPortfolio returns all holdings with their aggregate metrics.
func (s *PortfolioService) GetPortfolio(ctx context.Context) (PortfolioView, error) {
	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return PortfolioView{}, err
	}
	return PortfolioView{Holdings: holdings, Metrics: ComputeMetrics(holdings)}, nil
}

// GetDetailedMetrics returns the metrics together with holding count and best/worst performers.
func (s *PortfolioService) GetDetailedMetrics(ctx context.Context) (model.DetailedMetrics, error) {
	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return model.DetailedMetrics{}, err
	}
	return ComputeDetailedMetrics(holdings), nil
}

// GetSectorBreakdown returns the portfolio value per sector, largest first.
func (s *PortfolioService) GetSectorBreakdown(ctx context.Context) ([]model.SectorAllocation, error) {
	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return nil, err
	}
	return SectorBreakdown(holdings), nil
}

// AddHolding validates and stores a new holding.
// The request is expected to have passed validation.ValidateAddHolding.
//
// Without a manual buy price, the ticker must resolve a current price
// (ErrInvalidTicker otherwise) and a close for the purchase date
// (ErrPriceUnavailable otherwise). Duplicate tickers return ErrDuplicateTicker.
func (s *PortfolioService) AddHolding(ctx context.Context, req request.AddHoldingRequest) (model.Holding, error) {
	ticker := model.NormalizeTicker(req.Ticker)
	purchaseDate := strings.TrimSpace(req.PurchaseDate)

	date, err := model.ParseDate(purchaseDate)
	if err != nil {
		return model.Holding{}, fmt.Errorf("invalid purchase date %q: %w", purchaseDate, err)
	}

	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return model.Holding{}, err
	}
	if model.FindByTicker(holdings, ticker) >= 0 {
		return model.Holding{}, fmt.Errorf("%w: %s", apperrors.ErrDuplicateTicker, ticker)
	}

	var buyPrice, currentPrice float64
	if req.BuyPrice.Set {
		buyPrice = req.BuyPrice.Value
		currentPrice = buyPrice
		if res := s.prices.CurrentPrice(ctx, ticker); res.OK() {
			currentPrice = res.Price
		}
	} else {
		current := s.prices.CurrentPrice(ctx, ticker)
		if !current.OK() {
			return model.Holding{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidTicker, ticker)
		}
		historical := s.prices.HistoricalPrice(ctx, ticker, date)
		if !historical.OK() {
			return model.Holding{}, fmt.Errorf("%w: %s on %s", apperrors.ErrPriceUnavailable, ticker, purchaseDate)
		}
		buyPrice, currentPrice = historical.Price, current.Price
	}

	holding := model.Holding{
		Ticker:       ticker,
		Shares:       req.Shares.Value,
		BuyPrice:     model.Round2(buyPrice),
		CurrentPrice: model.Round2(currentPrice),
		PurchaseDate: purchaseDate,
		Sector:       s.sectorFor(ticker, req.Sector),
	}

	// Price lookups ran without the lock; re-check for a concurrent add of the same ticker.
	_, err = s.holdingRepo.Update(func(current []model.Holding) ([]model.Holding, error) {
		if model.FindByTicker(current, ticker) >= 0 {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateTicker, ticker)
		}
		holding.ID = model.NextHoldingID(current)
		return append(current, holding), nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateTicker) {
			return model.Holding{}, err
		}
		return model.Holding{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSaveHoldings, err)
	}

	s.log.Info().Int("holding_id", holding.ID).Str("ticker", ticker).Float64("buy_price", holding.BuyPrice).Msg("holding added")
	s.publish(ctx, model.PortfolioEvent{EventType: model.EventHoldingAdded, HoldingID: holding.ID, Ticker: ticker})
	return holding, nil
}

// DeleteHolding removes the holding with the given ID and returns it.
func (s *PortfolioService) DeleteHolding(ctx context.Context, id int) (model.Holding, error) {
	var removed model.Holding

	_, err := s.holdingRepo.Update(func(current []model.Holding) ([]model.Holding, error) {
		for i, h := range current {
			if h.ID == id {
				removed = h
				return append(current[:i:i], current[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %d", apperrors.ErrHoldingNotFound, id)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			return model.Holding{}, err
		}
		return model.Holding{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSaveHoldings, err)
	}

	s.log.Info().Int("holding_id", id).Str("ticker", removed.Ticker).Msg("holding deleted")
	s.publish(ctx, model.PortfolioEvent{EventType: model.EventHoldingRemoved, HoldingID: id, Ticker: removed.Ticker})
	return removed, nil
}

// RefreshPrices updates the current price of every holding.
// Lookups run one at a time with the configured delay between upstream calls.
// Unresolved prices are perturbed by ±5% when the synthetic fallback is enabled
// and left unchanged otherwise. New prices are merged by holding ID into a fresh
// load, so holdings added or removed meanwhile are kept as they are.
func (s *PortfolioService) RefreshPrices(ctx context.Context) (RefreshResult, error) {
	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	updates := make(map[int]float64, len(holdings))
	live := 0
	lastCached := true
	for i, h := range holdings {
		if i > 0 && !lastCached {
			if err := provider.Wait(ctx, s.cfg.RefreshDelay); err != nil {
				return RefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
			}
		}

		res := s.prices.CurrentPrice(ctx, h.Ticker)
		lastCached = res.Cached
		switch {
		case res.OK():
			updates[h.ID] = model.Round2(res.Price)
			live++
		case s.cfg.SyntheticFallback:
			updates[h.ID] = model.Round2(h.CurrentPrice * s.uniform(0.95, 1.05))
			s.log.Debug().Str("ticker", h.Ticker).Msg("no live price, applied synthetic variation")
		}
	}

	updated, err := s.holdingRepo.Update(func(current []model.Holding) ([]model.Holding, error) {
		for i := range current {
			if price, ok := updates[current[i].ID]; ok {
				current[i].CurrentPrice = price
			}
		}
		return current, nil
	})
	if err != nil {
		return RefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSaveHoldings, err)
	}

	metrics := ComputeMetrics(updated)
	if _, err := s.recordSnapshot(ctx, updated, metrics); err != nil {
		s.log.Warn().Err(err).Msg("failed to record snapshot after refresh")
	}

	s.log.Info().Int("live", live).Int("total", len(holdings)).Msg("prices refreshed")
	s.publish(ctx, model.PortfolioEvent{EventType: model.EventPricesRefreshed, HoldingsCount: len(updated), UpdatedCount: live})

	return RefreshResult{
		PortfolioView: PortfolioView{Holdings: updated, Metrics: metrics},
		LiveCount:     live,
		Total:         len(holdings),
	}, nil
}

// GetLivePrices resolves the current price of every holding and compares it
// with the stored price. Tickers without a price are omitted.
func (s *PortfolioService) GetLivePrices(ctx context.Context) (map[string]model.LiveQuote, error) {
	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	quotes := make(map[string]model.LiveQuote, len(holdings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.LiveQuoteConcurrency)
	for _, h := range holdings {
		g.Go(func() error {
			res := s.prices.CurrentPrice(gctx, h.Ticker)
			if !res.OK() {
				return nil
			}

			quote := model.LiveQuote{
				Price:  model.Round2(res.Price),
				Change: round(res.Price - h.CurrentPrice),
			}
			if h.CurrentPrice > 0 {
				quote.ChangePercent = round((res.Price - h.CurrentPrice) / h.CurrentPrice * 100)
			}

			mu.Lock()
			quotes[h.Ticker] = quote
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return quotes, nil
}

// GetPortfolioHistory returns one value per day from today-days to today.
// Days with a recorded snapshot use it; other days are simulated around the
// current portfolio value.
func (s *PortfolioService) GetPortfolioHistory(ctx context.Context, days int) ([]model.HistoryValue, error) {
	if days < 1 || days > validation.MaxHistoryDays {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidDays, days)
	}

	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return nil, err
	}
	currentValue := ComputeMetrics(holdings).TotalValue

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -days)

	recorded := make(map[string]float64)
	snapshots, err := s.snapshotRepo.GetSince(ctx, start)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load snapshots, history is fully simulated")
	}
	for _, snap := range snapshots {
		recorded[snap.Date.Format(model.DateLayout)] = snap.TotalValue
	}

	history := make([]model.HistoryValue, 0, days+1)
	for i := days; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		point := model.HistoryValue{
			Date:          date.Format(model.DateLayout),
			FormattedDate: date.Format(model.ShortDateLayout),
		}

		if value, ok := recorded[point.Date]; ok {
			point.Value = round(value)
			point.Source = model.HistorySourceSnapshot
		} else {
			dailyReturn := s.normal(0.001, 0.02)
			base := currentValue * (1 + dailyReturn*float64(i)*0.1)
			point.Value = round(base * s.uniform(0.95, 1.05))
			point.Source = model.HistorySourceSimulated
		}
		history = append(history, point)
	}

	return history, nil
}

// RecordSnapshot stores today's portfolio valuation, replacing an earlier snapshot of today.
func (s *PortfolioService) RecordSnapshot(ctx context.Context) (model.PortfolioSnapshot, error) {
	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}
	return s.recordSnapshot(ctx, holdings, ComputeMetrics(holdings))
}

func (s *PortfolioService) recordSnapshot(ctx context.Context, holdings []model.Holding, metrics model.PortfolioMetrics) (model.PortfolioSnapshot, error) {
	now := s.now().UTC()
	snapshot, err := s.snapshotRepo.Upsert(ctx, model.PortfolioSnapshot{
		Date:          time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		TotalValue:    metrics.TotalValue,
		TotalCost:     metrics.TotalCost,
		HoldingsCount: len(holdings),
		CreatedAt:     now,
	})
	if err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordSnapshot, err)
	}

	s.log.Debug().Str("date", snapshot.Date.Format(model.DateLayout)).Float64("total_value", snapshot.TotalValue).Msg("snapshot recorded")
	return snapshot, nil
}

func (s *PortfolioService) sectorFor(ticker, requested string) string {
	if sector, ok := s.cfg.SectorMap[ticker]; ok {
		return sector
	}
	if requested = strings.TrimSpace(requested); requested != "" {
		return requested
	}
	return defaultSector
}

func (s *PortfolioService) publish(ctx context.Context, event model.PortfolioEvent) {
	event.Timestamp = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event_type", event.EventType).Msg("failed to publish event")
	}
}

func (s *PortfolioService) uniform(lo, hi float64) float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *PortfolioService) normal(mean, stddev float64) float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return mean + s.rng.NormFloat64()*stddev
}
