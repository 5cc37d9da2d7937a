package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/cache"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

// Historical lookup windows, in calendar days around the requested date.
const (
	historicalLookbackDays  = 7
	historicalLookaheadDays = 1
	widenedLookbackDays     = 365
)

// sharedCallTimeout bounds an upstream call shared by concurrent callers.
// The call outlives any single caller, so it cannot rely on their deadlines.
const sharedCallTimeout = 2 * time.Minute

// AdapterConfig configures an Adapter.
type AdapterConfig struct {
	// HistoricalDelay is waited before every upstream historical call, to stay
	// under the rate limits of throttled sources.
	HistoricalDelay time.Duration
	Logger          zerolog.Logger
}

// Adapter exposes a Source through the Prices contract.
// It owns the price cache for that source, so a miss on one provider never
// writes into another provider's cache.
type Adapter struct {
	source          Source
	cache           *cache.PriceCache
	group           singleflight.Group
	historicalDelay time.Duration
	log             zerolog.Logger
}

// NewAdapter creates an Adapter for source backed by priceCache.
func NewAdapter(source Source, priceCache *cache.PriceCache, cfg AdapterConfig) *Adapter {
	return &Adapter{
		source:          source,
		cache:           priceCache,
		historicalDelay: cfg.HistoricalDelay,
		log:             cfg.Logger.With().Str("provider", source.Name()).Logger(),
	}
}

// Name returns the name of the wrapped source.
func (a *Adapter) Name() string {
	return a.source.Name()
}

// CurrentPrice returns the latest price of ticker.
func (a *Adapter) CurrentPrice(ctx context.Context, ticker string) Result {
	ticker = model.NormalizeTicker(ticker)
	key := cache.CurrentKey(ticker)

	if price, ok := a.cache.Get(key); ok {
		a.log.Debug().Str("ticker", ticker).Float64("price", price).Msg("current price cache hit")
		return Result{Price: price, Outcome: Found, Source: a.Name(), Cached: true}
	}

	price, err := a.fetch(ctx, key, func(ctx context.Context) (float64, error) {
		return a.source.Quote(ctx, ticker)
	})
	if err != nil {
		return a.absent(ticker, "current", err)
	}

	a.log.Debug().Str("ticker", ticker).Float64("price", price).Msg("current price fetched")
	return Result{Price: price, Outcome: Found, Source: a.Name()}
}

// HistoricalPrice returns the close of ticker on date, or on the closest prior
// trading day when date was not one.
func (a *Adapter) HistoricalPrice(ctx context.Context, ticker string, date time.Time) Result {
	ticker = model.NormalizeTicker(ticker)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	key := cache.DateKey(ticker, day.Format(model.DateLayout))

	if price, ok := a.cache.Get(key); ok {
		a.log.Debug().Str("ticker", ticker).Str("date", key.AsOf).Float64("price", price).Msg("historical price cache hit")
		return Result{Price: price, Outcome: Found, Source: a.Name(), Cached: true}
	}

	if err := Wait(ctx, a.historicalDelay); err != nil {
		return a.absent(ticker, key.AsOf, err)
	}

	price, err := a.fetch(ctx, key, func(ctx context.Context) (float64, error) {
		return a.historicalClose(ctx, ticker, day)
	})
	if err != nil {
		return a.absent(ticker, key.AsOf, err)
	}

	a.log.Debug().Str("ticker", ticker).Str("date", key.AsOf).Float64("price", price).Msg("historical price fetched")
	return Result{Price: price, Outcome: Found, Source: a.Name()}
}

// PriceHistory returns the daily series of ticker for period, oldest first.
// Failures yield an empty series.
func (a *Adapter) PriceHistory(ctx context.Context, ticker string, period Period) []model.PricePoint {
	ticker = model.NormalizeTicker(ticker)

	var series []model.PricePoint
	err := contain(func() error {
		var err error
		series, err = a.source.History(ctx, ticker, period)
		return err
	})
	if err != nil {
		a.absent(ticker, string(period), err)
		return []model.PricePoint{}
	}
	if len(series) == 0 {
		return []model.PricePoint{}
	}
	return SortSeries(series)
}

func (a *Adapter) historicalClose(ctx context.Context, ticker string, day time.Time) (float64, error) {
	end := day.AddDate(0, 0, historicalLookaheadDays)
	series, err := a.source.DailySeries(ctx, ticker, day.AddDate(0, 0, -historicalLookbackDays), end)
	if err != nil && !errors.Is(err, ErrNoData) {
		return 0, err
	}

	if len(series) == 0 {
		a.log.Debug().Str("ticker", ticker).Str("date", day.Format(model.DateLayout)).Msg("no trading days in window, widening to one year")
		series, err = a.source.DailySeries(ctx, ticker, day.AddDate(0, 0, -widenedLookbackDays), end)
		if err != nil {
			return 0, err
		}
	}

	point, ok := MatchClose(series, day)
	if !ok {
		return 0, fmt.Errorf("%w: no trading days for %s before %s", ErrNoData, ticker, day.Format(model.DateLayout))
	}
	return point.Close, nil
}

// fetch runs an upstream call once per key across concurrent callers and
// caches a successful price. The call runs on a context detached from ctx, so
// a caller that gives up does not fail the others waiting on the same key.
func (a *Adapter) fetch(ctx context.Context, key cache.Key, call func(context.Context) (float64, error)) (float64, error) {
	shared := context.WithoutCancel(ctx)
	ch := a.group.DoChan(key.Ticker+"|"+key.AsOf, func() (any, error) {
		callCtx, cancel := context.WithTimeout(shared, sharedCallTimeout)
		defer cancel()

		var price float64
		err := contain(func() error {
			var err error
			price, err = call(callCtx)
			return err
		})
		if err != nil {
			return 0, err
		}
		a.cache.Set(key, price)
		return price, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(float64), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (a *Adapter) absent(ticker, asOf string, err error) Result {
	if errors.Is(err, ErrNoData) {
		a.log.Info().Str("ticker", ticker).Str("as_of", asOf).Err(err).Msg("no price data")
		return Result{Outcome: NoData, Source: a.Name(), Err: err}
	}
	a.log.Warn().Str("ticker", ticker).Str("as_of", asOf).Err(err).Msg("price lookup failed")
	return Result{Outcome: Failed, Source: a.Name(), Err: err}
}

// contain runs fn and turns a panic into an error.
func contain(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in price source: %v", r)
		}
	}()
	return fn()
}
