// Package provider resolves stock prices from market-data sources.
//
// A Source talks to one upstream API. An Adapter wraps a Source with its own
// price cache, the historical date-matching policy and error containment: no
// Adapter operation ever returns an error, only a Result whose Outcome tells a
// missing price apart from a failed call. A Resolver chains two Adapters so the
// secondary is only consulted when the primary has no usable answer.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

// ErrNoData marks an upstream answer that was well-formed but carried no price,
// e.g. an unknown ticker or a date range without trading days.
var ErrNoData = errors.New("no data")

// Outcome classifies the result of a price lookup.
type Outcome int

const (
	// Found means a price was resolved.
	Found Outcome = iota
	// NoData means the source answered but had no price for the request.
	NoData
	// Failed means the call itself failed (transport, status, parsing, rate limit).
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NoData:
		return "no_data"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single price lookup.
type Result struct {
	Price   float64
	Outcome Outcome
	Source  string
	Cached  bool
	Err     error // Set for NoData and Failed outcomes
}

// OK reports whether the lookup resolved a price.
func (r Result) OK() bool {
	return r.Outcome == Found
}

// Source is an upstream market-data API.
// Implementations return an error wrapping ErrNoData when the upstream has no
// price for the request, and any other error for failed calls.
type Source interface {
	Name() string
	// Quote returns the current price of a ticker.
	Quote(ctx context.Context, ticker string) (float64, error)
	// DailySeries returns daily prices between start and end (both inclusive).
	DailySeries(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error)
	// History returns daily prices for a named period.
	History(ctx context.Context, ticker string, period Period) ([]model.PricePoint, error)
}

// Prices is the price lookup contract shared by Adapter and Resolver.
type Prices interface {
	CurrentPrice(ctx context.Context, ticker string) Result
	HistoricalPrice(ctx context.Context, ticker string, date time.Time) Result
	PriceHistory(ctx context.Context, ticker string, period Period) []model.PricePoint
}

// Wait blocks for d or until ctx is done, whichever comes first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
