package provider

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

// Resolver answers price lookups from a primary provider and falls back to a
// secondary one when the primary has no usable answer.
// A nil primary sends every lookup straight to the secondary.
type Resolver struct {
	primary   Prices
	secondary Prices
	log       zerolog.Logger
}

// NewResolver creates a Resolver. secondary is required.
func NewResolver(primary, secondary Prices, log zerolog.Logger) *Resolver {
	return &Resolver{
		primary:   primary,
		secondary: secondary,
		log:       log,
	}
}

// PrimaryEnabled reports whether a primary provider is configured.
func (r *Resolver) PrimaryEnabled() bool {
	return r.primary != nil
}

func (r *Resolver) CurrentPrice(ctx context.Context, ticker string) Result {
	if r.primary != nil {
		res := r.primary.CurrentPrice(ctx, ticker)
		if res.OK() {
			return res
		}
		r.log.Debug().Str("ticker", ticker).Str("outcome", res.Outcome.String()).Msg("primary missed current price, using secondary")
	}
	return r.secondary.CurrentPrice(ctx, ticker)
}

func (r *Resolver) HistoricalPrice(ctx context.Context, ticker string, date time.Time) Result {
	if r.primary != nil {
		res := r.primary.HistoricalPrice(ctx, ticker, date)
		if res.OK() {
			return res
		}
		r.log.Debug().Str("ticker", ticker).Str("date", date.Format(model.DateLayout)).
			Str("outcome", res.Outcome.String()).Msg("primary missed historical price, using secondary")
	}
	return r.secondary.HistoricalPrice(ctx, ticker, date)
}

func (r *Resolver) PriceHistory(ctx context.Context, ticker string, period Period) []model.PricePoint {
	if r.primary != nil {
		if series := r.primary.PriceHistory(ctx, ticker, period); len(series) > 0 {
			return series
		}
		r.log.Debug().Str("ticker", ticker).Str("period", string(period)).Msg("primary returned no history, using secondary")
	}
	return r.secondary.PriceHistory(ctx, ticker, period)
}
