package provider

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/cache"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

type seriesCall struct {
	start, end time.Time
}

// fakeSource is a scripted Source that records every call.
type fakeSource struct {
	name string

	mu           sync.Mutex
	quote        float64
	quoteErr     error
	quotePanic   bool
	quoteGate    chan struct{} // When set, Quote blocks until closed or ctx ends
	quoteStarted chan struct{}
	series       [][]model.PricePoint // One answer per DailySeries call, last one repeats
	seriesErr    error
	history      []model.PricePoint
	historyErr   error
	quoteCalls   int
	seriesCalls  []seriesCall
	historyCalls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Quote(ctx context.Context, _ string) (float64, error) {
	f.mu.Lock()
	f.quoteCalls++
	quote, err, gate, started := f.quote, f.quoteErr, f.quoteGate, f.quoteStarted
	shouldPanic := f.quotePanic
	f.mu.Unlock()

	if shouldPanic {
		panic("unexpected payload")
	}
	if gate != nil {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return quote, err
}

func (f *fakeSource) DailySeries(_ context.Context, _ string, start, end time.Time) ([]model.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seriesCalls = append(f.seriesCalls, seriesCall{start: start, end: end})
	if f.seriesErr != nil {
		return nil, f.seriesErr
	}
	if len(f.series) == 0 {
		return nil, nil
	}
	idx := min(len(f.seriesCalls)-1, len(f.series)-1)
	return f.series[idx], nil
}

func (f *fakeSource) History(_ context.Context, _ string, _ Period) ([]model.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	return f.history, f.historyErr
}

func (f *fakeSource) calls() (quote, series, history int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quoteCalls, len(f.seriesCalls), f.historyCalls
}

func newTestAdapter(src *fakeSource) (*Adapter, *cache.PriceCache) {
	c := cache.New(cache.Config{CurrentTTL: time.Minute, HistoricalTTL: time.Hour})
	return NewAdapter(src, c, AdapterConfig{Logger: zerolog.Nop()}), c
}

func day(value string) time.Time {
	d, err := model.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func point(date string, closePrice float64) model.PricePoint {
	return model.PricePoint{Date: day(date), Close: closePrice}
}
