package provider

import (
	"slices"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

// MatchClose picks the trading day used as the price for target:
//  1. the point dated exactly on target;
//  2. otherwise the latest point dated before target;
//  3. otherwise the earliest point of the series.
//
// Dates are compared as UTC calendar days. Returns false only for an empty series.
func MatchClose(series []model.PricePoint, target time.Time) (model.PricePoint, bool) {
	if len(series) == 0 {
		return model.PricePoint{}, false
	}

	sorted := SortSeries(series)
	targetKey := target.UTC().Format(model.DateLayout)

	var prior *model.PricePoint
	for i := range sorted {
		key := sorted[i].DateKey()
		if key == targetKey {
			return sorted[i], true
		}
		if key < targetKey {
			prior = &sorted[i]
		}
	}
	if prior != nil {
		return *prior, true
	}
	return sorted[0], true
}

// SortSeries returns a copy of the series ordered oldest to newest.
func SortSeries(series []model.PricePoint) []model.PricePoint {
	sorted := slices.Clone(series)
	slices.SortStableFunc(sorted, func(a, b model.PricePoint) int {
		return a.Date.Compare(b.Date)
	})
	return sorted
}
