package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/provider"
)

// StockService serves per-ticker price data independent of the holdings.
type StockService struct {
	prices provider.Prices
}

// NewStockService creates a new StockService.
func NewStockService(prices provider.Prices) *StockService {
	return &StockService{prices: prices}
}

// History returns the daily price history of a ticker over the period, oldest first.
// Returns ErrHistoryUnavailable when no provider has data.
func (s *StockService) History(ctx context.Context, ticker string, period provider.Period) ([]model.HistoryPoint, error) {
	ticker = model.NormalizeTicker(ticker)

	series := s.prices.PriceHistory(ctx, ticker, period)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", apperrors.ErrHistoryUnavailable, ticker, period)
	}

	history := make([]model.HistoryPoint, 0, len(series))
	for _, p := range series {
		history = append(history, p.ToHistoryPoint())
	}
	return history, nil
}
