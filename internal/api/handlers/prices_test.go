package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/handlers"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/testutil"
)

func setupPriceHandler(t *testing.T, prices *testutil.MockPrices) *handlers.PriceHandler {
	t.Helper()
	svc, _ := testutil.NewTestPortfolioService(t, nil, prices)
	return handlers.NewPriceHandler(testutil.NewTestStockService(prices), svc)
}

func TestPriceHandler_StockHistory(t *testing.T) {
	series := []model.PricePoint{
		{Date: time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), Close: 214.24},
		{Date: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), Close: 212.49},
	}

	tests := []struct {
		name       string
		ticker     string
		period     string
		wantStatus int
		wantPeriod string
	}{
		{name: "default period", ticker: "AAPL", wantStatus: http.StatusOK, wantPeriod: "1mo"},
		{name: "explicit period", ticker: "aapl", period: "6mo", wantStatus: http.StatusOK, wantPeriod: "6mo"},
		{name: "unknown period", ticker: "AAPL", period: "3w", wantStatus: http.StatusBadRequest},
		{name: "unknown ticker", ticker: "NOPE", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupPriceHandler(t, testutil.NewMockPrices().WithHistory("AAPL", series))

			req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/stock-history/"+tt.ticker, map[string]string{"ticker": tt.ticker})
			if tt.period != "" {
				req.URL.RawQuery = "period=" + tt.period
			}
			w := httptest.NewRecorder()

			handler.StockHistory(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			resp := testutil.DecodeJSON[handlers.StockHistoryResponse](t, w)
			if resp.Ticker != "AAPL" || string(resp.Period) != tt.wantPeriod {
				t.Errorf("Expected AAPL/%s, got %s/%s", tt.wantPeriod, resp.Ticker, resp.Period)
			}
			if len(resp.History) != 2 || resp.History[1].Price != 212.49 || resp.History[1].FormattedDate != "Jun 14" {
				t.Errorf("Unexpected history: %+v", resp.History)
			}
		})
	}
}

func TestPriceHandler_RealTimePrices(t *testing.T) {
	handler := setupPriceHandler(t, testutil.NewMockPrices().WithCurrent("NVDA", 900).WithFailure("AAPL"))

	req := httptest.NewRequest(http.MethodGet, "/api/real-time-prices", nil)
	w := httptest.NewRecorder()

	handler.RealTimePrices(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	quotes := testutil.DecodeJSON[map[string]model.LiveQuote](t, w)
	if len(quotes) != 1 {
		t.Fatalf("Expected only NVDA, got %v", quotes)
	}
	if nvda := quotes["NVDA"]; nvda.Price != 900 || nvda.Change != 24.8 || nvda.ChangePercent != 2.83 {
		t.Errorf("Unexpected NVDA quote: %+v", nvda)
	}
}
