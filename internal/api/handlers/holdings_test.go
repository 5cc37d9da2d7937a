package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/handlers"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/testutil"
)

func setupHoldingHandler(t *testing.T, prices *testutil.MockPrices) (*handlers.HoldingHandler, testutil.ServiceDeps) {
	t.Helper()
	svc, deps := testutil.NewTestPortfolioService(t, nil, prices)
	return handlers.NewHoldingHandler(svc), deps
}

func TestHoldingHandler_Holdings(t *testing.T) {
	t.Run("returns the seed holdings", func(t *testing.T) {
		handler, _ := setupHoldingHandler(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/holdings", nil)
		w := httptest.NewRecorder()

		handler.Holdings(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		holdings := testutil.DecodeJSON[[]model.Holding](t, w)
		if len(holdings) != 5 {
			t.Errorf("Expected 5 holdings, got %d", len(holdings))
		}
	})

	t.Run("returns 500 for a corrupt file", func(t *testing.T) {
		path := testutil.WriteHoldingsFile(t, "garbage\n")
		svc, _ := testutil.NewTestPortfolioService(t, repository.NewHoldingRepository(path), nil)
		handler := handlers.NewHoldingHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/holdings", nil)
		w := httptest.NewRecorder()

		handler.Holdings(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}

//nolint:gocyclo // Comprehensive integration test with multiple subtests
func TestHoldingHandler_AddHolding(t *testing.T) {
	t.Run("creates holding with manual buy price", func(t *testing.T) {
		handler, deps := setupHoldingHandler(t, testutil.NewMockPrices().WithCurrent("AMZN", 180))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/holdings", `{"ticker":"amzn","shares":"3","purchase_date":"2024-08-01","buy_price":120}`)
		w := httptest.NewRecorder()

		handler.AddHolding(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		resp := testutil.DecodeJSON[handlers.AddHoldingResponse](t, w)
		if resp.Holding.Ticker != "AMZN" || resp.Holding.CurrentPrice != 180 {
			t.Errorf("Unexpected holding: %+v", resp.Holding)
		}
		if resp.Message != "Successfully added AMZN to portfolio (bought at $120.00 on 2024-08-01)" {
			t.Errorf("Unexpected message: %s", resp.Message)
		}

		if stored := testutil.LoadHoldings(t, deps.Holdings); len(stored) != 6 {
			t.Errorf("Expected 6 stored holdings, got %d", len(stored))
		}
	})

	tests := []struct {
		name      string
		body      string
		prices    *testutil.MockPrices
		wantError string
	}{
		{name: "malformed JSON", body: `{"ticker":`, wantError: "invalid request body"},
		{name: "empty body", body: ``, wantError: "invalid request body"},
		{name: "empty ticker", body: `{"ticker":"  ","shares":1,"purchase_date":"2024-01-02"}`, wantError: "validation failed"},
		{name: "zero shares", body: `{"ticker":"AMZN","shares":0,"purchase_date":"2024-01-02"}`, wantError: "validation failed"},
		{name: "bad date", body: `{"ticker":"AMZN","shares":1,"purchase_date":"01/02/2024"}`, wantError: "validation failed"},
		{name: "future date", body: `{"ticker":"AMZN","shares":1,"purchase_date":"2999-01-01"}`, wantError: "validation failed"},
		{name: "negative buy price", body: `{"ticker":"AMZN","shares":1,"purchase_date":"2024-01-02","buy_price":-5}`, wantError: "validation failed"},
		{name: "NaN shares", body: `{"ticker":"AMZN","shares":"NaN","purchase_date":"2024-01-02","buy_price":120}`, wantError: "invalid request body"},
		{name: "infinite shares", body: `{"ticker":"AMZN","shares":"Inf","purchase_date":"2024-01-02","buy_price":120}`, wantError: "invalid request body"},
		{name: "NaN buy price", body: `{"ticker":"AMZN","shares":1,"purchase_date":"2024-01-02","buy_price":"NaN"}`, wantError: "invalid request body"},
		{name: "infinite buy price", body: `{"ticker":"AMZN","shares":1,"purchase_date":"2024-01-02","buy_price":"Infinity"}`, wantError: "invalid request body"},
		{name: "duplicate ticker", body: `{"ticker":"aapl","shares":1,"purchase_date":"2024-01-02","buy_price":100}`, wantError: "ticker already exists in portfolio"},
		{name: "unknown ticker", body: `{"ticker":"NOPE","shares":1,"purchase_date":"2024-01-02"}`, wantError: "invalid ticker symbol"},
		{
			name:      "no price for the purchase date",
			body:      `{"ticker":"NEW","shares":1,"purchase_date":"2024-01-02"}`,
			prices:    testutil.NewMockPrices().WithCurrent("NEW", 10),
			wantError: "historical price unavailable",
		},
	}

	for _, tt := range tests {
		t.Run("returns 400 for "+tt.name, func(t *testing.T) {
			handler, deps := setupHoldingHandler(t, tt.prices)

			req := testutil.NewJSONRequest(t, http.MethodPost, "/api/holdings", tt.body)
			w := httptest.NewRecorder()

			handler.AddHolding(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}

			resp := testutil.DecodeJSON[response.ErrorResponse](t, w)
			if resp.Error != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, resp.Error)
			}

			if stored := testutil.LoadHoldings(t, deps.Holdings); len(stored) != 5 {
				t.Errorf("Expected store unchanged at 5 holdings, got %d", len(stored))
			}
		})
	}

	t.Run("validation details name the fields", func(t *testing.T) {
		handler, _ := setupHoldingHandler(t, nil)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/holdings", `{"ticker":"","shares":-1,"purchase_date":""}`)
		w := httptest.NewRecorder()

		handler.AddHolding(w, req)

		body := w.Body.String()
		for _, field := range []string{"ticker", "shares", "purchase_date"} {
			if !strings.Contains(body, `"`+field+`"`) {
				t.Errorf("Expected details to name %s, got %s", field, body)
			}
		}
	})
}

func TestHoldingHandler_DeleteHolding(t *testing.T) {
	t.Run("deletes existing holding", func(t *testing.T) {
		handler, deps := setupHoldingHandler(t, nil)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/holdings/2", map[string]string{"id": "2"})
		w := httptest.NewRecorder()

		handler.DeleteHolding(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		resp := testutil.DecodeJSON[response.MessageResponse](t, w)
		if resp.Message != "Holding deleted successfully" {
			t.Errorf("Unexpected message: %s", resp.Message)
		}
		if stored := testutil.LoadHoldings(t, deps.Holdings); len(stored) != 4 {
			t.Errorf("Expected 4 holdings, got %d", len(stored))
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		handler, deps := setupHoldingHandler(t, nil)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/holdings/42", map[string]string{"id": "42"})
		w := httptest.NewRecorder()

		handler.DeleteHolding(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
		if stored := testutil.LoadHoldings(t, deps.Holdings); len(stored) != 5 {
			t.Errorf("Expected store unchanged, got %d holdings", len(stored))
		}
	})

	for _, id := range []string{"0", "-1", "abc"} {
		t.Run("returns 404 for id "+id, func(t *testing.T) {
			handler, deps := setupHoldingHandler(t, nil)

			req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/holdings/"+id, map[string]string{"id": id})
			w := httptest.NewRecorder()

			handler.DeleteHolding(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Expected 404, got %d", w.Code)
			}
			resp := testutil.DecodeJSON[response.ErrorResponse](t, w)
			if resp.Error != "holding not found" {
				t.Errorf("Expected error %q, got %q", "holding not found", resp.Error)
			}
			if stored := testutil.LoadHoldings(t, deps.Holdings); len(stored) != 5 {
				t.Errorf("Expected store unchanged, got %d holdings", len(stored))
			}
		})
	}
}
