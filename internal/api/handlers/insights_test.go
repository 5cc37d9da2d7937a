package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/handlers"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/testutil"
)

func TestInsightHandler_Insights(t *testing.T) {
	t.Run("returns insights and summary", func(t *testing.T) {
		gen := &testutil.MockGenerator{Reply: "Your portfolio is concentrated in technology."}
		handler := handlers.NewInsightHandler(testutil.NewTestInsightService(testutil.NewHoldingStore(t), gen))

		req := httptest.NewRequest(http.MethodPost, "/api/ai-insights", nil)
		w := httptest.NewRecorder()

		handler.Insights(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		resp := testutil.DecodeJSON[service.Insights](t, w)
		if resp.Insights != gen.Reply {
			t.Errorf("Unexpected insights: %q", resp.Insights)
		}
		if resp.PortfolioSummary.TotalHoldings != 5 || len(resp.PortfolioSummary.Holdings) != 5 {
			t.Errorf("Unexpected summary: %+v", resp.PortfolioSummary)
		}
	})

	t.Run("returns 500 when not configured", func(t *testing.T) {
		handler := handlers.NewInsightHandler(testutil.NewTestInsightService(testutil.NewHoldingStore(t), nil))

		req := httptest.NewRequest(http.MethodPost, "/api/ai-insights", nil)
		w := httptest.NewRecorder()

		handler.Insights(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("Expected 500, got %d", w.Code)
		}

		resp := testutil.DecodeJSON[response.ErrorResponse](t, w)
		if resp.Error != "gemini API key not configured, set GEMINI_API_KEY in your .env file" {
			t.Errorf("Unexpected error: %q", resp.Error)
		}
	})

	t.Run("returns 500 when generation fails", func(t *testing.T) {
		gen := &testutil.MockGenerator{Err: errors.New("model overloaded")}
		handler := handlers.NewInsightHandler(testutil.NewTestInsightService(testutil.NewHoldingStore(t), gen))

		req := httptest.NewRequest(http.MethodPost, "/api/ai-insights", nil)
		w := httptest.NewRecorder()

		handler.Insights(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}
