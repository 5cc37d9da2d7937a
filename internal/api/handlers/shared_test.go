package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestRespondJSON tests the respondJSON helper function.
// This is an internal test (package handlers, not handlers_test) because
// respondJSON is unexported.
func TestRespondJSON(t *testing.T) {
	t.Run("sets content-type and status code correctly", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"message": "success"}

		respondJSON(w, 200, data)

		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		if w.Header().Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", w.Header().Get("Content-Type"))
		}
	})

	t.Run("handles nil data without error", func(t *testing.T) {
		w := httptest.NewRecorder()

		respondJSON(w, 204, nil)

		if w.Code != 204 {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
	})

	t.Run("handles un-encodable data gracefully", func(t *testing.T) {
		w := httptest.NewRecorder()

		// Channels cannot be JSON encoded
		respondJSON(w, 200, make(chan int))

		if w.Code != 200 {
			t.Errorf("Expected status 200 to be written before encoding, got %d", w.Code)
		}
	})
}

func TestParseJSON(t *testing.T) {
	type payload struct {
		Ticker string `json:"ticker"`
	}

	t.Run("decodes body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"ticker":"AAPL","extra":1}`))

		got, err := parseJSON[payload](req)
		if err != nil {
			t.Fatalf("parseJSON() returned unexpected error: %v", err)
		}
		if got.Ticker != "AAPL" {
			t.Errorf("Expected AAPL, got %s", got.Ticker)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

		if _, err := parseJSON[payload](req); err == nil || !strings.Contains(err.Error(), "empty") {
			t.Errorf("Expected empty body error, got %v", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"ticker":`))

		if _, err := parseJSON[payload](req); err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}
