package provider

import (
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
)

func TestParsePeriod(t *testing.T) {
	t.Run("empty defaults to one month", func(t *testing.T) {
		p, err := ParsePeriod("")
		if err != nil || p != Period1Month {
			t.Errorf("Expected 1mo, got %q (err=%v)", p, err)
		}
	})

	t.Run("accepts every supported period", func(t *testing.T) {
		for _, v := range []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"} {
			if _, err := ParsePeriod(v); err != nil {
				t.Errorf("Expected %s to be valid, got %v", v, err)
			}
		}
	})

	t.Run("rejects unknown period", func(t *testing.T) {
		_, err := ParsePeriod("7w")
		if !errors.Is(err, apperrors.ErrInvalidPeriod) {
			t.Errorf("Expected ErrInvalidPeriod, got %v", err)
		}
	})
}

func TestPeriod_Start(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	if got := PeriodYTD.Start(now); !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected ytd start 2025-01-01, got %s", got)
	}
	if got := Period3Months.Start(now); got.Month() != time.December || got.Year() != 2024 {
		t.Errorf("Expected 3mo start in December 2024, got %s", got)
	}
	if got := PeriodMax.Start(now); !got.IsZero() {
		t.Errorf("Expected zero start for max, got %s", got)
	}
	if Period5Days.TradingDays() != 5 || Period1Year.TradingDays() != 0 {
		t.Error("Unexpected TradingDays values")
	}
}
