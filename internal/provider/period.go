package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
)

// Period is a named price-history window. Values match Yahoo Finance range names.
type Period string

const (
	Period1Day    Period = "1d"
	Period5Days   Period = "5d"
	Period1Month  Period = "1mo"
	Period3Months Period = "3mo"
	Period6Months Period = "6mo"
	Period1Year   Period = "1y"
	Period2Years  Period = "2y"
	Period5Years  Period = "5y"
	Period10Years Period = "10y"
	PeriodYTD     Period = "ytd"
	PeriodMax     Period = "max"
)

// DefaultPeriod is used when a request does not name a period.
const DefaultPeriod = Period1Month

var validPeriods = map[Period]bool{
	Period1Day: true, Period5Days: true, Period1Month: true, Period3Months: true,
	Period6Months: true, Period1Year: true, Period2Years: true, Period5Years: true,
	Period10Years: true, PeriodYTD: true, PeriodMax: true,
}

// ParsePeriod validates a period name. An empty name yields DefaultPeriod.
func ParsePeriod(value string) (Period, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return DefaultPeriod, nil
	}
	p := Period(value)
	if !validPeriods[p] {
		return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidPeriod, value)
	}
	return p, nil
}

// TradingDays returns the number of trailing trading days for the day-based periods, 0 otherwise.
func (p Period) TradingDays() int {
	switch p {
	case Period1Day:
		return 1
	case Period5Days:
		return 5
	default:
		return 0
	}
}

// Start returns the first calendar day covered by the period, relative to now.
// PeriodMax returns the zero time.
func (p Period) Start(now time.Time) time.Time {
	now = now.UTC()
	switch p {
	case Period1Day:
		return now.AddDate(0, 0, -1)
	case Period5Days:
		return now.AddDate(0, 0, -5)
	case Period1Month:
		return now.AddDate(0, -1, 0)
	case Period3Months:
		return now.AddDate(0, -3, 0)
	case Period6Months:
		return now.AddDate(0, -6, 0)
	case Period1Year:
		return now.AddDate(-1, 0, 0)
	case Period2Years:
		return now.AddDate(-2, 0, 0)
	case Period5Years:
		return now.AddDate(-5, 0, 0)
	case Period10Years:
		return now.AddDate(-10, 0, 0)
	case PeriodYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}
