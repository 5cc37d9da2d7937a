package service

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingPrecision is the scale used to round monetary values in API responses.
const RoundingPrecision = 100

// round rounds a float64 value to two decimal places using the package RoundingPrecision constant.
// This function is used throughout the service layer to ensure consistent rounding of monetary
// values and percentages in API responses.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(1.994)       // returns 1.99
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// formatMoney renders a value with two decimals and thousands separators, e.g. 26,887.10.
func formatMoney(value float64) string {
	fixed := decimal.NewFromFloat(value).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	intPart, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return sign + b.String() + "." + frac
}
