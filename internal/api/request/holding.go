// Package request holds the decoded bodies of API requests.
package request

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AddHoldingRequest is the body of POST /api/holdings.
// BuyPrice is optional: when absent the price is looked up for PurchaseDate.
type AddHoldingRequest struct {
	Ticker       string `json:"ticker"`
	Shares       Number `json:"shares"`
	PurchaseDate string `json:"purchase_date"`
	BuyPrice     Number `json:"buy_price"`
	Sector       string `json:"sector"`
}

// Number is a JSON number that clients may also send as a numeric string.
// Set is false when the field was absent, null or an empty string.
// NaN and infinities are rejected.
type Number struct {
	Value float64
	Set   bool
}

// NewNumber returns a set Number.
func NewNumber(v float64) Number {
	return Number{Value: v, Set: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("invalid number %s", raw)
		}
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*n = Number{}
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid number %s", string(data))
	}
	*n = Number{Value: v, Set: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, n.Value, 'f', -1, 64), nil
}
