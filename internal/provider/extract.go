package provider

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Extractor pulls a price out of a decoded JSON document.
type Extractor func(doc any) (float64, bool)

// DecodeDocument decodes a JSON payload into the generic form extractors work on.
func DecodeDocument(data []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FirstPrice runs the extractors in order and returns the first positive price.
func FirstPrice(doc any, extractors ...Extractor) (float64, bool) {
	for _, extract := range extractors {
		if price, ok := extract(doc); ok && price > 0 {
			return price, true
		}
	}
	return 0, false
}

// Path extracts the number found at a JSONPath expression.
func Path(path string) Extractor {
	return func(doc any) (float64, bool) {
		value, err := jsonpath.Get(path, doc)
		if err != nil {
			return 0, false
		}
		// jsonpath returns a list for wildcard/filter paths; keep the first answer
		if list, ok := value.([]any); ok {
			if len(list) == 0 {
				return 0, false
			}
			value = list[0]
		}
		return toFloat(value)
	}
}

// LastOf extracts the last usable number of the array found at a JSONPath expression.
// Null and non-positive items are skipped.
func LastOf(path string) Extractor {
	return func(doc any) (float64, bool) {
		value, err := jsonpath.Get(path, doc)
		if err != nil {
			return 0, false
		}
		list, ok := value.([]any)
		if !ok {
			return 0, false
		}
		for i := len(list) - 1; i >= 0; i-- {
			if price, ok := toFloat(list[i]); ok && price > 0 {
				return price, true
			}
		}
		return 0, false
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return 0, false
	}
}
