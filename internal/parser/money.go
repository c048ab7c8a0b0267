package parser

import (
	"math"
	"strconv"
	"strings"
)

// MoneyValue coerces an arbitrary spreadsheet cell into a numeric
// amount. Already-numeric input passes through unchanged; currency
// strings are cleaned of "$" and thousands commas before parsing.
// Anything unparseable (blank cell, stray text, nil, wrong type)
// coerces to 0 so that a malformed cell never aborts the batch.
func MoneyValue(v any) float64 {
	switch value := v.(type) {
	case float64:
		return finite(value)
	case float32:
		return finite(float64(value))
	case int:
		return float64(value)
	case int64:
		return float64(value)
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(value)
		cleaned = strings.TrimSpace(cleaned)
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return finite(parsed)
	default:
		return 0
	}
}

// IntValue coerces a cell into an integer quantity, falling back to 0
// on any parse failure.
func IntValue(v any) int {
	switch value := v.(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0
		}
		return int(value)
	case string:
		trimmed := strings.TrimSpace(value)
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			// Quantity columns sometimes arrive as "2.0"
			f, ferr := strconv.ParseFloat(trimmed, 64)
			if ferr != nil {
				return 0
			}
			return IntValue(f)
		}
		return parsed
	default:
		return 0
	}
}

// TextValue coerces a cell into a string, defaulting to "" when the
// cell is absent or not textual.
func TextValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
