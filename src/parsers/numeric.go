package parsers

import (
	"math"
	"strconv"
	"strings"
)

var numberCleaner = strings.NewReplacer(
	"$", "",
	"%", "",
	" ", "",
	"\u00a0", "",
	",", ".",
)

// ParseNumber converts locale formatted text such as "0,25", "1.35$" or "93%"
// into a float. It only cleans the lexical format and makes no assumption
// about units. ok is false for empty, unparsable or non-finite input.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(numberCleaner.Replace(s), 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

// ToFloat is ParseNumber for values that may already be numeric.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return ParseNumber(v)
	default:
		return 0, false
	}
}

// OptionalNumber returns nil for missing values so it can feed optional fields.
func OptionalNumber(value any) *float64 {
	v, ok := ToFloat(value)
	if !ok {
		return nil
	}
	return &v
}

// finite treats NaN and ±Inf as missing. They cannot be summed as money.
func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
