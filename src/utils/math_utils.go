package utils

import "math"

// MinInt returns the smaller of two integers.
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// RoundFloat rounds a float64 to a specified number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// RoundPtr rounds an optional value, keeping nil as nil.
func RoundPtr(val *float64, precision uint) *float64 {
	if val == nil {
		return nil
	}
	r := RoundFloat(*val, precision)
	return &r
}
