package utils

import "math"

// MaxInt returns the larger of two integers
func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ClampFloat64 clamps a float64 value between min and max
func ClampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampPercent clamps a value into [0, 100]
func ClampPercent(value float64) float64 {
	return ClampFloat64(value, 0, 100)
}

// SafeRatio returns num/den, or 0 when den is zero or not finite
func SafeRatio(num, den float64) float64 {
	if den == 0 || math.IsInf(den, 0) || math.IsNaN(den) {
		return 0
	}
	return num / den
}

// Round rounds a float64 to the specified number of decimal places
func Round(value float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(value*multiplier) / multiplier
}
