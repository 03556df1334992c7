package utils

import "math"

// Round rounds f to the given number of decimal places, half away from zero.
func Round(f float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(f*p) / p
}

// ClampMin returns lo when f is below it or NaN.
func ClampMin(f, lo float64) float64 {
	if !(f >= lo) {
		return lo
	}
	return f
}
