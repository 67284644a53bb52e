package utils

import "math"

// Money is stored as integer cents; the API exchanges plain decimal amounts.

func CentsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// AmountToCents rounds half away from zero to cent precision.
func AmountToCents(amount float64) int64 {
	if amount < 0 {
		return -int64(math.Floor(-amount*100 + 0.5))
	}
	return int64(math.Floor(amount*100 + 0.5))
}
