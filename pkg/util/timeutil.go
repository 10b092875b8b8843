package util

import (
	"math"
	"time"
)

// NowUTC is the default clock for services.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
