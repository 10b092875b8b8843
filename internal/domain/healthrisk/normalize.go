package healthrisk

import (
	"math"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

// NormalizeReading returns a sanitized copy of r. Non-finite fields become 0,
// negative AQI, pollutant, wind and UV values become 0, humidity is clamped
// to [0,100]. Temperature and pressure keep their sign.
func NormalizeReading(r environment.Reading) environment.Reading {
	out := r
	if out.AQI < 0 {
		out.AQI = 0
	}
	out.PM25 = nonNegative(out.PM25)
	out.PM10 = nonNegative(out.PM10)
	out.NO2 = nonNegative(out.NO2)
	out.SO2 = nonNegative(out.SO2)
	out.CO = nonNegative(out.CO)
	out.O3 = nonNegative(out.O3)
	out.WindSpeed = nonNegative(out.WindSpeed)
	out.UVIndex = nonNegative(out.UVIndex)
	out.Temp = finite(out.Temp)
	out.Pressure = finite(out.Pressure)
	out.Humidity = clamp(finite(out.Humidity), 0, 100)
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	v = finite(v)
	if v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
