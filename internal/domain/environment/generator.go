package environment

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"
)

// Generator fabricates plausible series when no live feed covers a metric.
// Output is deterministic for a given base and clock hour.
type Generator struct {
	now func() time.Time
}

// NewGenerator builds a generator bound to the supplied clock.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

func (g *Generator) rng(kind string, base int) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(kind))
	hour := g.now().UTC().Truncate(time.Hour).Unix()
	return rand.New(rand.NewPCG(h.Sum64()^uint64(hour), uint64(base)))
}

// History returns days+1 daily readings ending today.
func (g *Generator) History(base, days int) []Reading {
	if base <= 0 {
		base = 50
	}
	if days < 0 {
		days = 0
	}
	r := g.rng("history", base)
	now := g.now()
	out := make([]Reading, 0, days+1)
	for i := days; i >= 0; i-- {
		ts := now.AddDate(0, 0, -i)
		aqi := float64(base) + math.Sin(float64(i)*0.5)*10 + r.Float64()*20
		out = append(out, Reading{
			Timestamp: ts.Format("Jan 02"),
			AQI:       int(math.Round(aqi)),
			PM25:      math.Round(aqi * 0.6),
			PM10:      math.Round(aqi * 0.8),
			NO2:       math.Round(r.Float64()*40 + 10),
			SO2:       math.Round(r.Float64()*20 + 5),
			CO:        round1(r.Float64()*2 + 0.5),
			O3:        math.Round(r.Float64()*60 + 20),
			Temp:      math.Round(20 + math.Sin(float64(i)*0.3)*10),
			Humidity:  math.Round(50 + math.Cos(float64(i)*0.3)*20),
			WindSpeed: round1(r.Float64()*15 + 2),
			Pressure:  math.Round(1013 + r.Float64()*10 - 5),
			UVIndex:   math.Round(r.Float64() * 10),
		})
	}
	return out
}

// Forecast returns hourly readings starting at the current hour.
func (g *Generator) Forecast(base, hours int) []Reading {
	if base <= 0 {
		base = 60
	}
	if hours < 0 {
		hours = 0
	}
	r := g.rng("forecast", base)
	now := g.now().Truncate(time.Hour)
	out := make([]Reading, 0, hours)
	for i := 0; i < hours; i++ {
		ts := now.Add(time.Duration(i) * time.Hour)
		aqi := float64(base) + math.Sin(float64(i)*0.2)*5 + r.Float64()*10
		uv := 0.0
		if i > 6 && i < 18 {
			uv = math.Round(r.Float64() * 8)
		}
		out = append(out, Reading{
			Timestamp: ts.Format("3 PM"),
			AQI:       int(math.Round(aqi)),
			PM25:      math.Round(aqi * 0.6),
			PM10:      math.Round(aqi * 0.8),
			NO2:       math.Round(r.Float64()*40 + 10),
			SO2:       math.Round(r.Float64()*20 + 5),
			CO:        round1(r.Float64()*2 + 0.5),
			O3:        math.Round(r.Float64()*60 + 20),
			Temp:      math.Round(22 + r.Float64()*5),
			Humidity:  math.Round(50 + r.Float64()*10),
			WindSpeed: round1(r.Float64()*10 + 5),
			Pressure:  1012,
			UVIndex:   uv,
		})
	}
	return out
}

// Annual returns twelve monthly aggregates ending with the current month.
func (g *Generator) Annual(base int) []AnnualPoint {
	if base <= 0 {
		base = 50
	}
	r := g.rng("annual", base)
	now := g.now()
	out := make([]AnnualPoint, 0, 12)
	for i := 11; i >= 0; i-- {
		ts := now.AddDate(0, -i, 0)
		aqi := float64(base) + math.Sin(float64(i)*0.8)*15 + r.Float64()*10
		compliance := "REVIEW"
		if aqi <= 60 {
			compliance = "PASSED"
		}
		out = append(out, AnnualPoint{
			Timestamp:  ts.Format("Jan 2006"),
			AQI:        int(math.Round(aqi)),
			PM25:       math.Round(aqi * 0.6),
			PM10:       math.Round(aqi * 0.8),
			CO2:        math.Round(380 + r.Float64()*40 + float64(11-i)*2),
			Compliance: compliance,
		})
	}
	return out
}

var hubs = []Hub{
	{City: "New York", AQI: 45, CO2: 120},
	{City: "London", AQI: 38, CO2: 95},
	{City: "Tokyo", AQI: 32, CO2: 110},
	{City: "Beijing", AQI: 142, CO2: 340},
	{City: "Delhi", AQI: 285, CO2: 410},
	{City: "Singapore", AQI: 52, CO2: 105},
}

// GlobalHubs returns the comparison hubs, leaving out the current city.
func GlobalHubs(exclude string) []Hub {
	out := make([]Hub, 0, len(hubs))
	for _, h := range hubs {
		if h.City == exclude {
			continue
		}
		out = append(out, h)
	}
	return out
}

// CarbonTrend returns twelve months of actual versus projected emissions.
func (g *Generator) CarbonTrend() []CarbonPoint {
	r := g.rng("carbon", 0)
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	out := make([]CarbonPoint, 0, 12)
	for i := 0; i < 12; i++ {
		out = append(out, CarbonPoint{
			Month:     start.AddDate(0, 0, i*30).Format("Jan"),
			Actual:    round1(100 + r.Float64()*20 + float64(i)*2),
			Projected: 100 + float64(i)*1.5,
		})
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
