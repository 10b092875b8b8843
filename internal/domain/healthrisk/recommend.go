package healthrisk

import (
	"sort"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

// BuildRecommendations applies the advisory rules to the current conditions.
// Items are ordered by ascending priority; ties keep rule order.
func BuildRecommendations(aqi int, reading environment.Reading, risk RiskAssessment) []Recommendation {
	reading = NormalizeReading(reading)
	if aqi < 0 {
		aqi = 0
	}

	recs := make([]Recommendation, 0, 4)
	if aqi > 100 {
		recs = append(recs, Recommendation{
			Title:    "Check Indoor Air",
			Advice:   "Outdoor air is unhealthy. Keep windows closed and run an air purifier if you have one.",
			Priority: 1,
		})
	}
	if reading.Humidity > 80 && aqi > 50 {
		recs = append(recs, Recommendation{
			Title:    "Humidity Alert",
			Advice:   "High humidity traps pollutants close to the ground. Take it easy outdoors.",
			Priority: 2,
		})
	}
	if reading.UVIndex > 7 {
		recs = append(recs, Recommendation{
			Title:    "Sunlight Alert",
			Advice:   "UV is very high. Use sunscreen and avoid the midday sun.",
			Priority: 1,
		})
	}
	if risk.Level == LevelHigh || risk.Level == LevelCritical {
		recs = append(recs, Recommendation{
			Title:    "Stay Indoors",
			Advice:   risk.Description,
			Priority: 0,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })
	return recs
}
