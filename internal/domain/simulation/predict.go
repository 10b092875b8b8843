package simulation

import (
	"errors"
	"math"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

const (
	baseAQI       = 150
	minimumAQI    = 10
	heatThreshold = 30
)

// PredictAQI estimates the AQI produced by a scenario.
func PredictAQI(s Scenario) Prediction {
	aqi := float64(baseAQI)
	aqi -= s.WindSpeed * 2
	aqi -= s.RainChance * 0.8
	aqi += s.TrafficDensity / 100 * 80
	aqi += s.IndustrialActivity / 100 * 40
	if s.Temperature > heatThreshold {
		aqi += (s.Temperature - heatThreshold) * 3
	}

	value := int(math.Round(aqi))
	if value < minimumAQI {
		value = minimumAQI
	}
	category := environment.Category(value)
	return Prediction{
		AQI:      value,
		Category: category,
		Color:    environment.CategoryColor(category),
	}
}

// Validate checks a scenario is within the simulator's input ranges.
func (s Scenario) Validate() error {
	values := []float64{s.WindSpeed, s.RainChance, s.Temperature, s.Humidity, s.TrafficDensity, s.IndustrialActivity}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("scenario values must be finite numbers")
		}
	}
	switch {
	case s.WindSpeed < 0:
		return errors.New("windSpeed cannot be negative")
	case !percent(s.RainChance):
		return errors.New("rainChance must be between 0 and 100")
	case !percent(s.Humidity):
		return errors.New("humidity must be between 0 and 100")
	case !percent(s.TrafficDensity):
		return errors.New("trafficDensity must be between 0 and 100")
	case !percent(s.IndustrialActivity):
		return errors.New("industrialActivity must be between 0 and 100")
	case s.Temperature < -60 || s.Temperature > 60:
		return errors.New("temperature must be between -60 and 60")
	}
	return nil
}

func percent(v float64) bool {
	return v >= 0 && v <= 100
}
