package simulation

import (
	"time"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

// Scenario holds the what-if inputs. Percentages are within [0,100].
type Scenario struct {
	WindSpeed          float64 `json:"windSpeed"`
	RainChance         float64 `json:"rainChance"`
	Temperature        float64 `json:"temperature"`
	Humidity           float64 `json:"humidity"`
	TrafficDensity     float64 `json:"trafficDensity"`
	IndustrialActivity float64 `json:"industrialActivity"`
}

// Prediction is the simulated AQI for a scenario.
type Prediction struct {
	AQI      int                       `json:"aqi"`
	Category environment.CategoryLevel `json:"category"`
	Color    string                    `json:"color"`
}

// Simulation is a scenario saved by a user.
type Simulation struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Scenario  Scenario  `json:"scenario"`
	CreatedAt time.Time `json:"createdAt"`
}

// SaveRequest is the payload for storing a scenario.
type SaveRequest struct {
	Name     string   `json:"name"`
	Scenario Scenario `json:"scenario"`
}

// SavedView pairs a saved simulation with its current prediction.
type SavedView struct {
	Simulation
	Prediction Prediction `json:"prediction"`
}
