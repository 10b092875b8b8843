package environment

import "time"

// Reading is a single environmental observation or forecast point.
type Reading struct {
	Timestamp string  `json:"timestamp"`
	AQI       int     `json:"aqi"`
	PM25      float64 `json:"pm25"`
	PM10      float64 `json:"pm10"`
	NO2       float64 `json:"no2"`
	SO2       float64 `json:"so2"`
	CO        float64 `json:"co"`
	O3        float64 `json:"o3"`
	Temp      float64 `json:"temp"`
	Humidity  float64 `json:"humidity"`
	WindSpeed float64 `json:"windSpeed"`
	Pressure  float64 `json:"pressure"`
	UVIndex   float64 `json:"uvIndex"`
}

// Location is an entry of the city catalog.
type Location struct {
	Slug    string  `json:"slug"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	AQIBase int     `json:"aqiBase"`
	Focus   string  `json:"focus"`
}

// LiveConditions is the subset of weather the live feed provides.
type LiveConditions struct {
	Temperature     float64   `json:"temperature"`
	Humidity        float64   `json:"humidity"`
	SolarIrradiance float64   `json:"solarIrradiance"`
	UVIndex         float64   `json:"uvIndex"`
	AQI             int       `json:"aqi"`
	Fallback        bool      `json:"fallback"`
	FetchedAt       time.Time `json:"fetchedAt"`
}

// AnnualPoint is a monthly aggregate used by the compliance report.
type AnnualPoint struct {
	Timestamp  string  `json:"timestamp"`
	AQI        int     `json:"aqi"`
	PM25       float64 `json:"pm25"`
	PM10       float64 `json:"pm10"`
	CO2        float64 `json:"co2"`
	Compliance string  `json:"compliance"`
}

// Hub is a comparison city shown on the analytics page.
type Hub struct {
	City string `json:"city"`
	AQI  int    `json:"aqi"`
	CO2  int    `json:"co2"`
}

// CarbonPoint compares actual and projected emissions for a month.
type CarbonPoint struct {
	Month     string  `json:"month"`
	Actual    float64 `json:"actual"`
	Projected float64 `json:"projected"`
}

// Tip is a static, category driven piece of advice.
type Tip struct {
	Category string `json:"category"`
	Text     string `json:"text"`
	Severity string `json:"severity"`
}

// Snapshot bundles the current reading with its location.
type Snapshot struct {
	Location Location       `json:"location"`
	Current  Reading        `json:"current"`
	Category CategoryLevel  `json:"category"`
	Color    string         `json:"color"`
	Live     LiveConditions `json:"live"`
}

// Config holds tunables for the environment service.
type Config struct {
	DefaultCity    string
	LiveCacheTTL   time.Duration
	ForecastHours  int
	HistoryDays    int
	MaxForecastHrs int
	MaxHistoryDays int
	// Now drives the generators and fallback timestamps; nil means time.Now.
	Now func() time.Time
}
