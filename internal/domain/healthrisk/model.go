package healthrisk

import "github.com/yanqian/aerosense/internal/domain/environment"

// Level is the ordered risk tier.
type Level string

const (
	LevelLow      Level = "Low"
	LevelModerate Level = "Moderate"
	LevelHigh     Level = "High"
	LevelCritical Level = "Critical"
)

// Rank orders levels from least to most severe.
func (l Level) Rank() int {
	switch l {
	case LevelLow:
		return 0
	case LevelModerate:
		return 1
	case LevelHigh:
		return 2
	case LevelCritical:
		return 3
	default:
		return -1
	}
}

// Valid reports whether l is one of the four tiers.
func (l Level) Valid() bool { return l.Rank() >= 0 }

// Color is the presentation token bound to a level.
func (l Level) Color() string {
	switch l {
	case LevelLow:
		return "#10b981"
	case LevelModerate:
		return "#eab308"
	case LevelHigh:
		return "#f97316"
	case LevelCritical:
		return "#ef4444"
	default:
		return "#10b981"
	}
}

// Quality is the band a forecast hour falls into.
type Quality string

const (
	QualityOptimal    Quality = "Optimal"
	QualitySubOptimal Quality = "Sub-optimal"
	QualityRestricted Quality = "Restricted"
)

// QualityFor classifies an AQI value into its band.
func QualityFor(aqi int) Quality {
	switch {
	case aqi <= 50:
		return QualityOptimal
	case aqi <= 100:
		return QualitySubOptimal
	default:
		return QualityRestricted
	}
}

// ActivityType enumerates the activities the advisor rates.
type ActivityType string

const (
	ActivityRunning     ActivityType = "running"
	ActivityCycling     ActivityType = "cycling"
	ActivityWalking     ActivityType = "walking"
	ActivityOutdoorPlay ActivityType = "outdoor_play"
	ActivityOutdoorYoga ActivityType = "outdoor_yoga"
)

// SafetyLevel rates a single activity.
type SafetyLevel string

const (
	SafetySafe       SafetyLevel = "Safe"
	SafetyCaution    SafetyLevel = "Caution"
	SafetyRestricted SafetyLevel = "Restricted"
)

// Rank orders safety levels from safest to most restricted.
func (s SafetyLevel) Rank() int {
	switch s {
	case SafetySafe:
		return 0
	case SafetyCaution:
		return 1
	case SafetyRestricted:
		return 2
	default:
		return -1
	}
}

// HealthProfile holds the caller's vulnerability flags.
type HealthProfile struct {
	Asthma          bool `json:"asthma"`
	Allergies       bool `json:"allergies"`
	HeartCondition  bool `json:"heartCondition"`
	Elderly         bool `json:"elderly"`
	Children        bool `json:"children"`
	ActiveLifestyle bool `json:"activeLifestyle"`
}

// RiskAssessment is the scored, tiered outcome for a profile.
type RiskAssessment struct {
	Level       Level   `json:"level"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
}

// SafeWindow is a contiguous run of forecast hours in one quality band.
type SafeWindow struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	AQI       int     `json:"aqi"`
	Quality   Quality `json:"quality"`
}

// ActivityGuide is the advisor's verdict for one activity.
type ActivityGuide struct {
	Type        ActivityType `json:"type"`
	MaxDuration int          `json:"maxDuration"`
	SafetyLevel SafetyLevel  `json:"safetyLevel"`
	Advice      string       `json:"advice"`
}

// Recommendation is a short advisory; lower priority is more urgent.
type Recommendation struct {
	Title    string `json:"title"`
	Advice   string `json:"advice"`
	Priority int    `json:"priority"`
}

// AssessRequest is the payload accepted by the assessment endpoint.
type AssessRequest struct {
	City    string        `json:"city"`
	Hours   int           `json:"hours"`
	Profile HealthProfile `json:"profile"`
}

// ScoreRequest scores an explicit AQI without touching environment data.
type ScoreRequest struct {
	AQI     int           `json:"aqi"`
	Profile HealthProfile `json:"profile"`
}

// WindowsRequest segments a caller supplied forecast.
type WindowsRequest struct {
	Forecast []environment.Reading `json:"forecast"`
}

// Report is the full personalized assessment for a city.
type Report struct {
	Location        environment.Location       `json:"location"`
	Current         environment.Reading        `json:"current"`
	Category        environment.CategoryLevel  `json:"category"`
	Risk            RiskAssessment             `json:"risk"`
	Windows         []SafeWindow               `json:"windows"`
	Activities      []ActivityGuide            `json:"activities"`
	Recommendations []Recommendation           `json:"recommendations"`
	Tips            []environment.Tip          `json:"tips"`
	Live            environment.LiveConditions `json:"live"`
}

// Alert is published when an assessment reaches High or Critical.
type Alert struct {
	City       string  `json:"city"`
	AQI        int     `json:"aqi"`
	Score      float64 `json:"score"`
	Level      Level   `json:"level"`
	OccurredAt string  `json:"occurredAt"`
}
