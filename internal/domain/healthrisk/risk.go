package healthrisk

const (
	// aqiReferenceCeiling caps the AQI used for the baseline.
	aqiReferenceCeiling = 300
	maxBaseline         = 60

	asthmaIncrement          = 25
	allergiesIncrement       = 10
	heartConditionIncrement  = 30
	elderlyIncrement         = 15
	childrenIncrement        = 15
	activeLifestyleIncrement = 10

	// activeLifestyleThreshold is the AQI above which exertion adds risk.
	activeLifestyleThreshold = 100
	heavyPollutionThreshold  = 150
)

// ComputeRisk scores the exposure risk of a profile at the given AQI.
// The score is always within [0,100] and the level is derived from it.
func ComputeRisk(aqi int, profile HealthProfile) RiskAssessment {
	if aqi < 0 {
		aqi = 0
	}
	capped := aqi
	if capped > aqiReferenceCeiling {
		capped = aqiReferenceCeiling
	}
	score := float64(capped) / aqiReferenceCeiling * maxBaseline

	if profile.Asthma {
		score += asthmaIncrement
	}
	if profile.Allergies {
		score += allergiesIncrement
	}
	if profile.HeartCondition {
		score += heartConditionIncrement
	}
	if profile.Elderly {
		score += elderlyIncrement
	}
	if profile.Children {
		score += childrenIncrement
	}
	if profile.ActiveLifestyle && aqi > activeLifestyleThreshold {
		score += activeLifestyleIncrement
	}
	score = clamp(score, 0, 100)

	level := LevelForScore(score)
	return RiskAssessment{
		Level:       level,
		Score:       score,
		Description: describe(level, aqi > heavyPollutionThreshold),
		Color:       level.Color(),
	}
}

// LevelForScore maps a score onto its tier. Scores outside [0,100] are clamped.
func LevelForScore(score float64) Level {
	score = clamp(score, 0, 100)
	switch {
	case score < 25:
		return LevelLow
	case score < 50:
		return LevelModerate
	case score < 75:
		return LevelHigh
	default:
		return LevelCritical
	}
}

func describe(level Level, heavy bool) string {
	switch level {
	case LevelModerate:
		if heavy {
			return "Outdoor pollution is heavy. Sensitive individuals should limit prolonged outdoor exertion."
		}
		return "Some risk for sensitive individuals. Consider shortening prolonged outdoor exertion."
	case LevelHigh:
		if heavy {
			return "Heavy outdoor pollution poses a high risk for your profile. Limit time outdoors and avoid strenuous activity."
		}
		return "High risk for your profile. Keep outdoor activity light and brief."
	case LevelCritical:
		if heavy {
			return "Critical risk: outdoor pollution is heavy. Stay indoors with filtered air and keep medication at hand."
		}
		return "Critical risk for your profile. Avoid outdoor activity and keep medication at hand."
	default:
		return "Air quality poses little risk for your profile. Enjoy your outdoor activities."
	}
}
