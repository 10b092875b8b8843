package healthrisk

type activityBaseline struct {
	kind          ActivityType
	minutes       int
	highIntensity bool
	advice        string
}

var activityBaselines = []activityBaseline{
	{kind: ActivityRunning, minutes: 60, highIntensity: true, advice: "Good conditions for a run."},
	{kind: ActivityCycling, minutes: 90, highIntensity: true, advice: "Good conditions for a ride."},
	{kind: ActivityWalking, minutes: 120, advice: "Enjoy a long walk."},
	{kind: ActivityOutdoorPlay, minutes: 90, advice: "Outdoor play is fine today."},
	{kind: ActivityOutdoorYoga, minutes: 45, advice: "A good session for outdoor yoga."},
}

const (
	safeScoreCeiling     = 40
	moderateScoreCeiling = 70
)

// DeriveActivityGuides rates each activity against the assessed risk.
// Durations never increase as the score rises.
func DeriveActivityGuides(risk RiskAssessment) []ActivityGuide {
	score := clamp(risk.Score, 0, 100)
	guides := make([]ActivityGuide, 0, len(activityBaselines))
	for _, b := range activityBaselines {
		g := ActivityGuide{
			Type:        b.kind,
			MaxDuration: b.minutes,
			SafetyLevel: SafetySafe,
			Advice:      b.advice,
		}
		switch {
		case score > moderateScoreCeiling:
			g.MaxDuration = 0
			g.SafetyLevel = SafetyRestricted
			g.Advice = "Avoid this activity outdoors today."
		case score > safeScoreCeiling && b.highIntensity:
			g.MaxDuration = 0
			g.SafetyLevel = SafetyRestricted
			g.Advice = "Skip strenuous exercise outdoors; move it indoors."
		case score > safeScoreCeiling:
			g.MaxDuration = b.minutes / 2
			g.SafetyLevel = SafetyCaution
			g.Advice = "Keep it short and take breaks."
		}
		guides = append(guides, g)
	}
	return guides
}
