package environment

import "math"

// CategoryLevel is the US EPA descriptor for an AQI value.
type CategoryLevel string

const (
	CategoryGood            CategoryLevel = "Good"
	CategoryModerate        CategoryLevel = "Moderate"
	CategorySensitiveGroups CategoryLevel = "Unhealthy for Sensitive Groups"
	CategoryUnhealthy       CategoryLevel = "Unhealthy"
	CategoryVeryUnhealthy   CategoryLevel = "Very Unhealthy"
	CategoryHazardous       CategoryLevel = "Hazardous"
)

// Category maps an AQI value to its descriptor.
func Category(aqi int) CategoryLevel {
	switch {
	case aqi <= 50:
		return CategoryGood
	case aqi <= 100:
		return CategoryModerate
	case aqi <= 150:
		return CategorySensitiveGroups
	case aqi <= 200:
		return CategoryUnhealthy
	case aqi <= 300:
		return CategoryVeryUnhealthy
	default:
		return CategoryHazardous
	}
}

// CategoryColor returns the presentation token for a category.
func CategoryColor(level CategoryLevel) string {
	switch level {
	case CategoryGood:
		return "var(--color-aqi-good)"
	case CategoryModerate:
		return "var(--color-aqi-moderate)"
	case CategorySensitiveGroups:
		return "var(--color-aqi-unhealthy-sensitive)"
	case CategoryUnhealthy:
		return "var(--color-aqi-unhealthy)"
	case CategoryVeryUnhealthy:
		return "var(--color-aqi-very-unhealthy)"
	case CategoryHazardous:
		return "var(--color-aqi-hazardous)"
	default:
		return "var(--color-aqi-good)"
	}
}

type breakpoint struct {
	concLo, concHi float64
	aqiLo, aqiHi   float64
}

var pm25Breakpoints = []breakpoint{
	{0.0, 12.0, 0, 50},
	{12.0, 35.4, 51, 100},
	{35.4, 55.4, 101, 150},
	{55.4, 150.4, 151, 200},
	{150.4, 250.4, 201, 300},
	{250.4, 500.4, 301, 500},
}

// PM25ToAQI converts a PM2.5 concentration (µg/m³) to the US AQI scale.
// Concentrations are truncated to 0.1 before interpolation; values above the
// table return the concentration itself rounded.
func PM25ToAQI(conc float64) int {
	if math.IsNaN(conc) || conc <= 0 {
		return 0
	}
	conc = math.Trunc(conc*10) / 10
	for _, bp := range pm25Breakpoints {
		if conc >= bp.concLo && conc <= bp.concHi {
			return int(math.Round((bp.aqiHi-bp.aqiLo)/(bp.concHi-bp.concLo)*(conc-bp.concLo) + bp.aqiLo))
		}
	}
	return int(math.Round(conc))
}

var (
	goodTips = []Tip{
		{Category: "Activity", Text: "Perfect for outdoor exercise and activities.", Severity: "info"},
		{Category: "Energy", Text: "Energy levels are good; a great time to handle house chores.", Severity: "info"},
		{Category: "Travel", Text: "A great day for a walk or bike ride.", Severity: "info"},
	}
	pollutedTips = []Tip{
		{Category: "Health", Text: "Sensitive people should try to stay indoors.", Severity: "warning"},
		{Category: "Home", Text: "Close your windows to keep the indoor air clean.", Severity: "info"},
		{Category: "Activity", Text: "Wear a mask if you're near busy roads or factories.", Severity: "warning"},
	}
)

// CategoryTips returns the static tip set for the AQI's category.
func CategoryTips(aqi int) []Tip {
	src := pollutedTips
	if Category(aqi) == CategoryGood {
		src = goodTips
	}
	out := make([]Tip, len(src))
	copy(out, src)
	return out
}
