package healthrisk

import "github.com/yanqian/aerosense/internal/domain/environment"

// SegmentSafeWindows groups consecutive forecast hours sharing a quality band.
// Windows cover the input exactly once, in order. A window's AQI is the AQI of
// its first reading and its end time is the timestamp of its last reading.
func SegmentSafeWindows(forecast []environment.Reading) []SafeWindow {
	windows := make([]SafeWindow, 0)
	if len(forecast) == 0 {
		return windows
	}

	first := forecast[0]
	current := SafeWindow{
		StartTime: first.Timestamp,
		AQI:       first.AQI,
		Quality:   QualityFor(first.AQI),
	}
	for i := 1; i < len(forecast); i++ {
		r := forecast[i]
		q := QualityFor(r.AQI)
		if q == current.Quality {
			continue
		}
		current.EndTime = forecast[i-1].Timestamp
		windows = append(windows, current)
		current = SafeWindow{StartTime: r.Timestamp, AQI: r.AQI, Quality: q}
	}
	current.EndTime = forecast[len(forecast)-1].Timestamp
	return append(windows, current)
}
