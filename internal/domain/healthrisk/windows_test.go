package healthrisk

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

func forecastOf(aqis ...int) []environment.Reading {
	out := make([]environment.Reading, 0, len(aqis))
	for i, aqi := range aqis {
		out = append(out, environment.Reading{Timestamp: fmt.Sprintf("t%d", i), AQI: aqi})
	}
	return out
}

func TestSegmentSafeWindowsEmpty(t *testing.T) {
	got := SegmentSafeWindows(nil)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestSegmentSafeWindowsSingleReading(t *testing.T) {
	got := SegmentSafeWindows(forecastOf(72))
	require.Equal(t, []SafeWindow{{StartTime: "t0", EndTime: "t0", AQI: 72, Quality: QualitySubOptimal}}, got)
}

func TestSegmentSafeWindowsSplitsOnBandChange(t *testing.T) {
	got := SegmentSafeWindows(forecastOf(40, 45, 60, 70, 120, 110, 30))
	require.Equal(t, []SafeWindow{
		{StartTime: "t0", EndTime: "t1", AQI: 40, Quality: QualityOptimal},
		{StartTime: "t2", EndTime: "t3", AQI: 60, Quality: QualitySubOptimal},
		{StartTime: "t4", EndTime: "t5", AQI: 120, Quality: QualityRestricted},
		{StartTime: "t6", EndTime: "t6", AQI: 30, Quality: QualityOptimal},
	}, got)
}

func TestSegmentSafeWindowsBandEdges(t *testing.T) {
	got := SegmentSafeWindows(forecastOf(50, 51, 100, 101))
	require.Len(t, got, 3)
	require.Equal(t, QualityOptimal, got[0].Quality)
	require.Equal(t, QualitySubOptimal, got[1].Quality)
	require.Equal(t, "t1", got[1].StartTime)
	require.Equal(t, "t2", got[1].EndTime)
	require.Equal(t, QualityRestricted, got[2].Quality)
}

func TestSegmentSafeWindowsUsesFirstMemberAQI(t *testing.T) {
	got := SegmentSafeWindows(forecastOf(10, 49, 2))
	require.Len(t, got, 1)
	require.Equal(t, 10, got[0].AQI)
}

func TestSegmentSafeWindowsDoesNotMutateInput(t *testing.T) {
	in := forecastOf(20, 80, 130)
	snapshot := append([]environment.Reading(nil), in...)
	_ = SegmentSafeWindows(in)
	require.Equal(t, snapshot, in)
}

func TestSegmentSafeWindowsCoversForecastExactlyOnce(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for run := 0; run < 200; run++ {
		n := 1 + r.IntN(48)
		aqis := make([]int, n)
		for i := range aqis {
			aqis[i] = r.IntN(200)
		}
		forecast := forecastOf(aqis...)
		index := make(map[string]int, n)
		for i, reading := range forecast {
			index[reading.Timestamp] = i
		}

		windows := SegmentSafeWindows(forecast)
		require.NotEmpty(t, windows)
		require.Equal(t, 0, index[windows[0].StartTime])
		require.Equal(t, n-1, index[windows[len(windows)-1].EndTime])
		for k, w := range windows {
			start, end := index[w.StartTime], index[w.EndTime]
			require.LessOrEqual(t, start, end)
			require.Equal(t, aqis[start], w.AQI)
			for i := start; i <= end; i++ {
				require.Equal(t, w.Quality, QualityFor(aqis[i]))
			}
			if k > 0 {
				prev := windows[k-1]
				require.Equal(t, index[prev.EndTime]+1, start)
				require.NotEqual(t, prev.Quality, w.Quality)
			}
		}
	}
}
