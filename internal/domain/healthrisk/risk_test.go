package healthrisk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeRiskCleanAirIsLow(t *testing.T) {
	got := ComputeRisk(45, HealthProfile{})
	require.InDelta(t, 9.0, got.Score, 1e-9)
	require.Equal(t, LevelLow, got.Level)
	require.Equal(t, "#10b981", got.Color)
	require.NotEmpty(t, got.Description)
}

func TestComputeRiskCardiacProfileInUnhealthyAir(t *testing.T) {
	got := ComputeRisk(160, HealthProfile{HeartCondition: true})
	require.InDelta(t, 62.0, got.Score, 1e-9)
	require.Equal(t, LevelHigh, got.Level)
	require.Equal(t, "#f97316", got.Color)
	require.Contains(t, got.Description, "Heavy outdoor pollution")
}

func TestComputeRiskClampsToHundred(t *testing.T) {
	all := HealthProfile{Asthma: true, Allergies: true, HeartCondition: true, Elderly: true, Children: true, ActiveLifestyle: true}
	got := ComputeRisk(300, all)
	require.Equal(t, 100.0, got.Score)
	require.Equal(t, LevelCritical, got.Level)
	require.Equal(t, "#ef4444", got.Color)
}

func TestComputeRiskBaselineCapsAtReferenceCeiling(t *testing.T) {
	require.Equal(t, 60.0, ComputeRisk(300, HealthProfile{}).Score)
	require.Equal(t, 60.0, ComputeRisk(999, HealthProfile{}).Score)
}

func TestComputeRiskNegativeAQITreatedAsZero(t *testing.T) {
	got := ComputeRisk(-40, HealthProfile{Asthma: true})
	require.Equal(t, ComputeRisk(0, HealthProfile{Asthma: true}), got)
	require.Equal(t, 25.0, got.Score)
	require.Equal(t, LevelModerate, got.Level)
}

func TestComputeRiskActiveLifestyleOnlyAboveHundred(t *testing.T) {
	active := HealthProfile{ActiveLifestyle: true}
	require.InDelta(t, 20.0, ComputeRisk(100, active).Score, 1e-9)
	require.InDelta(t, 30.2, ComputeRisk(101, active).Score, 1e-9)
	require.Equal(t, LevelModerate, ComputeRisk(101, active).Level)
}

func TestComputeRiskHeavyPollutionChangesWordingOnly(t *testing.T) {
	profile := HealthProfile{Asthma: true}
	calm := ComputeRisk(150, profile)
	heavy := ComputeRisk(151, profile)
	require.Equal(t, calm.Level, heavy.Level)
	require.NotEqual(t, calm.Description, heavy.Description)
}

func TestLevelForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Level
	}{
		{0, LevelLow},
		{24.999, LevelLow},
		{25, LevelModerate},
		{49.999, LevelModerate},
		{50, LevelHigh},
		{74.999, LevelHigh},
		{75, LevelCritical},
		{100, LevelCritical},
		{-5, LevelLow},
		{250, LevelCritical},
		{math.NaN(), LevelLow},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, LevelForScore(tc.score), "score %v", tc.score)
	}
}

func TestComputeRiskInvariantsAcrossProfiles(t *testing.T) {
	for mask := 0; mask < 64; mask++ {
		profile := HealthProfile{
			Asthma:          mask&1 != 0,
			Allergies:       mask&2 != 0,
			HeartCondition:  mask&4 != 0,
			Elderly:         mask&8 != 0,
			Children:        mask&16 != 0,
			ActiveLifestyle: mask&32 != 0,
		}
		prev := -1.0
		for aqi := -20; aqi <= 520; aqi += 5 {
			got := ComputeRisk(aqi, profile)
			require.GreaterOrEqual(t, got.Score, 0.0)
			require.LessOrEqual(t, got.Score, 100.0)
			require.Equal(t, LevelForScore(got.Score), got.Level)
			require.True(t, got.Level.Valid())
			require.Equal(t, got.Level.Color(), got.Color)
			require.NotEmpty(t, got.Description)
			require.GreaterOrEqual(t, got.Score, prev, "score must not drop as aqi rises (mask %d aqi %d)", mask, aqi)
			prev = got.Score
		}
	}
}

func TestComputeRiskEachFlagIsAdditive(t *testing.T) {
	base := ComputeRisk(50, HealthProfile{}).Score
	cases := []struct {
		profile HealthProfile
		delta   float64
	}{
		{HealthProfile{Asthma: true}, 25},
		{HealthProfile{Allergies: true}, 10},
		{HealthProfile{HeartCondition: true}, 30},
		{HealthProfile{Elderly: true}, 15},
		{HealthProfile{Children: true}, 15},
	}
	for _, tc := range cases {
		require.InDelta(t, base+tc.delta, ComputeRisk(50, tc.profile).Score, 1e-9)
	}
}
