package healthrisk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

func TestNormalizeReading(t *testing.T) {
	in := environment.Reading{
		Timestamp: "3 PM",
		AQI:       -4,
		PM25:      math.NaN(),
		PM10:      -1,
		CO:        math.Inf(1),
		Temp:      -5,
		Humidity:  120,
		WindSpeed: -2,
		Pressure:  math.Inf(-1),
		UVIndex:   -0.5,
	}
	got := NormalizeReading(in)
	require.Equal(t, environment.Reading{
		Timestamp: "3 PM",
		Temp:      -5,
		Humidity:  100,
	}, got)
	require.Equal(t, -4, in.AQI)
}

func TestNormalizeReadingClampsLowHumidity(t *testing.T) {
	got := NormalizeReading(environment.Reading{Humidity: -10, PM25: 12.5})
	require.Equal(t, 0.0, got.Humidity)
	require.Equal(t, 12.5, got.PM25)
}
