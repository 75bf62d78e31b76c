package gait

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trickywork/pd-motion-monitor/internal/testutil"
)

func TestMagnitude(t *testing.T) {
	mag := Magnitude([]float64{3}, []float64{4}, []float64{0})
	require.InDelta(t, 5.0, mag[0], 1e-9)
}

func TestCountSteps_FlatSignalHasNoSteps(t *testing.T) {
	mag := make([]float64, 156)
	for i := range mag {
		mag[i] = 1.0
	}
	require.Equal(t, 0, CountSteps(mag, 0.5))
}

func TestCountSteps_CountsUpwardCrossingPeaks(t *testing.T) {
	const sampleHz = 52.0
	const n = 156
	// One single-sample spike every half second (2 Hz): each spike is both
	// the first sample above the threshold and a local maximum.
	period := int(sampleHz) / 2
	mag := make([]float64, n)
	for i := 0; i < n; i++ {
		mag[i] = 1.0
		if i%period == period/2 {
			mag[i] = 2.0
		}
	}
	steps := CountSteps(mag, 0.5)
	require.Greater(t, steps, 0)
}

func TestCadence_ZeroWindowIsZero(t *testing.T) {
	mag := make([]float64, 156)
	require.Equal(t, 0.0, Cadence(mag, 0.5, 52))
}

func TestCadence_NonNegative(t *testing.T) {
	mag := make([]float64, 156)
	for i := range mag {
		mag[i] = float64(i % 7)
	}
	c := Cadence(mag, 0.5, 52)
	testutil.AssertInRange(t, c, 0.0, math.Inf(1))
}
