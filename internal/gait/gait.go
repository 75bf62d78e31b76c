// Package gait implements step-peak counting and cadence estimation from
// accelerometer magnitude.
package gait

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Magnitude computes the per-sample Euclidean magnitude of a 3-axis block.
func Magnitude(x, y, z []float64) []float64 {
	mag := make([]float64, len(x))
	for i := range x {
		mag[i] = math.Sqrt(x[i]*x[i] + y[i]*y[i] + z[i]*z[i])
	}
	return mag
}

// Cadence counts step peaks in the accelerometer magnitude series and
// converts the count to steps per second given the sample rate.
//
// A step peak is an index i in (0, len(mag)-1) where mag[i] exceeds the
// threshold T = mean + stepK*stddev, mag[i] is a local maximum
// (mag[i] > mag[i-1] and mag[i] > mag[i+1]), and the previous sample was at
// or below T — an upward crossing into the local maximum. There is no
// minimum inter-peak spacing; bursts can overcount.
func Cadence(mag []float64, stepK, sampleHz float64) float64 {
	steps := CountSteps(mag, stepK)
	windowSeconds := float64(len(mag)) / sampleHz
	if windowSeconds == 0 {
		return 0
	}
	return float64(steps) / windowSeconds
}

// CountSteps returns the raw step-peak count used by Cadence.
func CountSteps(mag []float64, stepK float64) int {
	if len(mag) < 3 {
		return 0
	}
	mean, sampleStd := stat.MeanStdDev(mag, nil)
	// stat.MeanStdDev applies Bessel's correction (N-1 divisor); the step
	// threshold needs the population (N divisor) standard deviation to match
	// fog.variance's convention, so rescale.
	std := sampleStd * math.Sqrt(float64(len(mag)-1)/float64(len(mag)))
	threshold := mean + stepK*std

	steps := 0
	wasAbove := mag[0] > threshold
	for i := 1; i < len(mag)-1; i++ {
		isLocalMax := mag[i] > mag[i-1] && mag[i] > mag[i+1]
		if mag[i] > threshold && isLocalMax && !wasAbove {
			steps++
		}
		wasAbove = mag[i] > threshold
	}
	return steps
}
