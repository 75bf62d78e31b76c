// Package fog implements the freezing-of-gait discriminator: a three-way
// conjunctive rule over per-segment variance of the window, plus an
// independent intensity mapping from the variance of the last half-window.
package fog

import (
	"gonum.org/v1/gonum/stat"

	"github.com/trickywork/pd-motion-monitor/internal/gait"
)

// Thirds splits n into three equal segments of length n/3 (integer
// division); any remainder is discarded and the segments do not absorb it.
// It returns the [start,end) bounds of the first and third segments — the
// middle segment is computed by the caller only if needed, since the
// discriminator never consults it.
func Thirds(n int) (firstStart, firstEnd, thirdStart, thirdEnd int) {
	third := n / 3
	firstStart, firstEnd = 0, third
	thirdStart, thirdEnd = 2*third, 3*third
	return
}

// Result carries the discriminator's verdict and intensity, plus the segment
// variances behind the verdict — surfaced for debug-level diagnostics, not
// consumed by the decision rule itself (that's already baked into Detected).
type Result struct {
	Detected  bool
	Intensity float64

	AccelVarFirst float64 // V1: accel magnitude variance, first third
	AccelVarThird float64 // V3: accel magnitude variance, last third
	GyroVarThird  float64 // G3: gyro magnitude variance, last third
}

// Params bundles the threshold constants the discriminator needs.
type Params struct {
	CadenceMin   float64
	FreezeVarMax float64
	FreezeDrop   float64
	FOGIntVar    float64
}

// Evaluate runs the conjunctive FOG rule given raw (DC-containing)
// accelerometer and gyroscope channels over a full window, plus the
// cadence computed by the gait analyzer for the same window.
func Evaluate(ax, ay, az, gx, gy, gz []float64, cadence float64, p Params) Result {
	n := len(ax)
	firstStart, firstEnd, thirdStart, thirdEnd := Thirds(n)

	accelMag := gait.Magnitude(ax, ay, az)
	gyroMag := gait.Magnitude(gx, gy, gz)

	v1 := variance(accelMag[firstStart:firstEnd])
	v3 := variance(accelMag[thirdStart:thirdEnd])
	g3 := variance(gyroMag[thirdStart:thirdEnd])

	wasWalking := cadence > p.CadenceMin
	isFrozen := v3 < p.FreezeVarMax && g3 < p.FreezeVarMax
	suddenStop := v3 < p.FreezeDrop*v1

	detected := wasWalking && isFrozen && suddenStop

	half := n / 2
	vHalf := variance(accelMag[n-half:])
	intensity := clamp01((p.FOGIntVar - vHalf) / p.FOGIntVar)

	return Result{
		Detected:      detected,
		Intensity:     intensity,
		AccelVarFirst: v1,
		AccelVarThird: v3,
		GyroVarThird:  g3,
	}
}

func variance(m []float64) float64 {
	if len(m) < 2 {
		return 0
	}
	return stat.Variance(m, nil) * float64(len(m)-1) / float64(len(m))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
