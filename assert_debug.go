//go:build debugAsserts

package pdmonitor

import "math"

// assertFinite panics on non-finite input when built with -tags debugAsserts.
// Non-finite samples are a programming error in the source adapter; release
// builds skip this check entirely and let the value propagate.
func assertFinite(s Sample) {
	vals := [...]float32{s.AccelX, s.AccelY, s.AccelZ, s.GyroX, s.GyroY, s.GyroZ}
	for _, v := range vals {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			panic("pdmonitor: non-finite sample")
		}
	}
}
