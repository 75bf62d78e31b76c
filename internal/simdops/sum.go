// Package simdops wraps the SIMD-accelerated float64 reductions used on the
// pipeline's per-window hot path (DC-mean subtraction), trimmed to the one
// operation this domain's analysis actually needs.
package simdops

import "github.com/tphakala/simd/f64"

// Sum returns the sum of all elements of a, using SIMD acceleration where
// available.
func Sum(a []float64) float64 {
	return f64.Sum(a)
}
