// Package testutil provides reusable test helper functions for the
// symptom-detection test suites.
package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertInRange verifies that a scalar value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t,
			fmt.Sprintf("value %f is outside range [%f, %f]", value, minVal, maxVal),
			msgAndArgs...)
	}
	return true
}

// AssertAllInRange verifies that every element of s is within [min, max],
// reusing AssertInRange per element so a failure names the offending index.
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	ok := true
	for i, v := range s {
		if !AssertInRange(t, v, minVal, maxVal, fmt.Sprintf("s[%d]", i)) {
			ok = false
		}
	}
	return ok
}

// AssertRelativeError verifies the relative error between actual and
// expected is within tolerance. An expected of exactly zero falls back to an
// absolute-delta check against tolerance, since relative error is undefined
// at zero — callers computing a precomputed error metric (e.g. a round-trip
// relative L2 error) pass that metric as actual with expected=0.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}
