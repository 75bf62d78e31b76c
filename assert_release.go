//go:build !debugAsserts

package pdmonitor

// assertFinite is a no-op in release builds; see assert_debug.go.
func assertFinite(Sample) {}
