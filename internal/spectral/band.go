// Package spectral implements the band-energy estimator: mapping an axis's
// FFT magnitude spectrum to a normalized [0,1] intensity for a frequency
// band, and aggregating across the three axes of a 3-axis sensor.
package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/trickywork/pd-motion-monitor/internal/fft"
)

// Estimator evaluates band energy for sequences of a fixed length, reusing
// an internal FFT engine across calls.
type Estimator struct {
	engine   *fft.Engine
	sampleHz float64
	peakW    float64
	avgW     float64
	norm     float64
}

// New builds an Estimator for sequences of length seqLen sampled at
// sampleHz, combining peak and mean bin magnitude with the given weights and
// normalization divisor.
func New(seqLen int, sampleHz, peakW, avgW, norm float64) (*Estimator, error) {
	if norm <= 0 {
		return nil, fmt.Errorf("spectral: norm must be > 0, got %f", norm)
	}
	e, err := fft.New(seqLen)
	if err != nil {
		return nil, err
	}
	return &Estimator{engine: e, sampleHz: sampleHz, peakW: peakW, avgW: avgW, norm: norm}, nil
}

// SingleAxis computes the normalized band intensity of one sequence for the
// band [fMin, fMax] Hz. Only bins 0..N/2-1 are consulted, per the Nyquist
// limit of the original (unpadded) sequence length.
func (e *Estimator) SingleAxis(seq []float64, fMin, fMax float64) (float64, error) {
	nyquistBins := len(seq) / 2
	mags, err := e.engine.Magnitudes(seq, nyquistBins)
	if err != nil {
		return 0, err
	}

	var selected []float64
	var peak float64
	for k, m := range mags {
		f := e.engine.Frequency(k, e.sampleHz)
		if f < fMin || f > fMax {
			continue
		}
		selected = append(selected, m)
		if m > peak {
			peak = m
		}
	}
	if len(selected) == 0 {
		return 0, nil
	}

	avg := stat.Mean(selected, nil)
	combined := e.peakW*peak + e.avgW*avg
	intensity := combined / e.norm
	if intensity > 1 {
		intensity = 1
	}
	return intensity, nil
}

// ThreeAxis runs SingleAxis on x, y, and z and returns the maximum — the
// "worst axis" aggregate, so a symptom confined to one direction still
// scores.
func (e *Estimator) ThreeAxis(x, y, z []float64, fMin, fMax float64) (float64, error) {
	ix, err := e.SingleAxis(x, fMin, fMax)
	if err != nil {
		return 0, err
	}
	iy, err := e.SingleAxis(y, fMin, fMax)
	if err != nil {
		return 0, err
	}
	iz, err := e.SingleAxis(z, fMin, fMax)
	if err != nil {
		return 0, err
	}
	worst := ix
	if iy > worst {
		worst = iy
	}
	if iz > worst {
		worst = iz
	}
	return worst, nil
}
