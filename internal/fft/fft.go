// Package fft implements the fixed-size spectral transform used by the
// band-energy estimator: a radix-2 Cooley-Tukey FFT over a signal zero-padded
// to the next power of two, truncated back to the caller's requested number
// of bins on the way out.
package fft

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/trickywork/pd-motion-monitor/internal/mathutil"
)

// Engine computes forward transforms of a fixed input length, reusing its
// scratch buffers across calls so a window-sized analysis never allocates on
// the hot path.
type Engine struct {
	inputLen int
	fftLen   int
	scratch  []complex128
	bitrev   []int
	twiddle  []complex128
	mags     []float64
}

// New builds an Engine for signals of length inputLen. The engine internally
// zero-pads to the next power of two at or above inputLen.
func New(inputLen int) (*Engine, error) {
	if inputLen <= 0 {
		return nil, fmt.Errorf("fft: invalid input length %d", inputLen)
	}
	fftLen := mathutil.NextPow2(inputLen)

	e := &Engine{
		inputLen: inputLen,
		fftLen:   fftLen,
		scratch:  make([]complex128, fftLen),
		bitrev:   make([]int, fftLen),
		twiddle:  make([]complex128, fftLen/2),
		mags:     make([]float64, fftLen),
	}
	e.precomputeBitReversal()
	e.precomputeTwiddles()
	return e, nil
}

// FFTLen reports the zero-padded transform length.
func (e *Engine) FFTLen() int { return e.fftLen }

func (e *Engine) precomputeBitReversal() {
	bits := int(math.Log2(float64(e.fftLen)))
	for i := range e.bitrev {
		e.bitrev[i] = reverseBits(i, bits)
	}
}

func reverseBits(i, bits int) int {
	r := 0
	for b := 0; b < bits; b++ {
		r = (r << 1) | (i & 1)
		i >>= 1
	}
	return r
}

func (e *Engine) precomputeTwiddles() {
	n := e.fftLen
	for k := range e.twiddle {
		theta := -2 * math.Pi * float64(k) / float64(n)
		e.twiddle[k] = cmplx.Rect(1, theta)
	}
}

// Magnitudes computes the magnitude spectrum of signal (which must have
// length inputLen) and returns the first nBins entries of the zero-padded
// transform. The returned slice is owned by the Engine and is overwritten on
// the next call.
func (e *Engine) Magnitudes(signal []float64, nBins int) ([]float64, error) {
	if len(signal) != e.inputLen {
		return nil, fmt.Errorf("fft: expected %d samples, got %d", e.inputLen, len(signal))
	}
	if nBins <= 0 || nBins > e.fftLen {
		return nil, fmt.Errorf("fft: nBins %d out of range [1,%d]", nBins, e.fftLen)
	}

	for i, idx := range e.bitrev {
		if i < len(signal) {
			e.scratch[idx] = complex(signal[i], 0)
		} else {
			e.scratch[idx] = 0
		}
	}

	e.butterflyPasses()

	for i := 0; i < nBins; i++ {
		e.mags[i] = cmplx.Abs(e.scratch[i])
	}
	return e.mags[:nBins], nil
}

// Transform computes the full zero-padded complex spectrum of signal
// (length inputLen), returning all FFTLen bins. Unlike Magnitudes, the
// returned slice is a fresh copy safe to retain across further Engine
// calls, since the inverse transform needs to hold a spectrum stable while
// reusing the same scratch space.
func (e *Engine) Transform(signal []float64) ([]complex128, error) {
	if len(signal) != e.inputLen {
		return nil, fmt.Errorf("fft: expected %d samples, got %d", e.inputLen, len(signal))
	}
	for i, idx := range e.bitrev {
		if i < len(signal) {
			e.scratch[idx] = complex(signal[i], 0)
		} else {
			e.scratch[idx] = 0
		}
	}
	e.butterflyPasses()

	out := make([]complex128, e.fftLen)
	copy(out, e.scratch)
	return out, nil
}

// Inverse computes the inverse transform of a length-FFTLen spectrum via
// conjugate-FFT-conjugate / N, per the optional inverse transform spec: not
// consumed by the symptom pipeline, provided for completeness and round-trip
// verification.
func (e *Engine) Inverse(spectrum []complex128) ([]float64, error) {
	if len(spectrum) != e.fftLen {
		return nil, fmt.Errorf("fft: expected spectrum of length %d, got %d", e.fftLen, len(spectrum))
	}
	for i, idx := range e.bitrev {
		e.scratch[idx] = cmplx.Conj(spectrum[i])
	}
	e.butterflyPasses()

	out := make([]float64, e.fftLen)
	for i, v := range e.scratch {
		out[i] = real(cmplx.Conj(v)) / float64(e.fftLen)
	}
	return out, nil
}

// butterflyPasses runs the iterative decimation-in-time Cooley-Tukey passes
// over e.scratch, which must already hold the bit-reversed input.
func (e *Engine) butterflyPasses() {
	n := e.fftLen
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		stride := n / size
		for start := 0; start < n; start += size {
			for j := 0; j < half; j++ {
				w := e.twiddle[j*stride]
				even := e.scratch[start+j]
				odd := e.scratch[start+j+half] * w
				e.scratch[start+j] = even + odd
				e.scratch[start+j+half] = even - odd
			}
		}
	}
}

// Frequency maps a bin index to its frequency in Hz given a sample rate.
// Bin spacing is sampleHz / inputLen, not sampleHz / FFTLen: the caller's
// unpadded sequence length is what defines a bin's frequency, even though
// the transform itself runs over the zero-padded length.
func (e *Engine) Frequency(bin int, sampleHz float64) float64 {
	return float64(bin) * sampleHz / float64(e.inputLen)
}
