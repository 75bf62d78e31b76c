package sim

import (
	"fmt"
	"io"

	"github.com/trickywork/pd-motion-monitor"
)

// Sink publishes SymptomResults as human-readable lines to an io.Writer and
// keeps the last published result quantized to bytes, standing in for a BLE
// characteristic update: detection flags as 0/1, intensities as
// floor(intensity*255).
type Sink struct {
	w      io.Writer
	window int

	TremorStatus, DyskinesiaStatus, FOGStatus                      uint8
	TremorIntensityByte, DyskinesiaIntensityByte, FOGIntensityByte uint8
}

// NewSink builds a Sink writing reports to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Init always succeeds for the console sink.
func (s *Sink) Init() error { return nil }

// Publish writes a one-line report and updates the quantized byte
// characteristics. Publication never fails the pipeline: a write error is
// returned but the core treats Sink errors as non-fatal per the adapter
// contract.
func (s *Sink) Publish(r pdmonitor.SymptomResult) error {
	s.window++

	s.TremorStatus = boolByte(r.TremorDetected)
	s.DyskinesiaStatus = boolByte(r.DyskinesiaDetected)
	s.FOGStatus = boolByte(r.FOGDetected)
	s.TremorIntensityByte = quantize(r.TremorIntensity)
	s.DyskinesiaIntensityByte = quantize(r.DyskinesiaIntensity)
	s.FOGIntensityByte = quantize(r.FOGIntensity)

	_, err := fmt.Fprintf(s.w,
		"window %4d: tremor=%-5v(%.2f) dyskinesia=%-5v(%.2f) fog=%-5v(%.2f)\n",
		s.window,
		r.TremorDetected, r.TremorIntensity,
		r.DyskinesiaDetected, r.DyskinesiaIntensity,
		r.FOGDetected, r.FOGIntensity,
	)
	return err
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func quantize(intensity float32) uint8 {
	v := intensity * 255
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
