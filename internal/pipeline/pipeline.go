// Package pipeline orchestrates one window of symptom analysis: DC removal,
// band-energy estimation for tremor and dyskinesia, gait cadence, and the
// FOG discriminator, in the fixed order the original design specifies.
//
// The orchestration adapts the teacher's Stage interface and sequential
// stage-chain style from a resampling pipeline into a fixed analysis chain:
// each Stage reads the completed Window and writes its contribution to a
// shared AnalysisState, in order, with no backtracking. Unlike the teacher's
// pipeline, stages here are not user-selectable — the analysis order is
// fixed by the domain — so there is no ratio/latency/phase bookkeeping.
package pipeline

import (
	"fmt"

	"github.com/trickywork/pd-motion-monitor/internal/fog"
	"github.com/trickywork/pd-motion-monitor/internal/gait"
	"github.com/trickywork/pd-motion-monitor/internal/simdops"
	"github.com/trickywork/pd-motion-monitor/internal/spectral"
)

// Params bundles the threshold and band constants the pipeline needs to
// evaluate a window, mirroring Config but expressed in the pipeline's terms.
type Params struct {
	SampleHz float64

	TremorBandLo, TremorBandHi float64
	DyskBandLo, DyskBandHi     float64
	BGBandLo, BGBandHi         float64

	DetectThreshold float64
	BGRatio         float64
	StepK           float64

	BandPeakW float64
	BandAvgW  float64
	BandNorm  float64

	FOG fog.Params
}

// Window is the read-only six-channel view a Stage runs over for one
// analysis pass. It does not own its slices; the caller (Detector's window
// buffer) retains that ownership across the Analyze call.
type Window struct {
	AX, AY, AZ []float64
	GX, GY, GZ []float64
}

// AnalysisState accumulates each Stage's contribution as the chain runs.
// Stages downstream read fields earlier stages wrote.
type AnalysisState struct {
	CenteredAX, CenteredAY, CenteredAZ []float64
	AccelMag                           []float64

	TremorBand         float64
	BackgroundBand     float64
	DyskinesiaBand     float64
	TremorDetected     bool
	DyskinesiaDetected bool

	Cadence float64
	FOG     fog.Result
}

// Stage runs one ordered step of the symptom pipeline, reading w and the
// state written by prior stages, and writing its own contribution to state.
type Stage interface {
	Run(w Window, state *AnalysisState) error
}

// stageFunc adapts a plain function to the Stage interface, the same way the
// teacher's pipeline lets a resampling step be expressed as a closure over
// its own tuned parameters.
type stageFunc func(w Window, state *AnalysisState) error

func (f stageFunc) Run(w Window, state *AnalysisState) error { return f(w, state) }

// Pipeline runs the full symptom analysis for windows of a fixed length,
// reusing its band-energy estimator's FFT scratch buffers across windows.
type Pipeline struct {
	stages []Stage
}

// Result is the pipeline's output for one window, in the same shape as the
// public SymptomResult but expressed in float64 before the boundary narrows
// it to float32.
type Result struct {
	TremorDetected      bool
	TremorIntensity     float64
	DyskinesiaDetected  bool
	DyskinesiaIntensity float64
	FOGDetected         bool
	FOGIntensity        float64

	// Cadence and the FOG segment variances behind FOGDetected, carried
	// through for the caller's debug-level diagnostics.
	Cadence float64
	FOG     fog.Result
}

// New builds a Pipeline for windows of length windowLen.
func New(windowLen int, p Params) (*Pipeline, error) {
	est, err := spectral.New(windowLen, p.SampleHz, p.BandPeakW, p.BandAvgW, p.BandNorm)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	pl := &Pipeline{}
	pl.stages = []Stage{
		stageFunc(preprocessStage),
		stageFunc(magnitudeStage),
		bandEnergyStage{est: est, p: p},
		gaitStage{p: p},
		stageFunc(fogStage(p.FOG)),
	}
	return pl, nil
}

// Analyze runs the ordered stage chain over one full window's raw channels
// and returns the resulting symptom triplet.
func (p *Pipeline) Analyze(ax, ay, az, gx, gy, gz []float64) (Result, error) {
	w := Window{AX: ax, AY: ay, AZ: az, GX: gx, GY: gy, GZ: gz}
	state := &AnalysisState{}

	for _, stage := range p.stages {
		if err := stage.Run(w, state); err != nil {
			return Result{}, err
		}
	}

	return Result{
		TremorDetected:      state.TremorDetected,
		TremorIntensity:     state.TremorBand,
		DyskinesiaDetected:  state.DyskinesiaDetected,
		DyskinesiaIntensity: state.DyskinesiaBand,
		FOGDetected:         state.FOG.Detected,
		FOGIntensity:        state.FOG.Intensity,
		Cadence:             state.Cadence,
		FOG:                 state.FOG,
	}, nil
}

// preprocessStage centers each accelerometer axis on its own mean, per §4.5
// step 1. Gyroscope channels are left untouched — only the band-energy path
// needs DC-removed input.
func preprocessStage(w Window, state *AnalysisState) error {
	state.CenteredAX = center(w.AX)
	state.CenteredAY = center(w.AY)
	state.CenteredAZ = center(w.AZ)
	return nil
}

// magnitudeStage computes the raw (uncentered) accelerometer magnitude used
// by the gait stage, per §4.5 step 2. The FOG discriminator computes its own
// magnitudes from the raw channels.
func magnitudeStage(w Window, state *AnalysisState) error {
	state.AccelMag = gait.Magnitude(w.AX, w.AY, w.AZ)
	return nil
}

// bandEnergyStage runs tremor and dyskinesia band-energy estimation over the
// centered accelerometer axes, per §4.5 steps 3-4. Dyskinesia reuses the
// tremor stage's background-band value rather than recomputing it.
type bandEnergyStage struct {
	est *spectral.Estimator
	p   Params
}

func (s bandEnergyStage) Run(_ Window, state *AnalysisState) error {
	tBand, err := s.est.ThreeAxis(state.CenteredAX, state.CenteredAY, state.CenteredAZ, s.p.TremorBandLo, s.p.TremorBandHi)
	if err != nil {
		return err
	}
	tBg, err := s.est.ThreeAxis(state.CenteredAX, state.CenteredAY, state.CenteredAZ, s.p.BGBandLo, s.p.BGBandHi)
	if err != nil {
		return err
	}
	dBand, err := s.est.ThreeAxis(state.CenteredAX, state.CenteredAY, state.CenteredAZ, s.p.DyskBandLo, s.p.DyskBandHi)
	if err != nil {
		return err
	}

	state.TremorBand = tBand
	state.BackgroundBand = tBg
	state.DyskinesiaBand = dBand
	state.TremorDetected = tBand > s.p.DetectThreshold && tBand > s.p.BGRatio*tBg
	state.DyskinesiaDetected = dBand > s.p.DetectThreshold && dBand > s.p.BGRatio*tBg
	return nil
}

// gaitStage derives cadence from the raw accelerometer magnitude, per §4.5
// step 5.
type gaitStage struct{ p Params }

func (s gaitStage) Run(_ Window, state *AnalysisState) error {
	state.Cadence = gait.Cadence(state.AccelMag, s.p.StepK, s.p.SampleHz)
	return nil
}

// fogStage runs the freezing-of-gait discriminator, per §4.5 step 6, and is
// the final stage before Analyze assembles the Result.
func fogStage(p fog.Params) func(Window, *AnalysisState) error {
	return func(w Window, state *AnalysisState) error {
		state.FOG = fog.Evaluate(w.AX, w.AY, w.AZ, w.GX, w.GY, w.GZ, state.Cadence, p)
		return nil
	}
}

func center(seq []float64) []float64 {
	mean := simdops.Sum(seq) / float64(len(seq))
	out := make([]float64, len(seq))
	for i, v := range seq {
		out[i] = v - mean
	}
	return out
}
