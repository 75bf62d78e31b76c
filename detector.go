package pdmonitor

import (
	"fmt"
	"log/slog"

	"github.com/trickywork/pd-motion-monitor/internal/fog"
	"github.com/trickywork/pd-motion-monitor/internal/pipeline"
	"github.com/trickywork/pd-motion-monitor/internal/window"
)

// Detector accumulates a stream of Samples into windows and runs the
// symptom pipeline once per full window. It owns the only buffered state in
// the core, the Sample Window Buffer; the gait cadence consumed by the FOG
// rule is recomputed inside each window's analysis.
type Detector struct {
	cfg      Config
	buf      *window.Buffer
	pl       *pipeline.Pipeline
	log      *slog.Logger
	windowIx int
}

// NewDetector validates cfg and builds a Detector. A degenerate window
// (WindowLen < 6 or SampleHz < 1) fails initialization with a *ConfigError.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buf, err := window.New(cfg.WindowLen)
	if err != nil {
		return nil, fmt.Errorf("pdmonitor: %w", err)
	}

	pl, err := pipeline.New(cfg.WindowLen, pipeline.Params{
		SampleHz:        cfg.SampleHz,
		TremorBandLo:    cfg.TremorBandLo,
		TremorBandHi:    cfg.TremorBandHi,
		DyskBandLo:      cfg.DyskBandLo,
		DyskBandHi:      cfg.DyskBandHi,
		BGBandLo:        cfg.BGBandLo,
		BGBandHi:        cfg.BGBandHi,
		DetectThreshold: cfg.DetectThreshold,
		BGRatio:         cfg.BGRatio,
		StepK:           cfg.StepK,
		BandPeakW:       cfg.BandPeakW,
		BandAvgW:        cfg.BandAvgW,
		BandNorm:        cfg.BandNorm,
		FOG: fog.Params{
			CadenceMin:   cfg.CadenceMin,
			FreezeVarMax: cfg.FreezeVarMax,
			FreezeDrop:   cfg.FreezeDrop,
			FOGIntVar:    cfg.FOGIntVar,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pdmonitor: %w", err)
	}

	return &Detector{cfg: cfg, buf: buf, pl: pl, log: slog.Default()}, nil
}

// Push appends one sample to the window buffer. When the window becomes
// full, Push runs the full analysis, resets the buffer's fill index, and
// returns the resulting SymptomResult with ready=true. Otherwise it returns
// the zero SymptomResult with ready=false.
func (d *Detector) Push(s Sample) (SymptomResult, bool) {
	assertFinite(s)

	full := d.buf.Push(float64(s.AccelX), float64(s.AccelY), float64(s.AccelZ),
		float64(s.GyroX), float64(s.GyroY), float64(s.GyroZ))
	if !full {
		return SymptomResult{}, false
	}

	ax, ay, az, gx, gy, gz := d.buf.View()
	res, err := d.pl.Analyze(ax, ay, az, gx, gy, gz)
	d.buf.Reset()
	windowIx := d.windowIx
	d.windowIx++
	if err != nil {
		// Analysis over a full, validated window has no reportable failure
		// mode: this can only mean a programming error elsewhere in the
		// pipeline's internal invariants, not a recoverable condition.
		d.log.Warn("pdmonitor: window analysis failed, emitting zero result",
			"window", windowIx, "error", err)
		return SymptomResult{}, true
	}

	d.log.Debug("pdmonitor: window analyzed",
		"window", windowIx,
		"cadence", res.Cadence,
		"fog_accel_var_first", res.FOG.AccelVarFirst,
		"fog_accel_var_third", res.FOG.AccelVarThird,
		"fog_gyro_var_third", res.FOG.GyroVarThird,
		"tremor_intensity", res.TremorIntensity,
		"dyskinesia_intensity", res.DyskinesiaIntensity,
		"fog_intensity", res.FOGIntensity,
	)

	return SymptomResult{
		TremorDetected:      res.TremorDetected,
		TremorIntensity:     float32(res.TremorIntensity),
		DyskinesiaDetected:  res.DyskinesiaDetected,
		DyskinesiaIntensity: float32(res.DyskinesiaIntensity),
		FOGDetected:         res.FOGDetected,
		FOGIntensity:        float32(res.FOGIntensity),
	}, true
}

// WindowLen reports the number of samples per analysis window.
func (d *Detector) WindowLen() int { return d.cfg.WindowLen }
