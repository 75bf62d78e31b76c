package pdmonitor

import "fmt"

// Config holds the fixed, build-time parameters of a Detector. Constants that
// would be input-validated once at startup if made runtime-configurable.
type Config struct {
	SampleHz  float64 // IMU sample rate
	WindowLen int     // samples per analysis window (= 3s * SampleHz at default rate)

	TremorBandLo, TremorBandHi float64 // Hz
	DyskBandLo, DyskBandHi     float64 // Hz
	BGBandLo, BGBandHi         float64 // Hz

	DetectThreshold float64 // minimum band intensity for positive
	BGRatio         float64 // band must exceed background x this
	CadenceMin      float64 // steps/s, minimum prior walking to consider FOG
	FreezeVarMax    float64 // variance ceiling for "frozen" segment
	FreezeDrop      float64 // last/first variance ratio ceiling for "sudden stop"
	FOGIntVar       float64 // scale for FOG intensity mapping
	StepK           float64 // step threshold = mean + K*stddev
	BandPeakW       float64 // peak weight in combined band energy
	BandAvgW        float64 // mean weight in combined band energy
	BandNorm        float64 // divisor clamping band intensity to [0,1]
}

// DefaultConfig returns the parameter set described by the reference design:
// 52 Hz sampling, 156-sample (3s) windows, and the empirically tuned band and
// threshold constants.
func DefaultConfig() Config {
	return Config{
		SampleHz:  52,
		WindowLen: 156,

		TremorBandLo: 3.0, TremorBandHi: 5.0,
		DyskBandLo: 5.0, DyskBandHi: 7.0,
		BGBandLo: 0.0, BGBandHi: 2.0,

		DetectThreshold: 0.25,
		BGRatio:         1.2,
		CadenceMin:      0.3,
		FreezeVarMax:    0.01,
		FreezeDrop:      0.5,
		FOGIntVar:       0.005,
		StepK:           0.5,
		BandPeakW:       0.8,
		BandAvgW:        0.2,
		BandNorm:        1.2,
	}
}

// ConfigError reports a configuration that fails validation at startup,
// such as a window too small to segment into thirds.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdmonitor: invalid config field %q: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("pdmonitor: invalid config field %q: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// Validate checks the configuration for the degenerate-window error kind:
// a window too small to host the six-channel buffer or the FOG discriminator's
// three-way segmentation, a sample rate below 1 Hz, or a band whose edges
// are negative or inverted. It also rejects a non-positive BandNorm or
// FOGIntVar, since both are used as divisors.
func (c Config) Validate() error {
	if c.SampleHz < 1 {
		return &ConfigError{Field: "SampleHz", Message: "must be >= 1"}
	}
	if c.WindowLen < 6 {
		return &ConfigError{Field: "WindowLen", Message: "must be >= 6"}
	}
	if c.BandNorm <= 0 {
		return &ConfigError{Field: "BandNorm", Message: "must be > 0"}
	}
	if c.FOGIntVar <= 0 {
		return &ConfigError{Field: "FOGIntVar", Message: "must be > 0"}
	}
	if err := validateBand("TremorBand", c.TremorBandLo, c.TremorBandHi); err != nil {
		return err
	}
	if err := validateBand("DyskBand", c.DyskBandLo, c.DyskBandHi); err != nil {
		return err
	}
	if err := validateBand("BGBand", c.BGBandLo, c.BGBandHi); err != nil {
		return err
	}
	return nil
}

// validateBand checks that a [lo, hi] frequency band is non-negative and not
// inverted. An inverted or negative band silently zeroes out the estimator
// (every bin fails the f < lo || f > hi test) instead of failing fast.
func validateBand(name string, lo, hi float64) error {
	if lo < 0 {
		return &ConfigError{Field: name + "Lo", Message: "must be >= 0"}
	}
	if hi < 0 {
		return &ConfigError{Field: name + "Hi", Message: "must be >= 0"}
	}
	if lo > hi {
		return &ConfigError{Field: name, Message: "lo must be <= hi"}
	}
	return nil
}
