// Package sim provides reference Source and Sink implementations for the
// simulation harness: deterministic synthetic waveform generators matching
// the scenarios used to validate detection, and a console/byte-quantizing
// publisher standing in for a BLE transport.
package sim

import (
	"fmt"
	"math"

	"github.com/trickywork/pd-motion-monitor"
)

// Scenario selects which synthetic waveform Source generates.
type Scenario string

const (
	ScenarioNormal     Scenario = "normal"
	ScenarioTremor     Scenario = "tremor"
	ScenarioDyskinesia Scenario = "dyskinesia"
	ScenarioFOG        Scenario = "fog"
)

// Source generates deterministic synthetic IMU samples for one Scenario at
// a fixed sample rate. It never blocks; ReadBlocking returns immediately,
// mirroring a simulation's ability to outrun real hardware.
type Source struct {
	scenario  Scenario
	sampleHz  float64
	windowLen int
	tick      int
}

// NewSource builds a Source for the given scenario, sample rate, and the
// window length needed to know where a walk-then-freeze scenario's midpoint
// falls.
func NewSource(scenario Scenario, sampleHz float64, windowLen int) (*Source, error) {
	switch scenario {
	case ScenarioNormal, ScenarioTremor, ScenarioDyskinesia, ScenarioFOG:
	default:
		return nil, fmt.Errorf("sim: unknown scenario %q", scenario)
	}
	return &Source{scenario: scenario, sampleHz: sampleHz, windowLen: windowLen}, nil
}

// Init always succeeds for the simulated source.
func (s *Source) Init() error { return nil }

// ReadBlocking returns the next synthetic sample for the configured
// scenario and advances the internal tick counter.
func (s *Source) ReadBlocking() (pdmonitor.Sample, error) {
	t := float64(s.tick) / s.sampleHz
	sample := s.sampleAt(t, s.tick)
	s.tick++
	return sample, nil
}

func (s *Source) sampleAt(t float64, tick int) pdmonitor.Sample {
	switch s.scenario {
	case ScenarioTremor:
		return pdmonitor.Sample{
			AccelX: float32(0.2 * math.Sin(2*math.Pi*4*t)),
			AccelY: float32(0.2 * math.Sin(2*math.Pi*4*t+math.Pi/4)),
			AccelZ: 1.0,
		}
	case ScenarioDyskinesia:
		return pdmonitor.Sample{
			AccelX: float32(0.3 * math.Sin(2*math.Pi*6*t)),
			AccelY: float32(0.3 * math.Sin(2*math.Pi*6*t+math.Pi/3)),
			AccelZ: 1.0,
		}
	case ScenarioFOG:
		half := s.windowLen / 2
		if tick%s.windowLen < half {
			return pdmonitor.Sample{
				AccelX: float32(0.5 * math.Sin(2*math.Pi*2*t)),
				AccelY: float32(0.5 * math.Sin(2*math.Pi*2*t+math.Pi/2)),
				AccelZ: 1.0,
			}
		}
		return pdmonitor.Sample{AccelX: 0.01, AccelY: 0.01, AccelZ: 1.0}
	default: // ScenarioNormal
		return pdmonitor.Sample{AccelZ: 1.0}
	}
}
