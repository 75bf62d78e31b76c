// Command pdmonitor is the simulation harness: it drives a Detector with a
// synthetic Source for a chosen scenario and reports each window's symptom
// triplet to standard output.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/trickywork/pd-motion-monitor"
	"github.com/trickywork/pd-motion-monitor/sim"
)

func main() {
	scenario := flag.String("scenario", "normal", "simulation scenario: normal, tremor, dyskinesia, fog")
	windows := flag.Int("windows", 3, "number of windows to analyze")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if err := run(*scenario, *windows, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(scenario string, windows int, out *os.File) error {
	cfg := pdmonitor.DefaultConfig()

	det, err := pdmonitor.NewDetector(cfg)
	if err != nil {
		return fmt.Errorf("pdmonitor: initializing detector: %w", err)
	}

	src, err := sim.NewSource(sim.Scenario(scenario), cfg.SampleHz, cfg.WindowLen)
	if err != nil {
		return fmt.Errorf("pdmonitor: initializing source: %w", err)
	}
	if err := src.Init(); err != nil {
		return fmt.Errorf("pdmonitor: source init failed: %w", err)
	}

	sink := sim.NewSink(out)
	publish := true
	if err := sink.Init(); err != nil {
		slog.Warn("pdmonitor: sink init failed, continuing without publication", "error", err)
		publish = false
	}

	samplesNeeded := windows * cfg.WindowLen
	for i := 0; i < samplesNeeded; i++ {
		s, err := src.ReadBlocking()
		if err != nil {
			return fmt.Errorf("pdmonitor: reading sample: %w", err)
		}
		result, ready := det.Push(s)
		if !ready || !publish {
			continue
		}
		if err := sink.Publish(result); err != nil {
			slog.Warn("pdmonitor: publish failed, dropping result", "error", err)
		}
	}

	return nil
}
