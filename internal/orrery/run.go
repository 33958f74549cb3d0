package orrery

import (
	"context"
	"fmt"
)

// RunConfig controls a headless run.
type RunConfig struct {
	Frames int
	// Every records a sample every Every frames. The final frame is always recorded.
	Every int
	// BeforeFrame runs ahead of each frame with its zero-based index; scale
	// changes made here apply to that frame.
	BeforeFrame func(frame int)
}

// Sample is the state after a recorded frame. Orbit and Spin hold the
// unwrapped angles, starting phase included.
type Sample struct {
	Frame      int
	Time       float64
	Multiplier float64
	Orbit      []float64
	Spin       []float64
}

// Result collects the samples of a headless run.
type Result struct {
	Bodies  []string
	Samples []Sample
	Frames  int
	Elapsed float64
}

// Run advances the system cfg.Frames times on its own clock, recording
// the initial state and every cfg.Every-th frame.
func (s *System) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.Every <= 0 {
		cfg.Every = 1
	}

	result := &Result{
		Bodies:  make([]string, len(s.bodies)),
		Samples: make([]Sample, 0, cfg.Frames/cfg.Every+2),
	}
	for i, b := range s.bodies {
		result.Bodies[i] = b.Name
	}
	// Row 0 carries the multiplier that drives the first frame.
	if cfg.BeforeFrame != nil {
		cfg.BeforeFrame(0)
	}
	result.Samples = append(result.Samples, s.sample(0))

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			result.Frames = i
			result.Elapsed = s.elapsed
			return result, ctx.Err()
		default:
		}

		if cfg.BeforeFrame != nil && i > 0 {
			cfg.BeforeFrame(i)
		}
		s.Frame()

		n := i + 1
		if n%cfg.Every == 0 || n == cfg.Frames {
			result.Samples = append(result.Samples, s.sample(n))
		}
	}

	result.Frames = cfg.Frames
	result.Elapsed = s.elapsed
	return result, nil
}

func (s *System) sample(frame int) Sample {
	smp := Sample{
		Frame:      frame,
		Time:       s.elapsed,
		Multiplier: s.scale.Multiplier(),
		Orbit:      make([]float64, len(s.bodies)),
		Spin:       make([]float64, len(s.bodies)),
	}
	for i, b := range s.bodies {
		smp.Orbit[i] = b.Orbit.Total()
		smp.Spin[i] = b.Spin.Total()
	}
	return smp
}
