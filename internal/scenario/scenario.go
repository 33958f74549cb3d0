// Package scenario scripts time-scale changes for headless runs.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/timescale"
)

// Scenario is a list of preset switches keyed by frame index.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Switches    []Switch `yaml:"switches"`
}

// Switch selects Scale before frame Frame is integrated.
type Switch struct {
	Frame int    `yaml:"frame"`
	Scale string `yaml:"scale"`
}

// Load reads and validates a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(sc.Switches, func(i, j int) bool {
		return sc.Switches[i].Frame < sc.Switches[j].Frame
	})
	return &sc, nil
}

// Validate rejects negative frames and unknown presets. Unlike a live
// trigger, a bad key in a file is a configuration error.
func (s *Scenario) Validate() error {
	for i, sw := range s.Switches {
		if sw.Frame < 0 {
			return fmt.Errorf("switch %d: frame must not be negative, got %d", i+1, sw.Frame)
		}
		if _, ok := timescale.Lookup(sw.Scale); !ok {
			return fmt.Errorf("switch %d: %w: %q", i+1, timescale.ErrUnknownPreset, sw.Scale)
		}
	}
	return nil
}

// Director returns a hook that applies the switches due at each frame.
// Frames must be visited in increasing order.
func (s *Scenario) Director(ctrl *timescale.Controller) func(frame int) {
	next := 0
	return func(frame int) {
		for next < len(s.Switches) && s.Switches[next].Frame <= frame {
			// Keys were validated on load.
			_ = ctrl.Set(s.Switches[next].Scale)
			next++
		}
	}
}
