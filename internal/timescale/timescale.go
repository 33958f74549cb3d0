// Package timescale maps named playback presets to the number of simulated
// seconds that elapse per real second.
package timescale

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownPreset is returned when a trigger names a key that is not in the table.
var ErrUnknownPreset = errors.New("timescale: unknown preset")

// Preset keys.
const (
	RealTime    = "realTime"
	OneDay      = "oneDay"
	OneWeek     = "oneWeek"
	OneMonth    = "oneMonth"
	ThreeMonths = "threeMonths"
	SixMonths   = "sixMonths"
	OneYear     = "oneYear"

	Default = OneMonth
)

const day = 24 * 3600

// Preset is one row of the table.
type Preset struct {
	Key        string
	Label      string
	Multiplier float64
}

// presets is ordered from slowest to fastest.
var presets = []Preset{
	{RealTime, "real time", 1},
	{OneDay, "1 day/s", day},
	{OneWeek, "1 week/s", 7 * day},
	{OneMonth, "1 month/s", 30 * day},
	{ThreeMonths, "3 months/s", 90 * day},
	{SixMonths, "6 months/s", 182.5 * day},
	{OneYear, "1 year/s", 365.25 * day},
}

// Presets returns a copy of the preset table in presentation order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Keys lists preset keys in presentation order.
func Keys() []string {
	keys := make([]string, len(presets))
	for i, p := range presets {
		keys[i] = p.Key
	}
	return keys
}

// Lookup finds a preset by key.
func Lookup(key string) (Preset, bool) {
	i := index(key)
	if i < 0 {
		return Preset{}, false
	}
	return presets[i], true
}

func index(key string) int {
	for i, p := range presets {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// Scale is what the frame loop reads once per frame.
type Scale interface {
	Multiplier() float64
}

// Fixed is a Scale that never changes.
type Fixed float64

func (f Fixed) Multiplier() float64 { return float64(f) }

// Controller holds the current preset selection. Writes come from input
// handlers on the frame loop's goroutine; it is not safe for concurrent use.
type Controller struct {
	current int
	logger  *slog.Logger
}

// NewController starts at key, or at Default when key is empty.
func NewController(key string) (*Controller, error) {
	if key == "" {
		key = Default
	}
	i := index(key)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, key)
	}
	return &Controller{current: i, logger: slog.Default()}, nil
}

// WithLogger replaces the logger used for rejected triggers.
func (c *Controller) WithLogger(l *slog.Logger) *Controller {
	c.logger = l
	return c
}

// Set selects key for the next frame. An unknown key keeps the current
// multiplier, logs a warning and returns ErrUnknownPreset.
func (c *Controller) Set(key string) error {
	i := index(key)
	if i < 0 {
		c.logger.Warn("ignoring unknown time scale", "key", key, "current", presets[c.current].Key)
		return fmt.Errorf("%w: %q", ErrUnknownPreset, key)
	}
	if i != c.current {
		c.logger.Debug("time scale changed", "from", presets[c.current].Key, "to", key)
	}
	c.current = i
	return nil
}

// Next moves to the next faster preset, wrapping to the slowest.
func (c *Controller) Next() {
	c.current = (c.current + 1) % len(presets)
}

// Prev moves to the next slower preset, wrapping to the fastest.
func (c *Controller) Prev() {
	c.current = (c.current - 1 + len(presets)) % len(presets)
}

func (c *Controller) Key() string         { return presets[c.current].Key }
func (c *Controller) Preset() Preset      { return presets[c.current] }
func (c *Controller) Multiplier() float64 { return presets[c.current].Multiplier }
