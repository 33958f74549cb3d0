package timescale

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func TestPresetMultipliers(t *testing.T) {
	tests := []struct {
		key  string
		want float64
	}{
		{RealTime, 1},
		{OneDay, 86400},
		{OneWeek, 604800},
		{OneMonth, 2592000},
		{ThreeMonths, 7776000},
		{SixMonths, 15768000},
		{OneYear, 31557600},
	}

	for _, tt := range tests {
		p, ok := Lookup(tt.key)
		if !ok {
			t.Fatalf("preset %s missing", tt.key)
		}
		if p.Multiplier != tt.want {
			t.Errorf("%s: multiplier = %v, want %v", tt.key, p.Multiplier, tt.want)
		}
	}

	if len(Keys()) != len(tests) {
		t.Errorf("expected %d presets, got %d", len(tests), len(Keys()))
	}
}

func TestPresets_UniqueAndIncreasing(t *testing.T) {
	seen := map[string]bool{}
	prev := 0.0
	for _, p := range Presets() {
		if seen[p.Key] {
			t.Errorf("duplicate key %s", p.Key)
		}
		seen[p.Key] = true
		if p.Multiplier <= prev {
			t.Errorf("%s: multiplier %v not greater than %v", p.Key, p.Multiplier, prev)
		}
		prev = p.Multiplier
	}
}

func TestNewController(t *testing.T) {
	c, err := NewController("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key() != OneMonth {
		t.Errorf("default key = %s, want %s", c.Key(), OneMonth)
	}

	if _, err := NewController("fortnight"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestController_Set(t *testing.T) {
	c, _ := NewController(OneDay)
	if err := c.Set(OneYear); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if c.Multiplier() != 31557600 {
		t.Errorf("multiplier = %v, want 31557600", c.Multiplier())
	}
}

func TestController_SetUnknownKeepsMultiplier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c, _ := NewController(OneWeek)
	c.WithLogger(logger)

	err := c.Set("oneCentury")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
	if c.Key() != OneWeek || c.Multiplier() != 604800 {
		t.Errorf("controller changed to %s (%v)", c.Key(), c.Multiplier())
	}
	if !strings.Contains(buf.String(), "oneCentury") {
		t.Errorf("expected warning naming the key, got %q", buf.String())
	}
}

func TestController_Cycle(t *testing.T) {
	c, _ := NewController(OneYear)
	c.Next()
	if c.Key() != RealTime {
		t.Errorf("Next from oneYear = %s, want realTime", c.Key())
	}
	c.Prev()
	if c.Key() != OneYear {
		t.Errorf("Prev from realTime = %s, want oneYear", c.Key())
	}
	c.Prev()
	if c.Key() != SixMonths {
		t.Errorf("Prev from oneYear = %s, want sixMonths", c.Key())
	}
}

func TestFixed(t *testing.T) {
	var s Scale = Fixed(42)
	if s.Multiplier() != 42 {
		t.Errorf("Fixed multiplier = %v", s.Multiplier())
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "00:00:00"},
		{3661, "01:01:01"},
		{86400 + 60, "1d 00:01:00"},
		{2 * 365.25 * 86400, "2y 0d 00:00:00"},
		{1500 * 365.25 * 86400, "1,500y 0d 00:00:00"},
		{-5, "00:00:00"},
		{math.NaN(), "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.sec); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}
