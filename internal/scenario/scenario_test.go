package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orrery/internal/timescale"
)

const accelerate = `
name: accelerate
description: ramp from a day to a year per second
switches:
  - frame: 600
    scale: oneYear
  - frame: 0
    scale: oneDay
  - frame: 300
    scale: oneMonth
`

func TestParse_SortsSwitches(t *testing.T) {
	sc, err := Parse([]byte(accelerate))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sc.Name != "accelerate" {
		t.Errorf("name = %q", sc.Name)
	}
	frames := []int{0, 300, 600}
	for i, f := range frames {
		if sc.Switches[i].Frame != f {
			t.Errorf("switch %d frame = %d, want %d", i, sc.Switches[i].Frame, f)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
	}{
		{"unknown scale", "switches:\n  - frame: 0\n    scale: oneEon\n", timescale.ErrUnknownPreset},
		{"negative frame", "switches:\n  - frame: -1\n    scale: oneDay\n", nil},
		{"bad yaml", "switches: [", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestDirector(t *testing.T) {
	sc, err := Parse([]byte(accelerate))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ctrl, _ := timescale.NewController(timescale.RealTime)
	direct := sc.Director(ctrl)

	want := map[int]string{
		0:   timescale.OneDay,
		299: timescale.OneDay,
		300: timescale.OneMonth,
		599: timescale.OneMonth,
		600: timescale.OneYear,
		900: timescale.OneYear,
	}
	for frame := 0; frame <= 900; frame++ {
		direct(frame)
		if key, ok := want[frame]; ok && ctrl.Key() != key {
			t.Errorf("frame %d: scale = %s, want %s", frame, ctrl.Key(), key)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(accelerate), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(sc.Switches) != 3 {
		t.Errorf("expected 3 switches, got %d", len(sc.Switches))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
