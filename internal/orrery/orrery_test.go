package orrery

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/orrery/internal/kinematics"
	"github.com/san-kum/orrery/internal/timescale"
)

func testDescriptors() []kinematics.Descriptor {
	return []kinematics.Descriptor{
		{Name: "Mercury", OrbitalPeriodDays: 88, RotationPeriodHours: 1407.6},
		{Name: "Earth", OrbitalPeriodDays: 365.25, RotationPeriodHours: 23.93},
		{Name: "Jupiter", OrbitalPeriodDays: 4331, RotationPeriodHours: 9.9},
	}
}

func TestNew_RejectsBadBody(t *testing.T) {
	descs := append(testDescriptors(), kinematics.Descriptor{Name: "Vulcan", OrbitalPeriodDays: 0, RotationPeriodHours: 1})
	_, err := New(descs, timescale.Fixed(1), nil)
	var cfgErr *kinematics.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if cfgErr.Body != "Vulcan" {
		t.Errorf("error names %q, want Vulcan", cfgErr.Body)
	}
}

func TestStep_UsesCurrentScale(t *testing.T) {
	ctrl, _ := timescale.NewController(timescale.OneDay)
	s, err := New(testDescriptors(), ctrl, FixedClock{Step: DefaultFrameInterval})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	earth, _ := s.Body("earth")

	s.Frame()
	first := earth.Orbit.Total()

	if err := ctrl.Set(timescale.OneYear); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	s.Frame()
	second := earth.Orbit.Total() - first

	wantFirst := earth.AngularSpeedOrbit() * DefaultFrameInterval * 86400
	wantSecond := earth.AngularSpeedOrbit() * DefaultFrameInterval * 31557600
	if math.Abs(first-wantFirst) > 1e-15 {
		t.Errorf("first increment = %g, want %g", first, wantFirst)
	}
	if math.Abs(second-wantSecond) > 1e-12 {
		t.Errorf("second increment = %g, want %g", second, wantSecond)
	}

	wantElapsed := DefaultFrameInterval * (86400 + 31557600)
	if math.Abs(s.Elapsed()-wantElapsed) > 1e-6 {
		t.Errorf("elapsed = %v, want %v", s.Elapsed(), wantElapsed)
	}
	if s.Frames() != 2 {
		t.Errorf("frames = %d, want 2", s.Frames())
	}
}

func TestHighlight(t *testing.T) {
	s, _ := New(testDescriptors(), timescale.Fixed(1), nil)

	if !s.Highlight("jupiter") {
		t.Fatal("expected jupiter to be found")
	}
	poses := s.Poses()
	for _, p := range poses {
		if p.Highlighted != (p.Name == "Jupiter") {
			t.Errorf("%s highlighted = %v", p.Name, p.Highlighted)
		}
	}

	if s.Highlight("pluto") {
		t.Error("pluto should not be found")
	}
	if _, ok := s.Highlighted(); ok {
		t.Error("unknown name should clear the highlight")
	}
}

func TestCycleHighlight(t *testing.T) {
	s, _ := New(testDescriptors(), timescale.Fixed(1), nil)

	s.CycleHighlight(1)
	if name, _ := s.Highlighted(); name != "Mercury" {
		t.Errorf("first cycle = %s, want Mercury", name)
	}
	s.CycleHighlight(-1)
	if name, _ := s.Highlighted(); name != "Jupiter" {
		t.Errorf("wrap back = %s, want Jupiter", name)
	}
	s.ClearHighlight()
	s.CycleHighlight(-1)
	if name, _ := s.Highlighted(); name != "Jupiter" {
		t.Errorf("reverse from none = %s, want Jupiter", name)
	}
}

func TestScatterAndReset(t *testing.T) {
	s, _ := New(testDescriptors(), timescale.Fixed(86400), nil)
	s.Scatter(rand.New(rand.NewSource(7)))

	start := s.Poses()
	for _, p := range start {
		if p.OrbitAngle != math.Trunc(p.OrbitAngle) || p.OrbitAngle < 0 || p.OrbitAngle > 6 {
			t.Errorf("%s: starting phase %v not a whole radian in [0, 6]", p.Name, p.OrbitAngle)
		}
	}

	for i := 0; i < 10; i++ {
		s.Frame()
	}
	s.Reset()

	for i, p := range s.Poses() {
		if p.OrbitAngle != start[i].OrbitAngle || p.SpinAngle != 0 {
			t.Errorf("%s: after reset %+v, want orbit %v", p.Name, p, start[i].OrbitAngle)
		}
	}
	if s.Elapsed() != 0 || s.Frames() != 0 {
		t.Error("reset should clear elapsed time and frame count")
	}
}

type countingObserver struct {
	frames []int64
}

func (c *countingObserver) OnFrame(frame int64, elapsed float64, poses []Pose) {
	c.frames = append(c.frames, frame)
}

func TestRun(t *testing.T) {
	s, _ := New(testDescriptors(), timescale.Fixed(31557600), nil)
	obs := &countingObserver{}
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), RunConfig{Frames: 3600, Every: 60})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Samples) != 61 {
		t.Errorf("expected 61 samples, got %d", len(result.Samples))
	}
	if len(obs.frames) != 3600 {
		t.Errorf("observer saw %d frames, want 3600", len(obs.frames))
	}

	earth, _ := s.Body("Earth")
	if math.Abs(earth.Orbit.Total()-2*math.Pi*60) > 1e-8 {
		t.Errorf("earth orbit total = %v, want %v", earth.Orbit.Total(), 2*math.Pi*60)
	}
	if math.Abs(result.Elapsed-60*31557600) > 1e-2 {
		t.Errorf("elapsed = %v, want %v", result.Elapsed, 60*31557600.0)
	}
}

func TestRun_BeforeFrameSwitchesScale(t *testing.T) {
	ctrl, _ := timescale.NewController(timescale.RealTime)
	s, _ := New(testDescriptors(), ctrl, nil)

	_, err := s.Run(context.Background(), RunConfig{
		Frames: 20,
		BeforeFrame: func(frame int) {
			if frame == 10 {
				ctrl.Set(timescale.OneDay)
			}
		},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := 10*DefaultFrameInterval*1 + 10*DefaultFrameInterval*86400
	if math.Abs(s.Elapsed()-want) > 1e-9 {
		t.Errorf("elapsed = %v, want %v", s.Elapsed(), want)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	s, _ := New(testDescriptors(), timescale.Fixed(1), nil)
	for _, frames := range []int{0, -5} {
		if _, err := s.Run(context.Background(), RunConfig{Frames: frames}); err == nil {
			t.Errorf("frames=%d: expected error", frames)
		}
	}
}

func TestRun_Canceled(t *testing.T) {
	s, _ := New(testDescriptors(), timescale.Fixed(1), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, RunConfig{Frames: 100})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Frames != 0 {
		t.Errorf("expected 0 frames, got %d", result.Frames)
	}
}

func TestWallClock(t *testing.T) {
	base := time.Unix(1000, 0)
	ticks := []time.Time{
		base,
		base.Add(16 * time.Millisecond),
		base.Add(2 * time.Second),
		base.Add(1 * time.Second),
	}
	i := 0
	c := NewWallClock(0.25)
	c.now = func() time.Time {
		ts := ticks[i]
		i++
		return ts
	}

	want := []float64{0, 0.016, 0.25, 0}
	for j, w := range want {
		if got := c.Tick(); math.Abs(got-w) > 1e-9 {
			t.Errorf("tick %d = %v, want %v", j, got, w)
		}
	}
}

func TestRun_SamplesKeepWholeTurns(t *testing.T) {
	s, _ := New(testDescriptors(), timescale.Fixed(31557600), nil)
	s.Scatter(rand.New(rand.NewSource(5)))

	result, err := s.Run(context.Background(), RunConfig{Frames: 3600, Every: 60})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	first, last := result.Samples[0], result.Samples[len(result.Samples)-1]

	tests := []struct {
		body int
		want float64
	}{
		{0, 2 * math.Pi * 60 * 365.25 / 88},
		{1, 2 * math.Pi * 60},
		{2, 2 * math.Pi * 60 * 365.25 / 4331},
	}
	for _, tt := range tests {
		got := last.Orbit[tt.body] - first.Orbit[tt.body]
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("%s orbit advance = %v, want %v", result.Bodies[tt.body], got, tt.want)
		}
	}

	// one Earth year per sample: stored angles must still climb
	for i := 1; i < len(result.Samples); i++ {
		step := result.Samples[i].Orbit[1] - result.Samples[i-1].Orbit[1]
		if math.Abs(step-2*math.Pi) > 1e-6 {
			t.Fatalf("sample %d: earth step = %v, want 2π", i, step)
		}
	}

	wantSpin := 60 * 365.25 * 24 / 23.93 * 2 * math.Pi
	if got := last.Spin[1] - first.Spin[1]; math.Abs(got-wantSpin) > 1e-3 {
		t.Errorf("earth spin advance = %v, want %v", got, wantSpin)
	}
}

func TestRun_FirstRowUsesFrameZeroScale(t *testing.T) {
	ctrl, _ := timescale.NewController(timescale.RealTime)
	s, _ := New(testDescriptors(), ctrl, nil)

	calls := map[int]int{}
	result, err := s.Run(context.Background(), RunConfig{
		Frames: 5,
		BeforeFrame: func(frame int) {
			calls[frame]++
			if frame == 0 {
				ctrl.Set(timescale.OneYear)
			}
		},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if m := result.Samples[0].Multiplier; m != 31557600 {
		t.Errorf("row 0 multiplier = %v, want 31557600", m)
	}
	for frame := 0; frame < 5; frame++ {
		if calls[frame] != 1 {
			t.Errorf("hook ran %d times for frame %d, want once", calls[frame], frame)
		}
	}
}
