// Package orrery drives a set of bodies frame by frame and hands their
// poses to whatever draws them.
package orrery

import (
	"math"
	"math/rand"
	"strings"

	"github.com/san-kum/orrery/internal/kinematics"
	"github.com/san-kum/orrery/internal/timescale"
)

// Pose is the per-frame output for one body.
type Pose struct {
	Name        string
	OrbitAngle  float64
	SpinAngle   float64
	Highlighted bool
}

// Observer is notified after every frame.
type Observer interface {
	OnFrame(frame int64, elapsed float64, poses []Pose)
}

// System owns the bodies, the time scale and the highlight selection.
type System struct {
	bodies    []*kinematics.Body
	index     map[string]int
	scale     timescale.Scale
	clock     Clock
	phases    []float64
	highlight int
	elapsed   float64
	frames    int64
	observers []Observer
}

// New validates every descriptor before anything integrates. A bad period
// fails here with a *kinematics.ConfigurationError naming the body.
func New(descs []kinematics.Descriptor, scale timescale.Scale, clock Clock) (*System, error) {
	bodies, err := kinematics.NewBodies(descs)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = FixedClock{Step: DefaultFrameInterval}
	}
	s := &System{
		bodies:    bodies,
		index:     make(map[string]int, len(bodies)),
		scale:     scale,
		clock:     clock,
		phases:    make([]float64, len(bodies)),
		highlight: -1,
	}
	for i, b := range bodies {
		s.index[strings.ToLower(b.Name)] = i
	}
	return s, nil
}

func (s *System) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Scatter gives each orbit pivot a random starting phase of 0 to 6 whole
// radians. Reset returns to these phases.
func (s *System) Scatter(rng *rand.Rand) {
	for i, b := range s.bodies {
		s.phases[i] = float64(rng.Intn(7))
		b.Reset(s.phases[i])
	}
}

// Reset restores the starting phases and clears elapsed time.
func (s *System) Reset() {
	for i, b := range s.bodies {
		b.Reset(s.phases[i])
	}
	s.elapsed = 0
	s.frames = 0
	s.Resync()
}

// Resync drops the real time since the last tick, so a view resuming
// from pause does not jump.
func (s *System) Resync() {
	if wc, ok := s.clock.(*WallClock); ok {
		wc.Restart()
	}
}

// Frame reads the clock, advances every body and returns the new poses.
func (s *System) Frame() []Pose {
	return s.Step(s.clock.Tick())
}

// Step advances every body by dt real seconds at the current scale.
func (s *System) Step(dt float64) []Pose {
	m := s.scale.Multiplier()
	kinematics.IntegrateAll(s.bodies, dt, m)
	if adv := dt * m; adv > 0 && !math.IsInf(adv, 0) {
		s.elapsed += adv
	}
	s.frames++

	poses := s.Poses()
	for _, o := range s.observers {
		o.OnFrame(s.frames, s.elapsed, poses)
	}
	return poses
}

// Poses returns the current angles without advancing.
func (s *System) Poses() []Pose {
	poses := make([]Pose, len(s.bodies))
	for i, b := range s.bodies {
		poses[i] = Pose{
			Name:        b.Name,
			OrbitAngle:  b.Orbit.Angle,
			SpinAngle:   b.Spin.Angle,
			Highlighted: i == s.highlight,
		}
	}
	return poses
}

// Highlight selects the body with the given name, ignoring case. Every
// other body is cleared; an unknown name clears all and returns false.
func (s *System) Highlight(name string) bool {
	i, ok := s.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		s.highlight = -1
		return false
	}
	s.highlight = i
	return true
}

func (s *System) ClearHighlight() { s.highlight = -1 }

// CycleHighlight moves the selection by dir, starting from the first or
// last body when nothing is highlighted.
func (s *System) CycleHighlight(dir int) {
	n := len(s.bodies)
	if n == 0 {
		return
	}
	if s.highlight < 0 {
		if dir >= 0 {
			s.highlight = 0
		} else {
			s.highlight = n - 1
		}
		return
	}
	s.highlight = ((s.highlight+dir)%n + n) % n
}

// Highlighted returns the selected body's name.
func (s *System) Highlighted() (string, bool) {
	if s.highlight < 0 {
		return "", false
	}
	return s.bodies[s.highlight].Name, true
}

func (s *System) Bodies() []*kinematics.Body { return s.bodies }

// Body finds a body by name, ignoring case.
func (s *System) Body(name string) (*kinematics.Body, bool) {
	i, ok := s.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return s.bodies[i], true
}

// Elapsed is the simulated time in seconds since the last reset.
func (s *System) Elapsed() float64 { return s.elapsed }

func (s *System) Frames() int64 { return s.frames }

func (s *System) Scale() timescale.Scale { return s.scale }
