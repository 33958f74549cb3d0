// Package metrics accumulates per-run figures while a system steps.
// Every metric is an orrery.Observer and can be attached with AddObserver.
package metrics

import (
	"math"
	"strings"

	"github.com/san-kum/orrery/internal/kinematics"
	"github.com/san-kum/orrery/internal/orrery"
)

type Metric interface {
	orrery.Observer
	Name() string
	Value() float64
	Reset()
}

// Revolutions counts completed orbits of one body since construction or
// the last Reset, including the fractional part.
type Revolutions struct {
	name  string
	body  *kinematics.Body
	start float64
	value float64
}

func NewRevolutions(b *kinematics.Body) *Revolutions {
	return &Revolutions{
		name:  strings.ToLower(b.Name) + "_orbits",
		body:  b,
		start: b.Orbit.Total(),
	}
}

func (r *Revolutions) Name() string { return r.name }

func (r *Revolutions) OnFrame(frame int64, elapsed float64, poses []orrery.Pose) {
	r.value = (r.body.Orbit.Total() - r.start) / kinematics.TwoPi
}

func (r *Revolutions) Value() float64 { return r.value }

func (r *Revolutions) Reset() {
	r.start = r.body.Orbit.Total()
	r.value = 0
}

// Drift tracks the largest gap, in radians, between the integrated orbit
// phase and the closed form start + ω·elapsed over all bodies.
type Drift struct {
	name     string
	bodies   []*kinematics.Body
	starts   []float64
	maxDrift float64
}

func NewDrift(bodies []*kinematics.Body) *Drift {
	d := &Drift{name: "max_drift", bodies: bodies, starts: make([]float64, len(bodies))}
	d.Reset()
	return d
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) OnFrame(frame int64, elapsed float64, poses []orrery.Pose) {
	for i, b := range d.bodies {
		want := d.starts[i] + b.AngularSpeedOrbit()*elapsed
		d.maxDrift = math.Max(d.maxDrift, math.Abs(b.Orbit.Total()-want))
	}
}

func (d *Drift) Value() float64 { return d.maxDrift }

func (d *Drift) Reset() {
	for i, b := range d.bodies {
		d.starts[i] = b.Orbit.Total()
	}
	d.maxDrift = 0
}

// Default returns a revolution counter per body plus the drift check.
func Default(sys *orrery.System) []Metric {
	bodies := sys.Bodies()
	ms := make([]Metric, 0, len(bodies)+1)
	for _, b := range bodies {
		ms = append(ms, NewRevolutions(b))
	}
	return append(ms, NewDrift(bodies))
}

// Attach registers every metric as an observer of sys.
func Attach(sys *orrery.System, ms []Metric) {
	for _, m := range ms {
		sys.AddObserver(m)
	}
}

func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
