package kinematics

import (
	"errors"
	"math"
	"strings"
)

const (
	SecondsPerHour = 3600.0
	SecondsPerDay  = 24 * SecondsPerHour
	TwoPi          = 2 * math.Pi
)

// Descriptor is the static input for one body. Radius, Texture, Distance
// and Color only matter to the scene; the periods drive the kinematics.
type Descriptor struct {
	Name                string  `yaml:"name" json:"name"`
	Radius              float64 `yaml:"radius" json:"radius"`
	Texture             string  `yaml:"texture" json:"texture"`
	Color               string  `yaml:"color" json:"color"`
	DistanceFromSun     float64 `yaml:"distance_from_sun" json:"distance_from_sun"`
	OrbitalVelocityKmS  float64 `yaml:"orbital_velocity_km_s" json:"orbital_velocity_km_s"`
	RotationSpeedKmH    float64 `yaml:"rotation_speed_kmh" json:"rotation_speed_kmh"`
	OrbitalPeriodDays   float64 `yaml:"orbital_period_days" json:"orbital_period_days"`
	RotationPeriodHours float64 `yaml:"rotation_period_hours" json:"rotation_period_hours"`
	Retrograde          bool    `yaml:"retrograde" json:"retrograde"`
}

// Body is the kinematic record of one orbiting object. The angular speeds
// are fixed at construction.
type Body struct {
	Name                string
	OrbitalPeriodDays   float64
	RotationPeriodHours float64
	Retrograde          bool

	orbitSpeed float64
	spinSpeed  float64

	Orbit Phase
	Spin  Phase
}

// ComputeAngularSpeeds converts an orbital period in days and a rotation
// period in hours into radians per real second.
func ComputeAngularSpeeds(orbitalPeriodDays, rotationPeriodHours float64) (orbit, spin float64, err error) {
	if !validPeriod(orbitalPeriodDays) {
		return 0, 0, &ConfigurationError{Field: "orbital_period_days", Value: orbitalPeriodDays, Wrapped: ErrNonPositivePeriod}
	}
	if !validPeriod(rotationPeriodHours) {
		return 0, 0, &ConfigurationError{Field: "rotation_period_hours", Value: rotationPeriodHours, Wrapped: ErrNonPositivePeriod}
	}
	orbit = TwoPi / (orbitalPeriodDays * SecondsPerDay)
	spin = TwoPi / (rotationPeriodHours * SecondsPerHour)
	return orbit, spin, nil
}

func validPeriod(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// NewBody validates d and derives the body's angular speeds.
func NewBody(d Descriptor) (*Body, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, &ConfigurationError{Wrapped: ErrEmptyName}
	}
	orbit, spin, err := ComputeAngularSpeeds(d.OrbitalPeriodDays, d.RotationPeriodHours)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Body = name
		}
		return nil, err
	}
	if d.Retrograde {
		spin = -spin
	}
	return &Body{
		Name:                name,
		OrbitalPeriodDays:   d.OrbitalPeriodDays,
		RotationPeriodHours: d.RotationPeriodHours,
		Retrograde:          d.Retrograde,
		orbitSpeed:          orbit,
		spinSpeed:           spin,
	}, nil
}

// NewBodies builds every descriptor and stops at the first invalid one.
// Names must be unique, compared case-insensitively.
func NewBodies(descs []Descriptor) ([]*Body, error) {
	bodies := make([]*Body, 0, len(descs))
	seen := make(map[string]struct{}, len(descs))
	for _, d := range descs {
		b, err := NewBody(d)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(b.Name)
		if _, dup := seen[key]; dup {
			return nil, &ConfigurationError{Body: b.Name, Wrapped: ErrDuplicateBody}
		}
		seen[key] = struct{}{}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// AngularSpeedOrbit returns the orbital rate in rad/s.
func (b *Body) AngularSpeedOrbit() float64 { return b.orbitSpeed }

// AngularSpeedRotation returns the spin rate in rad/s, negative when retrograde.
func (b *Body) AngularSpeedRotation() float64 { return b.spinSpeed }

// Reset puts both angles back to the given orbit phase and zero spin.
func (b *Body) Reset(orbitAngle float64) {
	b.Orbit = Phase{}
	b.Orbit.Advance(orbitAngle)
	b.Spin = Phase{}
}
