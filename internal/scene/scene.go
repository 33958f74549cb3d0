// Package scene turns body poses into world-space geometry shared by the
// terminal and window renderers.
package scene

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/san-kum/orrery/internal/kinematics"
	"github.com/san-kum/orrery/internal/orrery"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// RotateY rotates v about the +Y axis by angle radians, right-handed.
func (v Vec3) RotateY(angle float64) Vec3 {
	s, c := math.Sincos(angle)
	return Vec3{v.X*c + v.Z*s, v.Y, -v.X*s + v.Z*c}
}

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// ParseColor reads "#rrggbb".
func ParseColor(hex string) (Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", hex, err)
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Body is the render-side record for one descriptor.
type Body struct {
	Name     string
	Radius   float64
	Distance float64
	Texture  string
	Color    Color
}

// Node is a body placed in world space for one frame.
type Node struct {
	Body
	Position    Vec3
	OrbitAngle  float64
	SpinAngle   float64
	Highlighted bool
}

// Scene holds the static layout. Bodies line up index for index with the
// poses produced by orrery.System.
type Scene struct {
	Bodies []Body
}

var fallbackColor = Color{200, 200, 200}

// New builds the layout. A missing or malformed colour falls back to grey.
func New(descs []kinematics.Descriptor) *Scene {
	sc := &Scene{Bodies: make([]Body, len(descs))}
	for i, d := range descs {
		col, err := ParseColor(d.Color)
		if err != nil {
			col = fallbackColor
		}
		sc.Bodies[i] = Body{
			Name:     d.Name,
			Radius:   d.Radius,
			Distance: d.DistanceFromSun,
			Texture:  d.Texture,
			Color:    col,
		}
	}
	return sc
}

// Place puts each body at its distance along the X axis of its orbit
// pivot, with the pivot rotated about +Y by the orbit angle.
func (sc *Scene) Place(poses []orrery.Pose) []Node {
	n := len(poses)
	if len(sc.Bodies) < n {
		n = len(sc.Bodies)
	}
	nodes := make([]Node, n)
	for i := 0; i < n; i++ {
		b := sc.Bodies[i]
		p := poses[i]
		nodes[i] = Node{
			Body:        b,
			Position:    Vec3{X: b.Distance}.RotateY(p.OrbitAngle),
			OrbitAngle:  p.OrbitAngle,
			SpinAngle:   p.SpinAngle,
			Highlighted: p.Highlighted,
		}
	}
	return nodes
}

// Extent is the largest orbit radius plus that body's radius.
func (sc *Scene) Extent() float64 {
	ext := 0.0
	for _, b := range sc.Bodies {
		ext = math.Max(ext, b.Distance+b.Radius)
	}
	return ext
}

// Ring samples a circle of the given radius in the XZ plane.
func Ring(radius float64, segments int) []Vec3 {
	if segments < 3 {
		segments = 3
	}
	pts := make([]Vec3, segments)
	for i := range pts {
		a := float64(i) * 2 * math.Pi / float64(segments)
		s, c := math.Sincos(a)
		pts[i] = Vec3{radius * c, 0, radius * s}
	}
	return pts
}

// Starfield scatters count points uniformly in the cube [-extent, extent)³.
func Starfield(rng *rand.Rand, count int, extent float64) []Vec3 {
	stars := make([]Vec3, count)
	for i := range stars {
		stars[i] = Vec3{
			X: rng.Float64()*2*extent - extent,
			Y: rng.Float64()*2*extent - extent,
			Z: rng.Float64()*2*extent - extent,
		}
	}
	return stars
}

// Pick returns the index of the nearest node whose sphere the ray hits.
// dir need not be normalized.
func Pick(origin, dir Vec3, nodes []Node) (int, bool) {
	dir = dir.Normalize()
	best, bestT := -1, math.Inf(1)
	for i, n := range nodes {
		t, ok := raySphere(origin, dir, n.Position, n.Radius)
		if ok && t < bestT {
			best, bestT = i, t
		}
	}
	return best, best >= 0
}

func raySphere(origin, dir, center Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
