// Package layout holds the window geometry that does not need a graphics
// context: the time-scale bar and the orbit camera.
package layout

import (
	"math"

	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/timescale"
)

type Rect struct {
	X, Y, W, H float32
}

func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Button is one clickable preset.
type Button struct {
	Rect
	Key   string
	Label string
}

const (
	barMargin  = 20
	buttonH    = 28
	buttonGap  = 6
	maxButtonW = 110
)

// Bar centres one button per preset along the bottom edge, narrowing them
// to fit small windows.
func Bar(presets []timescale.Preset, screenW, screenH int) []Button {
	n := len(presets)
	if n == 0 {
		return nil
	}
	avail := float32(screenW) - 2*barMargin - float32(n-1)*buttonGap
	w := float32(math.Min(float64(avail/float32(n)), maxButtonW))
	if w < 1 {
		w = 1
	}
	total := w*float32(n) + buttonGap*float32(n-1)
	x := (float32(screenW) - total) / 2
	y := float32(screenH) - barMargin - buttonH

	buttons := make([]Button, n)
	for i, p := range presets {
		buttons[i] = Button{
			Rect:  Rect{X: x + float32(i)*(w+buttonGap), Y: y, W: w, H: buttonH},
			Key:   p.Key,
			Label: p.Label,
		}
	}
	return buttons
}

// HitTest returns the key of the button under (x, y).
func HitTest(buttons []Button, x, y float32) (string, bool) {
	for _, b := range buttons {
		if b.Contains(x, y) {
			return b.Key, true
		}
	}
	return "", false
}

const (
	MinDistance = 100
	MaxDistance = 500

	zoomStep  = 20
	dragSpeed = 0.005
	maxPitch  = 1.5
)

// OrbitCamera circles the origin at Distance, clamped to
// [MinDistance, MaxDistance].
type OrbitCamera struct {
	Yaw, Pitch float64
	Distance   float64
}

// NewOrbitCamera starts at (0, 200, 400) looking at the sun.
func NewOrbitCamera() OrbitCamera {
	return OrbitCamera{
		Pitch:    math.Atan2(200, 400),
		Distance: math.Hypot(200, 400),
	}
}

// Zoom moves toward the origin for positive wheel steps.
func (c *OrbitCamera) Zoom(wheel float64) {
	c.Distance = clamp(c.Distance-wheel*zoomStep, MinDistance, MaxDistance)
}

// Drag turns the camera by a mouse delta in pixels.
func (c *OrbitCamera) Drag(dx, dy float64) {
	c.Yaw -= dx * dragSpeed
	c.Pitch = clamp(c.Pitch+dy*dragSpeed, -maxPitch, maxPitch)
}

func (c OrbitCamera) Position() scene.Vec3 {
	sp, cp := math.Sincos(c.Pitch)
	sy, cy := math.Sincos(c.Yaw)
	return scene.Vec3{
		X: c.Distance * cp * sy,
		Y: c.Distance * sp,
		Z: c.Distance * cp * cy,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
