package viz

import (
	"math"

	"github.com/san-kum/orrery/internal/scene"
)

const (
	minZoom = 0.25
	maxZoom = 8.0
)

// Camera orbits the origin. Tilt is the elevation above the ecliptic
// (π/2 looks straight down), Yaw turns the view about +Y.
type Camera struct {
	Tilt, Yaw float64
	Zoom      float64
	// Extent is the world half-width that fills the shorter screen side
	// at zoom 1.
	Extent   float64
	Distance float64
	Near     float64
}

// NewCamera starts at the same elevation as the window view's (0, 200, 400).
func NewCamera(extent float64) *Camera {
	if extent <= 0 {
		extent = 1
	}
	return &Camera{
		Tilt:     math.Atan2(200, 400),
		Zoom:     1,
		Extent:   extent,
		Distance: 4 * extent,
		Near:     0.1,
	}
}

func (c *Camera) TiltBy(a float64) {
	c.Tilt = math.Max(0, math.Min(math.Pi/2, c.Tilt+a))
}
func (c *Camera) YawBy(a float64) { c.Yaw += a }
func (c *Camera) ZoomIn()         { c.Zoom = math.Min(maxZoom, c.Zoom*1.2) }
func (c *Camera) ZoomOut()        { c.Zoom = math.Max(minZoom, c.Zoom/1.2) }

// view returns camera-space right, up and depth, depth growing toward
// the viewer.
func (c *Camera) view(p scene.Vec3) (x, y, z float64) {
	q := p.RotateY(-c.Yaw)
	st, ct := math.Sincos(c.Tilt)
	return q.X, q.Y*ct - q.Z*st, q.Z*ct + q.Y*st
}

// Project maps a world point to sub-pixel coordinates on a sw×sh canvas.
// Returns x, y, depth, the perspective factor and visibility.
func (c *Camera) Project(p scene.Vec3, sw, sh int) (int, int, float64, float64, bool) {
	x, y, z := c.view(p)
	if z >= c.Distance-c.Near {
		return 0, 0, 0, 0, false
	}
	f := c.Distance / (c.Distance - z)
	s := c.PixelScale(sw, sh) * f
	sx := int(math.Round(x*s)) + sw/2
	sy := int(math.Round(-y*s)) + sh/2
	return sx, sy, z, f, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// PixelScale is sub-pixels per world unit at the focal plane.
func (c *Camera) PixelScale(sw, sh int) float64 {
	minDim := math.Min(float64(sw), float64(sh))
	return minDim / 2 / c.Extent * c.Zoom
}
