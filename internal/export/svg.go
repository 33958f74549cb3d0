package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/orrery/internal/scene"
)

const background = "#0a0a0a"

// Point is one vertex of a trace.
type Point struct {
	X, Y float64
}

// SnapshotOptions controls Snapshot.
type SnapshotOptions struct {
	Size      int
	SunRadius float64
	SunColor  string
	Labels    bool
}

// Snapshot draws the system from above: orbit rings, the sun and every
// node at its current position. World X maps to the right and world Z
// maps downward.
func Snapshot(sc *scene.Scene, nodes []scene.Node, opts SnapshotOptions) string {
	if opts.Size <= 0 {
		opts.Size = 800
	}
	if opts.SunColor == "" {
		opts.SunColor = "#fdb813"
	}
	size := float64(opts.Size)
	c := size / 2
	extent := math.Max(sc.Extent(), opts.SunRadius)
	if extent == 0 {
		extent = 1
	}
	k := c * 0.9 / extent

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="none" stroke="#333333" stroke-width="1">
`, opts.Size, opts.Size, opts.Size, opts.Size, background))

	for _, b := range sc.Bodies {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, c, c, b.Distance*k))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, c, c, math.Max(opts.SunRadius*k, 2), opts.SunColor))

	for _, n := range nodes {
		x := c + n.Position.X*k
		y := c + n.Position.Z*k
		r := math.Max(n.Radius*k, 1.5)
		stroke := ""
		if n.Highlighted {
			stroke = ` stroke="#ffffff" stroke-width="1.5"`
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"%s/>
`, x, y, r, hex(n.Color), stroke))
		if opts.Labels {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="#aaaaaa" font-family="monospace" font-size="10">%s</text>
`, x+r+2, y-r-2, html.EscapeString(n.Name)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Trace draws points as a single polyline scaled to fill the frame with
// ten percent padding on each side.
func Trace(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func hex(c scene.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
