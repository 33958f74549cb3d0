// Package gui is the raylib window: textured planets on their orbit
// rings around the sun, a starfield, a clickable time-scale bar and hover
// highlighting by mouse ray. Geometry that needs no graphics context lives
// in the layout subpackage.
package gui
