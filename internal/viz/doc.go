// Package viz is the terminal view of the orrery.
//
// [Model] is a Bubble Tea program that advances an [orrery.System] on every
// tick and projects the planets, their orbit rings, the sun and a starfield
// onto a braille [Canvas] through a tilting [Camera]. A side panel shows the
// current time scale, simulated elapsed time, per-body angles and a graph of
// the highlighted body's orbit angle.
//
// # Key Bindings
//
//	1-7       - Select time-scale preset
//	←/→       - Slower/faster preset
//	Tab       - Cycle highlighted body
//	Esc       - Clear highlight
//	Space     - Pause/Resume
//	R         - Reset to starting phases
//	x/y       - Tilt/turn camera
//	+/-       - Zoom
//	T         - Cycle color themes
//	?         - Show help overlay
package viz
