package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/timescale"
)

var (
	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))
)

// GradientText creates a gradient effect on text using color interpolation
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	start, err := scene.ParseColor(string(startColor))
	if err != nil {
		start = scene.Color{R: 255, G: 255, B: 255}
	}
	end, err := scene.ParseColor(string(endColor))
	if err != nil {
		end = start
	}

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		col := scene.Color{
			R: lerpByte(start.R, end.R, t),
			G: lerpByte(start.G, end.G, t),
			B: lerpByte(start.B, end.B, t),
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(col)))
		result.WriteString(style.Render(string(c)))
	}
	return result.String()
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)) + 0.5)
}

func hexColor(c scene.Color) string {
	const hex = "0123456789abcdef"
	return string([]byte{'#',
		hex[c.R>>4], hex[c.R&0xf],
		hex[c.G>>4], hex[c.G&0xf],
		hex[c.B>>4], hex[c.B&0xf],
	})
}

// PresetBar lists the preset labels with their number keys, the current
// one in the selected style.
func PresetBar(current string, normal, selected lipgloss.Style) string {
	var b strings.Builder
	for i, p := range timescale.Presets() {
		line := string(rune('1'+i)) + " " + p.Label
		if p.Key == current {
			b.WriteString(selected.Render("> "+line) + "\n")
		} else {
			b.WriteString(normal.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

// Separator is a decorative rule.
func Separator(width int) string {
	mid := width / 2
	if mid < 3 {
		return Subtle.Render(strings.Repeat("─", width))
	}
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
