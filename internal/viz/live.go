package viz

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/timescale"
)

const (
	width           = 80
	height          = 24
	panelWidth      = 46
	historyCapacity = 600
	ringSegments    = 96
)

type TickMsg time.Time

// Options carries the view settings that do not come from the system.
type Options struct {
	// Frame is the tick interval; zero means 60 Hz.
	Frame     time.Duration
	Theme     string
	SunRadius float64
	Stars     []scene.Vec3
	Logger    *slog.Logger
}

// Model renders an orrery.System on a braille canvas and routes keys to
// the time-scale controller and the highlight selection.
type Model struct {
	sys       *orrery.System
	ctrl      *timescale.Controller
	scene     *scene.Scene
	stars     []scene.Vec3
	rings     [][]scene.Vec3
	sunRadius float64

	canvas   *Canvas
	camera   *Camera
	theme    Theme
	frame    time.Duration
	logger   *slog.Logger
	running  bool
	showHelp bool

	// orbit history of the highlighted body, unwrapped
	history []float64
	tracked string
}

func NewModel(sys *orrery.System, ctrl *timescale.Controller, sc *scene.Scene, opts Options) Model {
	if opts.Frame <= 0 {
		opts.Frame = time.Second / 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	rings := make([][]scene.Vec3, len(sc.Bodies))
	for i, b := range sc.Bodies {
		rings[i] = scene.Ring(b.Distance, ringSegments)
	}
	extent := math.Max(sc.Extent(), opts.SunRadius)

	return Model{
		sys:       sys,
		ctrl:      ctrl,
		scene:     sc,
		stars:     opts.Stars,
		rings:     rings,
		sunRadius: opts.SunRadius,
		canvas:    NewCanvas(width, height),
		camera:    NewCamera(extent * 1.05),
		theme:     GetTheme(opts.Theme),
		frame:     opts.Frame,
		logger:    opts.Logger,
		running:   true,
		history:   make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvas.Resize(max(20, msg.Width-panelWidth-6), max(10, msg.Height-2))
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			m.sys.Frame()
			m.record()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		keys := timescale.Keys()
		if i := int(key[0] - '1'); i < len(keys) {
			// keys come from the preset table
			_ = m.ctrl.Set(keys[i])
		}
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "space":
		m.running = !m.running
		if m.running {
			m.sys.Resync()
		}
		m.logger.Debug("pause toggled", "running", m.running)
	case "r":
		m.sys.Reset()
		m.history = m.history[:0]
	case "right":
		m.ctrl.Next()
	case "left":
		m.ctrl.Prev()
	case "tab":
		m.sys.CycleHighlight(1)
	case "shift+tab":
		m.sys.CycleHighlight(-1)
	case "esc":
		m.sys.ClearHighlight()
	case "x":
		m.camera.TiltBy(0.1)
	case "X":
		m.camera.TiltBy(-0.1)
	case "y":
		m.camera.YawBy(0.1)
	case "Y":
		m.camera.YawBy(-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "t":
		m.theme = NextTheme(m.theme.Name)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// record appends the highlighted body's unwrapped orbit angle, starting
// over whenever the selection changes.
func (m *Model) record() {
	name, ok := m.sys.Highlighted()
	if !ok {
		m.tracked = ""
		m.history = m.history[:0]
		return
	}
	if name != m.tracked {
		m.tracked = name
		m.history = m.history[:0]
	}
	b, _ := m.sys.Body(name)
	m.history = append(m.history, b.Orbit.Total())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m Model) draw() {
	c := m.canvas
	c.Clear()
	sw, sh := c.PixelSize()
	cam := m.camera

	for _, s := range m.stars {
		if x, y, _, _, ok := cam.Project(s, sw, sh); ok {
			c.Set(x, y)
		}
	}

	for _, ring := range m.rings {
		for i := range ring {
			x0, y0, _, _, ok0 := cam.Project(ring[i], sw, sh)
			x1, y1, _, _, ok1 := cam.Project(ring[(i+1)%len(ring)], sw, sh)
			if ok0 && ok1 {
				c.DrawLine(x0, y0, x1, y1)
			}
		}
	}

	scale := cam.PixelScale(sw, sh)
	if x, y, _, f, ok := cam.Project(scene.Vec3{}, sw, sh); ok {
		c.FillCircle(x, y, int(m.sunRadius*scale*f), false)
	}

	nodes := m.scene.Place(m.sys.Poses())
	type projected struct {
		x, y, r int
		sx, sy  int
		depth   float64
		hot     bool
	}
	proj := make([]projected, 0, len(nodes))
	for _, n := range nodes {
		x, y, depth, f, ok := cam.Project(n.Position, sw, sh)
		if !ok {
			continue
		}
		// spin marker sits on the body's surface, carried by orbit and spin
		marker := n.Position.Add(scene.Vec3{X: n.Radius * 1.5}.RotateY(n.OrbitAngle + n.SpinAngle))
		sx, sy, _, _, _ := cam.Project(marker, sw, sh)
		proj = append(proj, projected{x, y, int(n.Radius * scale * f), sx, sy, depth, n.Highlighted})
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, p := range proj {
		c.FillCircle(p.x, p.y, p.r, p.hot)
		c.DrawLine(p.x, p.y, p.sx, p.sy)
	}
}

func (m Model) View() string {
	m.draw()
	st := m.theme.styles()
	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(m.canvas.Render(st.canvas, st.hot))

	var s strings.Builder
	s.WriteString(GradientText("ORRERY", m.theme.Primary, m.theme.Secondary) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	preset := m.ctrl.Preset()
	s.WriteString(st.label.Render("Scale") + st.value.Render(fmt.Sprintf("%s (×%s)", preset.Label, humanize.SIWithDigits(preset.Multiplier, 1, ""))) + "\n")
	s.WriteString(st.label.Render("Elapsed") + st.value.Render(timescale.FormatElapsed(m.sys.Elapsed())) + "\n")
	s.WriteString(st.label.Render("Frames") + st.value.Render(humanize.Comma(m.sys.Frames())) + "\n\n")

	s.WriteString(PresetBar(preset.Key, st.label.Width(0), st.selected) + "\n")
	s.WriteString(Separator(panelWidth-6) + "\n")

	for _, p := range m.sys.Poses() {
		line := fmt.Sprintf("%-8s %6.1f° %6.1f°", p.Name, degrees(p.OrbitAngle), degrees(p.SpinAngle))
		if p.Highlighted {
			s.WriteString(st.selected.Render("> "+line) + "\n")
		} else {
			s.WriteString(st.value.Render("  "+line) + "\n")
		}
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(m.tracked+" orbit (rad)"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString(st.help.Render("1-7/←→:Scale TAB:Select SP:Pause\nR:Reset T:Theme ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))

	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  1-7       - Select time scale       ║
║  ←/→       - Slower/faster preset    ║
║  Tab       - Highlight next body     ║
║  Shift+Tab - Highlight previous body ║
║  Esc       - Clear highlight         ║
║  Space     - Pause/Resume            ║
║  R         - Reset to start phases   ║
║  x/X y/Y   - Tilt and turn camera    ║
║  +/-       - Zoom                    ║
║  T         - Cycle themes            ║
║  ?         - Toggle this help        ║
║  Q         - Quit                    ║
╚══════════════════════════════════════╝`

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Run starts the live view on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
