package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/driftfield/internal/effects"
	"github.com/san-kum/driftfield/internal/frame"
	"github.com/san-kum/driftfield/internal/particle"
	"github.com/san-kum/driftfield/internal/prefs"
)

const (
	panelWidth      = 34
	headerHeight    = 2
	footerHeight    = 1
	canvasPadX      = 2
	historyCapacity = 120

	resizeDelay   = 150 * time.Millisecond
	mouseInterval = 10 * time.Millisecond
	revealRatio   = 0.5
	trailRadius   = 3.0

	statsPanelID = "stats"
)

type TickMsg time.Time

type resizeMsg struct{ gen uint64 }

// Options configures the interactive view.
type Options struct {
	Count       int
	FPS         int
	Scale       float64
	Seed        uint64
	Trail       bool
	TrailLength int
	Banner      string
	TypingSpeed time.Duration
	// Theme persists the dark/light toggle. Nil keeps it in memory only.
	Theme   *prefs.Theme
	GIFPath string
	Logger  *zap.Logger
}

// lastFrame keeps the stats of the most recent frame for the side panel.
type lastFrame struct {
	st    particle.FrameStats
	fresh bool
}

func (l *lastFrame) OnFrame(st particle.FrameStats) {
	l.st = st
	l.fresh = true
}

// counterSet is the row of animated numbers in the side panel. The counters
// only exist once the panel has been seen.
type counterSet struct {
	particles, links, frames *effects.Counter
}

func (c *counterSet) started() bool { return c.particles != nil }

func (c *counterSet) start(particles, links, frames int) {
	c.particles = effects.NewCounter(particles, effects.DefaultCounterDuration)
	c.links = effects.NewCounter(links, effects.DefaultCounterDuration)
	c.frames = effects.NewCounter(frames, effects.DefaultCounterDuration)
	c.particles.Start()
	c.links.Start()
	c.frames.Start()
}

func (c *counterSet) step(particles, links, frames int) {
	if !c.started() {
		return
	}
	for _, p := range []struct {
		c *effects.Counter
		v int
	}{{c.particles, particles}, {c.links, links}, {c.frames, frames}} {
		p.c.Step()
		if p.c.Done() {
			p.c.Retarget(p.v)
		}
	}
}

// Model is the Bubble Tea view over a particle field. Frames come from a
// manual scheduler stepped on every tick, so all field work stays on the
// Update goroutine.
type Model struct {
	opts Options
	log  *zap.Logger

	field  *particle.Field
	sched  *frame.Manual
	canvas *Canvas
	last   *lastFrame

	theme   *prefs.Theme
	palette Palette
	styles  Styles

	width, height int
	ready         bool
	paused        bool
	showHelp      bool
	status        string

	trail    *effects.Trail
	trailOn  bool
	pointer  bool
	mouse    *effects.Throttle
	tilt     float64
	scroll   int
	banner   *effects.Typewriter
	counters *counterSet
	reveal   *effects.Observer
	resize   *effects.Debouncer

	history   []float64
	recorder  *Recorder
	recording bool
	lastTick  time.Time
}

// NewModel builds the view. The field is sized on the first WindowSizeMsg.
func NewModel(opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = frame.DefaultFPS
	}
	if opts.Count < 0 {
		opts.Count = particle.DefaultCount
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "driftfield.gif"
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	theme := opts.Theme
	if theme == nil {
		theme = prefs.NewTheme(prefs.NewMemoryKV())
	}

	var field *particle.Field
	if opts.Seed != 0 {
		field = particle.New(particle.WithSeed(opts.Seed))
	} else {
		field = particle.New()
	}
	last := &lastFrame{}
	field.AddObserver(last)

	palette := PaletteFor(theme.Load())
	m := Model{
		opts:     opts,
		log:      log,
		field:    field,
		sched:    frame.NewManual(),
		canvas:   NewCanvas(0, 0, opts.Scale),
		last:     last,
		theme:    theme,
		palette:  palette,
		styles:   NewStyles(palette),
		trail:    effects.NewTrail(opts.TrailLength),
		trailOn:  opts.Trail,
		mouse:    effects.NewThrottle(mouseInterval),
		banner:   effects.NewTypewriter(opts.Banner, opts.TypingSpeed),
		counters: &counterSet{},
		reveal:   &effects.Observer{},
		resize:   &effects.Debouncer{},
		history:  make([]float64, 0, historyCapacity),
		recorder: NewRecorder(DefaultMaxFrames),
	}

	counters, f := m.counters, m.field
	m.reveal.Observe(statsPanelID, effects.Rect{}, revealRatio, func() {
		counters.start(f.Len(), last.st.Links, int(f.Frames()))
	})
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	m.banner.Start()
	return m.tick()
}

// Update handles input events and steps the field.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.ready {
			m.layout()
			m.reseed()
			m.checkReveal()
			m.ready = true
			return m, nil
		}
		gen := m.resize.Bump()
		return m, tea.Tick(resizeDelay, func(time.Time) tea.Msg { return resizeMsg{gen: gen} })

	case resizeMsg:
		if m.resize.Settled(msg.gen) {
			m.layout()
			m.field.Resize(m.canvas.Bounds())
			if m.paused {
				m.field.Render(m.canvas)
			}
			m.checkReveal()
			m.log.Debug("resized", zap.Int("cols", m.canvas.Width), zap.Int("rows", m.canvas.Height))
		}

	case TickMsg:
		m.step(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.field.Stop()
		if m.recording {
			m.finishRecording()
		}
		return m, tea.Quit
	case " ":
		m.togglePause()
	case "r":
		m.reseed()
	case "t":
		m.toggleTheme()
	case "g":
		if m.recording {
			m.finishRecording()
		} else {
			m.recording = true
			m.recorder.Reset()
			m.status = "recording"
		}
	case "c":
		m.trailOn = !m.trailOn
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.scroll > 0 {
			m.scroll--
		}
		m.checkReveal()
		return
	case tea.MouseButtonWheelDown:
		if m.scroll < m.maxScroll() {
			m.scroll++
		}
		m.checkReveal()
		return
	}
	if msg.Action != tea.MouseActionMotion || !m.mouse.Allow() {
		return
	}
	m.pointer = true
	m.tilt = effects.Tilt(float64(msg.X), float64(m.width), effects.DefaultTiltAmplitude)
	x, y := m.cellToField(msg.X, msg.Y)
	m.trail.MoveTo(x, y)
}

// cellToField maps a terminal cell to the centre of that cell in field units.
func (m *Model) cellToField(col, row int) (float64, float64) {
	cx := float64(col-canvasPadX) + 0.5
	cy := float64(row-headerHeight) + 0.5
	return cx * 2 / m.canvas.Scale, cy * 4 / m.canvas.Scale
}

// layout sizes the canvas to what is left beside the panel.
func (m *Model) layout() {
	cols := m.width - panelWidth - canvasPadX*2
	rows := m.height - headerHeight - footerHeight
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols != m.canvas.Width || rows != m.canvas.Height {
		m.canvas.Resize(cols, rows)
	}
}

// checkReveal starts the counters the first time enough of the stats panel
// is on screen.
func (m *Model) checkReveal() {
	m.reveal.Move(statsPanelID, m.statsRect())
	m.reveal.Check(effects.Rect{W: m.width, H: m.height})
}

// statsRect is where the counters sit on screen, shifted by the panel scroll.
func (m *Model) statsRect() effects.Rect {
	return effects.Rect{
		X: m.canvas.Width + canvasPadX*2,
		Y: headerHeight + 4 - m.scroll,
		W: panelWidth,
		H: 5,
	}
}

func (m *Model) reseed() {
	b := m.canvas.Bounds()
	running := !m.paused
	m.field.Stop()
	m.field.Initialize(m.opts.Count, b)
	m.history = m.history[:0]
	if running {
		m.field.Run(m.sched, m.canvas)
	} else {
		m.field.Render(m.canvas)
	}
	m.log.Debug("reseeded", zap.Int("count", m.opts.Count), zap.Float64("width", b.Width), zap.Float64("height", b.Height))
}

func (m *Model) togglePause() {
	m.paused = !m.paused
	if m.paused {
		m.field.Stop()
		return
	}
	m.field.Run(m.sched, m.canvas)
}

func (m *Model) toggleTheme() {
	mode, err := m.theme.Toggle()
	if err != nil {
		m.log.Warn("theme not saved", zap.Error(err))
		m.status = "theme not saved"
	}
	m.palette = PaletteFor(mode)
	m.styles = NewStyles(m.palette)
}

func (m *Model) finishRecording() {
	m.recording = false
	if err := m.recorder.Save(m.opts.GIFPath); err != nil {
		m.log.Warn("gif not saved", zap.Error(err))
		m.status = "gif failed"
		return
	}
	m.log.Info("gif saved", zap.String("path", m.opts.GIFPath), zap.Int("frames", m.recorder.Len()))
	m.status = "saved " + m.opts.GIFPath
	m.recorder.Reset()
}

// step runs one tick: the pending frame fires, then the overlays and panel
// animations move on.
func (m *Model) step(now time.Time) {
	var dt time.Duration
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick)
	}
	m.lastTick = now
	m.banner.Tick(dt)

	if !m.ready {
		return
	}
	m.sched.Step(now)

	if m.last.fresh {
		m.last.fresh = false
		m.history = append(m.history, float64(m.last.st.Links))
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
	}
	m.counters.step(m.field.Len(), m.last.st.Links, int(m.field.Frames()))

	if m.trailOn && m.pointer && !m.paused {
		m.trail.Step()
		m.drawTrail()
	}

	if m.recording && !m.paused {
		if !m.recorder.Capture(m.canvas, m.palette) {
			m.finishRecording()
		}
	}
}

func (m *Model) drawTrail() {
	for i, p := range m.trail.Points() {
		m.canvas.Circle(p.X, p.Y, trailRadius*m.trail.Scale(i))
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	if !m.ready {
		return "\n  loading..."
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpView())
	}

	header := m.headerView()
	canvasView := lipgloss.NewStyle().Padding(0, canvasPadX).Render(m.canvas.Render(m.palette))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.panelView())

	footer := m.styles.Help.Render("  space pause · r reseed · t theme · g gif · c trail · ? help · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, mainView, footer)
}

func (m Model) headerView() string {
	pad := 2 + int(math.Round(m.tilt/2)) + int(effects.DefaultTiltAmplitude/4)
	if pad < 0 {
		pad = 0
	}
	title := GradientText("DRIFTFIELD", m.palette.Primary, m.palette.Secondary)

	status := m.styles.Running.Render("RUNNING")
	if m.paused {
		status = m.styles.Paused.Render("PAUSED")
	}
	if m.recording {
		status += " " + m.styles.Recording.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	}
	icon := m.palette.Mode.Icon()
	line := strings.Repeat(" ", pad) + title + "  " + status + "  " + icon
	if m.status != "" {
		line += "  " + m.styles.Help.Render(m.status)
	}
	return line + "\n"
}

// maxScroll keeps the last panel line on screen.
func (m *Model) maxScroll() int {
	return max(len(m.panelLines())-1, 0)
}

func (m Model) panelView() string {
	lines := m.panelLines()
	if m.scroll > 0 {
		if m.scroll < len(lines) {
			lines = lines[m.scroll:]
		} else {
			lines = nil
		}
	}
	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) panelLines() []string {
	var s strings.Builder

	shift := int(math.Round(effects.Offset(float64(m.scroll), effects.DefaultParallaxSpeed)))
	indent := 0
	if shift < 0 {
		indent = min(-shift, 4)
	}
	s.WriteString(strings.Repeat(" ", indent) + m.styles.Header.Render(m.banner.Text()))
	if !m.banner.Done() {
		s.WriteString(m.styles.Help.Render("▌"))
	}
	s.WriteString("\n")
	s.WriteString(Separator(panelWidth-4, m.palette.Muted) + "\n\n")

	if m.counters.started() {
		s.WriteString(m.styles.Label.Render("Particles") + m.styles.Value.Render(fmt.Sprint(m.counters.particles.Value())) + "\n")
		s.WriteString(m.styles.Label.Render("Links") + m.styles.Value.Render(fmt.Sprint(m.counters.links.Value())) + "\n")
		s.WriteString(m.styles.Label.Render("Frames") + m.styles.Value.Render(fmt.Sprint(m.counters.frames.Value())) + "\n")
	} else {
		s.WriteString(m.styles.Label.Render("  ...") + "\n\n\n")
	}
	pairs := m.field.Len() * (m.field.Len() - 1) / 2
	density := 0.0
	if pairs > 0 {
		density = float64(m.last.st.Links) / float64(pairs)
	}
	s.WriteString(m.styles.Label.Render("Density") + ProgressBar(density, 14, m.palette.Accent) + "\n")
	s.WriteString(m.styles.Label.Render("Frame") + m.styles.Value.Render(m.last.st.Elapsed.Round(time.Microsecond).String()) + "\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(panelWidth-12), asciigraph.Caption("links"))
		s.WriteString(m.styles.Graph.Render(chart) + "\n")
	}

	return strings.Split(strings.TrimRight(s.String(), "\n"), "\n")
}

func (m Model) helpView() string {
	rows := [][2]string{
		{"space", "pause / resume"},
		{"r", "reseed particles"},
		{"t", "toggle dark / light"},
		{"g", "start / stop gif recording"},
		{"c", "toggle pointer trail"},
		{"wheel", "scroll side panel"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("KEYBOARD SHORTCUTS") + "\n\n")
	for _, r := range rows {
		b.WriteString(m.styles.Label.Render(r[0]) + m.styles.Value.Render(r[1]) + "\n")
	}
	return m.styles.Overlay.Render(strings.TrimSuffix(b.String(), "\n"))
}

// Run starts the interactive view and blocks until it quits.
func Run(opts Options) error {
	m := NewModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	m.field.Stop()
	return err
}
