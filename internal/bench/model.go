package bench

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"k8s.io/klog/v2"

	"github.com/rezi-ui/bench/grid-bench/internal/clock"
	"github.com/rezi-ui/bench/grid-bench/internal/config"
	"github.com/rezi-ui/bench/grid-bench/internal/diag"
	"github.com/rezi-ui/bench/grid-bench/internal/frameloop"
	"github.com/rezi-ui/bench/grid-bench/internal/grid"
	"github.com/rezi-ui/bench/grid-bench/internal/metrics"
)

// frameMsg asks the model to run one host frame.
type frameMsg struct{}

// quitMsg ends a timed run.
type quitMsg struct{}

// readyMsg reports that the program loop is running.
type readyMsg struct{}

// stepMsg runs one scripted frame with the pointer over cell. The ack is
// closed once the frame has been rendered.
type stepMsg struct {
	cell int
	ack  chan struct{}
}

// Option customizes a Model.
type Option func(*Model)

func WithClock(c clock.Clock) Option {
	return func(m *Model) { m.clock = c }
}

// WithSink redirects the frame log. It only applies when diagnostics are
// enabled.
func WithSink(s *diag.Sink) Option {
	return func(m *Model) { m.sink = s }
}

// withScriptedFrames replaces the frame ticker with stepMsg and signals
// ready once the program loop runs.
func withScriptedFrames(ready chan struct{}) Option {
	return func(m *Model) {
		m.ready = ready
		m.scripted = true
	}
}

func WithExporter(e *metrics.Exporter) Option {
	return func(m *Model) { m.exporter = e }
}

// WithOutput lets upload byte counts follow what the program flushes.
func WithOutput(out interface{ BytesWritten() uint64 }) Option {
	return func(m *Model) { m.output = out }
}

// Model is the bubbletea model for the grid benchmark.
type Model struct {
	cfg        *config.Config
	controller *Controller
	clock      clock.Clock
	meter      *meter
	frames     *frameloop.Queue
	surface    *surface
	stats      *renderStats
	source     diag.Source
	panel      statusPanel
	sink       *diag.Sink
	exporter   *metrics.Exporter
	output     byteCounter

	keys     keyMap
	help     help.Model
	viewport viewport.Model

	width, height int // terminal size, zero until reported
	geometry      grid.Geometry
	hovered       int
	clicks        uint64
	buttons       []button
	overlayHeight int

	layoutDirty bool
	rendered    bool
	view        string

	scripted   bool
	ready      chan struct{}
	pendingAck chan struct{}
}

func NewModel(cfg *config.Config, opts ...Option) *Model {
	m := &Model{
		cfg:        cfg,
		controller: NewController(cfg),
		frames:     &frameloop.Queue{},
		surface:    newSurface(grid.TerminalScale),
		panel:      newStatusPanel(cfg.Diagnostics),
		keys:       defaultKeyMap(),
		help:       help.New(),
		viewport:   viewport.New(0, 0),
		hovered:    noCell,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		m.clock = clock.Real{}
	}
	if cfg.Diagnostics {
		if m.sink == nil {
			m.sink = diag.Default()
		}
	} else {
		m.sink = nil
	}

	m.meter = newMeter(m.clock)
	m.meter.startFrameLoop(m.frames)
	m.stats = newRenderStats(m.output)
	m.source = m.stats
	return m
}

func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.scripted {
		cmds = append(cmds, func() tea.Msg { return readyMsg{} })
	} else {
		cmds = append(cmds, m.requestFrame())
	}
	if m.cfg.Duration > 0 {
		cmds = append(cmds, tea.Tick(m.cfg.Duration, func(time.Time) tea.Msg { return quitMsg{} }))
	}
	return tea.Batch(cmds...)
}

func (m *Model) requestFrame() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval(), func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frames.RunFrame()
		return m, m.requestFrame()
	case quitMsg:
		return m, tea.Quit
	case readyMsg:
		if m.ready != nil {
			close(m.ready)
			m.ready = nil
		}
		return m, nil
	case stepMsg:
		m.frames.RunFrame()
		if total := m.geometry.Total(); total > 0 {
			m.setHovered(msg.cell % total)
		}
		m.pendingAck = msg.ack
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.help.Width = msg.Width
		m.layoutDirty = true
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.AddRows):
			m.controller.AddRow()
		case key.Matches(msg, m.keys.RemoveRows):
			m.controller.RemoveRow()
		case key.Matches(msg, m.keys.GrowCells):
			m.controller.IncreaseCellSize()
		case key.Matches(msg, m.keys.ShrinkCells):
			m.controller.DecreaseCellSize()
		default:
			return m, m.scroll(msg)
		}
		return m, nil
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) scroll(msg tea.Msg) tea.Cmd {
	offset := m.viewport.YOffset
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	if m.viewport.YOffset != offset {
		m.layoutDirty = true
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if tea.MouseEvent(msg).IsWheel() {
		return m.scroll(msg)
	}
	press := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft

	if msg.Y < m.overlayHeight {
		if press {
			for _, b := range m.buttons {
				if b.contains(msg.X, msg.Y) {
					b.action(m.controller)
					break
				}
			}
		}
		m.setHovered(noCell)
		return nil
	}

	cell := m.cellAt(msg.X, msg.Y)
	switch {
	case msg.Action == tea.MouseActionMotion:
		m.setHovered(cell)
	case press && cell != noCell && m.controller.ClickEnabled():
		m.clicks++
		klog.InfoS("Clicked cell", "cell", cell)
	}
	return nil
}

func (m *Model) setHovered(cell int) {
	if !m.controller.HoverEnabled() || cell == m.hovered {
		return
	}
	m.hovered = cell
	m.layoutDirty = true
}

// cellAt maps a terminal position to the grid cell under it.
func (m *Model) cellAt(x, y int) int {
	if m.width > 0 && x >= m.width {
		return noCell
	}
	return m.surface.cellAt(x, y-m.overlayHeight+m.viewport.YOffset)
}

// View renders the grid when something changed since the previous pass:
// a host frame arrived, the controller was touched, or the layout moved.
// Otherwise the previous output is returned as is.
func (m *Model) View() string {
	notified := m.meter.takeNotified()
	dirty := m.controller.TakeDirty()
	if !m.rendered || notified || dirty || m.layoutDirty {
		m.render()
	}
	if m.pendingAck != nil {
		close(m.pendingAck)
		m.pendingAck = nil
	}
	return m.view
}

func (m *Model) render() {
	m.meter.render.Record()

	g := m.controller.Geometry(m.viewportUnits())
	hovered := noCell
	if m.controller.HoverEnabled() {
		hovered = m.hovered
	}
	lines, paint := m.surface.render(g, hovered, m.width)
	m.geometry = g

	m.stats.update(g, paint, m.controller.Interactive())
	snapshot := m.source.Snapshot()
	frame := metrics.Frame{
		RenderRate: m.meter.render.Rate(),
		FrameRate:  m.meter.frame.Rate(),
		Geometry:   g,
	}
	if m.sink != nil {
		m.sink.Emit(snapshot)
		frame.Diagnostics = &snapshot
	}
	if m.exporter != nil {
		m.exporter.Observe(frame)
	}

	overlay, buttons := renderOverlay(m.panel, frame.RenderRate, snapshot, g)
	m.buttons = buttons
	m.overlayHeight = lipgloss.Height(overlay)
	helpView := m.help.View(m.keys)

	m.viewport.Height = max(1, m.terminalHeight()-m.overlayHeight-lipgloss.Height(helpView))
	m.viewport.SetContent(strings.Join(lines, "\n"))

	m.view = lipgloss.JoinVertical(lipgloss.Left, overlay, m.viewport.View(), helpView)
	m.layoutDirty = false
	m.rendered = true
}

// viewportUnits is the grid width in layout units. The configured width
// applies until the terminal reports its size.
func (m *Model) viewportUnits() float64 {
	if m.width > 0 {
		return grid.TerminalScale.Width(m.width)
	}
	return m.cfg.Width
}

func (m *Model) terminalHeight() int {
	if m.height > 0 {
		return m.height
	}
	return int(m.cfg.Height / grid.TerminalScale.UnitsPerLine)
}

// Result summarizes the run so far.
func (m *Model) Result() Result {
	r := Result{
		Frames:     m.stats.frame,
		HostFrames: m.frames.Frames(),
		RenderFPS:  m.meter.render.Rate(),
		FrameFPS:   m.meter.frame.Rate(),
		Rows:       m.geometry.Rows,
		Columns:    m.geometry.Columns,
		Cells:      m.geometry.Total(),
		CellSize:   m.geometry.CellSize,
		Clicks:     m.clicks,
	}
	if m.sink != nil {
		r.DiagnosticsRows = m.sink.Rows()
	}
	if m.output != nil {
		r.BytesWritten = m.output.BytesWritten()
	}
	return r
}
