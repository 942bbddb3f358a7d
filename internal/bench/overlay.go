package bench

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rezi-ui/bench/grid-bench/internal/diag"
	"github.com/rezi-ui/bench/grid-bench/internal/grid"
)

// overlayPadding is the horizontal padding of the overlay box, in columns.
const overlayPadding = 1

var (
	overlayStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#000000")).
			Padding(0, overlayPadding)
	rateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#aaaaaa"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffff00"))
	buttonStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#444444"))
)

// statusPanel renders the rate section at the top of the overlay.
type statusPanel interface {
	Name() string
	Lines(rate float64, d diag.FrameDiagnostics) []string
}

// newStatusPanel selects the panel for the configured renderer.
func newStatusPanel(diagnostics bool) statusPanel {
	if diagnostics {
		return diagnosticsPanel{}
	}
	return basicPanel{}
}

type basicPanel struct{}

func (basicPanel) Name() string { return "Basic" }

func (basicPanel) Lines(rate float64, _ diag.FrameDiagnostics) []string {
	return []string{rateStyle.Render(fmt.Sprintf("%.0f FPS", rate))}
}

type diagnosticsPanel struct{}

func (diagnosticsPanel) Name() string { return "Diagnostics" }

func (diagnosticsPanel) Lines(rate float64, d diag.FrameDiagnostics) []string {
	return []string{
		rateStyle.Render(fmt.Sprintf("Frame #%d @ %.0f FPS", d.Frame, rate)),
		sectionStyle.Render("CPU Paint"),
		panelLine("paint", fmt.Sprintf("%d / %d repl", d.PaintFibers, d.PaintReplayed)),
		panelLine("prepaint", fmt.Sprintf("%d / %d repl", d.PrepaintFibers, d.PrepaintReplayed)),
		sectionStyle.Render("Scene"),
		panelLine("segments", fmt.Sprintf("%d / %d", d.MutatedSegments, d.TotalSegments)),
		panelLine("hitboxes", fmt.Sprintf("%d (rebuilt: %d)", d.Hitboxes, d.HitboxesRebuilt)),
		sectionStyle.Render("Upload"),
		panelLine("upload", diag.FormatBytes(d.UploadBytes)),
		panelLine("quads", fmt.Sprint(d.Quads)),
		panelLine("sprites", fmt.Sprintf("%d / %d", d.MonoSprites, d.PolySprites)),
	}
}

func panelLine(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-10s", label)) + valueStyle.Render(value)
}

// button is a clickable zone on one overlay line, in terminal columns.
type button struct {
	line   int
	x0, x1 int
	action func(*Controller)
}

func (b button) contains(x, y int) bool {
	return y == b.line && x >= b.x0 && x < b.x1
}

// controlsLine renders the row and cell size buttons for overlay line y.
func controlsLine(y int) (string, []button) {
	var (
		sb      strings.Builder
		buttons []button
		x       = overlayPadding
	)
	text := func(s string) {
		sb.WriteString(labelStyle.Render(s))
		x += lipgloss.Width(s)
	}
	press := func(s string, action func(*Controller)) {
		w := lipgloss.Width(s)
		sb.WriteString(buttonStyle.Render(s))
		buttons = append(buttons, button{line: y, x0: x, x1: x + w, action: action})
		x += w
	}

	text("Rows ")
	press("[-]", (*Controller).RemoveRow)
	press("[+]", (*Controller).AddRow)
	text("   Cell Size ")
	press("[-]", (*Controller).DecreaseCellSize)
	press("[+]", (*Controller).IncreaseCellSize)
	return sb.String(), buttons
}

// renderOverlay builds the overlay box and returns it with its button zones.
func renderOverlay(panel statusPanel, rate float64, d diag.FrameDiagnostics, g grid.Geometry) (string, []button) {
	lines := panel.Lines(rate, d)
	lines = append(lines,
		dimStyle.Render(fmt.Sprintf("Grid: %dx%d (%d cells) @ %dpx", g.Rows, g.Columns, g.Total(), int(g.CellSize))),
		buildStyle().Render(buildLabel()),
		rendererStyle(panel).Render("Renderer: "+panel.Name()),
	)
	controls, buttons := controlsLine(len(lines))
	lines = append(lines, controls)
	return overlayStyle.Render(strings.Join(lines, "\n")), buttons
}

func buildLabel() string {
	if debugBuild() {
		return "Build: DEBUG"
	}
	return "Build: RELEASE"
}

func buildStyle() lipgloss.Style {
	if debugBuild() {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8800"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
}

func rendererStyle(panel statusPanel) lipgloss.Style {
	if _, ok := panel.(diagnosticsPanel); ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#ff00ff"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaff"))
}

// debugBuild reports whether the binary was built without optimizations or
// with the race detector.
var debugBuild = sync.OnceValue(func() bool {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return false
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "-gcflags":
			if strings.Contains(s.Value, "-N") {
				return true
			}
		case "-race":
			if s.Value == "true" {
				return true
			}
		}
	}
	return false
})
