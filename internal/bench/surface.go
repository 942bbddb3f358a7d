package bench

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/rezi-ui/bench/grid-bench/internal/grid"
)

// noCell marks "nothing hovered".
const noCell = -1

type styleKey struct {
	index   int
	hovered bool
}

// paintStats counts the work of one surface pass.
type paintStats struct {
	painted    uint64 // cell styles built
	replayed   uint64 // cell styles reused from the previous frame
	rows       uint64 // grid rows laid out
	rowsReused uint64 // grid rows whose lines match the previous frame
	mutated    uint64 // lines that differ from the previous frame
	lines      uint64
	quads      uint64
	glyphs     uint64
}

// surface rasterizes the grid onto terminal lines. Cell styles are cached
// across frames until the cell count changes, since the hue of every cell
// depends on the total.
type surface struct {
	scale grid.Scale

	styles      map[styleKey]lipgloss.Style
	stylesTotal int
	prev        []string

	// scratch, reused across frames
	row   []grid.Cell
	spans [][2]int
	owner []int
}

func newSurface(scale grid.Scale) *surface {
	return &surface{
		scale:  scale,
		styles: make(map[styleKey]lipgloss.Style),
	}
}

// render draws g and returns one string per terminal line, clipped to width
// columns when width is positive.
func (s *surface) render(g grid.Geometry, hovered, width int) ([]string, paintStats) {
	var st paintStats

	if total := g.Total(); total != s.stylesTotal {
		clear(s.styles)
		s.stylesTotal = total
	}

	s.spans = s.spans[:0]
	for c := 0; c < g.Columns; c++ {
		a, b := s.scale.Columns(g.CellSpan(c))
		s.spans = append(s.spans, [2]int{a, b})
	}

	_, height := s.scale.Lines(0, g.Height())
	lines := make([]string, height)
	s.owner = s.owner[:0]
	for i := 0; i < height; i++ {
		s.owner = append(s.owner, noCell)
	}
	for r := 0; r < g.Rows; r++ {
		a, b := s.scale.Lines(g.CellSpan(r))
		for l := a; l < b && l < height; l++ {
			s.owner[l] = r
		}
	}

	s.row = s.row[:0]
	for cell := range g.Cells() {
		s.row = append(s.row, cell)
		if cell.Column == g.Columns-1 {
			s.drawRow(g, lines, hovered, width, &st)
			s.row = s.row[:0]
		}
	}

	for i, line := range lines {
		if i >= len(s.prev) || s.prev[i] != line {
			st.mutated++
		}
	}
	st.lines = uint64(len(lines))
	s.prev = lines
	return lines, st
}

// cellAt returns the cell drawn at column x of line in the last render,
// or noCell for padding, gaps and lines no row owns.
func (s *surface) cellAt(x, line int) int {
	if line < 0 || line >= len(s.owner) || s.owner[line] == noCell {
		return noCell
	}
	for c, sp := range s.spans {
		if x >= sp[0] && x < sp[1] {
			return s.owner[line]*len(s.spans) + c
		}
	}
	return noCell
}

func (s *surface) drawRow(g grid.Geometry, lines []string, hovered, width int, st *paintStats) {
	r := s.row[0].Row
	a, b := s.scale.Lines(g.CellSpan(r))
	label := a + (b-a)/2

	styles := make([]lipgloss.Style, len(s.row))
	for i, cell := range s.row {
		styles[i] = s.style(cell, cell.Index == hovered, st)
	}

	owned := false
	reused := true
	for l := a; l < b && l < len(lines); l++ {
		if s.owner[l] != r {
			continue
		}
		owned = true
		line := s.drawLine(styles, l == label, st)
		if width > 0 {
			line = ansi.Truncate(line, width, "")
		}
		lines[l] = line
		if l >= len(s.prev) || s.prev[l] != lines[l] {
			reused = false
		}
	}
	if !owned {
		return
	}
	st.rows++
	st.quads += uint64(len(s.row))
	if reused {
		st.rowsReused++
	}
}

func (s *surface) drawLine(styles []lipgloss.Style, withLabels bool, st *paintStats) string {
	var sb strings.Builder
	x := 0
	for i, cell := range s.row {
		a, b := s.spans[cell.Column][0], s.spans[cell.Column][1]
		if a > x {
			sb.WriteString(strings.Repeat(" ", a-x))
		}
		w := b - a
		text := strings.Repeat(" ", w)
		if withLabels {
			if lbl := strconv.Itoa(cell.Index); len(lbl) <= w {
				pad := (w - len(lbl)) / 2
				text = strings.Repeat(" ", pad) + lbl + strings.Repeat(" ", w-pad-len(lbl))
				st.glyphs += uint64(len(lbl))
			}
		}
		sb.WriteString(styles[i].Render(text))
		x = b
	}
	return sb.String()
}

func (s *surface) style(cell grid.Cell, hovered bool, st *paintStats) lipgloss.Style {
	key := styleKey{index: cell.Index, hovered: hovered}
	if style, ok := s.styles[key]; ok {
		st.replayed++
		return style
	}
	st.painted++

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(cell.Color.Hex()))
	if hovered {
		style = style.
			Background(lipgloss.Color(cell.HoverColor.Hex())).
			Bold(true).
			Underline(true)
	}
	s.styles[key] = style
	return style
}
