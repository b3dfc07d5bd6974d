package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/plotgrid/pkg/editor"
	"github.com/matzehuels/plotgrid/pkg/geom"
	"github.com/matzehuels/plotgrid/pkg/layout"
	"github.com/matzehuels/plotgrid/pkg/palette"
)

// Grid styles
var (
	gridEmptyStyle    = lipgloss.NewStyle().Foreground(colorDim)
	gridFrameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	gridLabelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0"))
	gridSelectedStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	statusStyle       = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	statusErrStyle    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	inputStyle        = lipgloss.NewStyle().Foreground(colorCyan)
	helpStyle         = lipgloss.NewStyle().Foreground(colorDim)
)

// cellWidth is the number of terminal columns per grid cell.
const cellWidth = 3

// =============================================================================
// EditorModel - Interactive grid editor
// =============================================================================

// inputMode is what typed text is collecting.
type inputMode int

const (
	modeNormal inputMode = iota
	modeChannel
	modeView
)

// statusExpiredMsg redraws once the copy status has expired.
type statusExpiredMsg struct{}

// EditorModel is the bubbletea model for the terminal layout editor. Each
// grid cell stands for one grid unit of the container, so keyboard moves
// arrive at the editor as pixel drag-stop and resize-stop events.
type EditorModel struct {
	ctx    context.Context
	ed     *editor.Editor
	colors *palette.Assigner

	cells     int     // cells per axis
	unit      float64 // pixels per cell
	statusDur time.Duration

	mode  inputMode
	input string
}

// NewEditorModel creates an editor model. The grid has one cell per
// quantization step on each axis; the editor's container is measured to
// match.
func NewEditorModel(ctx context.Context, ed *editor.Editor, colors *palette.Assigner,
	step, unit float64, statusDur time.Duration) EditorModel {
	cells := int(math.Round(1 / step))
	if cells < 1 {
		cells = 1
	}
	side := float64(cells) * unit
	ed.Measure(side, side)
	if colors == nil {
		colors = palette.NewAssigner(nil)
	}
	return EditorModel{
		ctx:       ctx,
		ed:        ed,
		colors:    colors,
		cells:     cells,
		unit:      unit,
		statusDur: statusDur,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)
	case statusExpiredMsg:
		return m, nil
	}
	return m, nil
}

func (m EditorModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "ctrl+n", "n":
		m.ed.HandleKey(m.ctx, "ctrl+n")
	case "delete", "backspace", "x":
		m.ed.HandleKey(m.ctx, editor.KeyDelete)
	case "esc":
		m.ed.Deselect()
	case "tab":
		m.cycleSelection(1)
	case "shift+tab":
		m.cycleSelection(-1)
	case "left", "h":
		m.move(-1, 0)
	case "right", "l":
		m.move(1, 0)
	case "up", "k":
		m.move(0, -1)
	case "down", "j":
		m.move(0, 1)
	case "shift+left", "H":
		m.resize(-1, 0)
	case "shift+right", "L":
		m.resize(1, 0)
	case "shift+up", "K":
		m.resize(0, -1)
	case "shift+down", "J":
		m.resize(0, 1)
	case "t":
		if it, ok := m.ed.Selected(); ok {
			m.ed.EditField(m.ctx, it.ID, editor.FieldType, string(it.Type.Next()))
		}
	case "c":
		if it, ok := m.ed.Selected(); ok {
			m.mode, m.input = modeChannel, it.ChannelNumber
		}
	case "v":
		m.mode, m.input = modeView, m.ed.View()
	case "y":
		_ = m.ed.Copy()
		return m, tea.Tick(m.statusDur, func(time.Time) tea.Msg { return statusExpiredMsg{} })
	}
	return m, nil
}

func (m EditorModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode, m.input = modeNormal, ""
	case tea.KeyEnter:
		switch m.mode {
		case modeChannel:
			if it, ok := m.ed.Selected(); ok {
				m.ed.EditField(m.ctx, it.ID, editor.FieldChannel, m.input)
			}
		case modeView:
			m.ed.SetView(m.ctx, m.input)
		}
		m.mode, m.input = modeNormal, ""
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// selected returns the selected item's placement.
func (m EditorModel) selected() (editor.Placement, bool) {
	for _, p := range m.ed.Layout() {
		if p.Selected {
			return p, true
		}
	}
	return editor.Placement{}, false
}

// move drags the selected item by whole cells, keeping it inside the grid.
func (m EditorModel) move(dx, dy int) {
	p, ok := m.selected()
	if !ok {
		return
	}
	c := m.ed.Container()
	x := clampPixel(p.Pos.X+float64(dx)*m.unit, 0, c.W-p.Size.W)
	y := clampPixel(p.Pos.Y+float64(dy)*m.unit, 0, c.H-p.Size.H)
	m.ed.DragStop(m.ctx, p.ID, geom.Point{X: x, Y: y})
}

// resize grows or shrinks the selected item by whole cells from its
// top-left corner. Items keep at least one cell and stay inside the grid.
func (m EditorModel) resize(dw, dh int) {
	p, ok := m.selected()
	if !ok {
		return
	}
	c := m.ed.Container()
	w := clampPixel(p.Size.W+float64(dw)*m.unit, m.unit, c.W-p.Pos.X)
	h := clampPixel(p.Size.H+float64(dh)*m.unit, m.unit, c.H-p.Pos.Y)
	m.ed.ResizeStop(m.ctx, p.ID, p.Pos, geom.Size{W: w, H: h})
}

func clampPixel(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// cycleSelection selects the item delta positions away from the current
// selection, wrapping around. Without a selection it starts at the first.
func (m EditorModel) cycleSelection(delta int) {
	items := m.ed.Items()
	if len(items) == 0 {
		return
	}
	next := 0
	if cur, ok := m.ed.Selected(); ok {
		for i, it := range items {
			if it.ID == cur.ID {
				next = ((i+delta)%len(items) + len(items)) % len(items)
			}
		}
	}
	m.ed.Select(items[next].ID)
}

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	if v := m.ed.View(); v != "" {
		b.WriteString(StyleDim.Render("  view ") + StyleHighlight.Render(v))
	}
	b.WriteString("\n\n")
	b.WriteString(gridFrameStyle.Render(m.renderGrid()))
	b.WriteString("\n")

	if it, ok := m.ed.Selected(); ok {
		b.WriteString(m.renderSelected(it))
	} else {
		b.WriteString(StyleDim.Render("no selection"))
	}
	b.WriteString("\n")

	switch m.mode {
	case modeChannel:
		b.WriteString(inputStyle.Render("channel> " + m.input + "█"))
	case modeView:
		b.WriteString(inputStyle.Render("view> " + m.input + "█"))
	default:
		switch s := m.ed.Status(); s {
		case "":
		case editor.StatusCopyFailed:
			b.WriteString(statusErrStyle.Render(s))
		default:
			b.WriteString(statusStyle.Render(s))
		}
	}
	b.WriteString("\n\n")

	if out := m.ed.Output(); out != "" {
		b.WriteString(StyleDim.Render(out))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("n new  tab select  ←↑↓→ move  shift+←↑↓→ resize  t type  c channel  v view  y copy  x delete  q quit"))
	return b.String()
}

func (m EditorModel) renderSelected(it layout.Item) string {
	return fmt.Sprintf("%s %s %s  x=%s y=%s w=%s h=%s  channel=%q",
		swatch(m.colors, it.Color),
		StyleHighlight.Render(it.ShortID(8)),
		StyleValue.Render(string(it.Type)),
		formatCoord(it.X), formatCoord(it.Y), formatCoord(it.Width), formatCoord(it.Height),
		it.ChannelNumber)
}

// renderGrid draws items over the cell grid. Later items are drawn on top.
func (m EditorModel) renderGrid() string {
	owner := make([][]int, m.cells)
	for r := range owner {
		owner[r] = make([]int, m.cells)
		for c := range owner[r] {
			owner[r][c] = -1
		}
	}

	placements := m.ed.Layout()
	for i, p := range placements {
		c0, r0 := m.cell(p.Pos.X), m.cell(p.Pos.Y)
		c1, r1 := m.cell(p.Pos.X+p.Size.W), m.cell(p.Pos.Y+p.Size.H)
		for r := max(r0, 0); r < min(r1, m.cells); r++ {
			for c := max(c0, 0); c < min(c1, m.cells); c++ {
				owner[r][c] = i
			}
		}
	}

	var b strings.Builder
	for r := 0; r < m.cells; r++ {
		for c := 0; c < m.cells; c++ {
			i := owner[r][c]
			if i < 0 {
				b.WriteString(gridEmptyStyle.Render(" · "))
				continue
			}
			b.WriteString(m.renderCell(placements[i], r, c))
		}
		if r < m.cells-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m EditorModel) renderCell(p editor.Placement, r, c int) string {
	text := strings.Repeat(" ", cellWidth)
	if r == m.cell(p.Pos.Y) && c == m.cell(p.Pos.X) {
		text = fmt.Sprintf("%-*.*s", cellWidth, cellWidth, p.Type)
	}
	style := gridLabelStyle
	if p.Selected {
		style = gridSelectedStyle
	}
	hex := m.colors.Hex(p.Color, "#9CA3AF")
	return style.Background(lipgloss.Color(hex)).Render(text)
}

// cell converts a pixel offset to a cell index.
func (m EditorModel) cell(px float64) int {
	return int(math.Round(px / m.unit))
}
