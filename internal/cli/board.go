package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tilemeter/tilemeter/pkg/render"
	"github.com/tilemeter/tilemeter/pkg/tiling"
)

// progressMsg carries one batch of tile transitions plus the engine counters
// after applying them. Sent by the show loop via Program.Send.
type progressMsg struct {
	Num         int
	Denom       int
	Toggled     int
	Transitions []render.Transition
}

// reloadMsg replaces the board's dataset after a watched file changed. Fills
// are computed by the sender (the goroutine owning tile state), so the model
// never reads per-tile state concurrently with the engine.
type reloadMsg struct {
	Dataset *tiling.Dataset
	Fills   []tiling.Color
}

// channelClosedMsg signals that the progress channel reached EOF. The board
// stays up showing the last state.
type channelClosedMsg struct{}

const (
	minBoardCols = 10
	minBoardRows = 4
)

// boardModel is the bubbletea model for the live progress board. It
// rasterizes the tiling into a grid of terminal cells, each cell painted
// with the current fill color of the tile covering its center.
//
// The model never reads per-tile state: fills arrive precomputed, either at
// construction or inside progressMsg/reloadMsg, so only the show loop's
// goroutine ever touches the engine-owned tile states.
type boardModel struct {
	ds *tiling.Dataset

	cols  int
	rows  int
	cells [][]int // [row][col] tile ID, -1 where no tile covers the cell
	fills []tiling.Color

	num     int
	denom   int
	toggled int
	closed  bool
}

// newBoardModel creates a board over ds with the given per-tile fill colors.
// The grid is sized on the first WindowSizeMsg.
func newBoardModel(ds *tiling.Dataset, fills []tiling.Color) boardModel {
	return boardModel{ds: ds, fills: fills}
}

// initialFills resolves every tile's fill from its current state. Callers
// must own the tile states; the result is handed to the board, which only
// ever reads its own copy.
func initialFills(ds *tiling.Dataset, resolver *tiling.Resolver) []tiling.Color {
	fills := make([]tiling.Color, len(ds.Tiles))
	for i, t := range ds.Tiles {
		fill, _ := resolver.Resolve(t, t.State)
		fills[i] = fill
	}
	return fills
}

// resize fits the raster grid into a terminal of the given size, keeping the
// image aspect ratio. Terminal cells are roughly twice as tall as wide, so
// each raster cell is drawn as two characters.
func (m *boardModel) resize(width, height int) {
	cols := width / 2
	rows := height - 4 // header, status, footnote, help
	if cols < minBoardCols {
		cols = minBoardCols
	}
	if rows < minBoardRows {
		rows = minBoardRows
	}

	// Shrink one axis to match the image aspect ratio.
	imgAspect := m.ds.ImageWidth / m.ds.ImageHeight
	gridAspect := float64(cols) / float64(rows)
	if gridAspect > imgAspect {
		cols = int(float64(rows) * imgAspect)
		if cols < minBoardCols {
			cols = minBoardCols
		}
	} else {
		rows = int(float64(cols) / imgAspect)
		if rows < minBoardRows {
			rows = minBoardRows
		}
	}

	m.cols = cols
	m.rows = rows
	m.cells = rasterize(m.ds, cols, rows)
}

// rasterize maps every grid cell to the tile covering its center, or -1.
// Curved edges are ignored here; the terminal raster is far coarser than the
// curve depth.
func rasterize(ds *tiling.Dataset, cols, rows int) [][]int {
	cells := make([][]int, rows)
	for r := range cells {
		cells[r] = make([]int, cols)
		for c := range cells[r] {
			p := tiling.Point{
				X: (float64(c) + 0.5) * ds.ImageWidth / float64(cols),
				Y: (float64(r) + 0.5) * ds.ImageHeight / float64(rows),
			}
			cells[r][c] = tileAt(ds, p)
		}
	}
	return cells
}

// tileAt returns the ID of the first tile containing p, or -1.
func tileAt(ds *tiling.Dataset, p tiling.Point) int {
	for _, t := range ds.Tiles {
		if pointInPolygon(p, t.Vertices) {
			return t.ID
		}
	}
	return -1
}

// pointInPolygon reports whether p lies inside the polygon using the even-odd
// ray crossing rule.
func pointInPolygon(p tiling.Point, vs []tiling.Point) bool {
	inside := false
	n := len(vs)
	for i := 0; i < n; i++ {
		a, b := vs[i], vs[(i+1)%n]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func (m boardModel) Init() tea.Cmd {
	return nil
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case progressMsg:
		m.num = msg.Num
		m.denom = msg.Denom
		m.toggled = msg.Toggled
		for _, t := range msg.Transitions {
			if t.TileID >= 0 && t.TileID < len(m.fills) {
				m.fills[t.TileID] = t.Fill
			}
		}
	case reloadMsg:
		m.ds = msg.Dataset
		m.fills = msg.Fills
		m.num, m.denom, m.toggled = 0, 0, 0
		if m.cols > 0 && m.rows > 0 {
			m.cells = rasterize(m.ds, m.cols, m.rows)
		}
	case channelClosedMsg:
		m.closed = true
	}
	return m, nil
}

func (m boardModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("tilemeter"))
	b.WriteString("  ")
	if m.denom > 0 {
		b.WriteString(StyleValue.Render(fmt.Sprintf("%d/%d", m.num, m.denom)))
	} else {
		b.WriteString(StyleDim.Render("waiting for denominator"))
	}
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d of %d tiles", m.toggled, len(m.ds.Tiles))))
	if m.closed {
		b.WriteString("  ")
		b.WriteString(StyleWarning.Render("channel closed"))
	}
	b.WriteString("\n")

	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			id := m.cells[r][c]
			if id < 0 {
				b.WriteString("  ")
				continue
			}
			cell := lipgloss.NewStyle().Background(lipgloss.Color(m.fills[id].RGBHex()))
			b.WriteString(cell.Render("  "))
		}
		b.WriteString("\n")
	}

	if m.ds.Footnote != "" {
		b.WriteString(StyleDim.Render(m.ds.Footnote))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("q quit"))

	return b.String()
}
