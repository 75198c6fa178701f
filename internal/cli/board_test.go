package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tilemeter/tilemeter/pkg/render"
	"github.com/tilemeter/tilemeter/pkg/tiling"
)

// boardDataset builds a 10x8 image split into a left and a right rectangle.
func boardDataset() *tiling.Dataset {
	return &tiling.Dataset{
		Tiles: []*tiling.Tile{
			{ID: 0, Vertices: []tiling.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 8}, {X: 0, Y: 8}}},
			{ID: 1, Vertices: []tiling.Point{{X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 8}, {X: 5, Y: 8}}},
		},
		ImageWidth:  10,
		ImageHeight: 8,
		Footnote:    "tiling by example",
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []tiling.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}

	tests := []struct {
		name string
		p    tiling.Point
		want bool
	}{
		{"center", tiling.Point{X: 2, Y: 2}, true},
		{"outside right", tiling.Point{X: 5, Y: 2}, false},
		{"outside above", tiling.Point{X: 2, Y: -1}, false},
		{"near corner inside", tiling.Point{X: 0.1, Y: 0.1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pointInPolygon(tt.p, square); got != tt.want {
				t.Errorf("pointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestTileAt(t *testing.T) {
	ds := boardDataset()

	if id := tileAt(ds, tiling.Point{X: 2.5, Y: 4}); id != 0 {
		t.Errorf("left center = tile %d, want 0", id)
	}
	if id := tileAt(ds, tiling.Point{X: 7.5, Y: 4}); id != 1 {
		t.Errorf("right center = tile %d, want 1", id)
	}
	if id := tileAt(ds, tiling.Point{X: 20, Y: 4}); id != -1 {
		t.Errorf("outside point = tile %d, want -1", id)
	}
}

func TestRasterizeCoversGrid(t *testing.T) {
	ds := boardDataset()
	cells := rasterize(ds, 10, 8)

	if len(cells) != 8 || len(cells[0]) != 10 {
		t.Fatalf("grid is %dx%d, want 8x10", len(cells), len(cells[0]))
	}
	for r := range cells {
		for c := range cells[r] {
			want := 0
			if c >= 5 {
				want = 1
			}
			if cells[r][c] != want {
				t.Errorf("cell (%d,%d) = tile %d, want %d", r, c, cells[r][c], want)
			}
		}
	}
}

func TestInitialFills(t *testing.T) {
	ds := boardDataset()
	resolver := tiling.NewResolver(ds.Defaults, tiling.Defaults{})

	ds.Tiles[1].State = tiling.Done
	fills := initialFills(ds, resolver)

	start := tiling.Color{R: 0xFF, A: 0xFF}
	done := tiling.Color{G: 0xA9, B: 0x33, A: 0xFF}
	if fills[0] != start {
		t.Errorf("tile 0 fill = %v, want builtin start %v", fills[0], start)
	}
	if fills[1] != done {
		t.Errorf("tile 1 fill = %v, want builtin done %v", fills[1], done)
	}
}

func TestBoardModelProgress(t *testing.T) {
	ds := boardDataset()
	resolver := tiling.NewResolver(ds.Defaults, tiling.Defaults{})
	m := newBoardModel(ds, initialFills(ds, resolver))

	view := m.View()
	if !strings.Contains(view, "waiting for denominator") {
		t.Error("initial view should show the waiting state")
	}
	if !strings.Contains(view, "tiling by example") {
		t.Error("view should contain the footnote")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	m = next.(boardModel)
	if m.cols == 0 || m.rows == 0 {
		t.Fatal("resize should size the grid")
	}

	done := tiling.Color{G: 0xA9, B: 0x33, A: 0xFF}
	next, _ = m.Update(progressMsg{
		Num:         3,
		Denom:       10,
		Toggled:     1,
		Transitions: []render.Transition{{TileID: 0, State: tiling.Done, Fill: done}},
	})
	m = next.(boardModel)

	if m.fills[0] != done {
		t.Errorf("tile 0 fill = %v, want %v", m.fills[0], done)
	}
	if !strings.Contains(m.View(), "3/10") {
		t.Error("view should show the progress fraction")
	}
}

func TestBoardModelReload(t *testing.T) {
	ds := boardDataset()
	resolver := tiling.NewResolver(ds.Defaults, tiling.Defaults{})
	m := newBoardModel(ds, initialFills(ds, resolver))

	next, _ := m.Update(progressMsg{Num: 5, Denom: 10, Toggled: 1})
	m = next.(boardModel)

	fresh := boardDataset()
	next, _ = m.Update(reloadMsg{Dataset: fresh, Fills: initialFills(fresh, resolver)})
	m = next.(boardModel)

	if m.num != 0 || m.denom != 0 || m.toggled != 0 {
		t.Errorf("reload should reset counters, got %d/%d toggled=%d", m.num, m.denom, m.toggled)
	}
}

func TestBoardModelReloadUsesCarriedFills(t *testing.T) {
	// The reload message carries the fills; the model must adopt them
	// as-is rather than resolving tile states itself. Tile states belong
	// to the engine's goroutine and may be mutating while this Update runs.
	ds := boardDataset()
	resolver := tiling.NewResolver(ds.Defaults, tiling.Defaults{})
	m := newBoardModel(ds, initialFills(ds, resolver))

	fresh := boardDataset()
	carried := []tiling.Color{
		{R: 0x12, G: 0x34, B: 0x56, A: 0xFF},
		{R: 0x65, G: 0x43, B: 0x21, A: 0xFF},
	}
	fresh.Tiles[0].State = tiling.Done // must not influence the board

	next, _ := m.Update(reloadMsg{Dataset: fresh, Fills: carried})
	m = next.(boardModel)

	if m.fills[0] != carried[0] || m.fills[1] != carried[1] {
		t.Errorf("fills = %v, want the carried %v", m.fills, carried)
	}
}

func TestBoardModelChannelClosed(t *testing.T) {
	ds := boardDataset()
	m := newBoardModel(ds, initialFills(ds, tiling.NewResolver(ds.Defaults, tiling.Defaults{})))

	next, _ := m.Update(channelClosedMsg{})
	m = next.(boardModel)

	if !strings.Contains(m.View(), "channel closed") {
		t.Error("view should flag the closed channel")
	}
}

func TestBoardModelQuit(t *testing.T) {
	ds := boardDataset()
	m := newBoardModel(ds, initialFills(ds, tiling.NewResolver(ds.Defaults, tiling.Defaults{})))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce a quit message")
	}
}
