// Package tiling models a polygon tiling dataset: tiles with 2-D vertex
// lists, per-state colors resolved through layered defaults, and optional
// edge curving for spectre-style outlines.
//
// A Dataset is loaded once at startup from a tab-separated file (see Load)
// and is immutable afterwards except for per-tile state, which is owned by
// the progress engine.
package tiling

import (
	"github.com/tilemeter/tilemeter/pkg/errors"
)

// Point is a vertex in the dataset's image coordinate space.
// Coordinates are abstract units, not pixels; the declared image width and
// height define the space.
type Point struct {
	X float64
	Y float64
}

// State is the visual state of a tile.
type State int

const (
	// Start is the initial appearance of every tile.
	Start State = iota
	// Done is the appearance of a tile whose share of the work is complete.
	Done
)

// String returns the lowercase state name.
func (s State) String() string {
	if s == Done {
		return "done"
	}
	return "start"
}

// Tile is one polygon in the tiling.
//
// ID is the tile's index in the dataset and is stable for the lifetime of
// the process. Vertices are in insertion order; the polygon closes back to
// the first vertex. Colors holds per-tile overrides, which take precedence
// over every other layer in color resolution.
type Tile struct {
	ID       int
	Vertices []Point
	State    State
	Colors   Defaults
}

// Dataset is the in-memory representation of a tiling plus its global
// metadata. It is created once at startup and never mutated afterwards,
// except for per-tile State.
type Dataset struct {
	Tiles       []*Tile
	ImageWidth  float64
	ImageHeight float64
	Footnote    string
	Defaults    Defaults
	CurveEdges  bool
}

// Validate checks the structural invariants that must hold before any
// rendering begins: at least one tile, positive image dimensions, and no
// degenerate tiles. Out-of-range vertex coordinates are deliberately not
// checked; they are a rendering artifact, not an error.
func (d *Dataset) Validate() error {
	if len(d.Tiles) == 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "dataset contains no tiles")
	}
	if d.ImageWidth <= 0 || d.ImageHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidDataset,
			"image dimensions must be positive, got %gx%g", d.ImageWidth, d.ImageHeight)
	}
	for _, t := range d.Tiles {
		if len(t.Vertices) < 3 {
			return errors.New(errors.ErrCodeDegenerateTile,
				"tile %d has %d vertices, need at least 3", t.ID, len(t.Vertices))
		}
	}
	return nil
}

// ResetStates restores every tile to the Start state.
func (d *Dataset) ResetStates() {
	for _, t := range d.Tiles {
		t.State = Start
	}
}
