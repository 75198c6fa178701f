package tiling

import (
	"github.com/tilemeter/tilemeter/pkg/errors"
)

// curveDepth is the perpendicular offset of a curved edge's control point,
// as a fraction of the edge length.
const curveDepth = 0.25

// Segment is one edge of a tile outline. When Ctrl is nil the edge is a
// straight line; otherwise it is a quadratic Bézier curve through Ctrl.
type Segment struct {
	From Point
	To   Point
	Ctrl *Point
}

// Outline derives the drawable outline of a polygon from its vertices.
//
// With curved false the result is the straight closed polygon. With curved
// true every edge is replaced by a quadratic Bézier bulging alternately to
// one side then the other of the edge, starting with the positive
// perpendicular on edge 0. The same starting parity is used for every tile,
// so the shared edge of two adjacent tiles renders as mirror-image curves
// that leave no gap. The result is a pure function of the vertices: no
// randomness, identical input yields identical output.
//
// Outline only consumes straight polygon vertices; feeding it control points
// from a previous curved outline is unsupported.
//
// Polygons with fewer than 3 vertices are rejected.
func Outline(vertices []Point, curved bool) ([]Segment, error) {
	if len(vertices) < 3 {
		return nil, errors.New(errors.ErrCodeDegenerateTile,
			"polygon has %d vertices, need at least 3", len(vertices))
	}

	segs := make([]Segment, len(vertices))
	for i := range vertices {
		from := vertices[i]
		to := vertices[(i+1)%len(vertices)]
		segs[i] = Segment{From: from, To: to}

		if !curved {
			continue
		}

		// Control point at the edge midpoint, offset along the edge normal.
		// The normal (dy, -dx) has the same magnitude as the edge, so the
		// offset distance is curveDepth times the edge length.
		sign := curveDepth
		if i%2 == 1 {
			sign = -curveDepth
		}
		dx := to.X - from.X
		dy := to.Y - from.Y
		segs[i].Ctrl = &Point{
			X: (from.X+to.X)/2 + sign*dy,
			Y: (from.Y+to.Y)/2 - sign*dx,
		}
	}
	return segs, nil
}
