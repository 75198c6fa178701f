package progress

import (
	"context"

	"github.com/google/uuid"

	"github.com/tilemeter/tilemeter/pkg/observability"
	"github.com/tilemeter/tilemeter/pkg/render"
	"github.com/tilemeter/tilemeter/pkg/tiling"
)

// Engine owns the progress state of a run: the current denominator and
// numerator, the count of tiles toggled so far, and the per-tile states in
// the dataset. It consumes decoded events strictly sequentially and emits
// the render transitions each event implies.
//
// Toggling is a deterministic function of (numerator, denominator) composed
// with the fixed visitation order: replaying the same event sequence toggles
// the identical tiles in the identical order.
//
// Engine is not safe for concurrent use; exactly one goroutine may call
// OnEvent.
type Engine struct {
	dataset  *tiling.Dataset
	order    []int
	resolver *tiling.Resolver
	outlines [][]tiling.Segment

	denom    int
	num      int
	toggled  int
	runID    string
	hasDenom bool
}

// NewEngine creates an engine over a validated dataset, a visitation order
// from Plan, and a color resolver. Tile outlines (curved when the dataset
// asks for it) are derived once here, so geometry problems surface at
// startup rather than mid-run.
func NewEngine(ds *tiling.Dataset, order []int, resolver *tiling.Resolver) (*Engine, error) {
	outlines := make([][]tiling.Segment, len(ds.Tiles))
	for i, t := range ds.Tiles {
		segs, err := tiling.Outline(t.Vertices, ds.CurveEdges)
		if err != nil {
			return nil, err
		}
		outlines[i] = segs
	}
	return &Engine{
		dataset:  ds,
		order:    order,
		resolver: resolver,
		outlines: outlines,
	}, nil
}

// Denominator returns the current denominator, or 0 before the first
// denominator event.
func (e *Engine) Denominator() int { return e.denom }

// Numerator returns the last applied numerator value.
func (e *Engine) Numerator() int { return e.num }

// Toggled returns the number of tiles currently in the Done state.
func (e *Engine) Toggled() int { return e.toggled }

// RunID returns the identifier of the current run, or "" before the first
// denominator event.
func (e *Engine) RunID() string { return e.runID }

// OnEvent applies one decoded progress event and returns the tile
// transitions it caused, in the order they must be drawn.
//
//   - A denominator event with a new value tears the current run down
//     (reverting every toggled tile) and starts a fresh run; repeating the
//     current denominator is a no-op.
//   - A restart event tears the run down but keeps the denominator.
//   - A numerator event moves the toggle count to floor(N/D * tileCount),
//     walking the visitation order forward (toggling) or backward
//     (reverting). Values are clamped to [0, D], and the toggle count never
//     exceeds the tile count. A numerator arriving before any denominator is
//     ignored.
func (e *Engine) OnEvent(ctx context.Context, ev Event) []render.Transition {
	switch ev.Kind {
	case EventDenominator:
		if e.hasDenom && ev.Value == e.denom {
			return nil
		}
		out := e.reset(ctx)
		e.denom = ev.Value
		e.hasDenom = true
		e.startRun(ctx)
		return out

	case EventRestart:
		if !e.hasDenom {
			return nil
		}
		out := e.reset(ctx)
		e.startRun(ctx)
		return out

	case EventNumerator:
		if !e.hasDenom {
			// No denominator yet: nothing to toggle, not an error.
			return nil
		}
		n := min(max(ev.Value, 0), e.denom)
		e.num = n
		return e.seek(ctx, e.target(n))
	}
	return nil
}

// target computes the toggle count implied by numerator n.
func (e *Engine) target(n int) int {
	c := len(e.dataset.Tiles)
	return min(n*c/e.denom, c)
}

// seek walks the visitation order until the toggle count reaches want,
// emitting one transition per tile crossed.
func (e *Engine) seek(ctx context.Context, want int) []render.Transition {
	var out []render.Transition
	for e.toggled < want {
		id := e.order[e.toggled]
		out = append(out, e.transition(id, tiling.Done))
		e.toggled++
		observability.Engine().OnToggle(ctx, e.runID, id, true, e.toggled)
	}
	for e.toggled > want {
		e.toggled--
		id := e.order[e.toggled]
		out = append(out, e.transition(id, tiling.Start))
		observability.Engine().OnToggle(ctx, e.runID, id, false, e.toggled)
	}
	return out
}

// reset reverts every toggled tile, walking the visitation order backward.
func (e *Engine) reset(ctx context.Context) []render.Transition {
	reverted := e.toggled
	out := e.seek(ctx, 0)
	e.num = 0
	if reverted > 0 {
		observability.Engine().OnRunReset(ctx, e.runID, reverted)
	}
	return out
}

// startRun assigns a fresh run identifier and announces the run.
func (e *Engine) startRun(ctx context.Context) {
	e.runID = uuid.NewString()
	observability.Engine().OnRunStart(ctx, e.runID, e.denom, len(e.dataset.Tiles))
}

// transition mutates the tile state and builds the resolved render command.
func (e *Engine) transition(id int, s tiling.State) render.Transition {
	t := e.dataset.Tiles[id]
	t.State = s
	fill, stroke := e.resolver.Resolve(t, s)
	return render.Transition{
		TileID:  id,
		State:   s,
		Fill:    fill,
		Stroke:  stroke,
		Outline: e.outlines[id],
	}
}
