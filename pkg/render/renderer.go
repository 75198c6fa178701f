// Package render defines the surface-independent render command stream and
// the surfaces that consume it: an SVG snapshot renderer, an HTTP preview
// server, and test helpers. The progress engine emits Transition values; a
// Renderer applies them to whatever is displaying the tiling.
package render

import (
	"github.com/tilemeter/tilemeter/pkg/tiling"
)

// Transition is one tile state change, fully resolved for drawing: the
// target state, the effective colors for that state, and the outline
// geometry (post-curving when the dataset enables it).
type Transition struct {
	TileID  int
	State   tiling.State
	Fill    tiling.Color
	Stroke  tiling.Color
	Outline []tiling.Segment
}

// Renderer is a surface that can apply tile transitions. Implementations
// must tolerate being called from a single goroutine only; fan-out across
// surfaces goes through Multi.
type Renderer interface {
	Apply(t Transition) error
}

// Multi fans transitions out to several renderers in order. The first error
// stops the fan-out and is returned.
type Multi []Renderer

// Apply implements Renderer.
func (m Multi) Apply(t Transition) error {
	for _, r := range m {
		if err := r.Apply(t); err != nil {
			return err
		}
	}
	return nil
}

// Recorder is a Renderer that captures every transition, for tests.
type Recorder struct {
	Transitions []Transition
}

// Apply implements Renderer.
func (r *Recorder) Apply(t Transition) error {
	r.Transitions = append(r.Transitions, t)
	return nil
}

// TileIDs returns the tile IDs of the recorded transitions, in order.
func (r *Recorder) TileIDs() []int {
	ids := make([]int, len(r.Transitions))
	for i, t := range r.Transitions {
		ids[i] = t.TileID
	}
	return ids
}

// Reset discards the recorded transitions.
func (r *Recorder) Reset() {
	r.Transitions = nil
}
