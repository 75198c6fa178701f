package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/tilemeter/tilemeter/pkg/tiling"
)

// footnoteScale sizes the footnote strip relative to the image height.
const footnoteScale = 0.06

// SVG is a Renderer that keeps the current appearance of every tile and can
// emit the whole board as an SVG document at any time.
//
// Apply is called by the engine's owner goroutine; Render may be called
// concurrently (the HTTP preview server does), so the appearance table is
// guarded by a lock.
type SVG struct {
	mu       sync.RWMutex
	width    float64
	height   float64
	footnote string
	tiles    []tileAppearance
}

type tileAppearance struct {
	fill    tiling.Color
	stroke  tiling.Color
	outline []tiling.Segment
}

// NewSVG builds a snapshot renderer showing every tile of ds in its Start
// appearance. Geometry problems surface here, before the board is shown.
func NewSVG(ds *tiling.Dataset, resolver *tiling.Resolver) (*SVG, error) {
	s := &SVG{
		width:    ds.ImageWidth,
		height:   ds.ImageHeight,
		footnote: ds.Footnote,
		tiles:    make([]tileAppearance, len(ds.Tiles)),
	}
	for i, t := range ds.Tiles {
		outline, err := tiling.Outline(t.Vertices, ds.CurveEdges)
		if err != nil {
			return nil, err
		}
		fill, stroke := resolver.Resolve(t, t.State)
		s.tiles[i] = tileAppearance{fill: fill, stroke: stroke, outline: outline}
	}
	return s, nil
}

// Reset swaps in a new dataset, restoring every tile to its current state's
// appearance. Used when a watched dataset file is reloaded; holders of the
// *SVG (the preview server) keep serving without interruption.
func (s *SVG) Reset(ds *tiling.Dataset, resolver *tiling.Resolver) error {
	tiles := make([]tileAppearance, len(ds.Tiles))
	for i, t := range ds.Tiles {
		outline, err := tiling.Outline(t.Vertices, ds.CurveEdges)
		if err != nil {
			return err
		}
		fill, stroke := resolver.Resolve(t, t.State)
		tiles[i] = tileAppearance{fill: fill, stroke: stroke, outline: outline}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = ds.ImageWidth
	s.height = ds.ImageHeight
	s.footnote = ds.Footnote
	s.tiles = tiles
	return nil
}

// Apply implements Renderer.
func (s *SVG) Apply(t Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.TileID < 0 || t.TileID >= len(s.tiles) {
		return nil
	}
	app := &s.tiles[t.TileID]
	app.fill = t.Fill
	app.stroke = t.Stroke
	app.outline = t.Outline
	return nil
}

// Render emits the current board as a standalone SVG document.
func (s *SVG) Render() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totalHeight := s.height
	if s.footnote != "" {
		totalHeight += s.height * footnoteScale
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.3f %.3f">`+"\n",
		s.width, totalHeight)

	for i, t := range s.tiles {
		fmt.Fprintf(&buf,
			`  <path id="tile-%d" d="%s" fill="%s" fill-opacity="%.3f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.3f"/>`+"\n",
			i, pathData(t.outline),
			t.fill.RGBHex(), t.fill.Opacity(),
			t.stroke.RGBHex(), t.stroke.Opacity(),
			s.strokeWidth())
	}

	if s.footnote != "" {
		fmt.Fprintf(&buf,
			`  <text x="%.3f" y="%.3f" font-size="%.3f" font-family="sans-serif">%s</text>`+"\n",
			s.width*0.01, totalHeight-s.height*footnoteScale*0.3,
			s.height*footnoteScale*0.55, escapeText(s.footnote))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// strokeWidth scales the outline width to the coordinate space.
func (s *SVG) strokeWidth() float64 {
	return max(s.width, s.height) / 500
}

// pathData builds the SVG path for an outline: straight segments become
// line-to commands, curved segments quadratic Béziers.
func pathData(outline []tiling.Segment) string {
	if len(outline) == 0 {
		return ""
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "M %.3f %.3f", outline[0].From.X, outline[0].From.Y)
	for _, seg := range outline {
		if seg.Ctrl != nil {
			fmt.Fprintf(&b, " Q %.3f %.3f %.3f %.3f", seg.Ctrl.X, seg.Ctrl.Y, seg.To.X, seg.To.Y)
		} else {
			fmt.Fprintf(&b, " L %.3f %.3f", seg.To.X, seg.To.Y)
		}
	}
	b.WriteString(" Z")
	return b.String()
}

// escapeText escapes the XML special characters in a footnote.
func escapeText(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
