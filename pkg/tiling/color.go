package tiling

import (
	"fmt"
	"strconv"

	"github.com/tilemeter/tilemeter/pkg/errors"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// ParseHex parses a hex color string in #RGB, #RGBA, #RRGGBB, or #RRGGBBAA
// form. Shorthand digits are doubled (#F00 means #FF0000). The alpha channel
// defaults to opaque when absent.
func ParseHex(s string) (Color, error) {
	if len(s) == 0 || s[0] != '#' {
		return Color{}, errors.New(errors.ErrCodeInvalidColor, "color %q must start with '#'", s)
	}
	hex := s[1:]

	var parts []string
	switch len(hex) {
	case 3:
		parts = []string{doubled(hex[0]), doubled(hex[1]), doubled(hex[2]), "FF"}
	case 4:
		parts = []string{doubled(hex[0]), doubled(hex[1]), doubled(hex[2]), doubled(hex[3])}
	case 6:
		parts = []string{hex[0:2], hex[2:4], hex[4:6], "FF"}
	case 8:
		parts = []string{hex[0:2], hex[2:4], hex[4:6], hex[6:8]}
	default:
		return Color{}, errors.New(errors.ErrCodeInvalidColor,
			"color %q must have 3, 4, 6 or 8 hex digits", s)
	}

	var vals [4]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return Color{}, errors.New(errors.ErrCodeInvalidColor, "color %q is not valid hex", s)
		}
		vals[i] = uint8(v)
	}
	return Color{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
}

func doubled(b byte) string {
	return string([]byte{b, b})
}

// Hex returns the color in #RRGGBB form, or #RRGGBBAA when not fully opaque.
func (c Color) Hex() string {
	if c.A != 0xFF {
		return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBHex returns the color in #RRGGBB form, dropping any alpha. Terminal
// surfaces that cannot blend use this form.
func (c Color) RGBHex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Opacity returns the alpha channel as a fraction in [0, 1].
func (c Color) Opacity() float64 {
	return float64(c.A) / 255.0
}

// Defaults holds one optional color per slot. A nil slot means "fall through
// to the next layer". Defaults appears at three layers: per-tile overrides,
// per-dataset defaults, and process-level configuration.
type Defaults struct {
	StartFill   *Color
	StartStroke *Color
	DoneFill    *Color
	DoneStroke  *Color
}

// fill returns the fill slot for the given state.
func (d Defaults) fill(s State) *Color {
	if s == Done {
		return d.DoneFill
	}
	return d.StartFill
}

// stroke returns the stroke slot for the given state.
func (d Defaults) stroke(s State) *Color {
	if s == Done {
		return d.DoneStroke
	}
	return d.StartStroke
}

// builtinDefaults is the last layer of the resolution chain. Strokes are
// left unset so they fall back to the builtin fills.
var builtinDefaults = Defaults{
	StartFill: &Color{R: 0xFF, A: 0xFF},          // #FF0000
	DoneFill:  &Color{G: 0xA9, B: 0x33, A: 0xFF}, // #00A933
}

// Resolver resolves the effective fill and stroke color for a tile in a
// given state. Resolution walks the layers tile override, dataset default,
// process default, builtin; the first present value wins. An unset stroke
// falls back to the same layer's fill before descending to the next layer.
type Resolver struct {
	dataset Defaults
	process Defaults
}

// NewResolver creates a resolver over the dataset- and process-level default
// layers. Process defaults come from configuration (flags, environment, or a
// config file) and are injected explicitly so tests can supply arbitrary sets.
func NewResolver(dataset, process Defaults) *Resolver {
	return &Resolver{dataset: dataset, process: process}
}

// Resolve returns the effective fill and stroke colors for tile t in state s.
// The builtin layer always supplies a fill, so resolution is total.
func (r *Resolver) Resolve(t *Tile, s State) (fill, stroke Color) {
	layers := [4]Defaults{t.Colors, r.dataset, r.process, builtinDefaults}

	for _, l := range layers {
		if c := l.fill(s); c != nil {
			fill = *c
			break
		}
	}
	for _, l := range layers {
		if c := l.stroke(s); c != nil {
			stroke = *c
			return fill, stroke
		}
		if c := l.fill(s); c != nil {
			stroke = *c
			return fill, stroke
		}
	}
	return fill, stroke
}
