package tiling

import (
	"testing"

	"github.com/tilemeter/tilemeter/pkg/errors"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Color
		wantErr bool
	}{
		{"rrggbb", "#FF0000", Color{R: 0xFF, A: 0xFF}, false},
		{"rrggbb lowercase", "#00a933", Color{G: 0xA9, B: 0x33, A: 0xFF}, false},
		{"rrggbbaa", "#00FF0080", Color{G: 0xFF, A: 0x80}, false},
		{"rgb shorthand", "#F00", Color{R: 0xFF, A: 0xFF}, false},
		{"rgba shorthand", "#0F08", Color{G: 0xFF, A: 0x88}, false},

		{"missing hash", "FF0000", Color{}, true},
		{"empty", "", Color{}, true},
		{"five digits", "#FF000", Color{}, true},
		{"seven digits", "#FF00000", Color{}, true},
		{"not hex", "#GG0000", Color{}, true},
		{"hash only", "#", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidColor) {
					t.Errorf("ParseHex(%q) error code = %v, want INVALID_COLOR", tt.input, errors.GetCode(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want string
	}{
		{"opaque", Color{R: 0xFF, A: 0xFF}, "#FF0000"},
		{"translucent", Color{G: 0xFF, A: 0x80}, "#00FF0080"},
		{"zero alpha", Color{A: 0x00}, "#00000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Hex(); got != tt.want {
				t.Errorf("Hex() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#FF0000", "#00A933", "#12345678"} {
		c, err := ParseHex(s)
		if err != nil {
			t.Fatalf("ParseHex(%q) error: %v", s, err)
		}
		if got := c.Hex(); got != s {
			t.Errorf("round trip %q = %q", s, got)
		}
	}
}

func TestResolveBuiltinDefaults(t *testing.T) {
	// With nothing configured at any layer, resolution lands on the
	// builtins, and strokes fall back to the builtin fills.
	r := NewResolver(Defaults{}, Defaults{})
	tile := &Tile{}

	fill, stroke := r.Resolve(tile, Start)
	if got := fill.Hex(); got != "#FF0000" {
		t.Errorf("start fill = %s, want #FF0000", got)
	}
	if stroke != fill {
		t.Errorf("start stroke = %s, want fill %s", stroke.Hex(), fill.Hex())
	}

	fill, stroke = r.Resolve(tile, Done)
	if got := fill.Hex(); got != "#00A933" {
		t.Errorf("done fill = %s, want #00A933", got)
	}
	if stroke != fill {
		t.Errorf("done stroke = %s, want fill %s", stroke.Hex(), fill.Hex())
	}
}

func TestResolveStrokeSameLayerFallback(t *testing.T) {
	// A layer that supplies a fill but no stroke must lend its fill to the
	// stroke before resolution descends to the next layer.
	blue := Color{B: 0xFF, A: 0xFF}
	r := NewResolver(Defaults{}, Defaults{StartFill: &blue})

	fill, stroke := r.Resolve(&Tile{}, Start)
	if fill != blue {
		t.Errorf("fill = %s, want process-layer blue", fill.Hex())
	}
	if stroke != blue {
		t.Errorf("stroke = %s, want same-layer fill %s", stroke.Hex(), blue.Hex())
	}
}

func TestResolveLayerPrecedence(t *testing.T) {
	tileColor := Color{R: 0x11, A: 0xFF}
	datasetColor := Color{R: 0x22, A: 0xFF}
	processColor := Color{R: 0x33, A: 0xFF}

	tests := []struct {
		name    string
		tile    Defaults
		dataset Defaults
		process Defaults
		want    Color
	}{
		{
			name:    "tile override wins",
			tile:    Defaults{StartFill: &tileColor},
			dataset: Defaults{StartFill: &datasetColor},
			process: Defaults{StartFill: &processColor},
			want:    tileColor,
		},
		{
			name:    "dataset beats process",
			dataset: Defaults{StartFill: &datasetColor},
			process: Defaults{StartFill: &processColor},
			want:    datasetColor,
		},
		{
			name:    "process beats builtin",
			process: Defaults{StartFill: &processColor},
			want:    processColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.dataset, tt.process)
			fill, _ := r.Resolve(&Tile{Colors: tt.tile}, Start)
			if fill != tt.want {
				t.Errorf("fill = %s, want %s", fill.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestResolveStrokeDoesNotSkipLayers(t *testing.T) {
	// Dataset sets a stroke, process sets a fill. The stroke must come from
	// the dataset layer even though no layer above it has a fill.
	datasetStroke := Color{G: 0x77, A: 0xFF}
	processFill := Color{B: 0x99, A: 0xFF}
	r := NewResolver(Defaults{StartStroke: &datasetStroke}, Defaults{StartFill: &processFill})

	fill, stroke := r.Resolve(&Tile{}, Start)
	if stroke != datasetStroke {
		t.Errorf("stroke = %s, want dataset stroke %s", stroke.Hex(), datasetStroke.Hex())
	}
	if fill != processFill {
		t.Errorf("fill = %s, want process fill %s", fill.Hex(), processFill.Hex())
	}
}
