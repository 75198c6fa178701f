package tiling

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/tilemeter/tilemeter/pkg/errors"
)

// Column names recognized in tiling files. Vertex columns are px_0, py_0,
// px_1, py_1, and so on; a tile with fewer vertices than the dataset maximum
// leaves its trailing pairs blank.
const (
	colImageWidth  = "img_width"
	colImageHeight = "img_height"
	colFootnote    = "footnote"
	colCurveEdges  = "curve_spectre_edges"

	colStartFill   = "start_fill_color"
	colStartStroke = "start_stroke_color"
	colDoneFill    = "done_fill_color"
	colDoneStroke  = "done_stroke_color"
)

// Load reads a tiling dataset from a tab-separated file.
// See Parse for the format.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tiling file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "open tiling file %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a tiling dataset from tab-separated content with a header row.
//
// One row per tile. Vertex coordinates come from px_N/py_N column pairs;
// a blank pair ends the tile's vertex list (pairs are trimmed, never padded).
// The first row additionally carries the dataset metadata: img_width and
// img_height (required, positive), and the optional footnote,
// curve_spectre_edges, and default color columns. Color columns on later
// rows act as per-tile overrides.
//
// All colors are parsed here, at load time; a bad hex string fails the load
// rather than surfacing mid-render.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read header row")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	// Count the px_N/py_N pairs declared by the header.
	maxPairs := 0
	for {
		_, okX := cols["px_"+strconv.Itoa(maxPairs)]
		_, okY := cols["py_"+strconv.Itoa(maxPairs)]
		if !okX || !okY {
			break
		}
		maxPairs++
	}
	if maxPairs == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset,
			"columns not found: px_0, py_0, px_1, py_1, ...")
	}

	ds := &Dataset{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read row %d", len(ds.Tiles)+1)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		tile := &Tile{ID: len(ds.Tiles)}
		for i := 0; i < maxPairs; i++ {
			xs := field("px_" + strconv.Itoa(i))
			ys := field("py_" + strconv.Itoa(i))
			if xs == "" || ys == "" {
				break
			}
			x, errX := strconv.ParseFloat(xs, 64)
			y, errY := strconv.ParseFloat(ys, 64)
			if errX != nil || errY != nil {
				return nil, errors.New(errors.ErrCodeInvalidDataset,
					"tile %d: vertex %d is not numeric (%q, %q)", tile.ID, i, xs, ys)
			}
			tile.Vertices = append(tile.Vertices, Point{X: x, Y: y})
		}

		if err := parseColors(&tile.Colors, field); err != nil {
			return nil, err
		}

		if tile.ID == 0 {
			if err := parseMetadata(ds, field); err != nil {
				return nil, err
			}
			// The first row's colors double as the dataset defaults.
			ds.Defaults = tile.Colors
		}

		ds.Tiles = append(ds.Tiles, tile)
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// parseMetadata reads the first-row dataset metadata.
func parseMetadata(ds *Dataset, field func(string) string) error {
	w, errW := strconv.ParseFloat(field(colImageWidth), 64)
	h, errH := strconv.ParseFloat(field(colImageHeight), 64)
	if errW != nil || errH != nil {
		return errors.New(errors.ErrCodeInvalidDataset,
			"img_width and img_height must be present and numeric")
	}
	ds.ImageWidth = w
	ds.ImageHeight = h
	ds.Footnote = field(colFootnote)

	if v := field(colCurveEdges); v != "" {
		curve, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidDataset,
				"curve_spectre_edges must be a boolean, got %q", v)
		}
		ds.CurveEdges = curve
	}
	return nil
}

// parseColors fills the non-blank color slots of a row into dst.
func parseColors(dst *Defaults, field func(string) string) error {
	slots := []struct {
		col  string
		slot **Color
	}{
		{colStartFill, &dst.StartFill},
		{colStartStroke, &dst.StartStroke},
		{colDoneFill, &dst.DoneFill},
		{colDoneStroke, &dst.DoneStroke},
	}
	for _, s := range slots {
		v := field(s.col)
		if v == "" {
			continue
		}
		c, err := ParseHex(v)
		if err != nil {
			return err
		}
		*s.slot = &c
	}
	return nil
}
