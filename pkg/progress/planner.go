package progress

import (
	"math/rand/v2"

	"github.com/tilemeter/tilemeter/pkg/tiling"
)

// borderEpsilon is the distance within which a vertex counts as lying on the
// image boundary. Coordinates are abstract image units, so a tiny absolute
// tolerance suffices to absorb float noise from tiling generators.
const borderEpsilon = 1e-9

// Plan computes the fixed visitation order of tile IDs for a dataset.
//
// With borderFirst set, tiles touching the image boundary come first
// (shuffled among themselves), followed by the interior tiles (shuffled among
// themselves); otherwise all tiles are shuffled in one pass. The shuffle is
// driven by seed, so a fixed seed reproduces the identical permutation.
// The order is computed once per dataset load and never recomputed mid-run.
func Plan(ds *tiling.Dataset, borderFirst bool, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	var border, interior []int
	for _, t := range ds.Tiles {
		if borderFirst && onBorder(t, ds.ImageWidth, ds.ImageHeight) {
			border = append(border, t.ID)
		} else {
			interior = append(interior, t.ID)
		}
	}

	shuffle(rng, border)
	shuffle(rng, interior)
	return append(border, interior...)
}

// BorderTiles returns the IDs of the tiles touching the image boundary, in
// dataset order. The same predicate Plan uses for the border partition.
func BorderTiles(ds *tiling.Dataset) []int {
	var ids []int
	for _, t := range ds.Tiles {
		if onBorder(t, ds.ImageWidth, ds.ImageHeight) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// onBorder reports whether any vertex of t lies on the bounding rectangle
// (0,0)-(w,h) of the image, within borderEpsilon.
func onBorder(t *tiling.Tile, w, h float64) bool {
	for _, p := range t.Vertices {
		if near(p.X, 0) || near(p.X, w) || near(p.Y, 0) || near(p.Y, h) {
			return true
		}
	}
	return false
}

func near(v, target float64) bool {
	d := v - target
	return d >= -borderEpsilon && d <= borderEpsilon
}

func shuffle(rng *rand.Rand, ids []int) {
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}
