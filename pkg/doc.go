// Package pkg provides the core libraries for the tilemeter progress board.
//
// # Overview
//
// Tilemeter renders a tiling of polygons as a generalized progress indicator:
// tiles flip from their "start" appearance to their "done" appearance as
// (numerator, denominator) messages arrive on a named pipe. The pkg directory
// is organized into five areas:
//
//  1. [tiling] - Datasets (loading, color resolution, edge curving)
//  2. [progress] - The progress engine (decoding, planning, sequencing)
//  3. [render] - Output surfaces (SVG snapshot, HTTP preview)
//  4. [errors] - Coded errors with user-facing messages
//  5. [observability] - Hook interfaces for metrics and tracing
//
// # Architecture
//
// The typical data flow through tilemeter:
//
//	TSV tiling file
//	         ↓
//	    [tiling] package (load, validate, resolve colors)
//	         ↓
//	    [progress] package (plan order, map N/D messages to toggles)
//	         ↓
//	    [render] package (transitions applied to surfaces)
//	         ↓
//	    terminal board / SVG / HTTP preview
//
// # Quick Start
//
// Load a dataset and replay a progress fraction into an SVG:
//
//	ds, _ := tiling.Load("board.tsv")
//	resolver := tiling.NewResolver(ds.Defaults, tiling.Defaults{})
//	order := progress.Plan(ds, true, 42)
//	engine, _ := progress.NewEngine(ds, order, resolver)
//	svg, _ := render.NewSVG(ds, resolver)
//
//	for _, ev := range []progress.Event{
//	    {Kind: progress.EventDenominator, Value: 10},
//	    {Kind: progress.EventNumerator, Value: 5},
//	} {
//	    for _, t := range engine.OnEvent(ctx, ev) {
//	        svg.Apply(t)
//	    }
//	}
//	os.WriteFile("board.svg", svg.Render(), 0o644)
//
// # Main Packages
//
// [tiling] - Dataset model and loader. Tiles are polygons with per-state
// colors resolved through a layered default chain (tile override → dataset
// default → process default → builtin). Optional quadratic-Bézier edge
// curving for spectre-style tilings.
//
// [progress] - The sequencing core. Plan computes a stable visitation order
// (border tiles first, randomized within each partition, seedable). Engine
// maps an evolving numerator/denominator signal to tile toggles: forward
// when progress grows, backward when it shrinks, full reset on a new
// denominator. Channel decodes the newline-delimited FIFO protocol.
//
// [render] - Surface-independent transitions plus the surfaces consuming
// them: an SVG snapshot renderer and a chi-based HTTP preview server. The
// terminal board lives in internal/cli.
//
// [errors] - Structured errors with stable codes (INVALID_COLOR,
// DECODE_ERROR, ...) distinguishing fatal load-time problems from
// recoverable stream problems.
//
// [observability] - Pluggable hooks (engine, channel, render) with no-op
// defaults.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...         # All tests
//	go test ./pkg/progress    # Specific package
//
// [tiling]: https://pkg.go.dev/github.com/tilemeter/tilemeter/pkg/tiling
// [progress]: https://pkg.go.dev/github.com/tilemeter/tilemeter/pkg/progress
// [render]: https://pkg.go.dev/github.com/tilemeter/tilemeter/pkg/render
// [errors]: https://pkg.go.dev/github.com/tilemeter/tilemeter/pkg/errors
// [observability]: https://pkg.go.dev/github.com/tilemeter/tilemeter/pkg/observability
package pkg
