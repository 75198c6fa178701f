package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tilemeter/tilemeter/pkg/errors"
	"github.com/tilemeter/tilemeter/pkg/progress"
	"github.com/tilemeter/tilemeter/pkg/render"
	"github.com/tilemeter/tilemeter/pkg/tiling"
)

// exportDefaultSeed keeps exports reproducible: the same dataset and
// progress fraction always yield the same board.
const exportDefaultSeed = 42

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	config      string // optional TOML config file
	output      string // output file path
	progressStr string // progress fraction as "N/D"
	borderFirst bool   // toggle border tiles before interior tiles
	seed        uint64 // visitation order seed
}

// newExportCmd creates the export command: render the board at a fixed
// progress fraction into an SVG file, without a FIFO or a terminal board.
// The fraction is replayed through the same planner and engine as the live
// display, so an export at N/D looks exactly like the live board after
// receiving those messages.
func newExportCmd() *cobra.Command {
	opts := exportOpts{seed: exportDefaultSeed}

	cmd := &cobra.Command{
		Use:   "export [dataset]",
		Short: "Render the board at a fixed progress fraction to SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, denom, err := parseFraction(opts.progressStr)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts.config)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("border-first") {
				cfg.BorderFirst = opts.borderFirst
			}
			return runExport(cmd.Context(), args[0], num, denom, cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML config file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: dataset name with .svg)")
	cmd.Flags().StringVarP(&opts.progressStr, "progress", "p", "1/1", "progress fraction as N/D")
	cmd.Flags().BoolVar(&opts.borderFirst, "border-first", true, "toggle border tiles before interior tiles")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "visitation order seed")

	return cmd
}

// parseFraction parses an "N/D" progress string. D must be positive and N
// non-negative; N beyond D is allowed and clamps like it would live.
func parseFraction(s string) (num, denom int, err error) {
	nStr, dStr, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "progress %q must be of the form N/D", s)
	}
	num, err = strconv.Atoi(nStr)
	if err != nil || num < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "progress numerator %q must be a non-negative integer", nStr)
	}
	denom, err = strconv.Atoi(dStr)
	if err != nil || denom <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "progress denominator %q must be a positive integer", dStr)
	}
	return num, denom, nil
}

// runExport replays a synthetic run (one denominator, one numerator) through
// the real engine into the SVG snapshot and writes it out.
func runExport(ctx context.Context, datasetPath string, num, denom int, cfg Config, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	procDefaults, err := cfg.Colors.ProcessDefaults()
	if err != nil {
		return err
	}
	ds, err := tiling.Load(datasetPath)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d tiles from %s", len(ds.Tiles), datasetPath)

	resolver := tiling.NewResolver(ds.Defaults, procDefaults)
	order := progress.Plan(ds, cfg.BorderFirst, opts.seed)
	engine, err := progress.NewEngine(ds, order, resolver)
	if err != nil {
		return err
	}
	svg, err := render.NewSVG(ds, resolver)
	if err != nil {
		return err
	}

	if num > denom {
		printWarning("Progress %d/%d exceeds the denominator; board clamps at %d/%d", num, denom, denom, denom)
	}

	for _, ev := range []progress.Event{
		{Kind: progress.EventDenominator, Value: denom},
		{Kind: progress.EventNumerator, Value: num},
	} {
		for _, t := range engine.OnEvent(ctx, ev) {
			if err := svg.Apply(t); err != nil {
				return err
			}
		}
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(datasetPath, filepath.Ext(datasetPath)) + ".svg"
	}
	if err := os.WriteFile(output, svg.Render(), 0o644); err != nil {
		return err
	}

	printSuccess("Exported board at %d/%d (%d of %d tiles done)",
		num, denom, engine.Toggled(), len(ds.Tiles))
	printFile(output)
	printDetail("seed %d, border-first %t", opts.seed, cfg.BorderFirst)
	return nil
}
