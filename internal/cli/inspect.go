package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tilemeter/tilemeter/pkg/progress"
	"github.com/tilemeter/tilemeter/pkg/tiling"
)

// newInspectCmd creates the inspect command for printing dataset statistics.
func newInspectCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inspect [dataset]",
		Short: "Print statistics about a tiling dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runInspect(args[0], cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")

	return cmd
}

// runInspect loads the dataset, classifies its tiles, and prints a summary
// including the colors the board would actually use.
func runInspect(datasetPath string, cfg Config) error {
	procDefaults, err := cfg.Colors.ProcessDefaults()
	if err != nil {
		return err
	}
	ds, err := tiling.Load(datasetPath)
	if err != nil {
		return err
	}

	border := progress.BorderTiles(ds)
	resolver := tiling.NewResolver(ds.Defaults, procDefaults)

	minV, maxV := vertexRange(ds)

	printSuccess("Loaded %s", datasetPath)
	printKeyValue("tiles", strconv.Itoa(len(ds.Tiles)))
	printKeyValue("border tiles", strconv.Itoa(len(border)))
	printKeyValue("interior", strconv.Itoa(len(ds.Tiles)-len(border)))
	printKeyValue("image size", fmt.Sprintf("%g × %g", ds.ImageWidth, ds.ImageHeight))
	printKeyValue("vertices", fmt.Sprintf("%d-%d per tile", minV, maxV))
	printKeyValue("curved edges", strconv.FormatBool(ds.CurveEdges))
	if ds.Footnote != "" {
		printKeyValue("footnote", ds.Footnote)
	}

	// Resolved appearance of the first tile, in both states. Per-tile
	// overrides aside, this is what the whole board uses.
	t := ds.Tiles[0]
	startFill, startStroke := resolver.Resolve(t, tiling.Start)
	doneFill, doneStroke := resolver.Resolve(t, tiling.Done)
	printKeyValue("start colors", fmt.Sprintf("fill %s, stroke %s", startFill.Hex(), startStroke.Hex()))
	printKeyValue("done colors", fmt.Sprintf("fill %s, stroke %s", doneFill.Hex(), doneStroke.Hex()))

	return nil
}

// vertexRange returns the smallest and largest vertex count across tiles.
func vertexRange(ds *tiling.Dataset) (minV, maxV int) {
	for i, t := range ds.Tiles {
		n := len(t.Vertices)
		if i == 0 || n < minV {
			minV = n
		}
		if n > maxV {
			maxV = n
		}
	}
	return minV, maxV
}
