package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tilemeter/tilemeter/pkg/observability"
	"github.com/tilemeter/tilemeter/pkg/progress"
	"github.com/tilemeter/tilemeter/pkg/render"
	"github.com/tilemeter/tilemeter/pkg/tiling"
)

// showOpts holds the command-line flags for the show command.
type showOpts struct {
	config      string // optional TOML config file
	fifo        string // named pipe carrying progress messages
	borderFirst bool   // toggle border tiles before interior tiles
	seed        uint64 // visitation order seed (0 = fresh seed per run)
	httpAddr    string // optional address for the SVG preview server
	watch       bool   // reload the dataset when the file changes
}

// newShowCmd creates the show command: the live progress board.
//
// The FIFO is opened before the board starts; opening a FIFO for reading
// blocks until a writer connects, so the board never appears half-ready.
// Without a configured FIFO the board is shown static.
func newShowCmd() *cobra.Command {
	var opts showOpts

	cmd := &cobra.Command{
		Use:   "show [dataset]",
		Short: "Display the live progress board",
		Long: `Show loads a tiling dataset, plans the tile visitation order, and displays
the board in the terminal. Tiles flip from their start colors to their done
colors as numerator/denominator messages arrive on the progress FIFO.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("fifo") {
				cfg.FIFO = opts.fifo
			}
			if cmd.Flags().Changed("border-first") {
				cfg.BorderFirst = opts.borderFirst
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = opts.seed
			}
			if cmd.Flags().Changed("http") {
				cfg.HTTP = opts.httpAddr
			}
			return runShow(cmd.Context(), args[0], cfg, opts.watch)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&opts.fifo, "fifo", "", "named pipe carrying progress messages")
	cmd.Flags().BoolVar(&opts.borderFirst, "border-first", true, "toggle border tiles before interior tiles")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "visitation order seed (0 = fresh seed)")
	cmd.Flags().StringVar(&opts.httpAddr, "http", "", "serve a live SVG preview on this address (e.g. :8080)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the dataset when the file changes")

	return cmd
}

// planSeed returns the configured seed, or a fresh one when unset.
func planSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}

// runShow wires the whole live pipeline: dataset, planner, engine, FIFO
// channel, optional SVG preview server, optional file watcher, and the
// terminal board. Fatal errors surface here, before the board appears.
func runShow(ctx context.Context, datasetPath string, cfg Config, watch bool) error {
	logger := loggerFromContext(ctx)

	procDefaults, err := cfg.Colors.ProcessDefaults()
	if err != nil {
		return err
	}

	track := newTimer(logger)
	ds, err := tiling.Load(datasetPath)
	if err != nil {
		return err
	}
	track.done(fmt.Sprintf("Loaded %d tiles from %s", len(ds.Tiles), datasetPath))

	resolver := tiling.NewResolver(ds.Defaults, procDefaults)
	seed := planSeed(cfg.Seed)
	order := progress.Plan(ds, cfg.BorderFirst, seed)
	logger.Debugf("Planned visitation order: %d tiles, border-first=%t, seed=%d",
		len(order), cfg.BorderFirst, seed)

	engine, err := progress.NewEngine(ds, order, resolver)
	if err != nil {
		return err
	}

	// Acquire the FIFO before anything is drawn. This blocks until a
	// writer connects.
	var ch *progress.Channel
	if cfg.FIFO == "" {
		logger.Warn("No progress FIFO configured; the board will not update")
	} else {
		logger.Infof("Waiting for a writer on %s", cfg.FIFO)
		ch, err = progress.Open(ctx, cfg.FIFO)
		if err != nil {
			return err
		}
		defer ch.Close()
	}

	var svg *render.SVG
	if cfg.HTTP != "" {
		svg, err = render.NewSVG(ds, resolver)
		if err != nil {
			return err
		}
		srv := &http.Server{Addr: cfg.HTTP, Handler: render.NewServer(svg)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("Preview server: %v", err)
			}
		}()
		defer srv.Close()
		logger.Infof("Serving SVG preview on http://%s/board.svg", cfg.HTTP)
	}

	var watcher *fsnotify.Watcher
	if watch {
		watcher, err = fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()
		if err := watcher.Add(datasetPath); err != nil {
			return err
		}
		logger.Infof("Watching %s for changes", datasetPath)
	}

	p := tea.NewProgram(newBoardModel(ds, initialFills(ds, resolver)), tea.WithContext(ctx), tea.WithAltScreen())

	loop := &showLoop{
		logger:      logger,
		datasetPath: datasetPath,
		cfg:         cfg,
		procColors:  procDefaults,
		seed:        seed,
		engine:      engine,
		svg:         svg,
		program:     p,
	}
	go loop.run(ctx, ch, watcher)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// showLoop is the single goroutine that owns the engine and tile state.
// The FIFO reader only decodes and forwards; renderers receive transitions
// from here (the bubbletea program serializes its own state via Send).
type showLoop struct {
	logger      *log.Logger
	datasetPath string
	cfg         Config
	procColors  tiling.Defaults
	seed        uint64
	engine      *progress.Engine
	svg         *render.SVG
	program     *tea.Program
}

func (l *showLoop) run(ctx context.Context, ch *progress.Channel, watcher *fsnotify.Watcher) {
	var events <-chan progress.Event
	if ch != nil {
		events = ch.Events()
	}
	var watchEvents chan fsnotify.Event
	var watchErrors chan error
	if watcher != nil {
		watchEvents = watcher.Events
		watchErrors = watcher.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				l.logger.Info("Progress channel closed; board keeps its last state")
				l.program.Send(channelClosedMsg{})
				events = nil
				continue
			}
			l.dispatch(ctx, ev)

		case wev, ok := <-watchEvents:
			if !ok {
				watchEvents = nil
				continue
			}
			if wev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			l.reload(ctx)

		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			l.logger.Errorf("Watcher: %v", err)
		}
	}
}

// dispatch feeds one decoded event to the engine and fans the resulting
// transitions out to the SVG snapshot and the terminal board.
func (l *showLoop) dispatch(ctx context.Context, ev progress.Event) {
	transitions := l.engine.OnEvent(ctx, ev)
	if l.svg != nil {
		for _, t := range transitions {
			err := l.svg.Apply(t)
			observability.Render().OnApply(ctx, "svg", t.TileID, err)
			if err != nil {
				l.logger.Errorf("Apply tile %d: %v", t.TileID, err)
			}
		}
	}
	l.program.Send(progressMsg{
		Num:         l.engine.Numerator(),
		Denom:       l.engine.Denominator(),
		Toggled:     l.engine.Toggled(),
		Transitions: transitions,
	})
}

// reload replaces the dataset, replans the visitation order with the same
// seed, and swaps a fresh engine in. A broken dataset on disk is logged and
// skipped; the board keeps running on the old one.
func (l *showLoop) reload(ctx context.Context) {
	ds, err := tiling.Load(l.datasetPath)
	if err != nil {
		l.logger.Errorf("Reload %s: %v", l.datasetPath, err)
		return
	}

	resolver := tiling.NewResolver(ds.Defaults, l.procColors)
	order := progress.Plan(ds, l.cfg.BorderFirst, l.seed)
	engine, err := progress.NewEngine(ds, order, resolver)
	if err != nil {
		l.logger.Errorf("Reload %s: %v", l.datasetPath, err)
		return
	}
	l.engine = engine

	if l.svg != nil {
		if err := l.svg.Reset(ds, resolver); err != nil {
			l.logger.Errorf("Reload preview: %v", err)
		}
	}
	l.program.Send(reloadMsg{Dataset: ds, Fills: initialFills(ds, resolver)})
	l.logger.Infof("Reloaded %s: %d tiles", l.datasetPath, len(ds.Tiles))
}
