package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/beka-birhanu/vinom-qmaze/api"
	api_i "github.com/beka-birhanu/vinom-qmaze/api/i"
	"github.com/beka-birhanu/vinom-qmaze/api/viewer"
	"github.com/beka-birhanu/vinom-qmaze/config"
	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/observer"
	"github.com/beka-birhanu/vinom-qmaze/service"
	"github.com/beka-birhanu/vinom-qmaze/solver"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewSolveCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "solve",
		Short: "Let the agent learn the maze until it reaches the exit",
		Long: "Loads the grid and its value table, then steps the agent until it\n" +
			"reaches the exit or is stopped with ESC, Ctrl+C or SIGTERM. The value\n" +
			"table is saved whenever the run stops.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return runSolve(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	addMazeFlags(c.Flags())
	addStoreFlags(c.Flags())
	addSolverFlags(c.Flags())
	c.Flags().String(config.KeyHTTPAddr, "", "Serve the grid viewer on this address, e.g. :8080")
	c.Flags().Bool(config.KeyQuiet, false, "Do not draw the grid on the terminal")
	root.AddCommand(c)
	return c
}

func runSolve(parent context.Context, cfg config.Config, out io.Writer) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appLogger := config.NewLogger(config.ComponentApp)

	grid, err := maze.Load(cfg.MazePath)
	if err != nil {
		return fmt.Errorf("load maze %s: %w", cfg.MazePath, err)
	}
	appLogger.WithFields(logrus.Fields{
		"maze": cfg.MazeName,
		"rows": grid.Rows(),
		"cols": grid.Cols(),
	}).Info("Maze loaded")

	b, err := openBackend(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer b.close()

	if !cfg.Quiet && out == io.Writer(os.Stdout) {
		raw, restore := watchKeyboard(cancel)
		defer restore()
		if raw {
			out = crlfWriter{w: out}
			config.SetupLogger(crlfWriter{w: os.Stderr}, cfg.Debug)
			defer config.SetupLogger(os.Stderr, cfg.Debug)
			appLogger.Info("Press ESC to stop and save the value table")
		}
	}

	var observers observer.Multi
	if !cfg.Quiet {
		observers = append(observers, observer.NewTerminal(out, !cfg.NoColor))
	}

	viewerDone := make(chan error, 1)
	if cfg.HTTPAddr != "" {
		controller := viewer.NewController(viewer.Config{
			MazeName: cfg.MazeName,
			Store:    b.store,
			Board:    b.board,
		})
		observers = append(observers, controller)
		startViewer(ctx, cfg, controller, viewerDone)
	} else {
		viewerDone <- nil
	}

	async := observer.NewAsync(observers)
	session, err := service.NewTrainingSession(&service.Config{
		Store:    b.store,
		Recorder: b.board,
		Observer: async,
		Solver:   cfg.Solver(),
		Logger:   config.NewLogger(config.ComponentSession),
	})
	if err != nil {
		async.Close()
		return err
	}

	run, err := session.Run(ctx, cfg.MazeName, grid)
	async.Close()
	cancel()
	if viewerErr := <-viewerDone; viewerErr != nil {
		appLogger.WithError(viewerErr).Error("Viewer stopped")
	}
	if err != nil {
		return err
	}

	if run.Status == solver.Exhausted.String() {
		appLogger.WithField("max-steps", cfg.MaxSteps).Warn("Step limit reached before the exit")
	}
	fmt.Fprintf(out, "run %s %s after %d steps\n", run.ID, run.Status, run.Steps)
	return nil
}

func startViewer(ctx context.Context, cfg config.Config, controller api_i.Controller, done chan<- error) {
	gin.SetMode(cfg.GinMode)
	router := api.NewRouter(api.Config{
		Addr:        cfg.HTTPAddr,
		BaseURL:     "/api",
		Controllers: []api_i.Controller{controller},
	})

	logger := config.NewLogger(config.ComponentViewer)
	logger.WithField("addr", cfg.HTTPAddr).Info("Serving the grid viewer")
	go func() {
		done <- router.Run(ctx)
	}()
}
