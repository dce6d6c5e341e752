package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/dynout/internal/config"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	integrator string
	adaptive   bool
	tolerance  float64
	subSteps   int
	resolution int
	verbose    bool

	outFile string
	save    bool
	evalAt  []float64
	phase   []int
	runID   string
	level   float64
	dim     int
	scales  []float64
	workers int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "dynout",
		Short:        "integrate dynamical systems and query them at any time",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".dynout", "data directory for saved runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	pf.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	pf.StringVar(&integrator, "integrator", "rk4", "integrator")
	pf.BoolVar(&adaptive, "adaptive", false, "adaptive step size control")
	pf.Float64Var(&tolerance, "tol", config.DefaultTolerance, "error tolerance for adaptive stepping")
	pf.IntVar(&subSteps, "substeps", 0, "samples inside each step")
	pf.IntVar(&resolution, "resolution", config.DefaultResolution, "points used for plots and exports")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log every consolidation")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVarP(&outFile, "out", "o", "", "write samples to a .csv, .json or .svg file")
	runCmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")

	evalCmd := &cobra.Command{
		Use:   "eval [model]",
		Short: "evaluate the trajectory at given times",
		Args:  cobra.MaximumNArgs(1),
		RunE:  evalTimes,
	}
	evalCmd.Flags().Float64SliceVar(&evalAt, "at", nil, "comma separated times")
	_ = evalCmd.MarkFlagRequired("at")

	plotCmd := &cobra.Command{
		Use:   "plot [model]",
		Short: "plot each dimension of the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotTrajectory,
	}
	plotCmd.Flags().IntSliceVar(&phase, "phase", nil, "draw a phase portrait of two dimensions, e.g. 0,1")
	plotCmd.Flags().StringVar(&runID, "run", "", "plot a saved run instead of integrating")

	compareCmd := &cobra.Command{
		Use:   "compare [model]",
		Short: "compare the dense output with an independent cubic spline",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareSpline,
	}

	eventsCmd := &cobra.Command{
		Use:   "events [model]",
		Short: "locate level crossings of one dimension",
		Args:  cobra.MaximumNArgs(1),
		RunE:  findEvents,
	}
	eventsCmd.Flags().IntVar(&dim, "dim", 0, "state index")
	eventsCmd.Flags().Float64Var(&level, "level", 0, "crossing level")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run scaled copies of the initial state concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScales,
	}
	sweepCmd.Flags().Float64SliceVar(&scales, "scale", []float64{0.5, 1, 2}, "initial state multipliers")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs, 0 for no limit")

	scrubCmd := &cobra.Command{
		Use:   "scrub [model]",
		Short: "move a cursor through time interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  scrubTrajectory,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, evalCmd, plotCmd, compareCmd, eventsCmd, sweepCmd, scrubCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	lvl := slog.LevelWarn
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// resolveConfig starts from the config file or the defaults, replaces that
// with the preset when one is named, and applies explicitly set flags last.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Model))
		}
		cfg = p
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("substeps") {
		cfg.SubSteps = subSteps
	}
	if flags.Changed("resolution") {
		cfg.Resolution = resolution
	}
	return cfg, nil
}
