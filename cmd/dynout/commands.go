package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/san-kum/dynout/internal/analysis"
	"github.com/san-kum/dynout/internal/config"
	"github.com/san-kum/dynout/internal/dynamo"
	"github.com/san-kum/dynout/internal/experiment"
	"github.com/san-kum/dynout/internal/export"
	"github.com/san-kum/dynout/internal/scalar"
	"github.com/san-kum/dynout/internal/sim"
	"github.com/san-kum/dynout/internal/spline"
	"github.com/san-kum/dynout/internal/storage"
	"github.com/san-kum/dynout/internal/tui"
	"github.com/san-kum/dynout/internal/viz"
)

// integrate resolves the configuration, runs it and returns the result. An
// interrupted run still returns its partial output.
func integrate(cmd *cobra.Command, args []string) (*experiment.Experiment, *sim.Result, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	exp, err := experiment.New(cfg, newLogger())
	if err != nil {
		return nil, nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := exp.Run(ctx)
	if err != nil {
		if res == nil || res.Output.IsEmpty() {
			return nil, nil, err
		}
		fmt.Fprintln(os.Stderr, viz.StatusWarn.Render("stopped early: "+err.Error()))
	}
	return exp, res, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	start := time.Now()
	exp, res, err := integrate(cmd, args)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	cfg := exp.Config()

	t0, _ := res.Output.StartTime()
	t1, _ := res.Output.EndTime()
	m := exp.Metrics()
	fmt.Println(viz.Table(fmt.Sprintf("%s · %s", cfg.Model, exp.Stepper().Name()), [][2]string{
		{"run id", res.ID.String()},
		{"span", fmt.Sprintf("[%g, %g]", t0.Float(), t1.Float())},
		{"steps", fmt.Sprint(res.Steps())},
		{"accepted", fmt.Sprint(res.Accepted)},
		{"rejected", fmt.Sprint(res.Rejected)},
		{"mean dt", fmt.Sprintf("%.4g", m["mean_dt"])},
		{"energy drift", fmt.Sprintf("%.3e", m["energy_drift"])},
		{"elapsed", elapsed.Round(time.Microsecond).String()},
	}))

	if outFile == "" && !save {
		return nil
	}
	grid, err := export.Resample(res.Output, cfg.Resolution)
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := writeFile(outFile, grid, res, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %d samples to %s\n", grid.Len(), outFile)
	}
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(cfg, res, grid)
		if err != nil {
			return err
		}
		fmt.Printf("saved run %s\n", id)
	}
	return nil
}

func writeFile(path string, grid export.Grid, res *sim.Result, cfg *config.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = export.WriteCSV(f, grid)
	case ".json":
		err = export.WriteJSON(f, grid, export.Meta{
			RunID:      res.ID,
			Model:      cfg.Model,
			Integrator: cfg.Integrator,
			Steps:      res.Steps(),
			Created:    time.Now().UTC(),
		})
	case ".svg":
		err = export.WriteSVG(f, grid, export.TimeAxis, 0, 800, 400, string(viz.Themes[0].Secondary))
	default:
		return fmt.Errorf("unsupported output format %q (want .csv, .json or .svg)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func evalTimes(cmd *cobra.Command, args []string) error {
	_, res, err := integrate(cmd, args)
	if err != nil {
		return err
	}
	n, _ := res.Output.Dimensions()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := []string{"T"}
	for i := range n {
		header = append(header, fmt.Sprintf("X%d", i))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, t := range evalAt {
		x, err := res.Output.Evaluate(scalar.Real(t))
		if err != nil {
			fmt.Fprintf(w, "%g\t%s\n", t, viz.StatusError.Render(err.Error()))
			continue
		}
		row := []string{fmt.Sprintf("%g", t)}
		for _, v := range x.Floats() {
			row = append(row, fmt.Sprintf("%.9g", v))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func plotTrajectory(cmd *cobra.Command, args []string) error {
	var grid export.Grid
	if runID != "" {
		g, err := storage.New(dataDir).LoadGrid(runID)
		if err != nil {
			return err
		}
		grid = g
	} else {
		exp, res, err := integrate(cmd, args)
		if err != nil {
			return err
		}
		g, err := export.Resample(res.Output, exp.Config().Resolution)
		if err != nil {
			return err
		}
		grid = g
	}

	if len(phase) > 0 {
		if len(phase) != 2 {
			return fmt.Errorf("--phase needs two dimensions, got %d", len(phase))
		}
		portrait, err := viz.PhasePortrait(grid, phase[0], phase[1], 60, 20)
		if err != nil {
			return err
		}
		fmt.Println(viz.Panel.Render(portrait))
		fmt.Println(viz.Subtle.Render(fmt.Sprintf("x%d → / x%d ↑", phase[0], phase[1])))
		return nil
	}
	fmt.Print(viz.Plot(grid, 80, 10))
	return nil
}

// compareSpline measures the dense output against a cubic spline through
// the same samples, midway between consecutive grid points.
func compareSpline(cmd *cobra.Command, args []string) error {
	exp, res, err := integrate(cmd, args)
	if err != nil {
		return err
	}
	ref, err := splineOf(res.Output)
	if err != nil {
		return err
	}
	grid, err := export.Resample(res.Output, exp.Config().Resolution)
	if err != nil {
		return err
	}

	n := grid.Dimensions()
	maxDev := make([]float64, n)
	deviation := make([]float64, 0, grid.Len()-1)
	for k := 1; k < grid.Len(); k++ {
		t := (grid.Times[k-1] + grid.Times[k]) / 2
		x, err := res.Output.Evaluate(scalar.Real(t))
		if err != nil {
			return err
		}
		y, err := ref.Value(t)
		if err != nil {
			return err
		}
		worst := 0.0
		for i, v := range x.Floats() {
			d := math.Abs(v - y[i])
			maxDev[i] = math.Max(maxDev[i], d)
			worst = math.Max(worst, d)
		}
		deviation = append(deviation, worst)
	}

	rows := make([][2]string, 0, n+1)
	rows = append(rows, [2]string{"breaks", fmt.Sprint(len(ref.Breaks()))})
	for i, d := range maxDev {
		rows = append(rows, [2]string{fmt.Sprintf("max |Δx%d|", i), fmt.Sprintf("%.3e", d)})
	}
	fmt.Println(viz.Table("dense output vs cubic spline", rows))

	if m, ok := exp.Model().(interface {
		Exact(dynamo.State, float64) dynamo.State
	}); ok {
		exact := make([]float64, grid.Len())
		for k, t := range grid.Times {
			exact[k] = m.Exact(exp.InitialState(), t)[0]
		}
		fmt.Println(viz.PlotOverlay([][]float64{grid.Column(0), exact}, 80, 10, "x0: dense output and exact solution"))
	}
	fmt.Println(viz.Sparkline(deviation, 80))
	return nil
}

// splineOf builds the reference spline from every sample of out, dropping
// the start sample of each step after the first since it repeats the
// previous step's end.
func splineOf(out *dynamo.Output) (*spline.Cubic, error) {
	var breaks []float64
	var values, derivs [][]float64
	for i, step := range out.Steps() {
		for j, s := range step.Samples() {
			if i > 0 && j == 0 {
				continue
			}
			breaks = append(breaks, s.Time.Float())
			values = append(values, s.State.Floats())
			derivs = append(derivs, s.Derivative.Floats())
		}
	}
	return spline.NewCubicHermite(breaks, values, derivs)
}

func findEvents(cmd *cobra.Command, args []string) error {
	_, res, err := integrate(cmd, args)
	if err != nil {
		return err
	}
	events, err := analysis.Crossings(res.Output, dim, level, analysis.Options{})
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Printf("x%d never crosses %g\n", dim, level)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tT\tDIRECTION\tSTATE")
	for i, ev := range events {
		dir := "falling"
		if ev.Rising {
			dir = "rising"
		}
		fmt.Fprintf(w, "%d\t%.9g\t%s\t%v\n", i, ev.Time, dir, formatState(ev.State))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if p, err := analysis.Period(res.Output, dim); err == nil {
		fmt.Println(viz.Metric("period", fmt.Sprintf("%.9g", p)))
	}
	return nil
}

func sweepScales(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, newLogger())
	if err != nil {
		return err
	}

	base := exp.InitialState()
	x0s := make([]dynamo.State, len(scales))
	for i, s := range scales {
		x0s[i] = base.AddScaled(s-1, base)
	}

	results, err := exp.Sweep(context.Background(), x0s, workers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCALE\tRUN\tSTEPS\tX0\tX(END)")
	for i, res := range results {
		end, _ := res.Output.EndTime()
		x, err := res.Output.Evaluate(end)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%g\t%s\t%d\t%s\t%s\n", scales[i], shortID(res.ID), res.Steps(), formatState(x0s[i]), formatState(x.Floats()))
	}
	return w.Flush()
}

func scrubTrajectory(cmd *cobra.Command, args []string) error {
	exp, res, err := integrate(cmd, args)
	if err != nil {
		return err
	}
	grid, err := export.Resample(res.Output, exp.Config().Resolution)
	if err != nil {
		return err
	}
	s, err := tui.NewScrubber(fmt.Sprintf("%s · %s", exp.Config().Model, exp.Stepper().Name()), res.Output, grid)
	if err != nil {
		return err
	}
	return tui.Run(s)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Config.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Duration,
			run.Config.Dt,
			run.Config.Integrator,
			run.Steps,
		)
	}
	return w.Flush()
}

func formatState(x []float64) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprintf("%.6g", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
