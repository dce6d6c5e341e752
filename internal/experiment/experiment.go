// Package experiment turns a run configuration into a ready simulator: the
// configured model, stepper, initial state and observers.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/dynout/internal/config"
	"github.com/san-kum/dynout/internal/dynamo"
	"github.com/san-kum/dynout/internal/integrators"
	"github.com/san-kum/dynout/internal/metrics"
	"github.com/san-kum/dynout/internal/physics"
	"github.com/san-kum/dynout/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	model     physics.Model
	stepper   dynamo.Stepper
	x0        dynamo.State
	simulator *sim.Simulator
	metrics   []metrics.Metric
}

// New validates cfg and builds everything a run needs. A nil logger
// discards output.
func New(cfg *config.Config, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := physics.New(cfg.Model)
	if err != nil {
		return nil, err
	}
	if err := physics.Configure(model, cfg.Params); err != nil {
		return nil, err
	}
	stepper, err := integrators.New(cfg.Integrator, cfg.SubSteps)
	if err != nil {
		return nil, err
	}
	x0 := cfg.InitialState(model.DefaultState())
	if len(x0) != model.StateDim() {
		return nil, fmt.Errorf("%w: %s needs %d initial values, got %d", dynamo.ErrDimensionMismatch, cfg.Model, model.StateDim(), len(x0))
	}

	e := &Experiment{
		cfg:     cfg,
		model:   model,
		stepper: stepper,
		x0:      x0,
		metrics: []metrics.Metric{metrics.NewEnergyDrift(model), metrics.NewStepSize()},
	}
	opts := []sim.Option{}
	if logger != nil {
		opts = append(opts, sim.WithLogger(logger))
	}
	for _, m := range e.metrics {
		opts = append(opts, sim.WithObserver(m))
	}
	e.simulator = sim.New(model, stepper, opts...)
	return e, nil
}

func (e *Experiment) Config() *config.Config     { return e.cfg }
func (e *Experiment) Model() physics.Model       { return e.model }
func (e *Experiment) Stepper() dynamo.Stepper    { return e.stepper }
func (e *Experiment) InitialState() dynamo.State { return e.x0.Clone() }

// Metrics returns the observers' values keyed by name, as of the last run.
func (e *Experiment) Metrics() map[string]float64 {
	out := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Run integrates from the configured initial state.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	for _, m := range e.metrics {
		m.Reset()
	}
	return e.simulator.Run(ctx, e.x0, e.cfg.ToSim())
}

// Sweep runs one integration per initial state concurrently. Metrics are not
// collected for sweeps.
func (e *Experiment) Sweep(ctx context.Context, x0s []dynamo.State, limit int) ([]*sim.Result, error) {
	for _, x0 := range x0s {
		if len(x0) != e.model.StateDim() {
			return nil, fmt.Errorf("%w: %s needs %d initial values, got %d", dynamo.ErrDimensionMismatch, e.cfg.Model, e.model.StateDim(), len(x0))
		}
	}
	bare := sim.New(e.model, e.stepper)
	return sim.NewEnsemble(bare, limit).Run(ctx, x0s, e.cfg.ToSim())
}
