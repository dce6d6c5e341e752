// Package sim drives a stepper over a system and records the trajectory in
// a Hermite dense output.
//
// Every candidate step is staged with Update. Fixed-step runs commit steps
// in batches; adaptive runs stage, check the error estimate, and either
// roll the candidate back and retry smaller or consolidate it.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/san-kum/dynout/internal/dense"
	"github.com/san-kum/dynout/internal/dynamo"
	"github.com/san-kum/dynout/internal/integrators"
	"github.com/san-kum/dynout/internal/scalar"
)

type Simulator struct {
	sys       dynamo.System
	stepper   dynamo.Stepper
	observers []dynamo.Observer
	logger    *slog.Logger
}

type Option func(*Simulator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithObserver registers an observer for consolidated steps.
func WithObserver(o dynamo.Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o) }
}

func New(sys dynamo.System, stepper dynamo.Stepper, opts ...Option) *Simulator {
	s := &Simulator{
		sys:     sys,
		stepper: stepper,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run is the mutable state of a single Run call.
type run struct {
	*Simulator
	cfg    dynamo.Config
	out    *dynamo.Output
	res    *Result
	staged []*dynamo.Step

	t     float64
	x, dx dynamo.State
	end   float64
	n     int
}

func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.StateDim() {
		return nil, fmt.Errorf("%w: state has %d entries, system needs %d", dynamo.ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}

	r := &run{
		Simulator: s,
		cfg:       cfg,
		out:       dense.NewHermiteOutput[scalar.Real](),
		t:         cfg.StartTime,
		x:         x0.Clone(),
		end:       cfg.StartTime + cfg.Duration,
	}
	r.res = &Result{ID: uuid.New(), Output: r.out}
	r.dx = s.sys.Derive(r.x, r.t)

	log := s.logger.With("run", r.res.ID, "stepper", s.stepper.Name())
	log.Info("run started", "t0", r.t, "duration", cfg.Duration, "dt", cfg.Dt, "adaptive", cfg.Adaptive)

	initialEnergy := s.computeEnergy(r.x)

	var err error
	if cfg.Adaptive {
		err = r.adaptive(ctx, log)
	} else {
		err = r.fixed(ctx, log)
	}
	if err != nil && cfg.Adaptive {
		// Staged candidates of an interrupted attempt were never checked.
		if rbErr := r.rollback(); rbErr != nil {
			log.Error("rollback failed", "err", rbErr)
		}
	}
	if flushErr := r.flush(); err == nil {
		err = flushErr
	}

	if initialEnergy != 0 {
		r.res.EnergyDrift = math.Abs(s.computeEnergy(r.x)-initialEnergy) / math.Abs(initialEnergy)
	}

	if err != nil {
		log.Warn("run stopped", "t", r.t, "err", err)
		return r.res, err
	}
	log.Info("run finished", "steps", r.res.Steps(), "accepted", r.res.Accepted, "rejected", r.res.Rejected)
	return r.res, nil
}

func (r *run) fixed(ctx context.Context, log *slog.Logger) error {
	batch := max(r.cfg.ConsolidateEvery, 1)
	for r.remaining() {
		if err := r.checkContext(ctx); err != nil {
			return err
		}
		step, err := r.stepper.Step(r.sys, r.t, r.x, r.dx, r.nextDt(r.cfg.Dt))
		if err != nil {
			return r.fail(err)
		}
		if err := r.stage(step); err != nil {
			return err
		}
		r.res.Accepted++
		r.advance(step)
		if len(r.staged) >= batch {
			if err := r.flush(); err != nil {
				return err
			}
			log.Debug("consolidated", "t", r.t, "steps", r.res.Steps())
		}
	}
	return nil
}

func (r *run) adaptive(ctx context.Context, log *slog.Logger) error {
	dt := math.Min(r.cfg.Dt, r.cfg.MaxDt)
	for r.remaining() {
		if err := r.checkContext(ctx); err != nil {
			return err
		}
		h := r.nextDt(dt)

		ratio, dtNext, err := r.tryStep(h)
		if err != nil {
			return err
		}
		if ratio > 1 {
			if err := r.rollback(); err != nil {
				return err
			}
			r.res.Rejected++
			log.Debug("step rejected", "t", r.t, "dt", h, "error_ratio", ratio)
			if dtNext < r.cfg.MinDt {
				return r.fail(fmt.Errorf("%w: %g < %g", dynamo.ErrStepTooSmall, dtNext, r.cfg.MinDt))
			}
			dt = dtNext
			continue
		}

		for _, step := range r.staged {
			r.res.Accepted++
			r.advance(step)
		}
		if err := r.flush(); err != nil {
			return err
		}
		dt = math.Max(r.cfg.MinDt, math.Min(dtNext, r.cfg.MaxDt))
	}
	return nil
}

// tryStep stages a candidate of size h and returns its error ratio. Steppers
// without an embedded estimate are checked by step doubling: two staged
// half steps against one full step.
func (r *run) tryStep(h float64) (ratio, dtNext float64, err error) {
	if a, ok := r.stepper.(dynamo.AdaptiveStepper); ok {
		step, ratio, dtNext, err := a.StepAdaptive(r.sys, r.t, r.x, r.dx, h, r.cfg.Tolerance)
		if err != nil {
			return 0, 0, r.fail(err)
		}
		return ratio, dtNext, r.stage(step)
	}

	full, err := r.stepper.Step(r.sys, r.t, r.x, r.dx, h)
	if err != nil {
		return 0, 0, r.fail(err)
	}
	first, err := r.stepper.Step(r.sys, r.t, r.x, r.dx, h/2)
	if err != nil {
		return 0, 0, r.fail(err)
	}
	if err := r.stage(first); err != nil {
		return 0, 0, err
	}
	tm, xm, dxm := integrators.EndOf(first)
	second, err := r.stepper.Step(r.sys, tm, xm, dxm, r.t+h-tm)
	if err != nil {
		return 0, 0, r.fail(err)
	}
	if err := r.stage(second); err != nil {
		return 0, 0, err
	}

	_, xFull, _ := integrators.EndOf(full)
	_, xHalf, _ := integrators.EndOf(second)
	ratio = xFull.Sub(xHalf).Norm() / r.cfg.Tolerance
	switch {
	case ratio > 1:
		dtNext = h / 2
	case ratio < 0.1:
		dtNext = h * 2
	default:
		dtNext = h
	}
	return ratio, dtNext, nil
}

// stage hands step to the output and remembers it for observers.
func (r *run) stage(step *dynamo.Step) error {
	_, x, _ := integrators.EndOf(step)
	if r.cfg.ValidateState && !x.IsValid() {
		return r.fail(dynamo.ErrInvalidState)
	}
	if err := r.out.Update(step); err != nil {
		return r.fail(err)
	}
	r.staged = append(r.staged, step)
	return nil
}

// rollback discards every staged step.
func (r *run) rollback() error {
	for range r.staged {
		if _, err := r.out.Rollback(); err != nil {
			return r.fail(err)
		}
	}
	r.staged = r.staged[:0]
	return nil
}

// flush consolidates staged steps and notifies observers.
func (r *run) flush() error {
	if r.out.PendingCount() == 0 {
		return nil
	}
	if err := r.out.Consolidate(); err != nil {
		return r.fail(err)
	}
	for _, step := range r.staged {
		for _, obs := range r.observers {
			obs.OnStep(step)
		}
	}
	r.staged = r.staged[:0]
	return nil
}

func (r *run) advance(step *dynamo.Step) {
	r.t, r.x, r.dx = integrators.EndOf(step)
	r.n++
}

// remaining reports whether a step of positive length still fits before
// the end time.
func (r *run) remaining() bool {
	return r.end-r.t > 1e-12*math.Max(1, math.Abs(r.end))
}

// nextDt clips dt so the run lands exactly on its end time.
func (r *run) nextDt(dt float64) float64 {
	if left := r.end - r.t; dt >= left || left-dt < 1e-12*math.Max(1, math.Abs(r.end)) {
		return left
	}
	return dt
}

func (r *run) checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return r.fail(fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err()))
	default:
		return nil
	}
}

func (r *run) fail(err error) error {
	return &dynamo.SimulationError{Step: r.n, Time: r.t, State: r.x.Clone(), Wrapped: err}
}

func (s *Simulator) computeEnergy(x dynamo.State) float64 {
	if h, ok := s.sys.(dynamo.Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}
