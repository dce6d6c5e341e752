package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dynout/internal/dynamo"
)

const (
	DefaultDt         = 0.01
	DefaultDuration   = 10.0
	DefaultTolerance  = 1e-6
	DefaultMinDt      = 1e-8
	DefaultMaxDt      = 0.1
	DefaultResolution = 200
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Model            string             `yaml:"model"`
	Integrator       string             `yaml:"integrator"`
	Dt               float64            `yaml:"dt"`
	Duration         float64            `yaml:"duration"`
	Adaptive         bool               `yaml:"adaptive"`
	Tolerance        float64            `yaml:"tolerance"`
	MinDt            float64            `yaml:"min_dt"`
	MaxDt            float64            `yaml:"max_dt"`
	SubSteps         int                `yaml:"substeps"`
	ConsolidateEvery int                `yaml:"consolidate_every"`
	InitState        []float64          `yaml:"init_state,omitempty"`
	Params           map[string]float64 `yaml:"params,omitempty"`
	// Resolution is the number of points used when resampling for plots
	// and exports.
	Resolution int `yaml:"resolution"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:            "pendulum",
		Integrator:       "rk4",
		Dt:               DefaultDt,
		Duration:         DefaultDuration,
		Tolerance:        DefaultTolerance,
		MinDt:            DefaultMinDt,
		MaxDt:            DefaultMaxDt,
		ConsolidateEvery: 1,
		Resolution:       DefaultResolution,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields that do not depend on the chosen model.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model is empty", ErrInvalid)
	}
	if c.Integrator == "" {
		return fmt.Errorf("%w: integrator is empty", ErrInvalid)
	}
	if c.Resolution < 2 {
		return fmt.Errorf("%w: resolution must be at least 2, got %d", ErrInvalid, c.Resolution)
	}
	if err := c.ToSim().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ToSim converts the file settings into a run configuration.
func (c *Config) ToSim() dynamo.Config {
	sc := dynamo.DefaultConfig()
	sc.Dt = c.Dt
	sc.Duration = c.Duration
	sc.Adaptive = c.Adaptive
	sc.Tolerance = c.Tolerance
	sc.MinDt = c.MinDt
	sc.MaxDt = c.MaxDt
	sc.SubSteps = c.SubSteps
	sc.ConsolidateEvery = c.ConsolidateEvery
	return sc
}

// InitialState returns InitState, or fallback when none is configured.
func (c *Config) InitialState(fallback dynamo.State) dynamo.State {
	if len(c.InitState) == 0 {
		return fallback
	}
	return dynamo.State(c.InitState).Clone()
}
