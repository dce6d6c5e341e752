package config

import "sort"

var Presets = map[string]map[string]*Config{
	"decay": {
		"unit": {
			Model: "decay", Integrator: "rk4", Dt: 0.1, Duration: 5.0,
			InitState: []float64{1.0},
		},
		"fast": {
			Model: "decay", Integrator: "rk45", Adaptive: true, Dt: 0.1, Duration: 5.0,
			InitState: []float64{1.0}, Params: map[string]float64{"rate": 20},
		},
	},
	"pendulum": {
		"small": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: []float64{0.2, 0.0},
		},
		"large": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: []float64{2.5, 0.0},
		},
		"spinning": {
			Model: "pendulum", Integrator: "rk45", Adaptive: true, Dt: 0.01, Duration: 30.0,
			InitState: []float64{0.1, 8.0},
		},
	},
	"spring_mass": {
		"bounce": {
			Model: "spring_mass", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: []float64{2.0, 0.0},
		},
		"fast": {
			Model: "spring_mass", Integrator: "rk4", Dt: 0.05, Duration: 10.0, SubSteps: 4,
			InitState: []float64{1.0, 5.0},
		},
		"undamped": {
			Model: "spring_mass", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: []float64{1.0, 0.0}, Params: map[string]float64{"damping": 0},
		},
	},
	"duffing": {
		"chaotic": {
			Model: "duffing", Integrator: "rk45", Adaptive: true, Dt: 0.01, Duration: 100.0,
		},
	},
	"vanderpol": {
		"stiff": {
			Model: "vanderpol", Integrator: "rk45", Adaptive: true, Dt: 0.01, Duration: 50.0,
			Params: map[string]float64{"mu": 5},
		},
	},
	"lorenz": {
		"butterfly": {
			Model: "lorenz", Integrator: "rk45", Adaptive: true, Dt: 0.01, Duration: 40.0,
			InitState: []float64{1.0, 1.0, 1.0},
		},
		"fixed": {
			Model: "lorenz", Integrator: "rk4", Dt: 0.005, Duration: 40.0, ConsolidateEvery: 50,
			InitState: []float64{1.0, 1.0, 1.0},
		},
	},
	"rossler": {
		"spiral": {
			Model: "rossler", Integrator: "rk4", Dt: 0.01, Duration: 100.0,
		},
	},
}

// GetPreset returns a copy of the named preset with unset fields filled
// from DefaultConfig, or nil when there is none.
func GetPreset(model, name string) *Config {
	p, ok := Presets[model][name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Model = p.Model
	cfg.Integrator = p.Integrator
	cfg.Dt = p.Dt
	cfg.Duration = p.Duration
	cfg.Adaptive = p.Adaptive
	cfg.SubSteps = p.SubSteps
	if p.ConsolidateEvery > 0 {
		cfg.ConsolidateEvery = p.ConsolidateEvery
	}
	if p.InitState != nil {
		cfg.InitState = append([]float64(nil), p.InitState...)
	}
	if p.Params != nil {
		cfg.Params = make(map[string]float64, len(p.Params))
		for k, v := range p.Params {
			cfg.Params[k] = v
		}
	}
	return cfg
}

// ListPresets returns the preset names for model in sorted order.
func ListPresets(model string) []string {
	var names []string
	for name := range Presets[model] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
