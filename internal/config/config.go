// Package config reads and writes phaseplot run configurations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/phaseplot/internal/dynamo"
)

// Solver mirrors dynamo.Config in YAML form.
type Solver struct {
	Method    string  `yaml:"method"`
	Dt        float64 `yaml:"dt"`
	TEnd      float64 `yaml:"tend"`
	MaxSteps  int     `yaml:"max_steps"`
	Tolerance float64 `yaml:"tolerance"`
	MinStep   float64 `yaml:"min_step"`
	MaxStep   float64 `yaml:"max_step"`
	Order     int     `yaml:"order"`
}

// Window is the phase-plane viewport used for nullcline extraction and
// rendering.
type Window struct {
	XMin float64 `yaml:"xmin"`
	XMax float64 `yaml:"xmax"`
	YMin float64 `yaml:"ymin"`
	YMax float64 `yaml:"ymax"`
}

// Config is one complete run description: which system, starting where,
// integrated how, and the viewport for phase-plane output.
type Config struct {
	System     string             `yaml:"system"`    // catalog id; empty when Equations is set
	Equations  []string           `yaml:"equations"` // inline d<var>/dt = ... lines
	Params     map[string]float64 `yaml:"params"`
	Initial    []float64          `yaml:"initial"`
	T0         float64            `yaml:"t0"`
	Solver     Solver             `yaml:"solver"`
	Window     Window             `yaml:"window"`
	Resolution int                `yaml:"resolution"`
}

func DefaultConfig() *Config {
	d := dynamo.DefaultConfig()
	return &Config{
		System: "vanderpol",
		Solver: Solver{
			Method:    string(d.Method),
			Dt:        d.Dt,
			TEnd:      d.TEnd,
			MaxSteps:  d.MaxSteps,
			Tolerance: d.Tolerance,
			MinStep:   d.MinStep,
			MaxStep:   d.MaxStep,
			Order:     d.AdamsOrder,
		},
		Window:     Window{XMin: -3, XMax: 3, YMin: -3, YMax: 3},
		Resolution: 50,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	// The document must pick its own system; a pre-set default would shadow
	// an equations-only selection.
	cfg.System = ""
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.System == "" && len(cfg.Equations) == 0 {
		return nil, fmt.Errorf("config: either system or equations must be set")
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

// SolverConfig converts the YAML solver block, leaving zero values for the
// engine's own defaulting.
func (c *Config) SolverConfig() dynamo.Config {
	return dynamo.Config{
		Method:     dynamo.Method(c.Solver.Method),
		Dt:         c.Solver.Dt,
		TEnd:       c.Solver.TEnd,
		MaxSteps:   c.Solver.MaxSteps,
		Tolerance:  c.Solver.Tolerance,
		MinStep:    c.Solver.MinStep,
		MaxStep:    c.Solver.MaxStep,
		AdamsOrder: c.Solver.Order,
	}
}
