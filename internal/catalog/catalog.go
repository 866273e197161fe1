// Package catalog holds the gallery of predefined equation systems. Entries
// are plain text handed to the expression compiler; the catalog itself has no
// behavior beyond lookup and loading user-authored YAML galleries.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/phaseplot/internal/dynamo"
	"github.com/san-kum/phaseplot/internal/expr"
)

// Window is the suggested phase-plane viewport for a system.
type Window struct {
	XMin float64 `yaml:"xmin"`
	XMax float64 `yaml:"xmax"`
	YMin float64 `yaml:"ymin"`
	YMax float64 `yaml:"ymax"`
}

// Entry describes one predefined system: display metadata, equation text,
// default parameters and a suggested starting point.
type Entry struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Equations   []string           `yaml:"equations"`
	Params      map[string]float64 `yaml:"params"`
	Initial     []float64          `yaml:"initial"`
	Method      string             `yaml:"method"`
	Dt          float64            `yaml:"dt"`
	TEnd        float64            `yaml:"tend"`
	Window      Window             `yaml:"window"`
}

var builtins = []Entry{
	{
		ID:          "lotka-volterra",
		Name:        "Lotka-Volterra",
		Description: "predator-prey population cycles",
		Equations:   []string{"dx/dt = alpha*x - beta*x*y", "dy/dt = delta*x*y - gamma*y"},
		Params:      map[string]float64{"alpha": 1.1, "beta": 0.4, "delta": 0.1, "gamma": 0.4},
		Initial:     []float64{10, 10},
		Method:      "rk4",
		Dt:          0.01,
		TEnd:        50,
		Window:      Window{XMin: 0, XMax: 30, YMin: 0, YMax: 15},
	},
	{
		ID:          "vanderpol",
		Name:        "Van der Pol",
		Description: "self-sustained oscillator with a limit cycle",
		Equations:   []string{"dx/dt = y", "dy/dt = mu*(1 - x^2)*y - x"},
		Params:      map[string]float64{"mu": 1.0},
		Initial:     []float64{2, 0},
		Method:      "rk4",
		Dt:          0.01,
		TEnd:        30,
		Window:      Window{XMin: -3, XMax: 3, YMin: -3, YMax: 3},
	},
	{
		ID:          "pendulum",
		Name:        "Pendulum",
		Description: "rigid pendulum without small-angle approximation",
		Equations:   []string{"dtheta/dt = omega", "domega/dt = -(g/l)*sin(theta) - b*omega"},
		Params:      map[string]float64{"g": 9.81, "l": 1.0, "b": 0.2},
		Initial:     []float64{2.5, 0},
		Method:      "rk4",
		Dt:          0.01,
		TEnd:        20,
		Window:      Window{XMin: -3.5, XMax: 3.5, YMin: -8, YMax: 8},
	},
	{
		ID:          "duffing",
		Name:        "Duffing",
		Description: "periodically forced oscillator with a double-well potential",
		Equations:   []string{"dx/dt = y", "dy/dt = -delta*y - alpha*x - beta*x^3 + gamma*cos(omega*t)"},
		Params:      map[string]float64{"alpha": -1, "beta": 1, "delta": 0.3, "gamma": 0.37, "omega": 1.2},
		Initial:     []float64{1, 0},
		Method:      "rkf45",
		Dt:          0.01,
		TEnd:        60,
		Window:      Window{XMin: -2, XMax: 2, YMin: -2, YMax: 2},
	},
	{
		ID:          "fitzhugh-nagumo",
		Name:        "FitzHugh-Nagumo",
		Description: "reduced neuron excitability model",
		Equations:   []string{"dv/dt = v - v^3/3 - w + i_ext", "dw/dt = eps*(v + a - b*w)"},
		Params:      map[string]float64{"i_ext": 0.5, "eps": 0.08, "a": 0.7, "b": 0.8},
		Initial:     []float64{-1, 1},
		Method:      "rk4",
		Dt:          0.05,
		TEnd:        200,
		Window:      Window{XMin: -2.5, XMax: 2.5, YMin: -1, YMax: 2.5},
	},
	{
		ID:          "lorenz",
		Name:        "Lorenz",
		Description: "three-variable convection model; chaotic at the classic parameters",
		Equations:   []string{"dx/dt = sigma*(y - x)", "dy/dt = x*(rho - z) - y", "dz/dt = x*y - beta*z"},
		Params:      map[string]float64{"sigma": 10, "rho": 28, "beta": 8.0 / 3.0},
		Initial:     []float64{1, 1, 1},
		Method:      "rkf45",
		Dt:          0.01,
		TEnd:        40,
		Window:      Window{XMin: -25, XMax: 25, YMin: -30, YMax: 30},
	},
}

// List returns the built-in entries in display order.
func List() []Entry {
	return append([]Entry(nil), builtins...)
}

// Get looks up a built-in entry by id.
func Get(id string) (Entry, bool) {
	for _, e := range builtins {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Compile turns an entry's equation text into an immutable definition.
func Compile(e Entry) (*dynamo.EquationDefinition, error) {
	return expr.CompileDefinition(e.ID, e.Name, e.Description, e.Equations, dynamo.Params(e.Params))
}

// SolverConfig builds the suggested solver settings for the entry, falling
// back to defaults for anything unset.
func (e Entry) SolverConfig() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	if e.Method != "" {
		cfg.Method = dynamo.Method(e.Method)
	}
	if e.Dt > 0 {
		cfg.Dt = e.Dt
	}
	if e.TEnd > 0 {
		cfg.TEnd = e.TEnd
	}
	return cfg
}

// InitialState returns a copy of the suggested initial condition, or the zero
// vector of the right dimension when the entry does not carry one.
func (e Entry) InitialState(dim int) dynamo.State {
	if len(e.Initial) == dim {
		s := make(dynamo.State, dim)
		copy(s, e.Initial)
		return s
	}
	return make(dynamo.State, dim)
}

// LoadFile reads a user-authored YAML gallery: a list of entries with the
// same shape as the built-ins.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	for _, e := range entries {
		if e.ID == "" || len(e.Equations) == 0 {
			return nil, fmt.Errorf("catalog: entry %q missing id or equations", e.Name)
		}
	}
	return entries, nil
}
