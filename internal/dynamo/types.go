package dynamo

import "math"

// State is an ordered vector of variable values at one instant.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Params maps parameter names to values. Compiled expressions resolve free
// identifiers against it at evaluation time; a missing entry evaluates to NaN
// so the non-finite guards downstream catch the mistake instead of silently
// substituting zero.
type Params map[string]float64

func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Lookup returns the parameter value, or NaN when the name is unknown.
func (p Params) Lookup(name string) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return math.NaN()
}

// DerivFunc is a compiled right-hand side of one equation: the instantaneous
// rate of change of a single variable. Implementations must be pure; the
// integrators call them freely and assume no hidden state between calls.
type DerivFunc func(t float64, x State, p Params) float64

// System is anything the integrators can advance.
type System interface {
	Dim() int
	Derive(t float64, x State, p Params) State
}

// Stepper advances a system state by one fixed step of size h.
type Stepper interface {
	Step(sys System, x State, p Params, t, h float64) State
}
