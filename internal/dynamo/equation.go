package dynamo

import "fmt"

// EquationDefinition is a compiled system of first-order ODEs. It owns the
// variable ordering (which defines the state-vector index mapping), the
// default parameter values, the original expression text, and one compiled
// derivative function per variable. Immutable after construction; editing a
// system means compiling a new definition.
type EquationDefinition struct {
	id          string
	name        string
	description string
	vars        []string
	params      Params
	exprs       []string
	fns         []DerivFunc
}

// NewEquationDefinition builds a definition, enforcing the invariant that the
// number of compiled functions equals the number of variables equals the
// number of expression strings.
func NewEquationDefinition(id, name, description string, vars []string, params Params, exprs []string, fns []DerivFunc) (*EquationDefinition, error) {
	if len(vars) != len(exprs) || len(vars) != len(fns) {
		return nil, fmt.Errorf("dynamo: %d variables, %d expressions, %d compiled functions; counts must match",
			len(vars), len(exprs), len(fns))
	}
	return &EquationDefinition{
		id:          id,
		name:        name,
		description: description,
		vars:        append([]string(nil), vars...),
		params:      params.Clone(),
		exprs:       append([]string(nil), exprs...),
		fns:         append([]DerivFunc(nil), fns...),
	}, nil
}

func (d *EquationDefinition) ID() string          { return d.id }
func (d *EquationDefinition) Name() string        { return d.name }
func (d *EquationDefinition) Description() string { return d.description }
func (d *EquationDefinition) Dim() int            { return len(d.vars) }

// Variables returns the variable names in state-vector order.
func (d *EquationDefinition) Variables() []string {
	return append([]string(nil), d.vars...)
}

// Params returns a copy of the default parameter values.
func (d *EquationDefinition) Params() Params { return d.params.Clone() }

// Expressions returns the original right-hand-side text, one per variable.
func (d *EquationDefinition) Expressions() []string {
	return append([]string(nil), d.exprs...)
}

// Derivative returns the compiled function for one component.
func (d *EquationDefinition) Derivative(i int) DerivFunc { return d.fns[i] }

// Derive evaluates every component at (t, x) under the given parameters.
func (d *EquationDefinition) Derive(t float64, x State, p Params) State {
	dx := make(State, len(d.fns))
	for i, fn := range d.fns {
		dx[i] = fn(t, x, p)
	}
	return dx
}
