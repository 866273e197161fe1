package integrators

import "github.com/san-kum/phaseplot/internal/dynamo"

// RK4 is the classical four-stage Runge-Kutta method with stages at 0, h/2,
// h/2, h and weights 1/6, 2/6, 2/6, 1/6.
type RK4 struct {
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, p dynamo.Params, t, h float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	k1 := sys.Derive(t, x, p)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*0.5*k1[i]
	}
	k2 := sys.Derive(t+h*0.5, r.scratch, p)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*0.5*k2[i]
	}
	k3 := sys.Derive(t+h*0.5, r.scratch, p)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*k3[i]
	}
	k4 := sys.Derive(t+h, r.scratch, p)

	result := make(dynamo.State, n)
	h6 := h / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + h6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}
