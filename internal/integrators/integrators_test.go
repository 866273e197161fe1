package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/phaseplot/internal/dynamo"
)

// dx/dt = v, dv/dt = -x
type oscillator struct{}

func (oscillator) Dim() int { return 2 }
func (oscillator) Derive(t float64, x dynamo.State, p dynamo.Params) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

// dx/dt = -x
type decay struct{}

func (decay) Dim() int { return 1 }
func (decay) Derive(t float64, x dynamo.State, p dynamo.Params) dynamo.State {
	return dynamo.State{-x[0]}
}

func TestRK4HarmonicOscillator(t *testing.T) {
	step := NewRK4()
	x := dynamo.State{1, 0}
	dt := 0.001

	// One full period.
	steps := int(math.Round(2 * math.Pi / dt))
	h := 2 * math.Pi / float64(steps)
	for i := 0; i < steps; i++ {
		x = step.Step(oscillator{}, x, nil, float64(i)*h, h)
	}

	if math.Abs(x[0]-1) > 1e-4 || math.Abs(x[1]) > 1e-4 {
		t.Errorf("after one period x = %v, want [1 0] within 1e-4", x)
	}
}

func TestEulerVsRK4Accuracy(t *testing.T) {
	euler := NewEuler()
	rk4 := NewRK4()

	xe := dynamo.State{1}
	xr := dynamo.State{1}
	dt := 0.1
	for i := 0; i < 10; i++ {
		ti := float64(i) * dt
		xe = euler.Step(decay{}, xe, nil, ti, dt)
		xr = rk4.Step(decay{}, xr, nil, ti, dt)
	}

	exact := math.Exp(-1)
	eulerErr := math.Abs(xe[0] - exact)
	rk4Err := math.Abs(xr[0] - exact)

	if rk4Err >= eulerErr {
		t.Errorf("RK4 error %e not smaller than Euler error %e", rk4Err, eulerErr)
	}
	if rk4Err > 1e-6 {
		t.Errorf("RK4 error %e unexpectedly large for dt=0.1", rk4Err)
	}
}

func TestRKF45AttemptAccuracy(t *testing.T) {
	rkf := NewRKF45()

	y5, errEst := rkf.Attempt(decay{}, dynamo.State{1}, nil, 0, 0.1)

	exact := math.Exp(-0.1)
	if math.Abs(y5[0]-exact) > 1e-9 {
		t.Errorf("order-5 estimate %v, want %v", y5[0], exact)
	}
	if errEst < 0 || errEst > 1e-6 {
		t.Errorf("error estimate %e out of expected range for smooth system", errEst)
	}
}

func TestRKF45NextStepClamping(t *testing.T) {
	rkf := NewRKF45()
	hMin, hMax := 1e-10, 1.0

	// Exactly zero error doubles the step.
	if got := rkf.NextStep(0.1, 0, 1e-6, hMin, hMax); got != 0.2 {
		t.Errorf("zero-error step = %v, want 0.2", got)
	}
	// Growth is clamped at hMax.
	if got := rkf.NextStep(0.9, 0, 1e-6, hMin, hMax); got != hMax {
		t.Errorf("step = %v, want clamp at %v", got, hMax)
	}
	// Huge error shrinks but never below hMin.
	if got := rkf.NextStep(1e-9, 1e6, 1e-6, hMin, hMax); got != hMin {
		t.Errorf("step = %v, want clamp at %v", got, hMin)
	}
	// Moderate error: safety * (tol/err)^0.2 scaling.
	h := 0.1
	errEst := 1e-4
	want := 0.9 * h * math.Pow(1e-6/errEst, 0.2)
	if got := rkf.NextStep(h, errEst, 1e-6, hMin, hMax); math.Abs(got-want) > 1e-15 {
		t.Errorf("step = %v, want %v", got, want)
	}
}

func TestAdamsBashforthStartupUsesRK4(t *testing.T) {
	ab := NewAdamsBashforth(4)
	rk4 := NewRK4()
	sys := oscillator{}
	dt := 0.01

	xab := dynamo.State{1, 0}
	xrk := dynamo.State{1, 0}

	// Exactly order-1 = 3 startup steps must reproduce RK4 bit for bit.
	for i := 0; i < 3; i++ {
		ti := float64(i) * dt
		xab = ab.Step(sys, xab, nil, ti, dt)
		xrk = rk4.Step(sys, xrk, nil, ti, dt)
		for j := range xab {
			if xab[j] != xrk[j] {
				t.Fatalf("startup step %d: adams %v != rk4 %v", i+1, xab, xrk)
			}
		}
	}

	if ab.HistoryLen() != 4 {
		t.Fatalf("history length after startup = %d, want 4", ab.HistoryLen())
	}

	// The stored history must be the derivatives at the visited points.
	wantNewest := sys.Derive(3*dt, xab, nil)
	gotNewest := ab.hist.at(0)
	for j := range wantNewest {
		if gotNewest[j] != wantNewest[j] {
			t.Fatalf("newest history entry %v, want %v", gotNewest, wantNewest)
		}
	}

	// The fourth step switches to the multistep formula and must differ
	// from a pure RK4 step.
	xab4 := ab.Step(sys, xab, nil, 3*dt, dt)
	xrk4 := rk4.Step(sys, xrk, nil, 3*dt, dt)
	same := true
	for j := range xab4 {
		if xab4[j] != xrk4[j] {
			same = false
		}
	}
	if same {
		t.Error("fourth step identical to RK4; multistep formula not engaged")
	}
}

func TestAdamsBashforthCoefficients(t *testing.T) {
	// Each coefficient row must sum to 1 (consistency of the method).
	for order, coeffs := range abCoeffs {
		sum := 0.0
		for _, c := range coeffs {
			sum += c
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("order %d coefficients sum to %v, want 1", order, sum)
		}
	}
}

func TestAdamsBashforthAccuracy(t *testing.T) {
	// AB4 on linear decay should land close to e^-1, far closer than Euler.
	ab := NewAdamsBashforth(4)
	x := dynamo.State{1}
	dt := 0.01
	for i := 0; i < 100; i++ {
		x = ab.Step(decay{}, x, nil, float64(i)*dt, dt)
	}

	if math.Abs(x[0]-math.Exp(-1)) > 1e-7 {
		t.Errorf("AB4 final = %v, want %v within 1e-7", x[0], math.Exp(-1))
	}
}

func TestAdamsBashforthOrderFallback(t *testing.T) {
	if got := NewAdamsBashforth(7).Order(); got != 4 {
		t.Errorf("order 7 fell back to %d, want 4", got)
	}
	if got := NewAdamsBashforth(2).Order(); got != 2 {
		t.Errorf("order 2 became %d", got)
	}
}

func TestAdamsBashforthReset(t *testing.T) {
	ab := NewAdamsBashforth(3)
	x := dynamo.State{1}
	for i := 0; i < 5; i++ {
		x = ab.Step(decay{}, x, nil, float64(i)*0.01, 0.01)
	}
	if ab.HistoryLen() != 3 {
		t.Fatalf("history = %d, want 3", ab.HistoryLen())
	}

	ab.Reset()
	if ab.HistoryLen() != 0 {
		t.Errorf("history after Reset = %d, want 0", ab.HistoryLen())
	}
}

func TestHistoryRing(t *testing.T) {
	h := newHistory(3)
	for i := 1; i <= 5; i++ {
		h.push(dynamo.State{float64(i)})
	}

	if h.len() != 3 {
		t.Fatalf("len = %d, want 3", h.len())
	}
	// Sliding window keeps 5, 4, 3 most-recent-first.
	for k, want := range []float64{5, 4, 3} {
		if got := h.at(k)[0]; got != want {
			t.Errorf("at(%d) = %v, want %v", k, got, want)
		}
	}
}
