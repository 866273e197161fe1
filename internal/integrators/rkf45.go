package integrators

import (
	"math"

	"github.com/san-kum/phaseplot/internal/dynamo"
)

// Runge-Kutta-Fehlberg coefficients: six stages feeding an embedded order-4 /
// order-5 pair.
var (
	fa2 = 1.0 / 4.0
	fa3 = 3.0 / 8.0
	fa4 = 12.0 / 13.0
	fa6 = 1.0 / 2.0

	fb21 = 1.0 / 4.0
	fb31 = 3.0 / 32.0
	fb32 = 9.0 / 32.0
	fb41 = 1932.0 / 2197.0
	fb42 = -7200.0 / 2197.0
	fb43 = 7296.0 / 2197.0
	fb51 = 439.0 / 216.0
	fb52 = -8.0
	fb53 = 3680.0 / 513.0
	fb54 = -845.0 / 4104.0
	fb61 = -8.0 / 27.0
	fb62 = 2.0
	fb63 = -3544.0 / 2565.0
	fb64 = 1859.0 / 4104.0
	fb65 = -11.0 / 40.0

	// Order-4 solution weights.
	fc41 = 25.0 / 216.0
	fc43 = 1408.0 / 2565.0
	fc44 = 2197.0 / 4104.0
	fc45 = -1.0 / 5.0

	// Order-5 solution weights.
	fc51 = 16.0 / 135.0
	fc53 = 6656.0 / 12825.0
	fc54 = 28561.0 / 56430.0
	fc55 = -9.0 / 50.0
	fc56 = 2.0 / 55.0
)

// RKF45 produces independent order-4 and order-5 estimates from one set of
// stage evaluations. The engine accepts or rejects each attempt and adjusts
// the step; Safety scales the step-size update.
type RKF45 struct {
	Safety float64
}

func NewRKF45() *RKF45 {
	return &RKF45{Safety: 0.9}
}

// Attempt evaluates the six stages over one candidate step and returns the
// order-5 estimate together with the scalar error: the maximum over
// components of |y5-y4| / max(|y|, |y5|, 1e-10).
func (r *RKF45) Attempt(sys dynamo.System, x dynamo.State, p dynamo.Params, t, h float64) (y5 dynamo.State, errEst float64) {
	n := len(x)

	k1 := sys.Derive(t, x, p)

	xs := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xs[i] = x[i] + h*fb21*k1[i]
	}
	k2 := sys.Derive(t+fa2*h, xs, p)

	for i := 0; i < n; i++ {
		xs[i] = x[i] + h*(fb31*k1[i]+fb32*k2[i])
	}
	k3 := sys.Derive(t+fa3*h, xs, p)

	for i := 0; i < n; i++ {
		xs[i] = x[i] + h*(fb41*k1[i]+fb42*k2[i]+fb43*k3[i])
	}
	k4 := sys.Derive(t+fa4*h, xs, p)

	for i := 0; i < n; i++ {
		xs[i] = x[i] + h*(fb51*k1[i]+fb52*k2[i]+fb53*k3[i]+fb54*k4[i])
	}
	k5 := sys.Derive(t+h, xs, p)

	for i := 0; i < n; i++ {
		xs[i] = x[i] + h*(fb61*k1[i]+fb62*k2[i]+fb63*k3[i]+fb64*k4[i]+fb65*k5[i])
	}
	k6 := sys.Derive(t+fa6*h, xs, p)

	y5 = make(dynamo.State, n)
	errEst = 0.0
	for i := 0; i < n; i++ {
		y4 := x[i] + h*(fc41*k1[i]+fc43*k3[i]+fc44*k4[i]+fc45*k5[i])
		y5[i] = x[i] + h*(fc51*k1[i]+fc53*k3[i]+fc54*k4[i]+fc55*k5[i]+fc56*k6[i])

		scale := math.Max(math.Abs(x[i]), math.Abs(y5[i]))
		if scale < 1e-10 {
			scale = 1e-10
		}
		errEst = math.Max(errEst, math.Abs(y5[i]-y4)/scale)
	}
	return y5, errEst
}

// NextStep computes the step size for the next attempt: double on an exactly
// zero error, otherwise scale by Safety*(tol/err)^0.2, always clamped into
// [hMin, hMax].
func (r *RKF45) NextStep(h, errEst, tol, hMin, hMax float64) float64 {
	var next float64
	if errEst == 0 {
		next = h * 2
	} else {
		next = r.Safety * h * math.Pow(tol/errEst, 0.2)
	}
	if next < hMin {
		next = hMin
	}
	if next > hMax {
		next = hMax
	}
	return next
}
