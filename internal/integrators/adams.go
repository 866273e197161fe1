package integrators

import "github.com/san-kum/phaseplot/internal/dynamo"

// Adams-Bashforth coefficients, most-recent-first.
var abCoeffs = map[int][]float64{
	2: {3.0 / 2.0, -1.0 / 2.0},
	3: {23.0 / 12.0, -16.0 / 12.0, 5.0 / 12.0},
	4: {55.0 / 24.0, -59.0 / 24.0, 37.0 / 24.0, -9.0 / 24.0},
}

// history is a fixed-capacity ring buffer of the most recent derivative
// vectors. Pushing at capacity evicts the oldest entry.
type history struct {
	buf  []dynamo.State
	head int
	n    int
}

func newHistory(capacity int) *history {
	return &history{buf: make([]dynamo.State, capacity)}
}

func (h *history) push(f dynamo.State) {
	h.head = (h.head + 1) % len(h.buf)
	h.buf[h.head] = f
	if h.n < len(h.buf) {
		h.n++
	}
}

// at returns the k-th most recent entry; at(0) is the newest.
func (h *history) at(k int) dynamo.State {
	idx := (h.head - k + len(h.buf)) % len(h.buf)
	return h.buf[idx]
}

func (h *history) len() int { return h.n }

// AdamsBashforth is an explicit multistep method of order 2, 3 or 4. It keeps
// the most recent `order` derivative evaluations and combines them with fixed
// coefficients; the first order-1 steps are taken with RK4 to build history.
type AdamsBashforth struct {
	order int
	rk4   *RK4
	hist  *history
}

// NewAdamsBashforth returns a stepper of the given order; anything outside
// 2..4 falls back to order 4.
func NewAdamsBashforth(order int) *AdamsBashforth {
	if _, ok := abCoeffs[order]; !ok {
		order = 4
	}
	return &AdamsBashforth{
		order: order,
		rk4:   NewRK4(),
		hist:  newHistory(order),
	}
}

func (a *AdamsBashforth) Order() int { return a.order }

// HistoryLen reports how many derivative vectors are currently stored.
func (a *AdamsBashforth) HistoryLen() int { return a.hist.len() }

// Reset discards accumulated history so the stepper can start a new run.
func (a *AdamsBashforth) Reset() {
	a.hist = newHistory(a.order)
}

func (a *AdamsBashforth) Step(sys dynamo.System, x dynamo.State, p dynamo.Params, t, h float64) dynamo.State {
	if a.hist.len() == 0 {
		a.hist.push(sys.Derive(t, x, p))
	}

	// Startup: RK4 until `order` derivative values are on hand.
	if a.hist.len() < a.order {
		y := a.rk4.Step(sys, x, p, t, h)
		a.hist.push(sys.Derive(t+h, y, p))
		return y
	}

	coeffs := abCoeffs[a.order]
	n := len(x)
	y := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for k, c := range coeffs {
			sum += c * a.hist.at(k)[i]
		}
		y[i] = x[i] + h*sum
	}

	a.hist.push(sys.Derive(t+h, y, p))
	return y
}
