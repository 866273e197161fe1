// Package sim drives the integration of compiled equation systems. One
// driving loop serves all four methods; the loop advances while current time
// is below the end time and the accepted-step count is below the cap, and
// stops early, keeping the partial trajectory, when a state component goes
// non-finite.
package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/phaseplot/internal/dynamo"
	"github.com/san-kum/phaseplot/internal/integrators"
)

// Integrate runs one simulation from x0 at t0 under the given config.
// The returned error covers configuration problems only (bad step size,
// unsupported method); numerical failure during the run is reported inside
// the Result so the accepted prefix of the trajectory stays usable.
func Integrate(x0 dynamo.State, t0 float64, sys dynamo.System, p dynamo.Params, cfg dynamo.Config) (res *dynamo.Result, err error) {
	cfg = withDefaults(cfg)
	if err := validate(cfg, t0); err != nil {
		return nil, err
	}

	res = &dynamo.Result{
		Times:  make([]float64, 0, estimateSteps(cfg, t0)+1),
		States: make([]dynamo.State, 0, estimateSteps(cfg, t0)+1),
	}
	res.Times = append(res.Times, t0)
	res.States = append(res.States, x0.Clone())

	// A panic inside a compiled expression or stepper becomes a failed
	// result carrying the partial trajectory, never a crash of the caller.
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Message = fmt.Sprintf("integration aborted: %v", r)
			err = nil
		}
	}()

	switch cfg.Method {
	case dynamo.MethodEuler:
		runFixed(res, integrators.NewEuler(), x0, t0, sys, p, cfg)
	case dynamo.MethodRK4:
		runFixed(res, integrators.NewRK4(), x0, t0, sys, p, cfg)
	case dynamo.MethodAdams:
		runFixed(res, integrators.NewAdamsBashforth(cfg.AdamsOrder), x0, t0, sys, p, cfg)
	case dynamo.MethodRKF45:
		runAdaptive(res, integrators.NewRKF45(), x0, t0, sys, p, cfg)
	default:
		return nil, &dynamo.UnsupportedMethodError{Method: cfg.Method}
	}
	return res, nil
}

func withDefaults(cfg dynamo.Config) dynamo.Config {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = dynamo.DefaultMaxSteps
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = dynamo.DefaultTolerance
	}
	if cfg.MinStep <= 0 {
		cfg.MinStep = dynamo.DefaultMinStep
	}
	if cfg.MaxStep <= 0 {
		cfg.MaxStep = dynamo.DefaultMaxStep
	}
	if cfg.AdamsOrder == 0 {
		cfg.AdamsOrder = dynamo.DefaultAdamsOrder
	}
	return cfg
}

func validate(cfg dynamo.Config, t0 float64) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %g", cfg.Dt)
	}
	if cfg.TEnd <= t0 {
		return fmt.Errorf("sim: end time %g must exceed initial time %g", cfg.TEnd, t0)
	}
	if cfg.MinStep > cfg.MaxStep {
		return fmt.Errorf("sim: minStep %g exceeds maxStep %g", cfg.MinStep, cfg.MaxStep)
	}
	return nil
}

func estimateSteps(cfg dynamo.Config, t0 float64) int {
	n := int((cfg.TEnd - t0) / cfg.Dt)
	if n > cfg.MaxSteps {
		n = cfg.MaxSteps
	}
	if n < 0 {
		n = 0
	}
	return n
}

func runFixed(res *dynamo.Result, step dynamo.Stepper, x dynamo.State, t float64, sys dynamo.System, p dynamo.Params, cfg dynamo.Config) {
	x = x.Clone()
	for t < cfg.TEnd && res.Steps < cfg.MaxSteps {
		h := cfg.Dt
		clipped := false
		if t+h >= cfg.TEnd {
			// Land exactly on the end time.
			h = cfg.TEnd - t
			clipped = true
		}

		y := step.Step(sys, x, p, t, h)
		if !y.IsValid() {
			fail(res, t, "non-finite state component")
			return
		}

		x = y
		if clipped {
			t = cfg.TEnd
		} else {
			t += h
		}
		record(res, t, x)
	}
	finish(res, t, cfg)
}

func runAdaptive(res *dynamo.Result, rkf *integrators.RKF45, x dynamo.State, t float64, sys dynamo.System, p dynamo.Params, cfg dynamo.Config) {
	x = x.Clone()
	h := clamp(cfg.Dt, cfg.MinStep, cfg.MaxStep)

	for t < cfg.TEnd && res.Steps < cfg.MaxSteps {
		hTry := h
		clipped := false
		if t+hTry >= cfg.TEnd {
			hTry = cfg.TEnd - t
			clipped = true
		}

		y5, errEst := rkf.Attempt(sys, x, p, t, hTry)
		if !y5.IsValid() || math.IsNaN(errEst) {
			fail(res, t, "non-finite state component")
			return
		}

		// Accept when within tolerance, or when the step cannot shrink
		// any further.
		accepted := errEst <= cfg.Tolerance || hTry <= cfg.MinStep
		h = rkf.NextStep(hTry, errEst, cfg.Tolerance, cfg.MinStep, cfg.MaxStep)

		if !accepted {
			res.Rejected++
			continue
		}

		x = y5
		if clipped {
			t = cfg.TEnd
		} else {
			t += hTry
		}
		record(res, t, x)
	}
	finish(res, t, cfg)
}

func record(res *dynamo.Result, t float64, x dynamo.State) {
	res.Steps++
	res.Times = append(res.Times, t)
	res.States = append(res.States, x.Clone())
}

func fail(res *dynamo.Result, t float64, msg string) {
	res.Success = false
	res.Message = dynamo.SimError{Time: t, Step: res.Steps, Message: msg}.Error()
}

func finish(res *dynamo.Result, t float64, cfg dynamo.Config) {
	res.Success = true
	if t < cfg.TEnd {
		res.Message = fmt.Sprintf("step cap of %d reached at t=%.6g before tEnd=%.6g", cfg.MaxSteps, t, cfg.TEnd)
		return
	}
	if res.Rejected > 0 {
		res.Message = fmt.Sprintf("completed: %d steps accepted, %d rejected", res.Steps, res.Rejected)
		return
	}
	res.Message = fmt.Sprintf("completed: %d steps to t=%.6g", res.Steps, t)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
