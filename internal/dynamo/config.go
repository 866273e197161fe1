package dynamo

// Method selects the stepping algorithm.
type Method string

const (
	MethodEuler Method = "euler"
	MethodRK4   Method = "rk4"
	MethodRKF45 Method = "rkf45"
	MethodAdams Method = "adams-bashforth"
)

// Solver defaults. MaxSteps is the only value the engine invents on its own;
// the adaptive fields default here so config files can omit them.
const (
	DefaultMaxSteps   = 100000
	DefaultTolerance  = 1e-6
	DefaultMinStep    = 1e-10
	DefaultMaxStep    = 1.0
	DefaultAdamsOrder = 4
)

// Config controls one integration run.
type Config struct {
	Method   Method
	Dt       float64 // fixed step, or the initial step for rkf45
	TEnd     float64
	MaxSteps int

	// Adaptive-only (rkf45).
	Tolerance float64
	MinStep   float64
	MaxStep   float64

	// Multistep-only (adams-bashforth): 2, 3 or 4.
	AdamsOrder int
}

func DefaultConfig() Config {
	return Config{
		Method:     MethodRK4,
		Dt:         0.01,
		TEnd:       10.0,
		MaxSteps:   DefaultMaxSteps,
		Tolerance:  DefaultTolerance,
		MinStep:    DefaultMinStep,
		MaxStep:    DefaultMaxStep,
		AdamsOrder: DefaultAdamsOrder,
	}
}

// Result is a finished trajectory. Times and States are parallel arrays in
// strictly increasing time order; every recorded State is a snapshot copy.
type Result struct {
	Times    []float64
	States   []State
	Success  bool
	Message  string
	Steps    int // accepted steps
	Rejected int // rkf45 diagnostics only; does not affect Success
}

// Final returns the last recorded (time, state) pair.
func (r *Result) Final() (float64, State) {
	n := len(r.Times)
	if n == 0 {
		return 0, nil
	}
	return r.Times[n-1], r.States[n-1]
}

// Component extracts one variable's values across the whole trajectory.
func (r *Result) Component(i int) []float64 {
	out := make([]float64, len(r.States))
	for k, s := range r.States {
		out[k] = s[i]
	}
	return out
}
