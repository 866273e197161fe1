package dynamo

import "fmt"

// UnsupportedMethodError is returned when a config names a method outside the
// four supported steppers.
type UnsupportedMethodError struct {
	Method Method
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("dynamo: unsupported method %q (want euler, rk4, rkf45 or adams-bashforth)", string(e.Method))
}

// SimError records where inside a run a numerical problem occurred. It is
// embedded in Result messages rather than returned, so partial trajectories
// stay usable.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %s", e.Step, e.Time, e.Message)
}
