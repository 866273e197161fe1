package expr

import (
	"math"

	"github.com/san-kum/phaseplot/internal/dynamo"
)

// node is one vertex of the parsed expression tree. Evaluation is a plain
// tree walk with no state outside the call frame.
type node interface {
	eval(t float64, x dynamo.State, p dynamo.Params) float64
}

type numNode float64

func (n numNode) eval(float64, dynamo.State, dynamo.Params) float64 { return float64(n) }

// stateNode binds a variable occurrence to its positional slot in the state
// vector, fixed at parse time.
type stateNode int

func (n stateNode) eval(_ float64, x dynamo.State, _ dynamo.Params) float64 { return x[n] }

// paramNode is a free identifier resolved from the parameter map at
// evaluation time.
type paramNode string

func (n paramNode) eval(_ float64, _ dynamo.State, p dynamo.Params) float64 {
	return p.Lookup(string(n))
}

// timeNode is the reserved identifier t.
type timeNode struct{}

func (timeNode) eval(t float64, _ dynamo.State, _ dynamo.Params) float64 { return t }

type negNode struct{ arg node }

func (n negNode) eval(t float64, x dynamo.State, p dynamo.Params) float64 {
	return -n.arg.eval(t, x, p)
}

type binNode struct {
	op   tokenKind
	l, r node
}

func (n binNode) eval(t float64, x dynamo.State, p dynamo.Params) float64 {
	a := n.l.eval(t, x, p)
	b := n.r.eval(t, x, p)
	switch n.op {
	case tokPlus:
		return a + b
	case tokMinus:
		return a - b
	case tokStar:
		return a * b
	case tokSlash:
		return a / b
	case tokCaret:
		return math.Pow(a, b)
	}
	return math.NaN()
}

type callNode struct {
	fn   builtin
	args []node
}

func (n callNode) eval(t float64, x dynamo.State, p dynamo.Params) float64 {
	vals := make([]float64, len(n.args))
	for i, a := range n.args {
		vals[i] = a.eval(t, x, p)
	}
	return n.fn.apply(vals)
}
