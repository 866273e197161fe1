package expr

import "math"

// builtin is a whitelisted math function.
type builtin struct {
	name  string
	arity int
	apply func(args []float64) float64
}

func unary(name string, f func(float64) float64) builtin {
	return builtin{name, 1, func(a []float64) float64 { return f(a[0]) }}
}

var builtins = map[string]builtin{
	"sin":   unary("sin", math.Sin),
	"cos":   unary("cos", math.Cos),
	"tan":   unary("tan", math.Tan),
	"asin":  unary("asin", math.Asin),
	"acos":  unary("acos", math.Acos),
	"atan":  unary("atan", math.Atan),
	"sinh":  unary("sinh", math.Sinh),
	"cosh":  unary("cosh", math.Cosh),
	"tanh":  unary("tanh", math.Tanh),
	"exp":   unary("exp", math.Exp),
	"log":   unary("log", math.Log),
	"log10": unary("log10", math.Log10),
	"sqrt":  unary("sqrt", math.Sqrt),
	"cbrt":  unary("cbrt", math.Cbrt),
	"abs":   unary("abs", math.Abs),
	"sign":  unary("sign", sign),
	"floor": unary("floor", math.Floor),
	"ceil":  unary("ceil", math.Ceil),
	"round": unary("round", math.Round),
	"pow":   {"pow", 2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
