package expr

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/phaseplot/internal/dynamo"
)

func mustCompile(t *testing.T, src string, vars []string) dynamo.DerivFunc {
	t.Helper()
	fn, err := Compile(src, vars)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", src, err)
	}
	return fn
}

func TestCompileLinearCombination(t *testing.T) {
	fn := mustCompile(t, "sigma*(y - x)", []string{"x", "y", "z"})

	got := fn(0, dynamo.State{1, 2, 3}, dynamo.Params{"sigma": 10})
	if got != 10 {
		t.Errorf("sigma*(y-x) at [1,2,3], sigma=10 = %v, want 10", got)
	}
}

func TestCompileArithmetic(t *testing.T) {
	vars := []string{"x", "y"}
	state := dynamo.State{2, 3}
	params := dynamo.Params{"a": 4, "b": 0.5}

	cases := []struct {
		src  string
		want float64
	}{
		{"x + y", 5},
		{"x - y", -1},
		{"x*y", 6},
		{"y/x", 1.5},
		{"x^2", 4},
		{"x^-1", 0.5},
		{"2^x^2", 16}, // right-associative: 2^(x^2)
		{"(x + y)^2", 25},
		{"-x^2", -4}, // -(x^2)
		{"a*b", 2},
		{"2*pi", 2 * math.Pi},
		{"e", math.E},
		{"sin(0)", 0},
		{"cos(0)", 1},
		{"exp(x) - exp(2)", 0},
		{"sqrt(x^2)", 2},
		{"abs(-y)", 3},
		{"sign(-y)", -1},
		{"sign(0*x)", 0},
		{"floor(b)", 0},
		{"ceil(b)", 1},
		{"round(b)", 1}, // math.Round rounds half away from zero
		{"pow(x, 3)", 8},
		{"tanh(0)", 0},
		{"log(e)", 1},
		{"1e-3 * a", 0.004},
		{"x*(y - 1) - a", 0},
	}

	for _, tc := range cases {
		fn := mustCompile(t, tc.src, vars)
		got := fn(0, state, params)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("%q = %v, want %v", tc.src, got, tc.want)
		}
	}
}

func TestCompileTimeIdentifier(t *testing.T) {
	fn := mustCompile(t, "cos(omega*t)", []string{"x"})

	got := fn(math.Pi, dynamo.State{0}, dynamo.Params{"omega": 1})
	if math.Abs(got - -1) > 1e-12 {
		t.Errorf("cos(t) at t=pi = %v, want -1", got)
	}
}

func TestCompileVariableShadowsTime(t *testing.T) {
	// A declared variable named t binds to its state slot, not the clock.
	fn := mustCompile(t, "2*t", []string{"t"})

	got := fn(100, dynamo.State{3}, nil)
	if got != 6 {
		t.Errorf("2*t with variable t=3 = %v, want 6", got)
	}
}

func TestCompileWordBoundaries(t *testing.T) {
	// Variable y must not corrupt identifiers that merely contain y.
	fn := mustCompile(t, "gamma*y + ygain", []string{"x", "y"})

	got := fn(0, dynamo.State{0, 2}, dynamo.Params{"gamma": 3, "ygain": 7})
	if got != 13 {
		t.Errorf("gamma*y + ygain = %v, want 13", got)
	}
}

func TestCompileMissingParameterIsNaN(t *testing.T) {
	fn := mustCompile(t, "mu*x", []string{"x"})

	got := fn(0, dynamo.State{1}, dynamo.Params{})
	if !math.IsNaN(got) {
		t.Errorf("missing parameter evaluated to %v, want NaN", got)
	}
}

func TestCompileReferentialTransparency(t *testing.T) {
	fn := mustCompile(t, "sin(x) + mu*x^2", []string{"x"})
	state := dynamo.State{0.7}
	params := dynamo.Params{"mu": 1.3}

	first := fn(0.5, state, params)
	for i := 0; i < 10; i++ {
		if got := fn(0.5, state, params); got != first {
			t.Fatalf("call %d returned %v, first call returned %v", i, got, first)
		}
	}
}

func TestCompileSyntaxErrors(t *testing.T) {
	vars := []string{"x", "y"}
	cases := []struct {
		src  string
		kind ErrorKind
	}{
		{"", ErrEmptyExpression},
		{"   ", ErrEmptyExpression},
		{"x + ", ErrSyntax},
		{"* x", ErrSyntax},
		{"x y", ErrSyntax},
		{"sin", ErrSyntax},
		{"sin()", ErrSyntax},
		{"pow(x)", ErrSyntax},
		{"sin(x, y)", ErrSyntax},
		{"(x", ErrSyntax}, // caught by trial parse in Compile; Validate flags it earlier
		{"x $ y", ErrInvalidCharacter},
	}

	for _, tc := range cases {
		_, err := Compile(tc.src, vars)
		if err == nil {
			t.Errorf("Compile(%q) succeeded, want %s", tc.src, tc.kind)
			continue
		}
		var ce *CompileError
		if !errors.As(err, &ce) {
			t.Errorf("Compile(%q) returned %T, want *CompileError", tc.src, err)
			continue
		}
		if ce.Kind != tc.kind {
			t.Errorf("Compile(%q) kind = %s, want %s", tc.src, ce.Kind, tc.kind)
		}
	}
}

func TestValidate(t *testing.T) {
	vars := []string{"x"}
	cases := []struct {
		src  string
		kind ErrorKind
		ok   bool
	}{
		{src: "mu*(1 - x^2)", ok: true},
		{src: "", kind: ErrEmptyExpression},
		{src: "(x", kind: ErrUnbalancedParentheses},
		{src: "x)", kind: ErrUnbalancedParentheses},
		{src: ")x(", kind: ErrUnbalancedParentheses},
		{src: "x + $", kind: ErrInvalidCharacter},
		{src: "x + ", kind: ErrSyntax},
	}

	for _, tc := range cases {
		err := Validate(tc.src, vars)
		if tc.ok {
			if err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tc.src, err)
			}
			continue
		}
		var ce *CompileError
		if !errors.As(err, &ce) || ce.Kind != tc.kind {
			t.Errorf("Validate(%q) = %v, want kind %s", tc.src, err, tc.kind)
		}
	}
}

func TestCompileSystemCountMismatch(t *testing.T) {
	_, err := CompileSystem([]string{"y"}, []string{"x", "y"})

	var ce *CompileError
	if !errors.As(err, &ce) || ce.Kind != ErrVariableCountMismatch {
		t.Errorf("got %v, want variable count mismatch", err)
	}
}

func TestParameters(t *testing.T) {
	params, err := Parameters([]string{"sigma*(y - x)", "x*(rho - z) - y", "x*y - beta*z"}, []string{"x", "y", "z"})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"beta", "rho", "sigma"}
	if len(params) != len(want) {
		t.Fatalf("Parameters = %v, want %v", params, want)
	}
	for i := range want {
		if params[i] != want[i] {
			t.Fatalf("Parameters = %v, want %v", params, want)
		}
	}
}

func TestParseEquations(t *testing.T) {
	vars, rhs, err := ParseEquations([]string{"dx/dt = y", "dy/dt = -x"})
	if err != nil {
		t.Fatal(err)
	}
	if vars[0] != "x" || vars[1] != "y" {
		t.Errorf("vars = %v, want [x y]", vars)
	}
	if rhs[0] != "y" || rhs[1] != "-x" {
		t.Errorf("rhs = %v", rhs)
	}
}

func TestParseEquationsRejectsBadLHS(t *testing.T) {
	bad := [][]string{
		{"x/dt = y"},
		{"dx = y"},
		{"dx/dt y"},
		{"dx/dt = y", "dx/dt = -x"}, // duplicate variable
		{},
	}
	for _, lines := range bad {
		if _, _, err := ParseEquations(lines); err == nil {
			t.Errorf("ParseEquations(%v) succeeded, want error", lines)
		}
	}
}

func TestCompileDefinition(t *testing.T) {
	def, err := CompileDefinition("osc", "Harmonic oscillator", "",
		[]string{"dx/dt = v", "dv/dt = -k*x"}, dynamo.Params{"k": 4})
	if err != nil {
		t.Fatal(err)
	}

	if def.Dim() != 2 {
		t.Fatalf("Dim() = %d, want 2", def.Dim())
	}
	dx := def.Derive(0, dynamo.State{1, 0}, def.Params())
	if dx[0] != 0 || dx[1] != -4 {
		t.Errorf("Derive = %v, want [0 -4]", dx)
	}
}
