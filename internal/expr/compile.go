package expr

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/phaseplot/internal/dynamo"
)

// timeName is the reserved evaluation-context identifier: it reads the
// current integration time and is never treated as a parameter. A declared
// variable of the same name shadows it.
const timeName = "t"

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// Compile turns one right-hand-side expression into a derivative function.
// Variable occurrences bind to their position in vars; free identifiers
// become parameters looked up at evaluation time.
func Compile(expression string, vars []string) (dynamo.DerivFunc, error) {
	root, _, err := parse(expression, vars)
	if err != nil {
		return nil, err
	}
	return func(t float64, x dynamo.State, p dynamo.Params) float64 {
		return root.eval(t, x, p)
	}, nil
}

// CompileSystem compiles one expression per declared variable. The number of
// expressions must equal the number of variables.
func CompileSystem(expressions []string, vars []string) ([]dynamo.DerivFunc, error) {
	if len(expressions) != len(vars) {
		return nil, compileErr(ErrVariableCountMismatch, "%d expressions for %d variables",
			len(expressions), len(vars))
	}
	fns := make([]dynamo.DerivFunc, len(expressions))
	for i, e := range expressions {
		fn, err := Compile(e, vars)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	return fns, nil
}

// Parameters reports the free identifiers of the expressions, sorted: every
// identifier that is not a declared variable, not a math function or
// constant, and not the reserved time name.
func Parameters(expressions []string, vars []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, e := range expressions {
		_, params, err := parse(e, vars)
		if err != nil {
			return nil, err
		}
		for name := range params {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Validate checks an expression without evaluating it numerically: empty
// input, parenthesis balance, permitted alphabet, then a syntax-only trial
// parse.
func Validate(expression string, vars []string) error {
	if strings.TrimSpace(expression) == "" {
		return &CompileError{Kind: ErrEmptyExpression}
	}
	depth := 0
	for _, r := range expression {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return &CompileError{Kind: ErrUnbalancedParentheses}
			}
		}
	}
	if depth != 0 {
		return &CompileError{Kind: ErrUnbalancedParentheses}
	}
	for i, r := range expression {
		if !permitted(r) {
			return compileErr(ErrInvalidCharacter, "%q at position %d", string(r), i)
		}
	}
	_, _, err := parse(expression, vars)
	return err
}

// permitted is the validation alphabet: letters, digits, underscore,
// arithmetic operators, parentheses, comma, whitespace, the power operator
// and the decimal point.
func permitted(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("_+-*/(),^. \t\n\r", r)
}

func parse(expression string, vars []string) (node, map[string]struct{}, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, nil, &CompileError{Kind: ErrEmptyExpression}
	}
	toks, err := tokenize(expression)
	if err != nil {
		return nil, nil, err
	}
	p := newParser(toks, vars)
	root, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if tail := p.peek(); tail.kind != tokEOF {
		return nil, nil, compileErr(ErrSyntax, "unexpected %s at position %d", tail, tail.pos)
	}
	return root, p.params, nil
}

var equationLHS = regexp.MustCompile(`^\s*d\s*([A-Za-z_][A-Za-z0-9_]*)\s*/\s*dt\s*=\s*(.+)$`)

// ParseEquations splits a batch of equations written as "dX/dt = rhs" into
// the variable set (in encounter order) and the right-hand sides. Each line
// must declare exactly one variable; duplicates are rejected.
func ParseEquations(lines []string) (vars []string, rhs []string, err error) {
	seen := make(map[string]struct{})
	for _, line := range lines {
		m := equationLHS.FindStringSubmatch(line)
		if m == nil {
			return nil, nil, compileErr(ErrSyntax, "equation %q does not match d<variable>/dt = <expression>", strings.TrimSpace(line))
		}
		name := m[1]
		if _, dup := seen[name]; dup {
			return nil, nil, compileErr(ErrSyntax, "variable %q declared twice", name)
		}
		seen[name] = struct{}{}
		vars = append(vars, name)
		rhs = append(rhs, strings.TrimSpace(m[2]))
	}
	if len(vars) == 0 {
		return nil, nil, &CompileError{Kind: ErrEmptyExpression}
	}
	return vars, rhs, nil
}

// CompileDefinition compiles a batch of "dX/dt = rhs" equations into an
// immutable equation definition carrying the given display metadata and
// default parameter values.
func CompileDefinition(id, name, description string, equations []string, params dynamo.Params) (*dynamo.EquationDefinition, error) {
	vars, rhs, err := ParseEquations(equations)
	if err != nil {
		return nil, err
	}
	fns, err := CompileSystem(rhs, vars)
	if err != nil {
		return nil, err
	}
	return dynamo.NewEquationDefinition(id, name, description, vars, params, rhs, fns)
}
