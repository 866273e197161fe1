package expr

import "fmt"

// ErrorKind classifies compilation failures.
type ErrorKind int

const (
	ErrEmptyExpression ErrorKind = iota
	ErrUnbalancedParentheses
	ErrInvalidCharacter
	ErrSyntax
	ErrVariableCountMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case ErrEmptyExpression:
		return "empty expression"
	case ErrUnbalancedParentheses:
		return "unbalanced parentheses"
	case ErrInvalidCharacter:
		return "invalid character"
	case ErrSyntax:
		return "syntax error"
	case ErrVariableCountMismatch:
		return "variable count mismatch"
	default:
		return "unknown error"
	}
}

// CompileError is the single error type raised at compile time. It always
// aborts construction of an equation definition; nothing downstream ever sees
// a half-compiled system.
type CompileError struct {
	Kind   ErrorKind
	Detail string
}

func (e *CompileError) Error() string {
	if e.Detail == "" {
		return "compile: " + e.Kind.String()
	}
	return fmt.Sprintf("compile: %s: %s", e.Kind, e.Detail)
}

func compileErr(kind ErrorKind, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
