// Package expr compiles textual right-hand sides of ODEs into evaluable
// derivative functions.
//
// Expressions use infix arithmetic (+ - * /), the ^ power operator,
// parentheses, numeric literals, variable names, parameter names and a fixed
// whitelist of math functions and constants. Compilation is a conventional
// tokenize/parse/bind pipeline: variable occurrences bind to their positional
// state-vector slot at parse time, function and constant names bind to their
// math implementations, and every remaining free identifier becomes an
// implicit parameter resolved from the supplied [dynamo.Params] at evaluation
// time. The identifier t is reserved for the current integration time.
//
// The compiled function is a pure tree walk over the parsed AST: no runtime
// code generation, no hidden state across calls.
package expr
