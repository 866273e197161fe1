// Package dynamo provides the core primitives for user-defined ODE systems.
//
// The package defines the shared vocabulary the rest of phaseplot builds on:
//
//   - [State]: state vector at one instant
//   - [Params]: named parameter values resolved at evaluation time
//   - [DerivFunc]: compiled right-hand side of one equation
//   - [EquationDefinition]: an immutable compiled system dX/dt = f(t, X; p)
//   - [Config]: solver selection and step control
//   - [Result]: a finished trajectory with success/failure semantics
//
// # Result Semantics
//
// Numerical failure during integration is data, not a returned error: a run
// that diverges produces a Result with Success=false carrying every point
// accepted before the divergent one. Callers can always render or export
// whatever prefix was validly computed.
//
// # Thread Safety
//
// EquationDefinition is immutable after construction and safe for concurrent
// readers. Everything else is plain value data owned by a single call.
package dynamo
