// Package integrators implements the stepping algorithms behind the
// integration engine:
//
//   - [Euler]: fixed-step, order 1
//   - [RK4]: classical fixed-step Runge-Kutta, order 4
//   - [RKF45]: adaptive Runge-Kutta-Fehlberg embedded 4(5) pair
//   - [AdamsBashforth]: explicit multistep, order 2-4, RK4 startup
//
// Euler, RK4 and AdamsBashforth implement [dynamo.Stepper]. RKF45 exposes a
// single-attempt API instead; the engine in package sim owns the
// accept/reject loop and step-size control.
package integrators
