package integrators

import (
	"testing"

	"github.com/san-kum/phaseplot/internal/dynamo"
)

func BenchmarkEuler(b *testing.B) {
	step := NewEuler()
	x := dynamo.State{1, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = step.Step(oscillator{}, x, nil, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	step := NewRK4()
	x := dynamo.State{1, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = step.Step(oscillator{}, x, nil, 0, 0.01)
	}
}

func BenchmarkRKF45Attempt(b *testing.B) {
	rkf := NewRKF45()
	x := dynamo.State{1, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _ = rkf.Attempt(oscillator{}, x, nil, 0, 0.01)
	}
}

func BenchmarkAdamsBashforth4(b *testing.B) {
	ab := NewAdamsBashforth(4)
	x := dynamo.State{1, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = ab.Step(oscillator{}, x, nil, float64(i)*0.01, 0.01)
	}
}
