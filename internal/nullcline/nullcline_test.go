package nullcline_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/phaseplot/internal/dynamo"
	"github.com/san-kum/phaseplot/internal/expr"
	"github.com/san-kum/phaseplot/internal/nullcline"
)

var _ = Describe("Compute", func() {
	window := nullcline.Range{Min: -2, Max: 2}

	Context("rotation field dx/dt=y, dy/dt=-x", func() {
		fx := func(t float64, x dynamo.State, p dynamo.Params) float64 { return x[1] }
		fy := func(t float64, x dynamo.State, p dynamo.Params) float64 { return -x[0] }

		It("clusters the first-component curve on y=0 and the second on x=0", func() {
			set := nullcline.Compute(fx, fy, nil, window, window, 50)

			Expect(set.XCurve).NotTo(BeEmpty())
			Expect(set.YCurve).NotTo(BeEmpty())

			for _, pt := range set.XCurve {
				Expect(math.Abs(pt.Y)).To(BeNumerically("<", 1e-2),
					"dx/dt nullcline point off the y=0 axis")
				Expect(math.Abs(fx(0, dynamo.State{pt.X, pt.Y}, nil))).To(BeNumerically("<", 1e-2))
			}
			for _, pt := range set.YCurve {
				Expect(math.Abs(pt.X)).To(BeNumerically("<", 1e-2),
					"dy/dt nullcline point off the x=0 axis")
				Expect(math.Abs(fy(0, dynamo.State{pt.X, pt.Y}, nil))).To(BeNumerically("<", 1e-2))
			}
		})

		It("keeps every emitted point inside the sampling window", func() {
			set := nullcline.Compute(fx, fy, nil, window, window, 25)
			for _, pt := range append(set.XCurve, set.YCurve...) {
				Expect(pt.X).To(BeNumerically(">=", window.Min))
				Expect(pt.X).To(BeNumerically("<=", window.Max))
				Expect(pt.Y).To(BeNumerically(">=", window.Min))
				Expect(pt.Y).To(BeNumerically("<=", window.Max))
			}
		})
	})

	Context("fields with invalid nodes", func() {
		It("skips cells touching non-finite samples without failing", func() {
			fx := func(t float64, x dynamo.State, p dynamo.Params) float64 { return 1 / x[0] }
			fy := func(t float64, x dynamo.State, p dynamo.Params) float64 { return x[1] }

			set := nullcline.Compute(fx, fy, nil, window, window, 40)

			for _, pt := range append(set.XCurve, set.YCurve...) {
				Expect(math.IsNaN(pt.X) || math.IsNaN(pt.Y)).To(BeFalse())
				Expect(math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0)).To(BeFalse())
			}
		})

		It("treats a panicking derivative as an invalid node", func() {
			fx := func(t float64, x dynamo.State, p dynamo.Params) float64 { panic("boom") }
			fy := func(t float64, x dynamo.State, p dynamo.Params) float64 { return x[1] }

			Expect(func() {
				nullcline.Compute(fx, fy, nil, window, window, 10)
			}).NotTo(Panic())

			set := nullcline.Compute(fx, fy, nil, window, window, 10)
			Expect(set.XCurve).To(BeEmpty())
			Expect(set.YCurve).To(BeEmpty())
		})
	})

	Context("degenerate inputs", func() {
		It("returns empty curves for a non-positive resolution", func() {
			fz := func(t float64, x dynamo.State, p dynamo.Params) float64 { return 1 }
			set := nullcline.Compute(fz, fz, nil, window, window, 0)
			Expect(set.XCurve).To(BeEmpty())
			Expect(set.YCurve).To(BeEmpty())
		})

		It("finds nothing for a field with no zeros in the window", func() {
			fpos := func(t float64, x dynamo.State, p dynamo.Params) float64 { return 1 + x[0]*x[0] }
			set := nullcline.Compute(fpos, fpos, nil, window, window, 30)
			Expect(set.XCurve).To(BeEmpty())
			Expect(set.YCurve).To(BeEmpty())
		})
	})
})

var _ = Describe("ForSystem", func() {
	It("extracts both nullclines of a compiled two-variable system", func() {
		def, err := expr.CompileDefinition("osc", "oscillator", "",
			[]string{"dx/dt = y", "dy/dt = -x"}, nil)
		Expect(err).NotTo(HaveOccurred())

		set := nullcline.ForSystem(def, nil, nullcline.Range{Min: -2, Max: 2}, nullcline.Range{Min: -2, Max: 2}, 50)
		Expect(set.XCurve).NotTo(BeEmpty())
		Expect(set.YCurve).NotTo(BeEmpty())
	})

	It("returns empty curves for systems that are not two-dimensional", func() {
		def, err := expr.CompileDefinition("lorenz", "Lorenz", "", []string{
			"dx/dt = sigma*(y - x)",
			"dy/dt = x*(rho - z) - y",
			"dz/dt = x*y - beta*z",
		}, dynamo.Params{"sigma": 10, "rho": 28, "beta": 8.0 / 3.0})
		Expect(err).NotTo(HaveOccurred())

		set := nullcline.ForSystem(def, def.Params(),
			nullcline.Range{Min: -2, Max: 2}, nullcline.Range{Min: -2, Max: 2}, 20)
		Expect(set.XCurve).To(BeEmpty())
		Expect(set.YCurve).To(BeEmpty())
	})
})
