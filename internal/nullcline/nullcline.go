// Package nullcline locates zero-crossings of a derivative field on a
// sampled grid: the curves in the phase plane where one component of dX/dt
// vanishes.
//
// The extractor samples both derivative components on a (resolution+1)²
// grid, then walks every cell with a marching-squares pass, emitting a
// linearly interpolated crossing point for each cell edge whose endpoint
// values change sign. Output curves are unordered point sets; connecting
// them into polylines is a presentation concern.
//
// Known limitation: saddle-type ambiguous cells (diagonal sign patterns) are
// not disambiguated, so a consumer drawing connected segments can see locally
// spurious connectivity.
package nullcline

import (
	"math"

	"github.com/san-kum/phaseplot/internal/dynamo"
)

// Point is a location in the phase plane.
type Point struct {
	X, Y float64
}

// Range is a closed interval of one phase-plane axis.
type Range struct {
	Min, Max float64
}

func (r Range) span() float64 { return r.Max - r.Min }

// at maps grid index i of n subdivisions into the interval.
func (r Range) at(i, n int) float64 {
	return r.Min + r.span()*float64(i)/float64(n)
}

// Set holds one unordered point cloud per derivative component.
type Set struct {
	XCurve []Point // dx/dt = 0
	YCurve []Point // dy/dt = 0
}

// grid is the ephemeral scalar-field sampling for one extraction call.
type grid struct {
	res    int
	fx, fy [][]float64
	valid  [][]bool
}

// ForSystem extracts both nullclines of a two-variable system. Systems of any
// other dimension return empty curves; nullcline extraction is a phase-plane
// concept.
func ForSystem(def *dynamo.EquationDefinition, p dynamo.Params, xr, yr Range, resolution int) Set {
	if def.Dim() != 2 {
		return Set{}
	}
	return Compute(def.Derivative(0), def.Derivative(1), p, xr, yr, resolution)
}

// Compute samples fx and fy over the window and returns the zero-level point
// sets of both. Grid nodes where either component evaluates non-finite (or
// panics) are excluded from every cell they touch.
func Compute(fx, fy dynamo.DerivFunc, p dynamo.Params, xr, yr Range, resolution int) Set {
	if resolution < 1 {
		return Set{}
	}

	g := sample(fx, fy, p, xr, yr, resolution)

	var set Set
	for cy := 0; cy < resolution; cy++ {
		for cx := 0; cx < resolution; cx++ {
			if !g.cellValid(cx, cy) {
				continue
			}
			set.XCurve = g.marchCell(g.fx, cx, cy, xr, yr, set.XCurve)
			set.YCurve = g.marchCell(g.fy, cx, cy, xr, yr, set.YCurve)
		}
	}
	return set
}

func sample(fx, fy dynamo.DerivFunc, p dynamo.Params, xr, yr Range, resolution int) *grid {
	g := &grid{
		res:   resolution,
		fx:    make([][]float64, resolution+1),
		fy:    make([][]float64, resolution+1),
		valid: make([][]bool, resolution+1),
	}
	for j := 0; j <= resolution; j++ {
		g.fx[j] = make([]float64, resolution+1)
		g.fy[j] = make([]float64, resolution+1)
		g.valid[j] = make([]bool, resolution+1)
		y := yr.at(j, resolution)
		for i := 0; i <= resolution; i++ {
			x := xr.at(i, resolution)
			state := dynamo.State{x, y}
			vx := safeEval(fx, state, p)
			vy := safeEval(fy, state, p)
			finite := !math.IsNaN(vx) && !math.IsInf(vx, 0) && !math.IsNaN(vy) && !math.IsInf(vy, 0)
			g.fx[j][i] = vx
			g.fy[j][i] = vy
			g.valid[j][i] = finite
		}
	}
	return g
}

// safeEval evaluates one derivative component at t=0, converting a panic
// into NaN so a bad node invalidates its cells instead of aborting the whole
// extraction.
func safeEval(fn dynamo.DerivFunc, x dynamo.State, p dynamo.Params) (v float64) {
	defer func() {
		if recover() != nil {
			v = math.NaN()
		}
	}()
	return fn(0, x, p)
}

func (g *grid) cellValid(cx, cy int) bool {
	return g.valid[cy][cx] && g.valid[cy][cx+1] && g.valid[cy+1][cx] && g.valid[cy+1][cx+1]
}

// marchCell checks the four edges of one cell for sign changes of the given
// field and appends the interpolated crossings.
func (g *grid) marchCell(f [][]float64, cx, cy int, xr, yr Range, out []Point) []Point {
	x0 := xr.at(cx, g.res)
	x1 := xr.at(cx+1, g.res)
	y0 := yr.at(cy, g.res)
	y1 := yr.at(cy+1, g.res)

	f00 := f[cy][cx]
	f10 := f[cy][cx+1]
	f01 := f[cy+1][cx]
	f11 := f[cy+1][cx+1]

	// Bottom, top, left, right.
	if crosses(f00, f10) {
		out = append(out, Point{interp(x0, x1, f00, f10), y0})
	}
	if crosses(f01, f11) {
		out = append(out, Point{interp(x0, x1, f01, f11), y1})
	}
	if crosses(f00, f01) {
		out = append(out, Point{x0, interp(y0, y1, f00, f01)})
	}
	if crosses(f10, f11) {
		out = append(out, Point{x1, interp(y0, y1, f10, f11)})
	}
	return out
}

// crosses reports a sign change between two edge endpoints. An exact zero at
// either endpoint counts: the curve passes through the grid node.
func crosses(f1, f2 float64) bool {
	return f1*f2 <= 0
}

// interp locates the zero along one edge: c1 - f1*(c2-c1)/(f2-f1), or the
// midpoint when the endpoint values are equal.
func interp(c1, c2, f1, f2 float64) float64 {
	if f1 == f2 {
		return (c1 + c2) / 2
	}
	return c1 - f1*(c2-c1)/(f2-f1)
}
