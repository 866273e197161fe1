package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/phaseplot/internal/dynamo"
	"github.com/san-kum/phaseplot/internal/nullcline"
)

// PhasePlot composes a trajectory and nullcline sets in one viewport. Layers
// are drawn on separate canvases and merged per cell so each keeps its color.
type PhasePlot struct {
	width, height          int
	xmin, xmax, ymin, ymax float64
	xi, yi                 int

	traj  *Canvas
	xnull *Canvas
	ynull *Canvas
	axes  *Canvas
}

// NewPhasePlot creates a plot over the given window. xi and yi select which
// state components map onto the horizontal and vertical axes.
func NewPhasePlot(width, height int, xmin, xmax, ymin, ymax float64, xi, yi int) *PhasePlot {
	p := &PhasePlot{
		width: width, height: height,
		xmin: xmin, xmax: xmax, ymin: ymin, ymax: ymax,
		xi: xi, yi: yi,
		traj:  NewCanvas(width, height),
		xnull: NewCanvas(width, height),
		ynull: NewCanvas(width, height),
		axes:  NewCanvas(width, height),
	}
	for _, c := range []*Canvas{p.traj, p.xnull, p.ynull, p.axes} {
		c.SetViewport(xmin, xmax, ymin, ymax)
	}
	p.axes.Axes()
	return p
}

// AddTrajectory plots the selected components of every recorded state,
// connecting consecutive points.
func (p *PhasePlot) AddTrajectory(res *dynamo.Result) {
	if res == nil {
		return
	}
	var px, py float64
	have := false
	for _, s := range res.States {
		if p.xi >= len(s) || p.yi >= len(s) {
			continue
		}
		x, y := s[p.xi], s[p.yi]
		if have {
			p.traj.Line(px, py, x, y)
		} else {
			p.traj.Plot(x, y)
		}
		px, py, have = x, y, true
	}
}

// AddNullclines plots both curve families as scattered points.
func (p *PhasePlot) AddNullclines(set nullcline.Set) {
	for _, pt := range set.XCurve {
		p.xnull.Plot(pt.X, pt.Y)
	}
	for _, pt := range set.YCurve {
		p.ynull.Plot(pt.X, pt.Y)
	}
}

// Render merges the layers into a colored string. Trajectory dots win over
// nullclines, nullclines over axes.
func (p *PhasePlot) Render() string {
	var b strings.Builder
	for row := 0; row < p.height; row++ {
		for col := 0; col < p.width; col++ {
			switch {
			case !p.traj.Empty(row, col):
				b.WriteString(trajStyle.Render(string(p.traj.Rune(row, col))))
			case !p.xnull.Empty(row, col):
				b.WriteString(xNullStyle.Render(string(p.xnull.Rune(row, col))))
			case !p.ynull.Empty(row, col):
				b.WriteString(yNullStyle.Render(string(p.ynull.Rune(row, col))))
			case !p.axes.Empty(row, col):
				b.WriteString(axisStyle.Render(string(p.axes.Rune(row, col))))
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteRune('\n')
	}
	b.WriteString(Label(fmt.Sprintf("x: [%.3g, %.3g]  y: [%.3g, %.3g]", p.xmin, p.xmax, p.ymin, p.ymax)))
	b.WriteRune('\n')
	return b.String()
}
