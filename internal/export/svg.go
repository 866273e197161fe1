// Package export writes phase portraits and trajectories to SVG files.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/phaseplot/internal/dynamo"
	"github.com/san-kum/phaseplot/internal/nullcline"
)

// Colors used by the SVG renderers.
const (
	backgroundFill = "#0a0a0a"
	trajStroke     = "#00d7d7"
	xNullFill      = "#d700d7"
	yNullFill      = "#d7d700"
	axisStroke     = "#444444"
)

// PhaseOptions describe an SVG phase portrait: pixel size, world window and
// which state components map to the axes.
type PhaseOptions struct {
	Width, Height          int
	XMin, XMax, YMin, YMax float64
	XIndex, YIndex         int
}

type mapper struct {
	opt PhaseOptions
}

func (m mapper) px(x float64) float64 {
	return (x - m.opt.XMin) / (m.opt.XMax - m.opt.XMin) * float64(m.opt.Width)
}

func (m mapper) py(y float64) float64 {
	// SVG y grows downward.
	return float64(m.opt.Height) - (y-m.opt.YMin)/(m.opt.YMax-m.opt.YMin)*float64(m.opt.Height)
}

func (m mapper) inside(x, y float64) bool {
	return x >= m.opt.XMin && x <= m.opt.XMax && y >= m.opt.YMin && y <= m.opt.YMax
}

// PhaseSVG renders a trajectory with nullcline overlays into one SVG
// document. Either layer may be empty.
func PhaseSVG(res *dynamo.Result, set nullcline.Set, opt PhaseOptions) string {
	if opt.Width <= 0 || opt.Height <= 0 || opt.XMax <= opt.XMin || opt.YMax <= opt.YMin {
		return ""
	}
	m := mapper{opt: opt}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opt.Width, opt.Height, opt.Width, opt.Height, backgroundFill))

	writeAxes(&sb, m)
	writeNullcline(&sb, m, set.XCurve, xNullFill)
	writeNullcline(&sb, m, set.YCurve, yNullFill)
	writeTrajectory(&sb, m, res)

	sb.WriteString("</svg>")
	return sb.String()
}

func writeAxes(sb *strings.Builder, m mapper) {
	if m.opt.XMin <= 0 && m.opt.XMax >= 0 {
		x := m.px(0)
		fmt.Fprintf(sb, `<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="%s"/>
`, x, x, m.opt.Height, axisStroke)
	}
	if m.opt.YMin <= 0 && m.opt.YMax >= 0 {
		y := m.py(0)
		fmt.Fprintf(sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s"/>
`, y, m.opt.Width, y, axisStroke)
	}
}

func writeNullcline(sb *strings.Builder, m mapper, pts []nullcline.Point, fill string) {
	if len(pts) == 0 {
		return
	}
	fmt.Fprintf(sb, `<g fill="%s">
`, fill)
	for _, p := range pts {
		if !m.inside(p.X, p.Y) {
			continue
		}
		fmt.Fprintf(sb, `<circle cx="%.1f" cy="%.1f" r="1.2"/>
`, m.px(p.X), m.py(p.Y))
	}
	sb.WriteString("</g>\n")
}

func writeTrajectory(sb *strings.Builder, m mapper, res *dynamo.Result) {
	if res == nil || len(res.States) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, trajStroke)
	first := true
	for _, s := range res.States {
		if m.opt.XIndex >= len(s) || m.opt.YIndex >= len(s) {
			continue
		}
		x := m.px(s[m.opt.XIndex])
		y := m.py(s[m.opt.YIndex])
		if first {
			fmt.Fprintf(sb, "M%.1f,%.1f", x, y)
			first = false
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

// TimeSeriesSVG renders one state component against time as a polyline,
// auto-scaled with 10% padding like the phase renderer's fixed window.
func TimeSeriesSVG(res *dynamo.Result, component, width, height int) string {
	if res == nil || len(res.Times) < 2 {
		return ""
	}
	vals := res.Component(component)
	if len(vals) != len(res.Times) {
		return ""
	}

	minV, maxV := vals[0], vals[0]
	for _, v := range vals {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}
	minV -= span * 0.1
	maxV += span * 0.1
	span = maxV - minV

	t0 := res.Times[0]
	tspan := res.Times[len(res.Times)-1] - t0
	if tspan == 0 {
		tspan = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, backgroundFill, trajStroke)
	for i, v := range vals {
		x := (res.Times[i] - t0) / tspan * float64(width)
		y := float64(height) - (v-minV)/span*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}

// WriteFile writes an SVG document to disk.
func WriteFile(path, svg string) error {
	if svg == "" {
		return fmt.Errorf("export: empty document")
	}
	return os.WriteFile(path, []byte(svg), 0o644)
}
