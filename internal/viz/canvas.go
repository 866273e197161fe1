// Package viz renders trajectories and nullclines for the terminal: a
// Braille-dot canvas for phase portraits and asciigraph time series.
package viz

import "strings"

// Braille patterns map 2x4 sub-pixels onto one rune starting at 0x2800.
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a Braille-dot drawing surface addressed in world coordinates.
// Each character cell holds 2x4 sub-pixels.
type Canvas struct {
	Width, Height          int
	grid                   [][]rune
	xmin, xmax, ymin, ymax float64
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		Width:  width,
		Height: height,
		grid:   make([][]rune, height),
		xmin:   -1, xmax: 1, ymin: -1, ymax: 1,
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, width)
		for j := range c.grid[i] {
			c.grid[i][j] = brailleBase
		}
	}
	return c
}

// SetViewport maps the world rectangle onto the full canvas. Degenerate
// ranges are widened so later plotting never divides by zero.
func (c *Canvas) SetViewport(xmin, xmax, ymin, ymax float64) {
	if xmax == xmin {
		xmax = xmin + 1
	}
	if ymax == ymin {
		ymax = ymin + 1
	}
	c.xmin, c.xmax, c.ymin, c.ymax = xmin, xmax, ymin, ymax
}

func (c *Canvas) subpixel(x, y float64) (int, int, bool) {
	if x < c.xmin || x > c.xmax || y < c.ymin || y > c.ymax {
		return 0, 0, false
	}
	px := int((x - c.xmin) / (c.xmax - c.xmin) * float64(c.Width*2-1))
	// World y grows upward, canvas rows grow downward.
	py := int((c.ymax - y) / (c.ymax - c.ymin) * float64(c.Height*4-1))
	return px, py, true
}

// Plot sets the dot nearest to the world point; points outside the viewport
// are dropped.
func (c *Canvas) Plot(x, y float64) {
	px, py, ok := c.subpixel(x, y)
	if !ok {
		return
	}
	c.set(px, py)
}

func (c *Canvas) set(px, py int) {
	if px < 0 || py < 0 {
		return
	}
	col := px / 2
	row := py / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= pixelMap[py%4][px%2]
}

// Line draws a world-coordinate segment with Bresenham over sub-pixels.
func (c *Canvas) Line(x0, y0, x1, y1 float64) {
	p0x, p0y, ok0 := c.subpixel(x0, y0)
	p1x, p1y, ok1 := c.subpixel(x1, y1)
	if !ok0 || !ok1 {
		return
	}

	dx := absInt(p1x - p0x)
	dy := absInt(p1y - p0y)
	sx, sy := 1, 1
	if p0x > p1x {
		sx = -1
	}
	if p0y > p1y {
		sy = -1
	}
	err := dx - dy
	for {
		c.set(p0x, p0y)
		if p0x == p1x && p0y == p1y {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			p0x += sx
		}
		if e2 < dx {
			err += dx
			p0y += sy
		}
	}
}

// Axes draws the coordinate axes where they cross the viewport.
func (c *Canvas) Axes() {
	if c.xmin <= 0 && c.xmax >= 0 {
		c.Line(0, c.ymin, 0, c.ymax)
	}
	if c.ymin <= 0 && c.ymax >= 0 {
		c.Line(c.xmin, 0, c.xmax, 0)
	}
}

// Rune returns the raw cell content; empty cells hold the bare Braille base.
func (c *Canvas) Rune(row, col int) rune { return c.grid[row][col] }

// Empty reports whether no dot is set in the cell.
func (c *Canvas) Empty(row, col int) bool { return c.grid[row][col] == brailleBase }

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row))
		b.WriteRune('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
