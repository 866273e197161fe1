package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/phaseplot/internal/dynamo"
)

// TimeSeries renders one state component against step index.
func TimeSeries(res *dynamo.Result, component int, name string, height int) string {
	vals := res.Component(component)
	if len(vals) == 0 {
		return Label(fmt.Sprintf("%s: no data", name))
	}
	graph := asciigraph.Plot(vals,
		asciigraph.Height(height),
		asciigraph.Caption(name),
	)
	return graph
}

// AllSeries renders every component stacked vertically.
func AllSeries(res *dynamo.Result, names []string, height int) string {
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteRune('\n')
		}
		b.WriteString(TimeSeries(res, i, name, height))
		b.WriteRune('\n')
	}
	return b.String()
}
