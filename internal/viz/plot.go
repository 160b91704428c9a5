// Package viz renders cost evaluations in the terminal.
package viz

import "github.com/guptarohit/asciigraph"

// PlotTrace renders a scalar trace as an ascii graph.
func PlotTrace(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return "(no data)"
	}
	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}
