package flowgraph

import (
	"fmt"
	"strconv"
	"strings"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatRates(rates []Rate) string {
	parts := make([]string, 0, len(rates))
	for _, r := range rates {
		parts = append(parts, fmt.Sprintf("%s=%s", r.Material, formatFloat(r.Rate)))
	}
	return strings.Join(parts, ",")
}

func formatEdge(e Edge) string {
	if e.Double {
		return fmt.Sprintf("left(%s) right(%s)", formatRates(e.Left), formatRates(e.Right))
	}
	return formatRates(e.Single)
}

// GraphvizDot renders the live flow graph, labeling each edge with its
// material/rate vector instead of a plain numeric weight.
func (g *Graph) GraphvizDot() string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var b strings.Builder
	for id, n := range g.nodes {
		fmt.Fprintf(&b, "%d [ label = \"%s at [%s, %s]\" ]\n", id, n.EntityName, formatFloat(n.Position.X), formatFloat(n.Position.Y))
	}
	for from, m := range g.outEdges {
		for to, e := range m {
			fmt.Fprintf(&b, "%d -> %d [ label = \"%s\" ]\n", from, to, formatEdge(e))
		}
	}
	return b.String()
}
