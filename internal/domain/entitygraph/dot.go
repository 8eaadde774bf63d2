package entitygraph

import (
	"fmt"
	"strconv"
	"strings"
)

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}

// GraphvizDot renders the live (uncondensed) graph in the dot format pinned
// by spec.md §8 Scenario A: nodes renumbered 0..N-1 in ascending original
// NodeID order, edges sorted by (from, to).
func (g *Graph) GraphvizDot() string {
	g.graphMu.RLock()
	defer g.graphMu.RUnlock()

	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sortNodeIDs(ids)

	renumber := make(map[NodeID]int, len(ids))
	for i, id := range ids {
		renumber[id] = i
	}

	var b strings.Builder
	for i, id := range ids {
		n := g.nodes[id]
		fmt.Fprintf(&b, "%d [ label = \"%s at [%s, %s]\" ]\n", i, n.EntityName, formatFloat(n.Position.X), formatFloat(n.Position.Y))
	}

	var edges []renderedEdge
	for from, m := range g.outEdges {
		for to, e := range m {
			edges = append(edges, renderedEdge{from: renumber[from], to: renumber[to], weight: e.weight})
		}
	}
	sortEdges(edges)
	for _, e := range edges {
		fmt.Fprintf(&b, "%d -> %d [ label = \"%s\" ]\n", e.from, e.to, formatFloat(e.weight))
	}

	return b.String()
}

type renderedEdge = struct {
	from, to int
	weight   float64
}

func sortEdges(edges []renderedEdge) {
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0; j-- {
			if edges[j-1].from > edges[j].from || (edges[j-1].from == edges[j].from && edges[j-1].to > edges[j].to) {
				edges[j-1], edges[j] = edges[j], edges[j-1]
			} else {
				break
			}
		}
	}
}

// GraphvizDot renders a Condense() result in the same format.
func (c *Condensed) GraphvizDot() string {
	ids := make([]NodeID, 0, len(c.Nodes))
	for id := range c.Nodes {
		ids = append(ids, id)
	}
	sortNodeIDs(ids)

	renumber := make(map[NodeID]int, len(ids))
	for i, id := range ids {
		renumber[id] = i
	}

	var b strings.Builder
	for i, id := range ids {
		n := c.Nodes[id]
		fmt.Fprintf(&b, "%d [ label = \"%s at [%s, %s]\" ]\n", i, n.EntityName, formatFloat(n.Position.X), formatFloat(n.Position.Y))
	}

	edges := make([]renderedEdge, 0, len(c.Edges))
	for _, e := range c.Edges {
		edges = append(edges, renderedEdge{from: renumber[e.From], to: renumber[e.To], weight: e.Weight})
	}
	sortEdges(edges)
	for _, e := range edges {
		fmt.Fprintf(&b, "%d -> %d [ label = \"%s\" ]\n", e.from, e.to, formatFloat(e.weight))
	}

	return b.String()
}
