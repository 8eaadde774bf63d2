package taskgraph

import (
	"fmt"
	"strings"
)

// GraphvizDot renders the plan as a Graphviz digraph, matching
// task_graph.rs's graphviz_dot/format_dotgraph output shape (nodes labeled
// by name, edges labeled by weight) for operators inspecting a plan before
// it runs.
func (g *Graph) GraphvizDot() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.WriteString("digraph {\n")
	for _, id := range g.order {
		fmt.Fprintf(&b, "    %d [ label = %q ]\n", id, g.nodes[id].Name)
	}
	for _, from := range g.order {
		for _, to := range g.edgeOrder[from] {
			e := g.outEdges[from][to]
			fmt.Fprintf(&b, "    %d -> %d [ label = %q ]\n", from, to, formatWeight(e.weight))
		}
	}
	b.WriteString("}\n")
	return b.String()
}
