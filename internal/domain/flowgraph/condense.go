package flowgraph

import "github.com/andrescamacho/factoriobot/internal/domain/entitygraph"

// CondensedEdge is one edge of a condensed flow graph; Edges holds every
// FlowEdge concatenated along the collapsed chain, in traversal order.
type CondensedEdge struct {
	From, To entitygraph.NodeID
	Edges    []Edge
}

// Condensed is a BFS-collapsed copy of the flow graph: linear same-name
// chains are reduced to a single edge carrying the concatenated FlowEdge
// sequence, mirroring EntityGraph's Condense in spirit.
type Condensed struct {
	Nodes map[entitygraph.NodeID]*Node
	Edges []CondensedEdge
}

// Condense collapses runs of same-entity_name nodes with in-degree ==
// out-degree == 1 into a single edge whose Edges slice concatenates every
// collapsed FlowEdge, preserving lane/rate history along the chain.
func (g *Graph) Condense() *Condensed {
	g.mu.RLock()
	nodes := make(map[entitygraph.NodeID]*Node, len(g.nodes))
	for id, n := range g.nodes {
		cp := *n
		nodes[id] = &cp
	}
	out := make(map[entitygraph.NodeID]map[entitygraph.NodeID][]Edge)
	in := make(map[entitygraph.NodeID]map[entitygraph.NodeID][]Edge)
	for from, m := range g.outEdges {
		for to, e := range m {
			if out[from] == nil {
				out[from] = make(map[entitygraph.NodeID][]Edge)
			}
			out[from][to] = []Edge{e}
			if in[to] == nil {
				in[to] = make(map[entitygraph.NodeID][]Edge)
			}
			in[to][from] = []Edge{e}
		}
	}
	g.mu.RUnlock()

	var roots []entitygraph.NodeID
	for id := range nodes {
		if len(in[id]) == 0 {
			roots = append(roots, id)
		}
	}

	visited := make(map[entitygraph.NodeID]bool)
	for _, root := range roots {
		collapseChain(root, nodes, out, in, visited)
	}

	result := &Condensed{Nodes: nodes}
	for from, m := range out {
		for to, edges := range m {
			result.Edges = append(result.Edges, CondensedEdge{From: from, To: to, Edges: edges})
		}
	}
	return result
}

func collapseChain(
	start entitygraph.NodeID,
	nodes map[entitygraph.NodeID]*Node,
	out, in map[entitygraph.NodeID]map[entitygraph.NodeID][]Edge,
	visited map[entitygraph.NodeID]bool,
) {
	queue := []entitygraph.NodeID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		node, ok := nodes[id]
		if !ok {
			continue
		}

		for to := range out[id] {
			if !visited[to] {
				queue = append(queue, to)
			}
		}

		if len(in[id]) == 1 && len(out[id]) == 1 {
			var pred, succ entitygraph.NodeID
			var predEdges, succEdges []Edge
			for p, e := range in[id] {
				pred, predEdges = p, e
			}
			for s, e := range out[id] {
				succ, succEdges = s, e
			}
			predNode, predOK := nodes[pred]
			succNode, succOK := nodes[succ]
			if predOK && succOK && predNode.EntityName == node.EntityName && succNode.EntityName == node.EntityName {
				delete(out[pred], id)
				delete(in[succ], id)
				delete(nodes, id)
				delete(out, id)
				delete(in, id)
				merged := append(append([]Edge(nil), predEdges...), succEdges...)
				if out[pred] == nil {
					out[pred] = make(map[entitygraph.NodeID][]Edge)
				}
				out[pred][succ] = merged
				if in[succ] == nil {
					in[succ] = make(map[entitygraph.NodeID][]Edge)
				}
				in[succ][pred] = merged
			}
		}
	}
}
