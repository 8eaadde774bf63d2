package taskgraph

import "container/heap"

// shortestPath computes the lowest cumulative-weight path from start to
// goal via Dijkstra. task_graph.rs uses petgraph's A* with a zero
// heuristic, which degenerates to Dijkstra; there is no coordinate-based
// admissible heuristic available over task nodes, and no shortest-path
// library appears anywhere in the example pack's Go dependency surface, so
// this is implemented directly over the adjacency map (see DESIGN.md).
// Callers must hold g.mu.
func (g *Graph) shortestPath(start, goal NodeID) (float64, bool) {
	if start == goal {
		return 0, true
	}
	dist := map[NodeID]float64{start: 0}
	visited := map[NodeID]bool{}
	pq := &nodeHeap{{id: start, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(heapItem)
		if visited[item.id] {
			continue
		}
		visited[item.id] = true
		if item.id == goal {
			return item.dist, true
		}
		for to, e := range g.outEdges[item.id] {
			if visited[to] {
				continue
			}
			nd := item.dist + e.weight
			if d, ok := dist[to]; !ok || nd < d {
				dist[to] = nd
				heap.Push(pq, heapItem{id: to, dist: nd})
			}
		}
	}
	return 0, false
}

type heapItem struct {
	id   NodeID
	dist float64
}

type nodeHeap []heapItem

func (h nodeHeap) Len() int          { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].dist < h[j].dist }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
