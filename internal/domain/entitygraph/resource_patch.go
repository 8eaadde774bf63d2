package entitygraph

import (
	"sort"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
)

// ResourcePatch is a 4-connected (here: orthogonal + diagonal, per spec.md
// §4.3) component of same-named resource positions.
type ResourcePatch struct {
	Name        string
	ID          int
	BoundingBox spatial.Rect
	Positions   []spatial.Pos
}

var neighborOffsets = []spatial.Pos{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// ResourcePatches groups every known position of the named resource into
// connected-component patches, sorted by descending element count.
func (g *Graph) ResourcePatches(name string) []*ResourcePatch {
	g.resourcesMu.RLock()
	positions := append([]spatial.Pos(nil), g.resources[name]...)
	g.resourcesMu.RUnlock()

	set := make(map[spatial.Pos]bool, len(positions))
	for _, p := range positions {
		set[p] = true
	}

	visited := make(map[spatial.Pos]bool, len(positions))
	var patches []*ResourcePatch
	nextID := 0

	for _, start := range positions {
		if visited[start] {
			continue
		}
		nextID++
		queue := []spatial.Pos{start}
		visited[start] = true
		var members []spatial.Pos
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			members = append(members, p)
			for _, off := range neighborOffsets {
				n := spatial.Pos{X: p.X + off.X, Y: p.Y + off.Y}
				if set[n] && !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		patches = append(patches, &ResourcePatch{Name: name, ID: nextID, Positions: members, BoundingBox: boundingBoxOf(members)})
	}

	sort.SliceStable(patches, func(i, j int) bool {
		return len(patches[i].Positions) > len(patches[j].Positions)
	})
	return patches
}

func boundingBoxOf(positions []spatial.Pos) spatial.Rect {
	if len(positions) == 0 {
		return spatial.Rect{}
	}
	minX, minY := positions[0].X, positions[0].Y
	maxX, maxY := positions[0].X, positions[0].Y
	for _, p := range positions[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return spatial.NewRect(
		spatial.Pos{X: minX, Y: minY}.Position(),
		spatial.Pos{X: maxX + 1, Y: maxY + 1}.Position(),
	)
}

func manhattan(a, b spatial.Pos) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// FindFreeRect sorts the patch's positions by Manhattan distance from near,
// and returns the top-left corner of the first w×h integer block fully
// contained in the patch, if any.
func (p *ResourcePatch) FindFreeRect(w, h int, near spatial.Pos) (spatial.Pos, bool) {
	set := make(map[spatial.Pos]bool, len(p.Positions))
	for _, pos := range p.Positions {
		set[pos] = true
	}

	candidates := append([]spatial.Pos(nil), p.Positions...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return manhattan(candidates[i], near) < manhattan(candidates[j], near)
	})

	for _, c := range candidates {
		fits := true
		for dx := 0; dx < w && fits; dx++ {
			for dy := 0; dy < h && fits; dy++ {
				if !set[(spatial.Pos{X: c.X + dx, Y: c.Y + dy})] {
					fits = false
				}
			}
		}
		if fits {
			return c, true
		}
	}
	return spatial.Pos{}, false
}
