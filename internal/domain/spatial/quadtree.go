package spatial

import "sort"

// Handle is an opaque, stable identifier assigned to an inserted item. Do
// not use a Handle on an Index other than the one that produced it.
type Handle uint32

// Config fixes a quad-tree's shape at construction time, mirroring the four
// construction profiles named in spec.md §4.1 (entity / blocked / tile /
// resource trees).
type Config struct {
	AllowDuplicates bool
	MinChildren     int
	MaxChildren     int
	MaxDepth        int
}

type entry[T any] struct {
	handle  Handle
	bbox    Rect
	payload T
}

// Index is a generic loose quad-tree mapping axis-aligned bounding boxes to
// opaque payloads.
type Index[T any] struct {
	root       *node[T]
	config     Config
	nextHandle Handle
	elements   map[Handle]entry[T]
}

type node[T any] struct {
	bbox     Rect
	depth    int
	isBranch bool

	// leaf
	leafElements []entry[T]

	// branch
	inAll        []entry[T]
	children     [4]*node[T]
	elementCount int
}

// NewIndex constructs a quad-tree covering bbox with the given construction
// parameters.
func NewIndex[T any](bbox Rect, config Config) *Index[T] {
	return &Index[T]{
		root:     &node[T]{bbox: bbox, depth: 0},
		config:   config,
		elements: make(map[Handle]entry[T]),
	}
}

// BoundingBox returns the enclosing bounding box the tree was built with.
func (idx *Index[T]) BoundingBox() Rect {
	return idx.root.bbox
}

// Len returns the number of elements currently stored.
func (idx *Index[T]) Len() int {
	return len(idx.elements)
}

// IsEmpty reports whether the tree holds no elements.
func (idx *Index[T]) IsEmpty() bool {
	return len(idx.elements) == 0
}

// Get retrieves the payload for handle, if present.
func (idx *Index[T]) Get(handle Handle) (T, bool) {
	e, ok := idx.elements[handle]
	return e.payload, ok
}

// Insert stores payload under bbox. If the tree disallows duplicates and an
// existing entry's bbox is within QuadtreeEpsilon of bbox, the insert is
// dropped and Insert returns false. Panics if bbox lies outside the root.
func (idx *Index[T]) Insert(payload T, bbox Rect) (Handle, bool) {
	idx.assertWithinRoot(bbox)

	if !idx.config.AllowDuplicates && idx.hasCloseDuplicate(bbox) {
		var zero Handle
		return zero, false
	}

	handle := idx.nextHandle
	idx.nextHandle++
	e := entry[T]{handle: handle, bbox: bbox, payload: payload}
	idx.root.insert(e, idx.config)
	idx.elements[handle] = e
	return handle, true
}

// InsertIfNonoverlapping stores payload under bbox only if no existing
// entry's bbox overlaps or epsilon-matches it.
func (idx *Index[T]) InsertIfNonoverlapping(payload T, bbox Rect) (Handle, bool) {
	idx.assertWithinRoot(bbox)

	if len(idx.Query(bbox)) > 0 {
		var zero Handle
		return zero, false
	}

	handle := idx.nextHandle
	idx.nextHandle++
	e := entry[T]{handle: handle, bbox: bbox, payload: payload}
	idx.root.insert(e, idx.config)
	idx.elements[handle] = e
	return handle, true
}

func (idx *Index[T]) hasCloseDuplicate(bbox Rect) bool {
	for _, e := range idx.elements {
		if e.bbox.CloseTo(bbox, QuadtreeEpsilon) {
			return true
		}
	}
	return false
}

func (idx *Index[T]) assertWithinRoot(bbox Rect) {
	if !idx.root.bbox.ContainsInclusive(bbox.LeftTop) || !idx.root.bbox.ContainsInclusive(bbox.RightBottom) {
		panic("spatial: bounding box lies outside the quad-tree root")
	}
}

// QueryResult is one hit from a Query call.
type QueryResult[T any] struct {
	Payload T
	Bbox    Rect
	Handle  Handle
}

// Query returns every entry whose bbox intersects or epsilon-matches
// bbox, sorted by handle and deduplicated.
func (idx *Index[T]) Query(bbox Rect) []QueryResult[T] {
	var out []QueryResult[T]
	idx.root.query(bbox, func(e entry[T]) {
		out = append(out, QueryResult[T]{Payload: e.payload, Bbox: e.bbox, Handle: e.handle})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	deduped := out[:0]
	var lastHandle Handle
	haveLast := false
	for _, r := range out {
		if haveLast && r.Handle == lastHandle {
			continue
		}
		deduped = append(deduped, r)
		lastHandle = r.Handle
		haveLast = true
	}
	return deduped
}

// Remove deletes the entry with the given handle and returns its payload
// and bbox, if present.
func (idx *Index[T]) Remove(handle Handle) (T, Rect, bool) {
	e, ok := idx.elements[handle]
	if !ok {
		var zero T
		return zero, Rect{}, false
	}
	delete(idx.elements, handle)
	idx.root.remove(e, idx.config)
	var zero T
	_ = zero
	return e.payload, e.bbox, true
}

// Inspect calls visit for every node in the tree: its bbox, depth, and
// whether it is a leaf.
func (idx *Index[T]) Inspect(visit func(bbox Rect, depth int, isLeaf bool)) {
	idx.root.inspect(visit)
}

func (n *node[T]) inspect(visit func(bbox Rect, depth int, isLeaf bool)) {
	visit(n.bbox, n.depth, !n.isBranch)
	if n.isBranch {
		for _, c := range n.children {
			c.inspect(visit)
		}
	}
}

func (n *node[T]) insert(e entry[T], config Config) bool {
	if n.isBranch {
		mid := n.bbox.Center()
		if e.bbox.Contains(mid) {
			if config.AllowDuplicates || !hasCloseDuplicateIn(n.inAll, e.bbox) {
				n.inAll = append(n.inAll, e)
				n.elementCount++
				return true
			}
			return false
		}
		inserted := false
		for _, child := range n.children {
			if child.bbox.Intersects(e.bbox) || child.bbox.CloseTo(e.bbox, QuadtreeEpsilon) {
				if child.insert(e, config) {
					n.elementCount++
					inserted = true
				}
			}
		}
		return inserted
	}

	// leaf
	if len(n.leafElements) == config.MaxChildren && n.depth != config.MaxDepth {
		extracted := n.leafElements
		extracted = append(extracted, e)
		quads := splitQuad(n.bbox)
		n.isBranch = true
		n.inAll = nil
		n.elementCount = 0
		for i, q := range quads {
			n.children[i] = &node[T]{bbox: q, depth: n.depth + 1}
		}
		n.leafElements = nil
		for _, ex := range extracted {
			n.insert(ex, config)
		}
		return true
	}

	if config.AllowDuplicates || !hasCloseDuplicateIn(n.leafElements, e.bbox) {
		n.leafElements = append(n.leafElements, e)
		return true
	}
	return false
}

func hasCloseDuplicateIn[T any](elements []entry[T], bbox Rect) bool {
	for _, e := range elements {
		if e.bbox.CloseTo(bbox, QuadtreeEpsilon) {
			return true
		}
	}
	return false
}

func (n *node[T]) remove(e entry[T], config Config) bool {
	if n.isBranch {
		mid := n.bbox.Center()
		var removed bool
		if e.bbox.Contains(mid) {
			n.inAll, removed = removeHandle(n.inAll, e.handle)
		} else {
			for _, child := range n.children {
				if child.bbox.Intersects(e.bbox) || child.bbox.CloseTo(e.bbox, QuadtreeEpsilon) {
					if child.remove(e, config) {
						removed = true
					}
				}
			}
		}
		if removed {
			n.elementCount--
			if n.elementCount < config.MinChildren {
				n.compact(config)
			}
		}
		return removed
	}

	var removed bool
	n.leafElements, removed = removeHandle(n.leafElements, e.handle)
	return removed
}

func removeHandle[T any](elements []entry[T], handle Handle) ([]entry[T], bool) {
	for i, e := range elements {
		if e.handle == handle {
			elements[i] = elements[len(elements)-1]
			return elements[:len(elements)-1], true
		}
	}
	return elements, false
}

// compact re-queries the subtree's own bbox and collapses it back into a
// single leaf, matching the Rust implementation's remove-triggered
// compaction.
func (n *node[T]) compact(config Config) {
	var collected []entry[T]
	n.query(n.bbox, func(e entry[T]) {
		collected = append(collected, e)
	})
	sort.Slice(collected, func(i, j int) bool { return collected[i].handle < collected[j].handle })
	dedup := collected[:0]
	var lastHandle Handle
	haveLast := false
	for _, e := range collected {
		if haveLast && e.handle == lastHandle {
			continue
		}
		dedup = append(dedup, e)
		lastHandle = e.handle
		haveLast = true
	}

	n.isBranch = false
	n.inAll = nil
	n.children = [4]*node[T]{}
	n.elementCount = 0
	n.leafElements = dedup
}

func (n *node[T]) query(bbox Rect, onFind func(entry[T])) {
	matchAll := func(elements []entry[T]) {
		for _, e := range elements {
			if bbox.Intersects(e.bbox) || bbox.CloseTo(e.bbox, QuadtreeEpsilon) {
				onFind(e)
			}
		}
	}

	if n.isBranch {
		matchAll(n.inAll)
		for _, child := range n.children {
			if bbox.Intersects(child.bbox) {
				child.query(bbox, onFind)
			}
		}
		return
	}
	matchAll(n.leafElements)
}
