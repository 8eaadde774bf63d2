package spatial

// The four construction profiles named in spec.md §4.1. Each tree covers
// the full playable area, sized generously enough that no legitimate
// in-game coordinate triggers the root-containment panic.
const worldExtent = 1_000_000.0

func worldBounds() Rect {
	return RectFromWH(worldExtent, worldExtent)
}

// NewEntityIndex builds the tree backing placed entities: one entry per
// entity, duplicates rejected.
func NewEntityIndex[T any]() *Index[T] {
	return NewIndex[T](worldBounds(), Config{
		AllowDuplicates: false,
		MinChildren:     32,
		MaxChildren:     128,
		MaxDepth:        128,
	})
}

// NewBlockedIndex builds the tree backing blocked/reserved tiles, where the
// same tile may legitimately be reserved by more than one pending
// operation.
func NewBlockedIndex[T any]() *Index[T] {
	return NewIndex[T](worldBounds(), Config{
		AllowDuplicates: true,
		MinChildren:     8,
		MaxChildren:     64,
		MaxDepth:        1024,
	})
}

// NewTileIndex builds the tree backing discovered map tiles, one entry per
// tile.
func NewTileIndex[T any]() *Index[T] {
	return NewIndex[T](worldBounds(), Config{
		AllowDuplicates: false,
		MinChildren:     32,
		MaxChildren:     128,
		MaxDepth:        128,
	})
}

// NewResourceIndex builds the tree backing resource-patch cells, which can
// legitimately overlap across adjacent patch scans before condensation.
func NewResourceIndex[T any]() *Index[T] {
	return NewIndex[T](worldBounds(), Config{
		AllowDuplicates: true,
		MinChildren:     8,
		MaxChildren:     64,
		MaxDepth:        1024,
	})
}
