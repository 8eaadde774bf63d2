package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertIfNonoverlappingThenQueryFindsIt(t *testing.T) {
	idx := NewEntityIndex[string]()
	box := UnitRect(Position{X: 10, Y: 10})

	handle, ok := idx.InsertIfNonoverlapping("drill-1", box)
	require.True(t, ok)

	results := idx.Query(box)
	require.Len(t, results, 1)
	assert.Equal(t, handle, results[0].Handle)
	assert.Equal(t, "drill-1", results[0].Payload)
}

func TestInsertIfNonoverlappingRejectsOverlap(t *testing.T) {
	idx := NewEntityIndex[string]()
	box := UnitRect(Position{X: 0, Y: 0})

	_, ok := idx.InsertIfNonoverlapping("a", box)
	require.True(t, ok)

	_, ok = idx.InsertIfNonoverlapping("b", box)
	assert.False(t, ok, "overlapping insert must be rejected")
	assert.Equal(t, 1, idx.Len())
}

func TestDuplicateRejectionIsEpsilonBased(t *testing.T) {
	idx := NewEntityIndex[int]()
	box := UnitRect(Position{X: 5, Y: 5})

	_, ok := idx.Insert(1, box)
	require.True(t, ok)

	nearDup := box.Offset(Position{X: QuadtreeEpsilon / 2, Y: 0})
	_, ok = idx.Insert(2, nearDup)
	assert.False(t, ok, "entries within epsilon must be treated as duplicates")
	assert.Equal(t, 1, idx.Len())
}

func TestBlockedIndexAllowsDuplicates(t *testing.T) {
	idx := NewBlockedIndex[int]()
	box := UnitRect(Position{X: 1, Y: 1})

	h1, ok := idx.Insert(1, box)
	require.True(t, ok)
	h2, ok := idx.Insert(2, box)
	require.True(t, ok)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, idx.Len())
}

func TestRemoveDropsEntryFromQuery(t *testing.T) {
	idx := NewEntityIndex[string]()
	box := UnitRect(Position{X: -50, Y: 50})

	handle, ok := idx.Insert("chest", box)
	require.True(t, ok)

	payload, gotBox, ok := idx.Remove(handle)
	require.True(t, ok)
	assert.Equal(t, "chest", payload)
	assert.Equal(t, box, gotBox)

	assert.Empty(t, idx.Query(box))
	assert.True(t, idx.IsEmpty())
}

func TestQueryDeduplicatesAcrossBranches(t *testing.T) {
	idx := NewEntityIndex[int]()
	// Force a branch split by inserting more than MaxChildren disjoint
	// entries into the same leaf-turned-branch region.
	for i := 0; i < 200; i++ {
		x := float64(i%20) * 2
		y := float64(i/20) * 2
		_, ok := idx.Insert(i, UnitRect(Position{X: x, Y: y}))
		require.True(t, ok)
	}

	results := idx.Query(RectFromWH(50, 50))
	seen := make(map[Handle]bool)
	for _, r := range results {
		assert.False(t, seen[r.Handle], "query must not return the same handle twice")
		seen[r.Handle] = true
	}
	assert.NotEmpty(t, results)
}

func TestInsertPanicsOutsideRoot(t *testing.T) {
	idx := NewEntityIndex[int]()
	outside := UnitRect(Position{X: worldExtent, Y: worldExtent})
	assert.Panics(t, func() {
		idx.Insert(1, outside)
	})
}

func TestGetReturnsStoredPayload(t *testing.T) {
	idx := NewTileIndex[string]()
	handle, ok := idx.Insert("grass", UnitRect(Position{X: 3, Y: 3}))
	require.True(t, ok)

	payload, ok := idx.Get(handle)
	require.True(t, ok)
	assert.Equal(t, "grass", payload)

	_, ok = idx.Get(handle + 999)
	assert.False(t, ok)
}

func TestRemoveCompactsBranchBackToLeaf(t *testing.T) {
	idx := NewEntityIndex[int]()
	handles := make([]Handle, 0, 200)
	for i := 0; i < 200; i++ {
		x := float64(i%20) * 2
		y := float64(i/20) * 2
		h, ok := idx.Insert(i, UnitRect(Position{X: x, Y: y}))
		require.True(t, ok)
		handles = append(handles, h)
	}

	for _, h := range handles[:190] {
		_, _, ok := idx.Remove(h)
		require.True(t, ok)
	}

	assert.Equal(t, 10, idx.Len())
	for _, h := range handles[190:] {
		_, ok := idx.Get(h)
		assert.True(t, ok)
	}
}
