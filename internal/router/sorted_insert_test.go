package router

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intCmp(a, b int) int { return a - b }

func TestSortedInsertKeepsOrder(t *testing.T) {
	var items []int
	for _, v := range []int{5, 1, 3, 2, 4} {
		var evicted bool
		items, _, evicted = sortedInsert(items, v, 10, intCmp)
		require.False(t, evicted)
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, items)
}

func TestSortedInsertEvictsWorst(t *testing.T) {
	items := []int{1, 3, 5}

	items, dropped, evicted := sortedInsert(items, 2, 3, intCmp)
	require.True(t, evicted)
	require.Equal(t, 5, dropped)
	require.Equal(t, []int{1, 2, 3}, items)

	items, dropped, evicted = sortedInsert(items, 9, 3, intCmp)
	require.True(t, evicted)
	require.Equal(t, 9, dropped)
	require.Equal(t, []int{1, 2, 3}, items)
}

func TestSortedInsertEqualGoesAfter(t *testing.T) {
	type item struct{ key, id int }
	cmp := func(a, b item) int { return a.key - b.key }

	items := []item{{key: 1, id: 1}, {key: 2, id: 2}}
	items, _, _ = sortedInsert(items, item{key: 1, id: 3}, 5, cmp)
	require.Equal(t, []item{{1, 1}, {1, 3}, {2, 2}}, items)

	// a tie with the last element of a full list is rejected
	items, dropped, evicted := sortedInsert(items, item{key: 2, id: 4}, 3, cmp)
	require.True(t, evicted)
	require.Equal(t, 4, dropped.id)
	require.Len(t, items, 3)
}
