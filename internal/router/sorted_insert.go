package router

import "sort"

// sortedInsert inserts add into items, which is sorted by cmp and holds at most maxSize
// elements. When the list overflows the worst element is dropped and returned.
func sortedInsert[T any](items []T, add T, maxSize int, cmp func(a, b T) int) ([]T, T, bool) {
	var zero T
	if len(items) == 0 {
		return append(items, add), zero, false
	}
	full := len(items) >= maxSize
	if full && cmp(items[len(items)-1], add) <= 0 {
		return items, add, true
	}
	at := sort.Search(len(items), func(i int) bool { return cmp(items[i], add) > 0 })
	items = append(items, zero)
	copy(items[at+1:], items[at:])
	items[at] = add
	if !full {
		return items, zero, false
	}
	evicted := items[len(items)-1]
	return items[:len(items)-1], evicted, true
}
