package list

import (
	"cmp"
	"slices"

	"github.com/hudo-ng/ShoppingList/internal/model"
)

// Order returns a new slice with items sorted for display: incomplete
// items first ordered by recency of edit, then completed items ordered
// by recency of completion. The input is never mutated.
//
// The comparator is a strict total order except for exact-timestamp
// ties, which may resolve arbitrarily.
func Order(items []model.ShoppingItem) []model.ShoppingItem {
	out := make([]model.ShoppingItem, len(items))
	copy(out, items)
	slices.SortFunc(out, compareItems)
	return out
}

func compareItems(a, b model.ShoppingItem) int {
	switch {
	case a.Completed() && b.Completed():
		// More recently completed sorts first.
		return cmp.Compare(*b.CompletedAtTimestamp, *a.CompletedAtTimestamp)
	case a.Completed():
		return 1
	case b.Completed():
		return -1
	default:
		// More recently updated sorts first.
		return cmp.Compare(b.LastUpdatedTimestamp, a.LastUpdatedTimestamp)
	}
}
