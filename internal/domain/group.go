package domain

import "slices"

type Group[K comparable] struct {
	Key   K          `json:"key"`
	Items []MenuItem `json:"items"`
}

// GroupBy buckets items by key. Groups appear in order of the first item
// carrying each key, and items keep their catalog order inside a group.
func GroupBy[K comparable](items []MenuItem, keyOf func(MenuItem) K) []Group[K] {
	index := make(map[K]int)
	var groups []Group[K]
	for _, item := range items {
		k := keyOf(item)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// GroupByCategory groups items by category in menu display order. Items
// without a known category are listed under CategoryOther.
func GroupByCategory(items []MenuItem) []Group[Category] {
	groups := GroupBy(items, func(m MenuItem) Category {
		if !m.Category.Valid() {
			return CategoryOther
		}
		return m.Category
	})
	slices.SortStableFunc(groups, func(a, b Group[Category]) int {
		return slices.Index(Categories, a.Key) - slices.Index(Categories, b.Key)
	})
	return groups
}
