package registry

import (
	"cmp"
	"slices"
)

// Table is a de-duplicated lookup table over fetched records. It is only ever
// replaced as a whole: a failed fetch must simply not call UpsertAll so the
// previous contents stay consistent.
type Table[K cmp.Ordered, V any] struct {
	key  func(V) K
	data map[K]V
}

// New returns an empty table keyed by the given function.
func New[K cmp.Ordered, V any](key func(V) K) *Table[K, V] {
	return &Table[K, V]{key: key, data: map[K]V{}}
}

// UpsertAll replaces the entire table with records. When several records share
// a key the last one wins.
func (t *Table[K, V]) UpsertAll(records []V) {
	data := make(map[K]V, len(records))
	for _, r := range records {
		data[t.key(r)] = r
	}
	t.data = data
}

// Get returns the record stored under k.
func (t *Table[K, V]) Get(k K) (V, bool) {
	v, ok := t.data[k]
	return v, ok
}

// Has reports whether k is present.
func (t *Table[K, V]) Has(k K) bool {
	_, ok := t.data[k]
	return ok
}

// Len returns the number of records.
func (t *Table[K, V]) Len() int { return len(t.data) }

// Keys returns the keys in ascending order.
func (t *Table[K, V]) Keys() []K {
	keys := make([]K, 0, len(t.data))
	for k := range t.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// List returns the records ordered by key.
func (t *Table[K, V]) List() []V {
	keys := t.Keys()
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.data[k])
	}
	return out
}

// Filter returns the records matching fn ordered by key.
func (t *Table[K, V]) Filter(fn func(V) bool) []V {
	var out []V
	for _, v := range t.List() {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}
