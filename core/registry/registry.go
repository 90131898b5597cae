package registry

import "github.com/samber/lo"

// Entry is one keyed slot in an ordered registry.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Ordered is a mapping whose iteration order is insertion order.
// Setting an existing key replaces its value in place without moving the
// entry, which gives registration the overwrite-on-duplicate semantics the
// dispatch packages rely on.
//
// Ordered is not synchronized. The owning dispatcher holds a single
// exclusive lock around mutation and snapshot-taking; the dispatch loop
// itself operates on a snapshot and needs no lock.
type Ordered[K comparable, V any] struct {
	index   map[K]int
	entries []Entry[K, V]
}

// New creates an empty ordered registry.
func New[K comparable, V any]() *Ordered[K, V] {
	return &Ordered[K, V]{
		index: make(map[K]int),
	}
}

// Set appends (key, value). If key is already present the existing entry's
// value is replaced and its position is unchanged. This is intentional:
// re-registration evicts the old value without granting the newcomer a new
// ordering slot.
func (r *Ordered[K, V]) Set(key K, value V) {
	if i, ok := r.index[key]; ok {
		r.entries[i].Value = value
		return
	}
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, Entry[K, V]{Key: key, Value: value})
}

// Get returns the value stored under key.
func (r *Ordered[K, V]) Get(key K) (V, bool) {
	if i, ok := r.index[key]; ok {
		return r.entries[i].Value, true
	}
	var zero V
	return zero, false
}

// Delete removes the entry under key, preserving the relative order of the
// remaining entries. Deleting an absent key is a no-op, never an error.
func (r *Ordered[K, V]) Delete(key K) {
	i, ok := r.index[key]
	if !ok {
		return
	}

	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	delete(r.index, key)

	// Entries after the removed slot shifted left by one.
	for j := i; j < len(r.entries); j++ {
		r.index[r.entries[j].Key] = j
	}
}

// Len returns the number of entries.
func (r *Ordered[K, V]) Len() int {
	return len(r.entries)
}

// Snapshot returns an ordered copy of the current entries. Dispatchers take
// a snapshot at the start of a pass so delivery runs against a stable view
// even if the registry is mutated mid-pass.
func (r *Ordered[K, V]) Snapshot() []Entry[K, V] {
	out := make([]Entry[K, V], len(r.entries))
	copy(out, r.entries)
	return out
}

// Keys returns the keys in insertion order.
func (r *Ordered[K, V]) Keys() []K {
	return lo.Map(r.entries, func(e Entry[K, V], _ int) K {
		return e.Key
	})
}

// Values returns the values in insertion order.
func (r *Ordered[K, V]) Values() []V {
	return lo.Map(r.entries, func(e Entry[K, V], _ int) V {
		return e.Value
	})
}
