package serializers

import "iter"

// OrderedMap is a map that remembers insertion order. Setting an existing
// key replaces its value in place.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: map[K]V{}}
}

func (m *OrderedMap[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[k]
	return v, ok
}

func (m *OrderedMap[K, V]) Set(k K, v V) {
	if m.values == nil {
		m.values = map[K]V{}
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (m *OrderedMap[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	return m.keys
}

// All iterates entries in insertion order.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.Keys() {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy.
func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	out := &OrderedMap[K, V]{values: make(map[K]V, m.Len())}
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}

// OrderedSet is a set that iterates in insertion order.
type OrderedSet[E comparable] struct {
	items []E
	index map[E]struct{}
}

func NewOrderedSet[E comparable](items ...E) *OrderedSet[E] {
	s := &OrderedSet[E]{index: map[E]struct{}{}}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

func (s *OrderedSet[E]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Add inserts e and reports whether it was absent.
func (s *OrderedSet[E]) Add(e E) bool {
	if s.index == nil {
		s.index = map[E]struct{}{}
	}
	if _, ok := s.index[e]; ok {
		return false
	}
	s.index[e] = struct{}{}
	s.items = append(s.items, e)
	return true
}

func (s *OrderedSet[E]) Contains(e E) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[e]
	return ok
}

// Values returns the elements in insertion order. The slice must not be
// modified.
func (s *OrderedSet[E]) Values() []E {
	if s == nil {
		return nil
	}
	return s.items
}
