package value

import "iter"

// Map is an insertion-ordered string-keyed map. Setting an existing key keeps
// its original position.
type Map struct {
	keys []string
	vals []Value
	idx  map[string]int
}

func NewMap() *Map { return &Map{idx: map[string]int{}} }

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *Map) Set(key string, v Value) *Map {
	if m.idx == nil {
		m.idx = map[string]int{}
	}
	if i, ok := m.idx[key]; ok {
		m.vals[i] = v
		return m
	}
	m.idx[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
	return m
}

func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	i, ok := m.idx[key]
	if !ok {
		return Value{}, false
	}
	return m.vals[i], true
}

func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	i, ok := m.idx[key]
	if !ok {
		return
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	delete(m.idx, key)
	for j := i; j < len(m.keys); j++ {
		m.idx[m.keys[j]] = j
	}
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}
