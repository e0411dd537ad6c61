package value

import (
	"io"

	"github.com/storacha/go-dynval/iterable"
)

// Map is the object representation: a mapping from unique string keys to
// Values. Iteration order is insertion order — callers that need a
// specific wire ordering control it by inserting in that order.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMapOf builds a Map from entries, inserted in the order given. Most
// callers use the zero Map and Set directly, this exists for literal-style
// construction in tests and examples.
func NewMapOf(entries ...Entry) *Map {
	m := &Map{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   string
	Value Value
}

func (m *Map) Len() int {
	return len(m.keys)
}

// Get returns the Value stored under key. The second return is false when
// the key is absent.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Set inserts or replaces the Value under key. Replacing keeps the key's
// original position.
func (m *Map) Set(key string, v Value) {
	if m.values == nil {
		m.values = map[string]Value{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Keys returns the keys in insertion order. The returned slice is shared,
// callers must not modify it.
func (m *Map) Keys() []string {
	return m.keys
}

// Entries iterates key/value pairs in insertion order.
func (m *Map) Entries() iterable.Iterator2[string, Value] {
	i := 0
	return iterable.NewIterator2(func() (string, Value, error) {
		if i >= len(m.keys) {
			return "", Value{}, io.EOF
		}
		k := m.keys[i]
		i++
		return k, m.values[k], nil
	})
}

// Equal reports key-wise equality, ignoring insertion order.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for k, v := range m.values {
		ov, ok := o.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
