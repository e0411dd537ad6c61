// Package iterable provides pull-style iteration over the collection
// shapes of the value tree.
package iterable

// Iterator2 returns two values with every call to Next().
// The error will be set to io.EOF when the iterator is complete.
type Iterator2[K any, V any] interface {
	Next() (K, V, error)
}

type iterator2[K any, V any] struct {
	next func() (K, V, error)
}

func (it *iterator2[K, V]) Next() (K, V, error) {
	return it.next()
}

func NewIterator2[K any, V any](next func() (K, V, error)) Iterator2[K, V] {
	return &iterator2[K, V]{next}
}
