// Package bind maps arbitrary Go values to and from the dynamic value
// tree. The encoder walks a Go value with reflection and produces an
// equivalent value.Value, the decoder walks a value.Value and fills a Go
// target of any compatible shape. Neither side touches bytes, byte-level
// codecs live under the codec packages.
//
// The mapping is fixed: booleans, integers (all widths, unsigned
// reinterpreted as signed bit patterns), floats, strings and byte slices
// map to their value kinds, nil pointers map to null and non-nil pointers
// encode their element with no wrapper, slices and arrays map to arrays,
// maps and structs map to objects, and a zero-field struct maps to the
// empty array. Tagged unions are expressed through the Variant and
// VariantUnmarshaler interfaces: a case with no payload is a bare string
// holding the tag name, any other case is an object with exactly one
// entry keyed by the tag name.
package bind

import (
	"github.com/storacha/go-dynval/value"
)

// DefaultMaxDepth bounds structural recursion on both encode and decode.
const DefaultMaxDepth = 1024

// Marshaler replaces the encoded form of the implementing type.
type Marshaler interface {
	MarshalValue() (value.Value, error)
}

// Unmarshaler replaces the decoded form of the implementing type.
type Unmarshaler interface {
	UnmarshalValue(value.Value) error
}

// Variant describes a tagged union case: the case's tag name and its
// payloads. No payloads is a unit case, one payload encodes as itself
// under the tag, two or more encode as an array under the tag.
type Variant interface {
	MarshalVariant() (name string, payloads []any, err error)
}

// VariantUnmarshaler builds a tagged union from a decoded case. The
// decoder enforces the single-key object discipline and hands over the
// tag name and payload, a nil payload means the case was a bare tag.
// Payloads decoded through FromVariantPayload or FromTuplePayload keep
// the walk's options and depth budget, a recursive union cannot outrun
// the configured limit. The implementation reports an unrecognized tag
// with failure.NewUnknown.
type VariantUnmarshaler interface {
	UnmarshalVariant(name string, payload *VariantPayload) error
}

type config struct {
	maxDepth        int
	sortKeys        bool
	disallowUnknown bool
}

type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{maxDepth: DefaultMaxDepth, sortKeys: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxDepth overrides the maximum nesting depth.
func WithMaxDepth(max int) Option {
	return func(c *config) {
		c.maxDepth = max
	}
}

// SortMapKeys controls whether Go map entries are encoded in sorted key
// order. Sorting is on by default so that encoding the same map twice
// yields the same bytes — Go map iteration order is randomized. Struct
// fields are unaffected, they always encode in declaration order.
func SortMapKeys(sort bool) Option {
	return func(c *config) {
		c.sortKeys = sort
	}
}

// DisallowUnknownFields makes decoding fail with an UnknownError when an
// object carries a key the target struct has no field for. By default
// unknown keys are ignored.
func DisallowUnknownFields() Option {
	return func(c *config) {
		c.disallowUnknown = true
	}
}
