// Package dynval converts arbitrary typed Go values losslessly into a
// self-describing dynamic value tree, converts such trees back into any
// compatible typed value, and serializes the tree itself with a pluggable
// binary codec. The heavy lifting lives in the bind and codec packages,
// this package is the four-function facade over them.
package dynval

import (
	"github.com/storacha/go-dynval/bind"
	"github.com/storacha/go-dynval/codec"
	"github.com/storacha/go-dynval/codec/compact"
	"github.com/storacha/go-dynval/failure"
	"github.com/storacha/go-dynval/value"
)

type config struct {
	codec    codec.Codec
	bindOpts []bind.Option
}

type Option func(*config)

// WithCodec selects the binary codec used by Marshal and Unmarshal. The
// default is the compact codec.
func WithCodec(c codec.Codec) Option {
	return func(cfg *config) {
		cfg.codec = c
	}
}

// WithMaxDepth bounds structural recursion, see bind.WithMaxDepth.
func WithMaxDepth(max int) Option {
	return func(cfg *config) {
		cfg.bindOpts = append(cfg.bindOpts, bind.WithMaxDepth(max))
	}
}

// SortMapKeys controls Go map key ordering, see bind.SortMapKeys.
func SortMapKeys(sort bool) Option {
	return func(cfg *config) {
		cfg.bindOpts = append(cfg.bindOpts, bind.SortMapKeys(sort))
	}
}

// DisallowUnknownFields rejects object keys with no matching struct
// field, see bind.DisallowUnknownFields.
func DisallowUnknownFields() Option {
	return func(cfg *config) {
		cfg.bindOpts = append(cfg.bindOpts, bind.DisallowUnknownFields())
	}
}

func newConfig(opts []Option) config {
	cfg := config{codec: compact.Default}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ToValue encodes v into an equivalent value tree.
func ToValue(v any, opts ...Option) (value.Value, error) {
	cfg := newConfig(opts)
	return bind.ToValue(v, cfg.bindOpts...)
}

// FromValue decodes a value tree into a T.
func FromValue[T any](val value.Value, opts ...Option) (T, error) {
	cfg := newConfig(opts)
	var out T
	err := bind.FromValue(val, &out, cfg.bindOpts...)
	return out, err
}

// Marshal encodes v into a value tree and serializes the tree with the
// configured binary codec.
func Marshal(v any, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	val, err := bind.ToValue(v, cfg.bindOpts...)
	if err != nil {
		return nil, err
	}
	b, err := cfg.codec.Encode(val)
	if err != nil {
		return nil, failure.NewBinaryCodec(err)
	}
	return b, nil
}

// Unmarshal deserializes a value tree from b with the configured binary
// codec and decodes it into a T.
func Unmarshal[T any](b []byte, opts ...Option) (T, error) {
	cfg := newConfig(opts)
	var out T
	val, err := cfg.codec.Decode(b)
	if err != nil {
		return out, failure.NewBinaryCodec(err)
	}
	err = bind.FromValue(val, &out, cfg.bindOpts...)
	return out, err
}
