// Package compact implements the default binary codec for the value tree:
// a varint tagged, length-prefixed encoding. Every value kind round-trips
// exactly, including empty objects and arrays, negative integers and
// non-finite floats.
//
// Wire form: a uvarint kind tag (the numeric value.Kind), then the
// payload. Booleans are a single 0/1 byte, integers are zigzag uvarints,
// floats are 8 little-endian IEEE 754 bytes, strings and blobs are a
// uvarint length followed by the raw bytes, arrays are a uvarint count
// followed by the encoded elements, objects are a uvarint count followed
// by length-prefixed key then encoded value per entry.
package compact

import (
	"encoding/binary"
	"math"

	"github.com/multiformats/go-varint"
	"github.com/pkg/errors"
	"github.com/storacha/go-dynval/value"
)

// Code identifies the codec. There is no registered multicodec for this
// format, the code is from the private use area.
const Code = 0x300200

// DefaultMaxDepth bounds nesting when decoding untrusted input.
const DefaultMaxDepth = 1024

type Option func(*Codec)

// WithMaxDepth overrides the maximum nesting depth accepted on decode.
func WithMaxDepth(max int) Option {
	return func(c *Codec) {
		c.maxDepth = max
	}
}

type Codec struct {
	maxDepth int
}

func New(opts ...Option) Codec {
	c := Codec{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

var Default = New()

func (Codec) Code() uint64 {
	return Code
}

func (c Codec) Encode(v value.Value) ([]byte, error) {
	return appendValue(nil, v), nil
}

func (c Codec) Decode(b []byte) (value.Value, error) {
	v, _, err := c.DecodePartial(b)
	return v, err
}

// DecodePartial decodes one value from the front of b and returns the
// number of bytes consumed. Trailing bytes are not an error.
func (c Codec) DecodePartial(b []byte) (value.Value, int, error) {
	d := decoder{buf: b, maxDepth: c.maxDepth}
	v, err := d.value(0)
	if err != nil {
		return value.Value{}, 0, err
	}
	return v, d.off, nil
}

// Encode serializes v with the default configuration.
func Encode(v value.Value) ([]byte, error) {
	return Default.Encode(v)
}

// Decode deserializes one value from b with the default configuration.
func Decode(b []byte) (value.Value, error) {
	return Default.Decode(b)
}

func appendValue(b []byte, v value.Value) []byte {
	b = append(b, varint.ToUvarint(uint64(v.Kind()))...)
	switch v.Kind() {
	case value.KindNull:
	case value.KindBool:
		bv, _ := v.AsBool()
		if bv {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}
	case value.KindInt:
		i, _ := v.AsInt()
		b = append(b, varint.ToUvarint(zigzag(i))...)
	case value.KindFloat:
		f, _ := v.AsFloat()
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
	case value.KindString:
		s, _ := v.AsString()
		b = append(b, varint.ToUvarint(uint64(len(s)))...)
		b = append(b, s...)
	case value.KindBytes:
		x, _ := v.AsBytes()
		b = append(b, varint.ToUvarint(uint64(len(x)))...)
		b = append(b, x...)
	case value.KindList:
		l, _ := v.AsList()
		b = append(b, varint.ToUvarint(uint64(len(l)))...)
		for _, e := range l {
			b = appendValue(b, e)
		}
	case value.KindMap:
		m, _ := v.AsMap()
		b = append(b, varint.ToUvarint(uint64(m.Len()))...)
		for _, k := range m.Keys() {
			e, _ := m.Get(k)
			b = append(b, varint.ToUvarint(uint64(len(k)))...)
			b = append(b, k...)
			b = appendValue(b, e)
		}
	}
	return b
}

type decoder struct {
	buf      []byte
	off      int
	maxDepth int
}

func (d *decoder) value(depth int) (value.Value, error) {
	if depth > d.maxDepth {
		return value.Value{}, errors.Errorf("nesting depth exceeds %d", d.maxDepth)
	}
	tag, err := d.uvarint()
	if err != nil {
		return value.Value{}, errors.Wrap(err, "reading kind tag")
	}
	switch value.Kind(tag) {
	case value.KindNull:
		return value.Null(), nil
	case value.KindBool:
		c, err := d.byte()
		if err != nil {
			return value.Value{}, errors.Wrap(err, "reading boolean")
		}
		switch c {
		case 0:
			return value.NewBool(false), nil
		case 1:
			return value.NewBool(true), nil
		}
		return value.Value{}, errors.Errorf("invalid boolean byte: %d", c)
	case value.KindInt:
		u, err := d.uvarint()
		if err != nil {
			return value.Value{}, errors.Wrap(err, "reading integer")
		}
		return value.NewInt(unzigzag(u)), nil
	case value.KindFloat:
		if len(d.buf)-d.off < 8 {
			return value.Value{}, errors.New("truncated float")
		}
		bits := binary.LittleEndian.Uint64(d.buf[d.off:])
		d.off += 8
		return value.NewFloat(math.Float64frombits(bits)), nil
	case value.KindString:
		s, err := d.lengthPrefixed()
		if err != nil {
			return value.Value{}, errors.Wrap(err, "reading string")
		}
		return value.NewString(string(s)), nil
	case value.KindBytes:
		x, err := d.lengthPrefixed()
		if err != nil {
			return value.Value{}, errors.Wrap(err, "reading blob")
		}
		out := make([]byte, len(x))
		copy(out, x)
		return value.NewBytes(out), nil
	case value.KindList:
		n, err := d.uvarint()
		if err != nil {
			return value.Value{}, errors.Wrap(err, "reading array length")
		}
		if n > uint64(len(d.buf)-d.off) {
			return value.Value{}, errors.Errorf("array length %d exceeds input", n)
		}
		l := make([]value.Value, 0, n)
		for i := uint64(0); i < n; i++ {
			e, err := d.value(depth + 1)
			if err != nil {
				return value.Value{}, err
			}
			l = append(l, e)
		}
		return value.NewList(l), nil
	case value.KindMap:
		n, err := d.uvarint()
		if err != nil {
			return value.Value{}, errors.Wrap(err, "reading object length")
		}
		if n > uint64(len(d.buf)-d.off) {
			return value.Value{}, errors.Errorf("object length %d exceeds input", n)
		}
		m := &value.Map{}
		for i := uint64(0); i < n; i++ {
			k, err := d.lengthPrefixed()
			if err != nil {
				return value.Value{}, errors.Wrap(err, "reading object key")
			}
			e, err := d.value(depth + 1)
			if err != nil {
				return value.Value{}, err
			}
			m.Set(string(k), e)
		}
		return value.NewMap(m), nil
	}
	return value.Value{}, errors.Errorf("invalid kind tag: %d", tag)
}

func (d *decoder) byte() (byte, error) {
	if d.off >= len(d.buf) {
		return 0, errors.New("unexpected end of input")
	}
	c := d.buf[d.off]
	d.off++
	return c, nil
}

func (d *decoder) uvarint() (uint64, error) {
	u, n, err := varint.FromUvarint(d.buf[d.off:])
	if err != nil {
		return 0, err
	}
	d.off += n
	return u, nil
}

func (d *decoder) lengthPrefixed() ([]byte, error) {
	n, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(d.buf)-d.off) {
		return nil, errors.Errorf("length %d exceeds input", n)
	}
	b := d.buf[d.off : d.off+int(n)]
	d.off += int(n)
	return b, nil
}

func zigzag(i int64) uint64 {
	return uint64(i<<1) ^ uint64(i>>63)
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
