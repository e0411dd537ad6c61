// Package value implements the dynamic value tree that all typed data
// passes through. A Value is one of a closed set of kinds — null, boolean,
// blob, array, integer, float, object or string — and is structurally
// immutable once built.
package value

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the type tag of a Value. The numeric order of the kinds is part
// of the compact wire format and must not change.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindBytes
	KindList
	KindInt
	KindFloat
	KindMap
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindBytes:
		return "blob"
	case KindList:
		return "array"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindMap:
		return "object"
	case KindString:
		return "string"
	}
	return "<unknown kind>"
}

// Value is a node in the dynamic tree. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	x    []byte
	l    []Value
	m    *Map
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

func NewBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func NewInt(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func NewFloat(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func NewString(s string) Value {
	return Value{kind: KindString, s: s}
}

func NewBytes(b []byte) Value {
	return Value{kind: KindBytes, x: b}
}

func NewList(l []Value) Value {
	return Value{kind: KindList, l: l}
}

// NewMap wraps m in a Value. A nil m is treated as an empty object.
func NewMap(m *Map) Value {
	if m == nil {
		m = &Map{}
	}
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsBytes() bool  { return v.kind == KindBytes }
func (v Value) IsList() bool   { return v.kind == KindList }
func (v Value) IsInt() bool    { return v.kind == KindInt }
func (v Value) IsFloat() bool  { return v.kind == KindFloat }
func (v Value) IsMap() bool    { return v.kind == KindMap }
func (v Value) IsString() bool { return v.kind == KindString }

// AsBool returns the contained boolean. The second return is false when
// the Value is not a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) AsBytes() ([]byte, bool) {
	return v.x, v.kind == KindBytes
}

func (v Value) AsList() ([]Value, bool) {
	return v.l, v.kind == KindList
}

func (v Value) AsMap() (*Map, bool) {
	return v.m, v.kind == KindMap
}

// ErrorDescription returns the fixed human-readable label for the Value's
// kind. It is used to build error messages and nothing else.
func (v Value) ErrorDescription() string {
	switch v.kind {
	case KindNull:
		return "type null"
	case KindBool:
		return "type boolean"
	case KindBytes:
		return "type blob"
	case KindList:
		return "type array"
	case KindInt:
		return "type integer"
	case KindFloat:
		return "type float"
	case KindMap:
		return "type object"
	case KindString:
		return "type string"
	}
	return "type unknown"
}

// Equal reports structural equality. Object comparison is key-wise and
// order-insensitive. Float comparison treats any two NaNs as equal so that
// round-tripped trees compare equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindBytes:
		return bytes.Equal(v.x, o.x)
	case KindList:
		if len(v.l) != len(o.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(o.l[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Equal(o.m)
	}
	return false
}

// String renders the Value for debugging. It is not a serialization format.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindBytes:
		return fmt.Sprintf("0x%x", v.x)
	case KindList:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v.l {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case KindMap:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range v.m.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			e, _ := v.m.Get(k)
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			sb.WriteString(e.String())
		}
		sb.WriteByte('}')
		return sb.String()
	}
	return "<invalid>"
}
