package bind

import (
	"fmt"
	"reflect"

	"github.com/storacha/go-dynval/failure"
	"github.com/storacha/go-dynval/value"
)

// FromValue decodes a value tree into target, which must be a non-nil
// pointer. The target's shape drives the walk: a mismatch between the
// tree and the shape surfaces as one of the failure package errors and
// leaves no partial result guarantee on the target.
func FromValue(v value.Value, target any, opts ...Option) error {
	d := &decoder{cfg: newConfig(opts)}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return failure.NewCustom("decode target must be a non-nil pointer, got %T", target)
	}
	if u, ok := target.(Unmarshaler); ok {
		return u.UnmarshalValue(v)
	}
	if vu, ok := target.(VariantUnmarshaler); ok {
		return d.decodeVariant(v, vu, 0)
	}
	return d.decode(v, rv.Elem(), 0)
}

// VariantPayload is the payload handed to UnmarshalVariant. It carries the
// state of the walk that produced it, so decoding a payload keeps the
// configured options and counts against the same depth limit as the rest
// of the tree.
type VariantPayload struct {
	value value.Value
	d     *decoder
	depth int
}

// Value returns the raw payload.
func (p *VariantPayload) Value() value.Value {
	return p.value
}

func (p *VariantPayload) decodeInto(v value.Value, depth int, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return failure.NewCustom("decode target must be a non-nil pointer, got %T", target)
	}
	if u, ok := target.(Unmarshaler); ok {
		return u.UnmarshalValue(v)
	}
	if vu, ok := target.(VariantUnmarshaler); ok {
		return p.d.decodeVariant(v, vu, depth)
	}
	return p.d.decode(v, rv.Elem(), depth)
}

// FromVariantPayload decodes a variant payload into target, continuing the
// walk that produced the payload. A nil payload means the case was decoded
// from a bare tag: a payload-carrying target has nothing to read and gets
// ErrEOF.
func FromVariantPayload(payload *VariantPayload, target any) error {
	if payload == nil {
		return failure.ErrEOF
	}
	if found, ok := structPayloadMismatch(payload.value, target); ok {
		return failure.NewExpected(found, "expected a struct")
	}
	return payload.decodeInto(payload.value, payload.depth, target)
}

// structPayloadMismatch reports whether target is a plain named-field
// struct while the payload is not an object. The mismatch is phrased
// found-first like the other enum-position errors.
func structPayloadMismatch(v value.Value, target any) (string, bool) {
	if v.IsMap() {
		return "", false
	}
	if _, ok := target.(Unmarshaler); ok {
		return "", false
	}
	if _, ok := target.(VariantUnmarshaler); ok {
		return "", false
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return "", false
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct || elem.Type() == valueType {
		return "", false
	}
	plan, err := planFor(elem.Type())
	if err != nil || len(plan.fields) == 0 {
		return "", false
	}
	return v.ErrorDescription(), true
}

// FromTuplePayload decodes a positional variant payload into targets, one
// element per target.
func FromTuplePayload(payload *VariantPayload, targets ...any) error {
	if payload == nil {
		return failure.ErrEOF
	}
	l, ok := payload.value.AsList()
	if !ok {
		return failure.NewExpected(payload.value.ErrorDescription(), "expected a tuple")
	}
	if len(l) != len(targets) {
		return failure.NewExpected(
			fmt.Sprintf("length %d", len(targets)),
			fmt.Sprintf("length %d", len(l)),
		)
	}
	for i, t := range targets {
		if err := payload.decodeInto(l[i], payload.depth+1, t); err != nil {
			return err
		}
	}
	return nil
}

type decoder struct {
	cfg config
}

func (d *decoder) decode(v value.Value, rv reflect.Value, depth int) error {
	if depth > d.cfg.maxDepth {
		return failure.NewDepth(d.cfg.maxDepth)
	}
	if rv.Type() == valueType {
		rv.Set(reflect.ValueOf(v))
		return nil
	}
	if rv.Kind() == reflect.Pointer {
		// a pointer target is an optional: null decodes to absent
		if v.IsNull() {
			rv.SetZero()
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		if u, ok := rv.Interface().(Unmarshaler); ok {
			return u.UnmarshalValue(v)
		}
		if vu, ok := rv.Interface().(VariantUnmarshaler); ok {
			return d.decodeVariant(v, vu, depth)
		}
		return d.decode(v, rv.Elem(), depth)
	}
	if rv.CanAddr() {
		if u, ok := rv.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalValue(v)
		}
		if vu, ok := rv.Addr().Interface().(VariantUnmarshaler); ok {
			return d.decodeVariant(v, vu, depth)
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return failure.NewExpected("type boolean", v.ErrorDescription())
		}
		rv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.AsInt()
		if !ok {
			return failure.NewExpected("type integer", v.ErrorDescription())
		}
		if rv.OverflowInt(i) {
			return failure.NewExpected(
				fmt.Sprintf("%d-bit integer", rv.Type().Bits()),
				fmt.Sprintf("integer %d", i),
			)
		}
		rv.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := v.AsInt()
		if !ok {
			return failure.NewExpected("type integer", v.ErrorDescription())
		}
		// the signed bit pattern is reinterpreted, mirroring encode
		u := uint64(i)
		if rv.OverflowUint(u) {
			return failure.NewExpected(
				fmt.Sprintf("%d-bit unsigned integer", rv.Type().Bits()),
				fmt.Sprintf("integer %d", i),
			)
		}
		rv.SetUint(u)
		return nil
	case reflect.Float32, reflect.Float64:
		f, ok := v.AsFloat()
		if !ok {
			// integers widen into float targets
			i, iok := v.AsInt()
			if !iok {
				return failure.NewExpected("type float", v.ErrorDescription())
			}
			f = float64(i)
		}
		if rv.OverflowFloat(f) {
			return failure.NewExpected(
				fmt.Sprintf("%d-bit float", rv.Type().Bits()),
				fmt.Sprintf("float %v", f),
			)
		}
		rv.SetFloat(f)
		return nil
	case reflect.String:
		s, ok := v.AsString()
		if !ok {
			return failure.NewExpected("type string", v.ErrorDescription())
		}
		rv.SetString(s)
		return nil
	case reflect.Slice:
		return d.decodeSlice(v, rv, depth)
	case reflect.Array:
		return d.decodeArray(v, rv, depth)
	case reflect.Map:
		return d.decodeMap(v, rv, depth)
	case reflect.Struct:
		return d.decodeStruct(v, rv, depth)
	case reflect.Interface:
		return d.decodeAny(v, rv, depth)
	}
	return failure.NewCustom("unsupported decode target: %s", rv.Type())
}

func (d *decoder) decodeSlice(v value.Value, rv reflect.Value, depth int) error {
	if v.IsNull() {
		rv.SetZero()
		return nil
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		if b, ok := v.AsBytes(); ok {
			buf := reflect.MakeSlice(rv.Type(), len(b), len(b))
			reflect.Copy(buf, reflect.ValueOf(b))
			rv.Set(buf)
			return nil
		}
		// an array of integers also fills a byte slice
	}
	l, ok := v.AsList()
	if !ok {
		return failure.NewExpected("type array", v.ErrorDescription())
	}
	out := reflect.MakeSlice(rv.Type(), len(l), len(l))
	for i, e := range l {
		if err := d.decode(e, out.Index(i), depth+1); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func (d *decoder) decodeArray(v value.Value, rv reflect.Value, depth int) error {
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		if b, ok := v.AsBytes(); ok {
			if len(b) != rv.Len() {
				return failure.NewExpected(
					fmt.Sprintf("length %d", rv.Len()),
					fmt.Sprintf("length %d", len(b)),
				)
			}
			reflect.Copy(rv, reflect.ValueOf(b))
			return nil
		}
	}
	l, ok := v.AsList()
	if !ok {
		return failure.NewExpected("type array", v.ErrorDescription())
	}
	if len(l) != rv.Len() {
		return failure.NewExpected(
			fmt.Sprintf("length %d", rv.Len()),
			fmt.Sprintf("length %d", len(l)),
		)
	}
	for i, e := range l {
		if err := d.decode(e, rv.Index(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) decodeMap(v value.Value, rv reflect.Value, depth int) error {
	if v.IsNull() {
		rv.SetZero()
		return nil
	}
	m, ok := v.AsMap()
	if !ok {
		return failure.NewExpected("a map", v.ErrorDescription())
	}
	out := reflect.MakeMapWithSize(rv.Type(), m.Len())
	kt := rv.Type().Key()
	et := rv.Type().Elem()
	for _, k := range m.Keys() {
		e, _ := m.Get(k)
		// keys pass through the decoder as string values, a non-string
		// key type surfaces its own mismatch
		kv := reflect.New(kt).Elem()
		if err := d.decode(value.NewString(k), kv, depth+1); err != nil {
			return err
		}
		ev := reflect.New(et).Elem()
		if err := d.decode(e, ev, depth+1); err != nil {
			return err
		}
		out.SetMapIndex(kv, ev)
	}
	rv.Set(out)
	return nil
}

func (d *decoder) decodeStruct(v value.Value, rv reflect.Value, depth int) error {
	plan, err := planFor(rv.Type())
	if err != nil {
		return err
	}
	// a zero-field marker accepts its canonical empty array encoding
	if len(plan.fields) == 0 {
		if l, ok := v.AsList(); ok {
			if len(l) != 0 {
				return failure.NewExpected("length 0", fmt.Sprintf("length %d", len(l)))
			}
			return nil
		}
	}
	m, ok := v.AsMap()
	if !ok {
		return failure.NewExpected("a struct", v.ErrorDescription())
	}
	seen := make([]bool, len(plan.fields))
	for _, k := range m.Keys() {
		idx, ok := plan.byName[k]
		if !ok {
			if d.cfg.disallowUnknown {
				return failure.NewUnknown(k)
			}
			continue
		}
		e, _ := m.Get(k)
		if err := d.decode(e, rv.Field(plan.fields[idx].index), depth+1); err != nil {
			return err
		}
		seen[idx] = true
	}
	for i, f := range plan.fields {
		if !seen[i] && !f.optional {
			return failure.NewMissing(f.name)
		}
	}
	return nil
}

func (d *decoder) decodeAny(v value.Value, rv reflect.Value, depth int) error {
	if rv.NumMethod() != 0 {
		return failure.NewCustom("cannot decode into non-empty interface %s", rv.Type())
	}
	out, err := d.anyOf(v, depth)
	if err != nil {
		return err
	}
	if out == nil {
		rv.SetZero()
		return nil
	}
	rv.Set(reflect.ValueOf(out))
	return nil
}

// anyOf maps a value to its open Go representation: nil, bool, int64,
// float64, string, []byte, []any or map[string]any.
func (d *decoder) anyOf(v value.Value, depth int) (any, error) {
	if depth > d.cfg.maxDepth {
		return nil, failure.NewDepth(d.cfg.maxDepth)
	}
	switch v.Kind() {
	case value.KindNull:
		return nil, nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case value.KindInt:
		i, _ := v.AsInt()
		return i, nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f, nil
	case value.KindString:
		s, _ := v.AsString()
		return s, nil
	case value.KindBytes:
		b, _ := v.AsBytes()
		return append([]byte(nil), b...), nil
	case value.KindList:
		l, _ := v.AsList()
		out := make([]any, len(l))
		for i, e := range l {
			ev, err := d.anyOf(e, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case value.KindMap:
		m, _ := v.AsMap()
		out := make(map[string]any, m.Len())
		for _, k := range m.Keys() {
			e, _ := m.Get(k)
			ev, err := d.anyOf(e, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil
	}
	return nil, failure.ErrEOF
}

func (d *decoder) decodeVariant(v value.Value, vu VariantUnmarshaler, depth int) error {
	if depth > d.cfg.maxDepth {
		return failure.NewDepth(d.cfg.maxDepth)
	}
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return vu.UnmarshalVariant(s, nil)
	case value.KindMap:
		m, _ := v.AsMap()
		keys := m.Keys()
		if len(keys) == 0 {
			return failure.NewExpected("variant name", "empty object")
		}
		if len(keys) > 1 {
			return failure.NewExpected("map with a single key", fmt.Sprintf("extra key %q", keys[1]))
		}
		payload, _ := m.Get(keys[0])
		return vu.UnmarshalVariant(keys[0], &VariantPayload{value: payload, d: d, depth: depth + 1})
	}
	return failure.NewExpected(v.ErrorDescription(), "expected an enum")
}
