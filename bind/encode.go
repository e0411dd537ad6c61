package bind

import (
	"reflect"
	"sort"

	"github.com/storacha/go-dynval/failure"
	"github.com/storacha/go-dynval/value"
)

var valueType = reflect.TypeOf(value.Value{})

// ToValue encodes any supported Go value into an equivalent value tree.
// Encoding is total apart from two cases: a map whose keys do not encode
// to strings, and a Go type with no representation (channels, functions,
// complex numbers).
func ToValue(v any, opts ...Option) (value.Value, error) {
	e := encoder{cfg: newConfig(opts)}
	return e.encode(reflect.ValueOf(v), 0)
}

type encoder struct {
	cfg config
}

func (e *encoder) encode(rv reflect.Value, depth int) (value.Value, error) {
	if depth > e.cfg.maxDepth {
		return value.Value{}, failure.NewDepth(e.cfg.maxDepth)
	}
	if !rv.IsValid() {
		return value.Null(), nil
	}
	if rv.Type() == valueType {
		return rv.Interface().(value.Value), nil
	}
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return value.Null(), nil
	}
	if rv.CanInterface() {
		if m, ok := rv.Interface().(Marshaler); ok {
			return m.MarshalValue()
		}
		if va, ok := rv.Interface().(Variant); ok {
			return e.encodeVariant(va, depth)
		}
		if rv.CanAddr() {
			if m, ok := rv.Addr().Interface().(Marshaler); ok {
				return m.MarshalValue()
			}
			if va, ok := rv.Addr().Interface().(Variant); ok {
				return e.encodeVariant(va, depth)
			}
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return value.NewBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		// unsigned values are reinterpreted as signed bit patterns
		return value.NewInt(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return value.NewFloat(rv.Float()), nil
	case reflect.String:
		return value.NewString(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return value.Null(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// copied so the tree does not alias the caller's buffer
			return value.NewBytes(append([]byte(nil), rv.Bytes()...)), nil
		}
		return e.encodeList(rv, depth)
	case reflect.Array:
		return e.encodeList(rv, depth)
	case reflect.Map:
		if rv.IsNil() {
			return value.Null(), nil
		}
		return e.encodeMap(rv, depth)
	case reflect.Struct:
		return e.encodeStruct(rv, depth)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return value.Null(), nil
		}
		return e.encode(rv.Elem(), depth)
	}
	return value.Value{}, failure.NewCustom("unsupported type: %s", rv.Type())
}

func (e *encoder) encodeList(rv reflect.Value, depth int) (value.Value, error) {
	n := rv.Len()
	l := make([]value.Value, n)
	for i := 0; i < n; i++ {
		ev, err := e.encode(rv.Index(i), depth+1)
		if err != nil {
			return value.Value{}, err
		}
		l[i] = ev
	}
	return value.NewList(l), nil
}

func (e *encoder) encodeMap(rv reflect.Value, depth int) (value.Value, error) {
	keys := make([]string, 0, rv.Len())
	vals := make(map[string]reflect.Value, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		kv, err := e.encode(it.Key(), depth+1)
		if err != nil {
			return value.Value{}, err
		}
		ks, ok := kv.AsString()
		if !ok {
			return value.Value{}, failure.NewExpected("type str", kv.ErrorDescription())
		}
		keys = append(keys, ks)
		vals[ks] = it.Value()
	}
	if e.cfg.sortKeys {
		sort.Strings(keys)
	}
	m := &value.Map{}
	for _, k := range keys {
		ev, err := e.encode(vals[k], depth+1)
		if err != nil {
			return value.Value{}, err
		}
		m.Set(k, ev)
	}
	return value.NewMap(m), nil
}

func (e *encoder) encodeStruct(rv reflect.Value, depth int) (value.Value, error) {
	plan, err := planFor(rv.Type())
	if err != nil {
		return value.Value{}, err
	}
	// a zero-field marker type is the empty array
	if len(plan.fields) == 0 {
		return value.NewList(nil), nil
	}
	m := &value.Map{}
	for _, f := range plan.fields {
		fv := rv.Field(f.index)
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		ev, err := e.encode(fv, depth+1)
		if err != nil {
			return value.Value{}, err
		}
		m.Set(f.name, ev)
	}
	return value.NewMap(m), nil
}

func (e *encoder) encodeVariant(va Variant, depth int) (value.Value, error) {
	name, payloads, err := va.MarshalVariant()
	if err != nil {
		return value.Value{}, err
	}
	switch len(payloads) {
	case 0:
		return value.NewString(name), nil
	case 1:
		pv, err := e.encode(reflect.ValueOf(payloads[0]), depth+1)
		if err != nil {
			return value.Value{}, err
		}
		m := &value.Map{}
		m.Set(name, pv)
		return value.NewMap(m), nil
	default:
		l := make([]value.Value, len(payloads))
		for i, p := range payloads {
			pv, err := e.encode(reflect.ValueOf(p), depth+1)
			if err != nil {
				return value.Value{}, err
			}
			l[i] = pv
		}
		m := &value.Map{}
		m.Set(name, value.NewList(l))
		return value.NewMap(m), nil
	}
}
