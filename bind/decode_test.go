package bind

import (
	"errors"
	"math"
	"testing"

	"github.com/storacha/go-dynval/failure"
	"github.com/storacha/go-dynval/testing/helpers"
	"github.com/storacha/go-dynval/value"
	"github.com/stretchr/testify/require"
)

func objectOf(entries ...value.Entry) value.Value {
	return value.NewMap(value.NewMapOf(entries...))
}

func TestDecodePrimitives(t *testing.T) {
	var b bool
	require.NoError(t, FromValue(value.NewBool(true), &b))
	require.True(t, b)

	var i int32
	require.NoError(t, FromValue(value.NewInt(-9), &i))
	require.Equal(t, int32(-9), i)

	var u uint64
	require.NoError(t, FromValue(value.NewInt(-1), &u))
	require.Equal(t, uint64(math.MaxUint64), u)

	var f float64
	require.NoError(t, FromValue(value.NewFloat(2.5), &f))
	require.Equal(t, 2.5, f)

	// integers widen into float targets
	require.NoError(t, FromValue(value.NewInt(3), &f))
	require.Equal(t, 3.0, f)

	var s string
	require.NoError(t, FromValue(value.NewString("hi"), &s))
	require.Equal(t, "hi", s)

	var x []byte
	require.NoError(t, FromValue(value.NewBytes([]byte{7}), &x))
	require.Equal(t, []byte{7}, x)
}

func TestDecodeTypeMismatch(t *testing.T) {
	var i int64
	err := FromValue(objectOf(), &i)
	var exp *failure.ExpectedError
	require.True(t, errors.As(err, &exp))
	require.Equal(t, "type integer", exp.Expected)
	require.Equal(t, "type object", exp.Found)
}

func TestDecodeIntegerOverflow(t *testing.T) {
	var i int8
	err := FromValue(value.NewInt(300), &i)
	var exp *failure.ExpectedError
	require.True(t, errors.As(err, &exp))
	require.Equal(t, "8-bit integer", exp.Expected)
	require.Equal(t, "integer 300", exp.Found)
}

func TestDecodeOptionals(t *testing.T) {
	t.Run("null decodes to absent", func(t *testing.T) {
		present := int64(1)
		p := &present
		require.NoError(t, FromValue(value.Null(), &p))
		require.Nil(t, p)
	})

	t.Run("anything else decodes to present", func(t *testing.T) {
		var p *int64
		require.NoError(t, FromValue(value.NewInt(5), &p))
		require.NotNil(t, p)
		require.Equal(t, int64(5), *p)
	})

	t.Run("null does not decode to a non-optional", func(t *testing.T) {
		var i int64
		err := FromValue(value.Null(), &i)
		var exp *failure.ExpectedError
		require.True(t, errors.As(err, &exp))
		require.Equal(t, "type null", exp.Found)
	})
}

func TestDecodeUnit(t *testing.T) {
	// the empty array and the canonical unit encoding are the same shape,
	// both decode into a zero-field marker
	var u unit
	require.NoError(t, FromValue(value.NewList(nil), &u))

	canonical := helpers.Must(ToValue(unit{}))
	require.NoError(t, FromValue(canonical, &u))

	err := FromValue(value.NewList([]value.Value{value.NewInt(1)}), &u)
	require.Error(t, err)
}

func TestDecodeSequences(t *testing.T) {
	var s []int64
	require.NoError(t, FromValue(value.NewList([]value.Value{
		value.NewInt(1), value.NewInt(2),
	}), &s))
	require.Equal(t, []int64{1, 2}, s)

	var a [2]string
	require.NoError(t, FromValue(value.NewList([]value.Value{
		value.NewString("a"), value.NewString("b"),
	}), &a))
	require.Equal(t, [2]string{"a", "b"}, a)

	err := FromValue(value.NewList([]value.Value{value.NewString("a")}), &a)
	var exp *failure.ExpectedError
	require.True(t, errors.As(err, &exp))
	require.Equal(t, "length 2", exp.Expected)
	require.Equal(t, "length 1", exp.Found)
}

func TestDecodeMap(t *testing.T) {
	var m map[string]int64
	require.NoError(t, FromValue(objectOf(
		value.Entry{Key: "a", Value: value.NewInt(1)},
		value.Entry{Key: "b", Value: value.NewInt(2)},
	), &m))
	require.Equal(t, map[string]int64{"a": 1, "b": 2}, m)

	err := FromValue(value.NewInt(1), &m)
	var exp *failure.ExpectedError
	require.True(t, errors.As(err, &exp))
	require.Equal(t, "a map", exp.Expected)
	require.Equal(t, "type integer", exp.Found)
}

func TestDecodeStruct(t *testing.T) {
	v := objectOf(
		value.Entry{Key: "id", Value: value.NewInt(7)},
		value.Entry{Key: "name", Value: value.NewString("a")},
	)
	var r record
	require.NoError(t, FromValue(v, &r))
	require.Equal(t, record{ID: 7, Name: "a"}, r)
}

func TestDecodeStructMismatch(t *testing.T) {
	var r record
	err := FromValue(value.NewInt(1), &r)
	var exp *failure.ExpectedError
	require.True(t, errors.As(err, &exp))
	require.Equal(t, "a struct", exp.Expected)
	require.Equal(t, "type integer", exp.Found)
}

func TestDecodeStructMissingField(t *testing.T) {
	var r record
	err := FromValue(objectOf(value.Entry{Key: "id", Value: value.NewInt(7)}), &r)
	var missing *failure.MissingError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "name", missing.Field)
}

func TestDecodeStructOptionalField(t *testing.T) {
	type profile struct {
		Name string  `dynval:"name"`
		Bio  *string `dynval:"bio"`
	}
	var p profile
	require.NoError(t, FromValue(objectOf(
		value.Entry{Key: "name", Value: value.NewString("a")},
	), &p))
	require.Nil(t, p.Bio)
}

func TestDecodeStructUnknownField(t *testing.T) {
	v := objectOf(
		value.Entry{Key: "id", Value: value.NewInt(7)},
		value.Entry{Key: "name", Value: value.NewString("a")},
		value.Entry{Key: "extra", Value: value.NewBool(true)},
	)

	t.Run("ignored by default", func(t *testing.T) {
		var r record
		require.NoError(t, FromValue(v, &r))
	})

	t.Run("rejected when disallowed", func(t *testing.T) {
		var r record
		err := FromValue(v, &r, DisallowUnknownFields())
		var unknown *failure.UnknownError
		require.True(t, errors.As(err, &unknown))
		require.Equal(t, "extra", unknown.Ident)
	})
}

func TestDecodeVariants(t *testing.T) {
	t.Run("bare tag round trip", func(t *testing.T) {
		var m message
		require.NoError(t, FromValue(value.NewString("Quit"), &m))
		require.Equal(t, message{Kind: "Quit"}, m)
	})

	t.Run("single payload", func(t *testing.T) {
		var m message
		v := helpers.Must(ToValue(message{Kind: "Write", Text: "hi"}))
		require.NoError(t, FromValue(v, &m))
		require.Equal(t, message{Kind: "Write", Text: "hi"}, m)
	})

	t.Run("struct payload", func(t *testing.T) {
		var m message
		v := helpers.Must(ToValue(message{Kind: "Move", Move: move{X: 1, Y: 2}}))
		require.NoError(t, FromValue(v, &m))
		require.Equal(t, message{Kind: "Move", Move: move{X: 1, Y: 2}}, m)
	})

	t.Run("positional payloads", func(t *testing.T) {
		var m message
		v := helpers.Must(ToValue(message{Kind: "ChangeColor", R: 1, G: 2, B: 3}))
		require.NoError(t, FromValue(v, &m))
		require.Equal(t, message{Kind: "ChangeColor", R: 1, G: 2, B: 3}, m)
	})

	t.Run("empty object", func(t *testing.T) {
		var m message
		err := FromValue(objectOf(), &m)
		var exp *failure.ExpectedError
		require.True(t, errors.As(err, &exp))
		require.Equal(t, "variant name", exp.Expected)
		require.Equal(t, "empty object", exp.Found)
	})

	t.Run("extra key", func(t *testing.T) {
		var m message
		err := FromValue(objectOf(
			value.Entry{Key: "Write", Value: value.NewString("hi")},
			value.Entry{Key: "Oops", Value: value.NewInt(1)},
		), &m)
		var exp *failure.ExpectedError
		require.True(t, errors.As(err, &exp))
		require.Equal(t, "map with a single key", exp.Expected)
		require.Equal(t, `extra key "Oops"`, exp.Found)
	})

	t.Run("struct payload mismatch", func(t *testing.T) {
		var m message
		err := FromValue(objectOf(
			value.Entry{Key: "Move", Value: value.NewInt(5)},
		), &m)
		var exp *failure.ExpectedError
		require.True(t, errors.As(err, &exp))
		require.Equal(t, "type integer", exp.Expected)
		require.Equal(t, "expected a struct", exp.Found)
	})

	t.Run("options reach the payload", func(t *testing.T) {
		v := objectOf(value.Entry{Key: "Move", Value: objectOf(
			value.Entry{Key: "x", Value: value.NewInt(1)},
			value.Entry{Key: "y", Value: value.NewInt(2)},
			value.Entry{Key: "extra", Value: value.NewBool(true)},
		)})
		var m message
		require.NoError(t, FromValue(v, &m))

		err := FromValue(v, &m, DisallowUnknownFields())
		var unknown *failure.UnknownError
		require.True(t, errors.As(err, &unknown))
		require.Equal(t, "extra", unknown.Ident)
	})

	t.Run("non-enum shape", func(t *testing.T) {
		var m message
		err := FromValue(value.NewInt(1), &m)
		var exp *failure.ExpectedError
		require.True(t, errors.As(err, &exp))
		require.Equal(t, "type integer", exp.Expected)
		require.Equal(t, "expected an enum", exp.Found)
	})

	t.Run("unknown tag", func(t *testing.T) {
		var m message
		err := FromValue(value.NewString("Dance"), &m)
		var unknown *failure.UnknownError
		require.True(t, errors.As(err, &unknown))
		require.Equal(t, "Dance", unknown.Ident)
	})

	t.Run("payload missing", func(t *testing.T) {
		var m message
		err := FromValue(value.NewString("Write"), &m)
		require.True(t, errors.Is(err, failure.ErrEOF))
	})
}

// tree is a recursive tagged union: Leaf carries nothing, Node carries
// another tree.
type tree struct {
	Leaf  bool
	Child *tree
}

func (n *tree) UnmarshalVariant(name string, payload *VariantPayload) error {
	switch name {
	case "Leaf":
		n.Leaf = true
		return nil
	case "Node":
		n.Child = &tree{}
		return FromVariantPayload(payload, n.Child)
	}
	return failure.NewUnknown(name)
}

func TestDecodeRecursiveVariant(t *testing.T) {
	m := &value.Map{}
	m.Set("Node", value.NewString("Leaf"))
	var root tree
	require.NoError(t, FromValue(value.NewMap(m), &root))
	require.NotNil(t, root.Child)
	require.True(t, root.Child.Leaf)
}

func TestDecodeRecursiveVariantDepthGuard(t *testing.T) {
	// the limit holds across UnmarshalVariant re-entry
	v := value.NewString("Leaf")
	for i := 0; i < 100000; i++ {
		m := &value.Map{}
		m.Set("Node", v)
		v = value.NewMap(m)
	}
	var root tree
	err := FromValue(v, &root, WithMaxDepth(10))
	var depth *failure.DepthError
	require.True(t, errors.As(err, &depth))
	require.Equal(t, 10, depth.Max)
}

func TestDecodeDynamic(t *testing.T) {
	var out any
	v := objectOf(
		value.Entry{Key: "ok", Value: value.NewBool(true)},
		value.Entry{Key: "count", Value: value.NewInt(3)},
		value.Entry{Key: "items", Value: value.NewList([]value.Value{
			value.NewString("a"), value.NewFloat(1.5), value.Null(),
		})},
	)
	require.NoError(t, FromValue(v, &out))
	require.Equal(t, map[string]any{
		"ok":    true,
		"count": int64(3),
		"items": []any{"a", 1.5, nil},
	}, out)
}

func TestDecodeDepthGuard(t *testing.T) {
	v := value.NewString("leaf")
	for i := 0; i < 2000; i++ {
		v = value.NewList([]value.Value{v})
	}
	var out any
	err := FromValue(v, &out)
	var depth *failure.DepthError
	require.True(t, errors.As(err, &depth))
}

func TestDecodeValuePassthrough(t *testing.T) {
	var out value.Value
	require.NoError(t, FromValue(value.NewInt(9), &out))
	require.True(t, out.Equal(value.NewInt(9)))
}

func TestDecodeTargetMustBePointer(t *testing.T) {
	var i int64
	err := FromValue(value.NewInt(1), i)
	require.Error(t, err)

	err = FromValue(value.NewInt(1), nil)
	require.Error(t, err)
}
