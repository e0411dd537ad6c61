// Package json converts value trees to and from a human-readable JSON
// form. Encoding is total: blobs become base64 strings and a float that
// has no finite JSON representation degrades to its string form. The
// reverse direction maps any JSON document to a value tree, so a blob or
// non-finite float does not survive a JSON round-trip as its original
// kind.
package json

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"

	"github.com/ipld/go-ipld-prime/codec/dagjson"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/multiformats/go-multicodec"
	"github.com/storacha/go-dynval/value"
)

const Code = uint64(multicodec.Json)

type codec struct{}

func (codec) Code() uint64 {
	return Code
}

func (codec) Encode(v value.Value) ([]byte, error) {
	return Encode(v)
}

func (codec) Decode(b []byte) (value.Value, error) {
	return Decode(b)
}

var Codec = codec{}

func Encode(v value.Value) ([]byte, error) {
	nd, err := value.ToIPLD(jsonable(v))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dagjson.Encode(nd, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(b []byte) (value.Value, error) {
	np := basicnode.Prototype.Any
	nb := np.NewBuilder()
	if err := dagjson.Decode(nb, bytes.NewReader(b)); err != nil {
		return value.Value{}, err
	}
	return value.FromIPLD(nb.Build())
}

// jsonable rewrites the kinds JSON cannot carry: blobs to base64 strings,
// non-finite floats to their string form.
func jsonable(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindBytes:
		b, _ := v.AsBytes()
		return value.NewString(base64.StdEncoding.EncodeToString(b))
	case value.KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return value.NewString(strconv.FormatFloat(f, 'g', -1, 64))
		}
		return v
	case value.KindList:
		l, _ := v.AsList()
		out := make([]value.Value, len(l))
		for i, e := range l {
			out[i] = jsonable(e)
		}
		return value.NewList(out)
	case value.KindMap:
		m, _ := v.AsMap()
		out := &value.Map{}
		for _, k := range m.Keys() {
			e, _ := m.Get(k)
			out.Set(k, jsonable(e))
		}
		return value.NewMap(out)
	}
	return v
}
