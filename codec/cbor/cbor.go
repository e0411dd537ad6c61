// Package cbor implements a DAG-CBOR binary codec for the value tree.
// DAG-CBOR forbids non-finite floats, trees containing NaN or an infinity
// need the compact codec instead.
package cbor

import (
	"bytes"

	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/multiformats/go-multicodec"
	"github.com/storacha/go-dynval/value"
)

const Code = uint64(multicodec.DagCbor)

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
	nd, err := value.ToIPLD(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dagcbor.Encode(nd, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(b []byte) (value.Value, error) {
	np := basicnode.Prototype.Any
	nb := np.NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(b)); err != nil {
		return value.Value{}, err
	}
	return value.FromIPLD(nb.Build())
}
