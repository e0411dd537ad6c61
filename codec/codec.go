// Package codec defines the interfaces a byte-level codec for the value
// tree must satisfy. Codecs are identified by multicodec code.
package codec

import (
	"github.com/storacha/go-dynval/value"
)

type Encoder interface {
	Code() uint64
	Encode(v value.Value) ([]byte, error)
}

type Decoder interface {
	Code() uint64
	Decode(b []byte) (value.Value, error)
}

type Codec interface {
	Encoder
	Decoder
}
