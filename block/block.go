// Package block pairs an encoded value tree with the content address of
// its bytes, so encoded values can be stored, deduplicated and verified
// by hash.
package block

import (
	"bytes"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/datamodel"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
	"github.com/storacha/go-dynval/codec"
	"github.com/storacha/go-dynval/value"
)

type Block interface {
	Link() datamodel.Link
	Bytes() []byte
}

type block struct {
	link  datamodel.Link
	bytes []byte
}

func (b *block) Link() datamodel.Link {
	return b.link
}

func (b *block) Bytes() []byte {
	return b.bytes
}

func NewBlock(link datamodel.Link, bytes []byte) Block {
	return &block{link, bytes}
}

// Encode serializes v with enc and addresses the bytes with a CIDv1
// carrying the codec's code and a SHA2-256 multihash.
func Encode(v value.Value, enc codec.Encoder) (Block, error) {
	b, err := enc.Encode(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding value")
	}
	c, err := cid.Prefix{
		Version:  1,
		Codec:    enc.Code(),
		MhType:   multihash.SHA2_256,
		MhLength: -1,
	}.Sum(b)
	if err != nil {
		return nil, errors.Wrap(err, "hashing block")
	}
	return NewBlock(cidlink.Link{Cid: c}, b), nil
}

// Decode verifies that blk was encoded with dec's codec and decodes its
// bytes back to a value tree.
func Decode(blk Block, dec codec.Decoder) (value.Value, error) {
	link, ok := blk.Link().(cidlink.Link)
	if !ok {
		return value.Value{}, errors.Errorf("unsupported link type: %T", blk.Link())
	}
	prefix := link.Cid.Prefix()
	if prefix.Codec != dec.Code() {
		return value.Value{}, errors.Errorf("block codec 0x%x does not match decoder codec 0x%x", prefix.Codec, dec.Code())
	}
	sum, err := prefix.Sum(blk.Bytes())
	if err != nil {
		return value.Value{}, errors.Wrap(err, "hashing block")
	}
	if !bytes.Equal(sum.Hash(), link.Cid.Hash()) {
		return value.Value{}, errors.New("block bytes do not match link hash")
	}
	return dec.Decode(blk.Bytes())
}
