package json

import (
	"encoding/base64"
	"math"
	"testing"

	"github.com/storacha/go-dynval/testing/helpers"
	"github.com/storacha/go-dynval/value"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	v := value.NewMap(value.NewMapOf(
		value.Entry{Key: "id", Value: value.NewInt(7)},
		value.Entry{Key: "name", Value: value.NewString("a")},
		value.Entry{Key: "ok", Value: value.NewBool(true)},
		value.Entry{Key: "none", Value: value.Null()},
	))
	b := helpers.Must(Encode(v))
	require.JSONEq(t, `{"id":7,"name":"a","ok":true,"none":null}`, string(b))
}

func TestEncodeBlobDegradesToBase64(t *testing.T) {
	raw := []byte{0xde, 0xad, 0xbe, 0xef}
	b := helpers.Must(Encode(value.NewBytes(raw)))
	want := `"` + base64.StdEncoding.EncodeToString(raw) + `"`
	require.Equal(t, want, string(b))
}

func TestEncodeNonFiniteFloatDegradesToString(t *testing.T) {
	b := helpers.Must(Encode(value.NewFloat(math.NaN())))
	require.Equal(t, `"NaN"`, string(b))

	b = helpers.Must(Encode(value.NewFloat(math.Inf(1))))
	require.Equal(t, `"+Inf"`, string(b))
}

func TestRoundTrip(t *testing.T) {
	v := value.NewMap(value.NewMapOf(
		value.Entry{Key: "count", Value: value.NewInt(3)},
		value.Entry{Key: "ratio", Value: value.NewFloat(1.5)},
		value.Entry{Key: "items", Value: value.NewList([]value.Value{
			value.NewString("a"), value.Null(),
		})},
	))
	got := helpers.Must(Decode(helpers.Must(Encode(v))))
	require.True(t, v.Equal(got))
}

func TestDecodeError(t *testing.T) {
	_, err := Decode([]byte(`{"truncated":`))
	require.Error(t, err)
}
