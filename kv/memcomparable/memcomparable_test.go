package memcomparable

import (
	"bytes"
	"testing"

	"gotest.tools/assert"
)

func TestBytes(t *testing.T) {
	assert.DeepEqual(t, EncodeBytes(nil, nil), []byte{0, 0, 0, 0, 0, 0, 0, 0, 247})
	assert.DeepEqual(t, EncodeBytes(nil, []byte{1, 2, 3}), []byte{1, 2, 3, 0, 0, 0, 0, 0, 250})

	for _, s := range []string{"", "abc", "abcdefgh", "abcdefghijklmnopq"} {
		enc := EncodeBytes([]byte("p"), []byte(s))
		assert.Equal(t, len(enc), 1+EncodedBytesLength(len(s)))

		leftover, data, err := DecodeBytes(append(enc[1:], 'x'), nil)
		assert.Assert(t, err == nil && string(data) == s && string(leftover) == "x")
	}

	// a prefix sorts before its extensions
	assert.Assert(t, bytes.Compare(EncodeBytes(nil, []byte("abc")), EncodeBytes(nil, []byte("abca"))) < 0)
	assert.Assert(t, bytes.Compare(EncodeBytes(nil, []byte("abc")), EncodeBytes(nil, []byte("abd"))) < 0)

	_, _, err := DecodeBytes([]byte{1, 2, 3}, nil)
	assert.Equal(t, err, ErrInsufficientBytesToDecode)
	_, _, err = DecodeBytes([]byte{1, 2, 3, 0, 0, 0, 0, 0, 200}, nil)
	assert.ErrorContains(t, err, "invalid marker byte")
	_, _, err = DecodeBytes([]byte{1, 2, 3, 0, 0, 0, 0, 9, 250}, nil)
	assert.ErrorContains(t, err, "invalid padding byte")
}

func TestNumber(t *testing.T) {
	assert.Assert(t, bytes.Compare(EncodeInt64(nil, 1), EncodeInt64(nil, -1)) > 0)
	assert.Assert(t, bytes.Compare(EncodeInt64(nil, -2), EncodeInt64(nil, -1)) < 0)
	assert.Assert(t, bytes.Compare(EncodeUint64(nil, 2), EncodeUint64(nil, 1)) > 0)

	assert.Assert(t, bytes.Compare(EncodeInt64(nil, -1<<63), EncodeInt64(nil, 1<<62)) < 0)
	assert.DeepEqual(t, EncodeUint8([]byte{'p'}, 's'), []byte("ps"))

	_, _, err := DecodeUint64([]byte{1})
	assert.Equal(t, err, ErrInsufficientBytesToDecode)
}

func TestFloat(t *testing.T) {
	ordered := []float64{-100.5, -1.1, -0.5, 0, 0.5, 1.1, 100.5}
	for i := 1; i < len(ordered); i++ {
		assert.Assert(t, bytes.Compare(EncodeFloat64(nil, ordered[i-1]), EncodeFloat64(nil, ordered[i])) < 0)
	}

	for _, v := range ordered {
		leftover, d, err := DecodeFloat64(EncodeFloat64(nil, v))
		assert.Assert(t, err == nil && d == v && len(leftover) == 0)
	}
}
