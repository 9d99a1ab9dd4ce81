package memcomparable

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	// ErrInsufficientBytesToDecode when insufficient bytes to decode value
	ErrInsufficientBytesToDecode = errors.New("insufficient bytes to decode value")
)

const signMask uint64 = 0x8000000000000000

// EncodeUint64 appends v in big endian
func EncodeUint64(b []byte, v uint64) []byte {
	var data [8]byte
	binary.BigEndian.PutUint64(data[:], v)
	return append(b, data[:]...)
}

// DecodeUint64 is reverse for EncodeUint64
func DecodeUint64(b []byte) (leftover []byte, v uint64, err error) {
	if len(b) < 8 {
		err = ErrInsufficientBytesToDecode
		return
	}

	v = binary.BigEndian.Uint64(b[:8])
	leftover = b[8:]
	return
}

// EncodeInt64 flips the sign bit so negative values sort first
func EncodeInt64(b []byte, v int64) []byte {
	return EncodeUint64(b, uint64(v)^signMask)
}

// EncodeUint8 appends v
func EncodeUint8(b []byte, v uint8) []byte {
	return append(b, v)
}

// EncodeFloat64 sets the sign bit of non negative values and inverts negative ones
func EncodeFloat64(b []byte, v float64) []byte {
	u := math.Float64bits(v)
	if v >= 0 {
		u |= signMask
	} else {
		u = ^u
	}
	return EncodeUint64(b, u)
}

// DecodeFloat64 is reverse for EncodeFloat64
func DecodeFloat64(b []byte) (leftover []byte, v float64, err error) {
	leftover, u, err := DecodeUint64(b)
	if err != nil {
		return
	}
	if u&signMask > 0 {
		u &= ^signMask
	} else {
		u = ^u
	}
	v = math.Float64frombits(u)
	return
}
