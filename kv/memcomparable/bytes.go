// Package memcomparable encodes values so that bytes.Compare on the encoding
// orders them the same way as the values.
package memcomparable

import (
	"fmt"

	"github.com/zhiqiangxu/util/bytes"
)

const (
	encGroupSize = 8
	encMarker    = byte(0xFF)
	encPad       = byte(0x0)
)

var (
	pads = make([]byte, encGroupSize)
)

// EncodeBytes appends the memcomparable form of data to b.
//  [group1][marker1]...[groupN][markerN]
// group is 8 bytes padded with 0, marker is 0xFF minus the padding count:
//   [] -> [0, 0, 0, 0, 0, 0, 0, 0, 247]
//   [1, 2, 3] -> [1, 2, 3, 0, 0, 0, 0, 0, 250]
func EncodeBytes(b []byte, data []byte) []byte {
	dLen := len(data)
	result := bytes.Realloc(b, EncodedBytesLength(dLen))
	for idx := 0; idx <= dLen; idx += encGroupSize {
		remain := dLen - idx
		padCount := 0
		if remain >= encGroupSize {
			result = append(result, data[idx:idx+encGroupSize]...)
		} else {
			padCount = encGroupSize - remain
			result = append(result, data[idx:]...)
			result = append(result, pads[:padCount]...)
		}
		result = append(result, encMarker-byte(padCount))
	}

	return result
}

// EncodedBytesLength returns the length of data after encoded
func EncodedBytesLength(dataLen int) int {
	return (dataLen/encGroupSize + 1) * (encGroupSize + 1)
}

// DecodeBytes is reverse for EncodeBytes, buf is reused when not nil
func DecodeBytes(b []byte, buf []byte) (leftover []byte, data []byte, err error) {
	if buf == nil {
		buf = make([]byte, 0, len(b))
	}
	buf = buf[:0]
	for {
		if len(b) < encGroupSize+1 {
			err = ErrInsufficientBytesToDecode
			return
		}

		group := b[:encGroupSize]
		marker := b[encGroupSize]
		padCount := encMarker - marker
		if padCount > encGroupSize {
			err = fmt.Errorf("invalid marker byte, group bytes %q", b[:encGroupSize+1])
			return
		}

		realGroupSize := encGroupSize - padCount
		buf = append(buf, group[:realGroupSize]...)
		b = b[encGroupSize+1:]

		if padCount != 0 {
			for _, v := range group[realGroupSize:] {
				if v != encPad {
					err = fmt.Errorf("invalid padding byte, group bytes %q", group)
					return
				}
			}
			break
		}
	}

	leftover = b
	data = buf
	return
}
