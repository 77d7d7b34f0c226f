// Package varint implements zigzag mapping and LEB128-style unsigned varints
// used to code prediction residuals.
package varint

import (
	"fmt"
	"math"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

// MaxLen32 is the longest encoding of a 32-bit value.
const MaxLen32 = 5

// ErrOverflow is returned when a varint continues past MaxLen32 bytes.
var ErrOverflow = fmt.Errorf("%w: varint overflows 32 bits", common.ErrInvalidData)

// Zigzag16 maps a signed 16-bit value so that small magnitudes stay small.
func Zigzag16(v int16) uint16 {
	x := int32(v)
	return uint16((x << 1) ^ (x >> 15))
}

// Unzigzag16 is the inverse of Zigzag16.
func Unzigzag16(u uint16) int16 {
	x := int32(u)
	return int16((x >> 1) ^ -(x & 1))
}

// Zigzag32 maps a signed 32-bit value to an unsigned one.
func Zigzag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

// Unzigzag32 is the inverse of Zigzag32.
func Unzigzag32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// AppendUvarint appends v, 7 bits per byte, low group first.
func AppendUvarint(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)&0x7F|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Uvarint decodes one value from the start of src and returns it with the
// number of bytes consumed.
func Uvarint(src []byte) (uint32, int, error) {
	var (
		v     uint32
		shift uint
	)
	for i, b := range src {
		v |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
		if shift > 28 {
			return 0, 0, ErrOverflow
		}
	}
	return 0, 0, fmt.Errorf("%w: truncated varint", common.ErrUnexpectedEOF)
}

// AppendInt16 appends the zigzag varint of v using the 16-bit mapping.
func AppendInt16(dst []byte, v int16) []byte {
	return AppendUvarint(dst, uint32(Zigzag16(v)))
}

// EncodeInt16s codes a residual slice with the 32-bit zigzag mapping.
func EncodeInt16s(vals []int16) []byte {
	out := make([]byte, 0, len(vals))
	for _, v := range vals {
		out = AppendUvarint(out, Zigzag32(int32(v)))
	}
	return out
}

// DecodeInt16s decodes exactly count values coded by EncodeInt16s. Values outside
// the int16 range are clamped.
func DecodeInt16s(src []byte, count int) ([]int16, error) {
	// Every value takes at least one byte.
	if count > len(src) {
		return nil, fmt.Errorf("%w: %d values need at least %d bytes, have %d",
			common.ErrUnexpectedEOF, count, count, len(src))
	}

	out := make([]int16, 0, count)
	pos := 0
	for len(out) < count {
		u, n, err := Uvarint(src[pos:])
		if err != nil {
			return nil, fmt.Errorf("value %d at offset %d: %w", len(out), pos, err)
		}
		pos += n

		v := Unzigzag32(u)
		if v < math.MinInt16 {
			v = math.MinInt16
		}
		if v > math.MaxInt16 {
			v = math.MaxInt16
		}
		out = append(out, int16(v))
	}
	return out, nil
}
