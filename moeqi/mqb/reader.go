package mqb

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

// reader is a bounds-checked little-endian cursor. Every read checks the
// remaining length before touching the buffer.
type reader struct {
	data []byte
	off  int
}

func (r *reader) need(n int, what string) error {
	if n < 0 || len(r.data)-r.off < n {
		return fmt.Errorf("%w: %w: %s needs %d bytes at offset %d, %d left",
			common.ErrFormat, common.ErrUnexpectedEOF, what, n, r.off, len(r.data)-r.off)
	}
	return nil
}

func (r *reader) u8(what string) (uint8, error) {
	if err := r.need(1, what); err != nil {
		return 0, err
	}
	v := r.data[r.off]
	r.off++
	return v, nil
}

func (r *reader) u16(what string) (uint16, error) {
	if err := r.need(2, what); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) i16(what string) (int16, error) {
	v, err := r.u16(what)
	return int16(v), err
}

func (r *reader) u32(what string) (uint32, error) {
	if err := r.need(4, what); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) f32(what string) (float32, error) {
	v, err := r.u32(what)
	return math.Float32frombits(v), err
}

// bytes returns a copy of the next n bytes.
func (r *reader) bytes(n int, what string) ([]byte, error) {
	if err := r.need(n, what); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.off:r.off+n])
	r.off += n
	return out, nil
}

func (r *reader) f32s(n int, what string) ([]float32, error) {
	if err := r.need(4*n, what); err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
		r.off += 4
	}
	return out, nil
}

func (r *reader) f16s(n int, what string) ([]float32, error) {
	if err := r.need(2*n, what); err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = HalfToFloat32(binary.LittleEndian.Uint16(r.data[r.off:]))
		r.off += 2
	}
	return out, nil
}
