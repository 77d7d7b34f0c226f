// Package envelope stores container bytes zstd-compressed on disk. The
// containers themselves never change; Unwrap passes bare streams through.
package envelope

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

// MaxDecodedSize bounds the memory a single Unwrap may allocate.
const MaxDecodedSize = 1 << 30

// frameMagic opens every zstd frame.
var frameMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

func mustNewEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(MaxDecodedSize),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var encPool = sync.Pool{
	New: func() any {
		return mustNewEncoder()
	},
}

var decPool = sync.Pool{
	New: func() any {
		return mustNewDecoder()
	},
}

// IsWrapped reports whether data starts with a zstd frame.
func IsWrapped(data []byte) bool {
	return bytes.HasPrefix(data, frameMagic)
}

// Wrap compresses data into a single zstd frame.
func Wrap(data []byte) []byte {
	enc := encPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(data, nil)
	encPool.Put(enc)
	return out
}

// Unwrap decompresses a zstd envelope. Data without the zstd magic is
// returned unchanged.
func Unwrap(data []byte) ([]byte, error) {
	if !IsWrapped(data) {
		return data, nil
	}

	dec := decPool.Get().(*zstd.Decoder)
	out, err := dec.DecodeAll(data, nil)
	decPool.Put(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd envelope: %w", common.ErrInvalidData, err)
	}
	return out, nil
}
