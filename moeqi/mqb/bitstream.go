// Package mqb parses MOEQIBIN v2 streams: border pixels, an entropy coded
// residual payload and the router/expert model that predicts the interior.
package mqb

import (
	"fmt"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/cocosip/go-moeqi-codec/moeqi/model"
)

const (
	// Magic opens every MOEQIBIN stream.
	Magic = "MOEQIBIN"
	// Version is the only accepted format version.
	Version = 2
	// minStreamLen covers the magic, the version byte and the flags byte.
	minStreamLen = len(Magic) + 2
)

// EntropyCodec selects how the residual payload is coded.
type EntropyCodec int

const (
	Varint EntropyCodec = iota
	Huff
)

func (c EntropyCodec) String() string {
	switch c {
	case Varint:
		return "varint"
	case Huff:
		return "huffman"
	default:
		return fmt.Sprintf("EntropyCodec(%d)", int(c))
	}
}

// WeightPrecision is the storage scheme of a weight matrix.
type WeightPrecision int

const (
	FP32 WeightPrecision = iota
	FP16
	Int8
)

func (p WeightPrecision) String() string {
	switch p {
	case FP32:
		return "fp32"
	case FP16:
		return "fp16"
	case Int8:
		return "int8"
	default:
		return fmt.Sprintf("WeightPrecision(%d)", int(p))
	}
}

// EntropyCodecFromTag maps the codec_id byte.
func EntropyCodecFromTag(tag uint8) (EntropyCodec, error) {
	switch tag {
	case 0:
		return Varint, nil
	case 1:
		return Huff, nil
	default:
		return 0, fmt.Errorf("%w: codec id %d", common.ErrUnsupported, tag)
	}
}

// EntropyCodecTag is the inverse of EntropyCodecFromTag.
func EntropyCodecTag(c EntropyCodec) (uint8, error) {
	switch c {
	case Varint:
		return 0, nil
	case Huff:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: codec %v", common.ErrUnsupported, c)
	}
}

// WeightPrecisionFromTag maps the quant_wr and quant_we bytes.
func WeightPrecisionFromTag(tag uint8) (WeightPrecision, error) {
	switch tag {
	case 0:
		return FP32, nil
	case 1:
		return FP16, nil
	case 2:
		return Int8, nil
	default:
		return 0, fmt.Errorf("%w: weight precision %d", common.ErrUnsupported, tag)
	}
}

// WeightPrecisionTag is the inverse of WeightPrecisionFromTag.
func WeightPrecisionTag(p WeightPrecision) (uint8, error) {
	switch p {
	case FP32:
		return 0, nil
	case FP16:
		return 1, nil
	case Int8:
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: weight precision %v", common.ErrUnsupported, p)
	}
}

// Bitstream is a parsed MOEQIBIN stream. It owns all of its buffers.
type Bitstream struct {
	Width  uint16
	Height uint16
	// QStep scales every decoded residual.
	QStep uint16
	Codec EntropyCodec
	// Flags is reserved and carried through unchanged.
	Flags uint8
	// ExpertPrecision records how the expert weights were stored.
	// Router weights are always fp32.
	ExpertPrecision WeightPrecision

	FirstRow []byte // len Width
	FirstCol []byte // len Height

	// ResidualsCount should be (Width-1)*(Height-1).
	ResidualsCount uint32
	Payload        []byte

	// Canonical Huffman table, only for Codec == Huff.
	HuffSymbols []int16
	HuffLengths []uint8

	Model model.Model
}

// InteriorCount returns (Width-1)*(Height-1), or 0 for a degenerate image.
func (bs *Bitstream) InteriorCount() uint32 {
	if bs.Width == 0 || bs.Height == 0 {
		return 0
	}
	return uint32(bs.Width-1) * uint32(bs.Height-1)
}
