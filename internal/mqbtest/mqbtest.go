// Package mqbtest builds MOEQIBIN fixtures for tests. It writes the layout
// read by mqb.Parse, including deliberately malformed variants.
package mqbtest

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/x448/float16"

	"github.com/cocosip/go-moeqi-codec/moeqi/mqb"
	"github.com/cocosip/go-moeqi-codec/moeqi/varint"
)

// Options overrides header fields the Bitstream cannot express.
type Options struct {
	Version         uint8   // 0 means mqb.Version
	RouterPrecision uint8   // written as quant_wr
	CodecID         *uint8  // nil means the tag of bs.Codec
	ExpertTag       *uint8  // nil means the tag of bs.ExpertPrecision
	Int8Scale       float32 // 0 derives the scale from the largest weight
}

// Write serializes bs. Expert weights are converted to bs.ExpertPrecision.
func Write(bs *mqb.Bitstream, opts Options) []byte {
	version := opts.Version
	if version == 0 {
		version = mqb.Version
	}
	codecID, _ := mqb.EntropyCodecTag(bs.Codec)
	if opts.CodecID != nil {
		codecID = *opts.CodecID
	}
	expertTag, _ := mqb.WeightPrecisionTag(bs.ExpertPrecision)
	if opts.ExpertTag != nil {
		expertTag = *opts.ExpertTag
	}

	le := binary.LittleEndian
	out := []byte(mqb.Magic)
	out = append(out, version, bs.Flags, codecID, opts.RouterPrecision, expertTag)
	out = le.AppendUint16(out, bs.Width)
	out = le.AppendUint16(out, bs.Height)
	out = le.AppendUint16(out, bs.QStep)
	out = le.AppendUint16(out, bs.Model.NumExperts)
	out = le.AppendUint32(out, bs.ResidualsCount)
	out = append(out, bs.FirstRow...)
	out = append(out, bs.FirstCol...)
	out = le.AppendUint32(out, uint32(len(bs.Payload)))
	out = append(out, bs.Payload...)

	if bs.Codec == mqb.Huff {
		out = le.AppendUint16(out, uint16(len(bs.HuffSymbols)))
		for i, s := range bs.HuffSymbols {
			out = le.AppendUint16(out, uint16(s))
			out = append(out, bs.HuffLengths[i])
		}
	}

	for _, w := range bs.Model.Router {
		out = le.AppendUint32(out, math.Float32bits(w))
	}
	switch bs.ExpertPrecision {
	case mqb.FP16:
		for _, w := range bs.Model.Experts {
			out = le.AppendUint16(out, float16.Fromfloat32(w).Bits())
		}
	case mqb.Int8:
		scale := opts.Int8Scale
		if scale == 0 {
			scale = Int8Scale(bs.Model.Experts)
		}
		out = le.AppendUint32(out, math.Float32bits(scale))
		for _, w := range bs.Model.Experts {
			out = append(out, byte(int8(math.Round(float64(w/scale)))))
		}
	default:
		for _, w := range bs.Model.Experts {
			out = le.AppendUint32(out, math.Float32bits(w))
		}
	}
	return out
}

// Int8Scale maps the largest weight magnitude to 127.
func Int8Scale(ws []float32) float32 {
	var m float32
	for _, w := range ws {
		if a := float32(math.Abs(float64(w))); a > m {
			m = a
		}
	}
	if m == 0 {
		return 1
	}
	return m / 127
}

// VarintPayload codes residuals the way the luma decoder reads Varint streams.
func VarintPayload(residuals []int16) []byte {
	return varint.EncodeInt16s(residuals)
}

// HuffmanPayload codes residuals with the canonical code of (symbols, lengths),
// code bits most significant first, packed least significant bit first.
func HuffmanPayload(residuals []int16, symbols []int16, lengths []uint8) []byte {
	type entry struct {
		symbol int16
		length uint8
	}
	entries := make([]entry, len(symbols))
	for i := range symbols {
		entries[i] = entry{symbols[i], lengths[i]}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}
		return entries[i].symbol < entries[j].symbol
	})

	type code struct {
		bits   uint64
		length uint8
	}
	codes := make(map[int16]code, len(entries))
	var c uint64
	for i, e := range entries {
		if i > 0 {
			c = (c + 1) << (e.length - entries[i-1].length)
		}
		codes[e.symbol] = code{c, e.length}
	}

	var out []byte
	pos := 0
	for _, r := range residuals {
		cd, ok := codes[r]
		if !ok {
			panic("mqbtest: residual has no code")
		}
		for b := int(cd.length) - 1; b >= 0; b-- {
			if pos%8 == 0 {
				out = append(out, 0)
			}
			if cd.bits>>uint(b)&1 == 1 {
				out[pos/8] |= 1 << uint(pos%8)
			}
			pos++
		}
	}
	return out
}
