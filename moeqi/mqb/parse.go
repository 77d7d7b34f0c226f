package mqb

import (
	"bytes"
	"fmt"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/cocosip/go-moeqi-codec/moeqi/model"
)

// Parse decodes a MOEQIBIN v2 stream. Layout, all little-endian:
//
//	magic[8] version:u8 flags:u8 codec_id:u8 quant_wr:u8 quant_we:u8
//	width:u16 height:u16 qstep:u16 experts:u16 residuals_count:u32
//	first_row[width] first_col[height] payload_len:u32 payload[payload_len]
//	if codec_id == 1: nsym:u16 then nsym x (symbol:i16 length:u8)
//	router: experts*7 x f32
//	experts: per quant_we (fp32, fp16, or scale:f32 followed by int8)
//
// Trailing bytes are ignored. Parse does not check the borders against the
// dimensions; the luma decoder does.
func Parse(data []byte) (*Bitstream, error) {
	if len(data) < minStreamLen {
		return nil, fmt.Errorf("%w: %d bytes is too short for a MOEQIBIN stream", common.ErrFormat, len(data))
	}
	if !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return nil, fmt.Errorf("%w: bad magic %q", common.ErrFormat, data[:len(Magic)])
	}
	r := &reader{data: data, off: len(Magic)}

	version, err := r.u8("version")
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: version %d", common.ErrUnsupported, version)
	}

	bs := &Bitstream{}
	if bs.Flags, err = r.u8("flags"); err != nil {
		return nil, err
	}

	codecID, err := r.u8("codec id")
	if err != nil {
		return nil, err
	}
	if bs.Codec, err = EntropyCodecFromTag(codecID); err != nil {
		return nil, err
	}

	quantWR, err := r.u8("router precision")
	if err != nil {
		return nil, err
	}
	if quantWR != 0 {
		return nil, fmt.Errorf("%w: router weights must be fp32, got precision %d", common.ErrUnsupported, quantWR)
	}
	quantWE, err := r.u8("expert precision")
	if err != nil {
		return nil, err
	}
	if bs.ExpertPrecision, err = WeightPrecisionFromTag(quantWE); err != nil {
		return nil, err
	}

	if bs.Width, err = r.u16("width"); err != nil {
		return nil, err
	}
	if bs.Height, err = r.u16("height"); err != nil {
		return nil, err
	}
	if bs.QStep, err = r.u16("qstep"); err != nil {
		return nil, err
	}
	numExperts, err := r.u16("expert count")
	if err != nil {
		return nil, err
	}
	if bs.ResidualsCount, err = r.u32("residuals count"); err != nil {
		return nil, err
	}

	if bs.FirstRow, err = r.bytes(int(bs.Width), "first row"); err != nil {
		return nil, err
	}
	if bs.FirstCol, err = r.bytes(int(bs.Height), "first column"); err != nil {
		return nil, err
	}

	payloadLen, err := r.u32("payload length")
	if err != nil {
		return nil, err
	}
	if bs.Payload, err = r.bytes(int(payloadLen), "payload"); err != nil {
		return nil, err
	}

	if bs.Codec == Huff {
		if err := parseHuffTable(r, bs); err != nil {
			return nil, err
		}
	}

	n := int(numExperts) * model.FeatureWidth
	router, err := r.f32s(n, "router weights")
	if err != nil {
		return nil, err
	}
	experts, err := parseExperts(r, bs.ExpertPrecision, n)
	if err != nil {
		return nil, err
	}
	bs.Model = model.Model{NumExperts: numExperts, Router: router, Experts: experts}
	return bs, nil
}

func parseHuffTable(r *reader, bs *Bitstream) error {
	nsym, err := r.u16("huffman table size")
	if err != nil {
		return err
	}
	if err := r.need(3*int(nsym), "huffman table"); err != nil {
		return err
	}
	bs.HuffSymbols = make([]int16, nsym)
	bs.HuffLengths = make([]uint8, nsym)
	for i := range bs.HuffSymbols {
		if bs.HuffSymbols[i], err = r.i16("huffman symbol"); err != nil {
			return err
		}
		if bs.HuffLengths[i], err = r.u8("huffman length"); err != nil {
			return err
		}
	}
	return nil
}

func parseExperts(r *reader, p WeightPrecision, n int) ([]float32, error) {
	switch p {
	case FP32:
		return r.f32s(n, "expert weights")
	case FP16:
		return r.f16s(n, "expert weights")
	case Int8:
		scale, err := r.f32("expert scale")
		if err != nil {
			return nil, err
		}
		raw, err := r.bytes(n, "expert weights")
		if err != nil {
			return nil, err
		}
		out := make([]float32, n)
		for i, b := range raw {
			out[i] = float32(int8(b)) * scale
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: weight precision %v", common.ErrUnsupported, p)
	}
}
