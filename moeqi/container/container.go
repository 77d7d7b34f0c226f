// Package container implements the MOEQI1 container: a fixed header followed
// by a predictive residual payload.
package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/cocosip/go-moeqi-codec/moeqi/predictive"
)

// Magic opens every MOEQI1 stream.
const Magic = "MOEQI1"

// HeaderSize is the number of bytes before the payload.
const HeaderSize = len(Magic) + 4 + 4 + 1 + 1 + 1 + 1 + 4

// Header is the decoded fixed part of a MOEQI1 stream.
type Header struct {
	Width      uint32
	Height     uint32
	Format     common.PixelFormat
	Config     common.CodecConfig
	PayloadLen uint32
}

// Encode compresses img and wraps the payload in a MOEQI1 header.
func Encode(img *common.Image, cfg common.CodecConfig) ([]byte, error) {
	payload, err := predictive.EncodePayload(img, cfg)
	if err != nil {
		return nil, err
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds the 32-bit length field", common.ErrInvalidData, len(payload))
	}

	formatTag, err := common.PixelFormatTag(img.Format)
	if err != nil {
		return nil, err
	}
	transformTag, err := common.ColorTransformTag(cfg.ColorTransform)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, Magic...)
	out = binary.LittleEndian.AppendUint32(out, img.Width)
	out = binary.LittleEndian.AppendUint32(out, img.Height)
	out = append(out, formatTag, cfg.QuantBits, boolByte(cfg.StrictRecon), transformTag)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	return out, nil
}

// Decode parses a MOEQI1 stream and reconstructs its image and configuration.
func Decode(data []byte) (*common.Image, common.CodecConfig, error) {
	hdr, payload, err := ParseHeader(data)
	if err != nil {
		return nil, common.CodecConfig{}, err
	}

	img, err := predictive.DecodePayload(payload, hdr.Width, hdr.Height, hdr.Format, hdr.Config)
	if err != nil {
		return nil, common.CodecConfig{}, fmt.Errorf("decode payload: %w", err)
	}
	return img, hdr.Config, nil
}

// ParseHeader validates the fixed header and returns it with the payload
// bytes it declares. Trailing bytes after the payload are ignored.
func ParseHeader(data []byte) (*Header, []byte, error) {
	if len(data) < HeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", common.ErrInvalidData, len(data), HeaderSize)
	}
	if !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return nil, nil, fmt.Errorf("%w: bad magic %q", common.ErrInvalidData, data[:len(Magic)])
	}

	o := len(Magic)
	hdr := &Header{}
	hdr.Width = binary.LittleEndian.Uint32(data[o:])
	o += 4
	hdr.Height = binary.LittleEndian.Uint32(data[o:])
	o += 4

	format, err := common.PixelFormatFromTag(data[o])
	if err != nil {
		return nil, nil, err
	}
	hdr.Format = format
	o++

	quantBits := data[o]
	if quantBits > common.MaxQuantBits {
		return nil, nil, fmt.Errorf("%w: quant bits %d out of range", common.ErrInvalidData, quantBits)
	}
	o++
	strict := data[o] != 0
	o++
	transform, err := common.ColorTransformFromTag(data[o])
	if err != nil {
		return nil, nil, err
	}
	o++

	hdr.Config = common.CodecConfig{
		Codec:          common.PredictVarint,
		QuantBits:      quantBits,
		StrictRecon:    strict,
		ColorTransform: transform,
	}

	hdr.PayloadLen = binary.LittleEndian.Uint32(data[o:])
	o += 4
	if uint64(len(data)-o) < uint64(hdr.PayloadLen) {
		return nil, nil, fmt.Errorf("%w: payload declares %d bytes, %d available",
			common.ErrUnexpectedEOF, hdr.PayloadLen, len(data)-o)
	}
	return hdr, data[o : o+int(hdr.PayloadLen)], nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
