package predictive

import (
	"fmt"

	"github.com/cocosip/go-moeqi-codec/moeqi/color"
	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/cocosip/go-moeqi-codec/moeqi/quant"
	"github.com/cocosip/go-moeqi-codec/moeqi/varint"
)

// DecodePayload reconstructs an image from a payload produced by EncodePayload.
// The predictor state always advances with the reconstructed value.
func DecodePayload(payload []byte, width, height uint32, format common.PixelFormat, cfg common.CodecConfig) (*common.Image, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n, err := decodedLen(width, height, format)
	if err != nil {
		return nil, err
	}
	// Every sample is at least one payload byte.
	if n > len(payload) {
		return nil, fmt.Errorf("%w: %d samples need at least %d payload bytes, have %d",
			common.ErrUnexpectedEOF, n, n, len(payload))
	}

	var q *quant.SignedUniform
	if cfg.QuantBits != 0 {
		q = quant.New(cfg.QuantBits)
	}

	ch := format.Channels()
	w := int(width)
	h := int(height)

	data := make([]byte, n)
	pos := 0
	for y := 0; y < h; y++ {
		row := y * w * ch
		for c := 0; c < ch; c++ {
			var prev int32
			for x := 0; x < w; x++ {
				zz, used, err := varint.Uvarint(payload[pos:])
				if err != nil {
					return nil, fmt.Errorf("sample (%d,%d) channel %d: %w", x, y, c, err)
				}
				pos += used

				res := varint.Unzigzag16(uint16(zz))
				if q != nil {
					res = q.Dequantize(res)
				}

				cur := common.ClampU8(prev + int32(res))
				data[row+x*ch+c] = cur
				prev = int32(cur)
			}
		}
	}

	if cfg.ColorTransform == common.ColorYCoCgR {
		switch format {
		case common.Rgb8:
			color.InverseYCoCgR(data, false)
		case common.Rgba8:
			color.InverseYCoCgR(data, true)
		case common.Gray8:
		}
	}

	return &common.Image{Width: width, Height: height, Format: format, Data: data}, nil
}
