// Package predictive implements the base MOEQI codec: optional YCoCg-R,
// per-channel left-neighbour prediction, optional residual quantization and
// zigzag varint coding.
package predictive

import (
	"fmt"

	"github.com/cocosip/go-moeqi-codec/moeqi/color"
	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/cocosip/go-moeqi-codec/moeqi/quant"
	"github.com/cocosip/go-moeqi-codec/moeqi/varint"
)

// EncodePayload codes the pixels of img into a bare residual payload (no
// container header).
//
// Each row and channel starts from a predictor state of 0. With
// cfg.StrictRecon the state follows the reconstructed value exactly as the
// decoder does; otherwise it follows the original pixel, which only decodes
// exactly when cfg.QuantBits is 0.
func EncodePayload(img *common.Image, cfg common.CodecConfig) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buf := append([]byte(nil), img.Data...)
	if cfg.ColorTransform == common.ColorYCoCgR {
		switch img.Format {
		case common.Rgb8:
			color.ForwardYCoCgR(buf, false)
		case common.Rgba8:
			color.ForwardYCoCgR(buf, true)
		case common.Gray8:
		}
	}

	var q *quant.SignedUniform
	if cfg.QuantBits != 0 {
		q = quant.New(cfg.QuantBits)
	}

	ch := img.Format.Channels()
	w := int(img.Width)
	h := int(img.Height)

	out := make([]byte, 0, len(buf)/2)
	for y := 0; y < h; y++ {
		row := y * w * ch
		for c := 0; c < ch; c++ {
			var prev int32
			for x := 0; x < w; x++ {
				cur := int32(buf[row+x*ch+c])

				res := int16(cur - prev)
				if q != nil {
					res = q.Quantize(res)
				}
				out = varint.AppendInt16(out, res)

				if cfg.StrictRecon {
					prev = int32(common.ClampU8(prev + int32(res)))
				} else {
					prev = cur
				}
			}
		}
	}
	return out, nil
}

// decodedLen is the sample count of a width x height image in format f.
func decodedLen(width, height uint32, f common.PixelFormat) (int, error) {
	ch := f.Channels()
	if ch == 0 {
		return 0, fmt.Errorf("%w: unknown pixel format %v", common.ErrInvalidData, f)
	}
	n := uint64(width) * uint64(height) * uint64(ch)
	if n > uint64(maxInt) {
		return 0, fmt.Errorf("%w: image %dx%d is too large", common.ErrInvalidData, width, height)
	}
	return int(n), nil
}

const maxInt = int(^uint(0) >> 1)
