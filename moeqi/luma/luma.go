// Package luma reconstructs the single luma plane carried by a MOEQIBIN
// stream: borders are stored raw, every interior pixel is predicted by the
// embedded router/expert model and corrected by a scaled residual.
package luma

import (
	"fmt"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/cocosip/go-moeqi-codec/moeqi/huffman"
	"github.com/cocosip/go-moeqi-codec/moeqi/model"
	"github.com/cocosip/go-moeqi-codec/moeqi/mqb"
	"github.com/cocosip/go-moeqi-codec/moeqi/varint"
)

// Decode reconstructs the Width*Height luma plane of bs. Any failure aborts
// the whole decode; no partial plane is returned.
func Decode(bs *mqb.Bitstream) ([]byte, error) {
	w := int(bs.Width)
	h := int(bs.Height)

	if len(bs.FirstRow) != w {
		return nil, fmt.Errorf("%w: first row has %d pixels, width is %d", common.ErrFormat, len(bs.FirstRow), w)
	}
	if len(bs.FirstCol) != h {
		return nil, fmt.Errorf("%w: first column has %d pixels, height is %d", common.ErrFormat, len(bs.FirstCol), h)
	}
	if want := bs.InteriorCount(); bs.ResidualsCount != want {
		return nil, fmt.Errorf("%w: residuals count %d, want %d", common.ErrFormat, bs.ResidualsCount, want)
	}
	if err := bs.Model.Validate(); err != nil {
		return nil, err
	}
	if bs.ResidualsCount > 0 && bs.Model.NumExperts == 0 {
		return nil, fmt.Errorf("%w: model has no experts", common.ErrFormat)
	}

	residuals, err := decodeResiduals(bs)
	if err != nil {
		return nil, err
	}

	recon := make([]byte, w*h)
	copy(recon, bs.FirstRow)
	// The column is written after the row, so first_col[0] owns pixel (0, 0).
	if w > 0 {
		for y := 0; y < h; y++ {
			recon[y*w] = bs.FirstCol[y]
		}
	}

	qstep := int64(bs.QStep)
	ri := 0
	for y := 1; y < h; y++ {
		for x := 1; x < w; x++ {
			f := model.FeaturesAt(recon, w, x, y)
			pred := int64(bs.Model.Predict(&f))
			recon[y*w+x] = clampU8(pred + int64(residuals[ri])*qstep)
			ri++
		}
	}
	return recon, nil
}

func decodeResiduals(bs *mqb.Bitstream) ([]int16, error) {
	count := int(bs.ResidualsCount)
	var (
		out []int16
		err error
	)
	switch bs.Codec {
	case mqb.Varint:
		out, err = varint.DecodeInt16s(bs.Payload, count)
	case mqb.Huff:
		out, err = huffman.DecodeInt16s(bs.Payload, count, bs.HuffSymbols, bs.HuffLengths)
	default:
		return nil, fmt.Errorf("%w: entropy codec %v", common.ErrUnsupported, bs.Codec)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v residuals: %w", common.ErrDecode, bs.Codec, err)
	}
	return out, nil
}

func clampU8(v int64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
