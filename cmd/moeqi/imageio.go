package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/cocosip/go-moeqi-codec/codec"
	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

// readImage decodes any registered raster format into a packed image.
// format is "auto", "gray8", "rgb8" or "rgba8".
func readImage(data []byte, format string) (*common.Image, string, error) {
	src, kind, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	pf, err := pickFormat(src, format)
	if err != nil {
		return nil, "", err
	}
	return fromImage(src, pf), kind, nil
}

func pickFormat(src image.Image, format string) (common.PixelFormat, error) {
	switch format {
	case "gray8":
		return common.Gray8, nil
	case "rgb8":
		return common.Rgb8, nil
	case "rgba8":
		return common.Rgba8, nil
	case "auto", "":
	default:
		return 0, fmt.Errorf("unknown pixel format %q", format)
	}

	switch src.(type) {
	case *image.Gray, *image.Gray16:
		return common.Gray8, nil
	}
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		return common.Rgb8, nil
	}
	return common.Rgba8, nil
}

func fromImage(src image.Image, pf common.PixelFormat) *common.Image {
	b := src.Bounds()
	img := &common.Image{Width: uint32(b.Dx()), Height: uint32(b.Dy()), Format: pf}
	img.Data = make([]byte, 0, img.ExpectedLen())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.At(x, y)
			switch pf {
			case common.Gray8:
				img.Data = append(img.Data, color.GrayModel.Convert(c).(color.Gray).Y)
			case common.Rgb8:
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				img.Data = append(img.Data, n.R, n.G, n.B)
			default:
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				img.Data = append(img.Data, n.R, n.G, n.B, n.A)
			}
		}
	}
	return img
}

// toImage wraps decoded samples in an image.Image suitable for PNG output.
func toImage(res *codec.DecodeResult) (image.Image, error) {
	r := image.Rect(0, 0, res.Width, res.Height)
	switch res.Components {
	case 1:
		out := image.NewGray(r)
		copy(out.Pix, res.PixelData)
		return out, nil
	case 3:
		out := image.NewNRGBA(r)
		for i, j := 0, 0; j+2 < len(res.PixelData); i, j = i+4, j+3 {
			out.Pix[i] = res.PixelData[j]
			out.Pix[i+1] = res.PixelData[j+1]
			out.Pix[i+2] = res.PixelData[j+2]
			out.Pix[i+3] = 0xff
		}
		return out, nil
	case 4:
		out := image.NewNRGBA(r)
		copy(out.Pix, res.PixelData)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d components", codec.ErrUnsupportedFormat, res.Components)
	}
}
