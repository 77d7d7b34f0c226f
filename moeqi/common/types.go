package common

import "fmt"

// PixelFormat identifies the sample layout of an Image.
type PixelFormat int

const (
	Gray8 PixelFormat = iota + 1
	Rgb8
	Rgba8
)

// Channels returns the number of interleaved bytes per pixel.
func (f PixelFormat) Channels() int {
	switch f {
	case Gray8:
		return 1
	case Rgb8:
		return 3
	case Rgba8:
		return 4
	default:
		return 0
	}
}

// HasColor reports whether the color transform can apply to the format.
func (f PixelFormat) HasColor() bool {
	switch f {
	case Rgb8, Rgba8:
		return true
	default:
		return false
	}
}

// FormatForChannels maps a samples-per-pixel count to its pixel format.
func FormatForChannels(n int) (PixelFormat, error) {
	switch n {
	case 1:
		return Gray8, nil
	case 3:
		return Rgb8, nil
	case 4:
		return Rgba8, nil
	default:
		return 0, fmt.Errorf("%w: %d samples per pixel", ErrUnsupported, n)
	}
}

func (f PixelFormat) String() string {
	switch f {
	case Gray8:
		return "gray8"
	case Rgb8:
		return "rgb8"
	case Rgba8:
		return "rgba8"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// CodecKind selects the residual coding scheme of the simple container.
// PredictVarint is currently the only kind.
type CodecKind int

const (
	PredictVarint CodecKind = iota
)

func (k CodecKind) String() string {
	switch k {
	case PredictVarint:
		return "predict-varint"
	default:
		return fmt.Sprintf("CodecKind(%d)", int(k))
	}
}

// ColorTransform selects the decorrelation applied before prediction.
type ColorTransform int

const (
	ColorNone ColorTransform = iota
	// ColorYCoCgR is the reversible integer YCoCg-R transform.
	ColorYCoCgR
)

func (t ColorTransform) String() string {
	switch t {
	case ColorNone:
		return "none"
	case ColorYCoCgR:
		return "ycocg-r"
	default:
		return fmt.Sprintf("ColorTransform(%d)", int(t))
	}
}

// ParseColorTransform accepts the names produced by ColorTransform.String.
func ParseColorTransform(s string) (ColorTransform, error) {
	switch s {
	case "none", "":
		return ColorNone, nil
	case "ycocg-r", "ycocgr", "ycocg":
		return ColorYCoCgR, nil
	default:
		return 0, fmt.Errorf("%w: unknown color transform %q", ErrInvalidData, s)
	}
}

// Image is a tightly packed, row-major 8-bit image.
type Image struct {
	Width  uint32
	Height uint32
	Format PixelFormat
	Data   []byte
}

// ExpectedLen returns width*height*channels.
func (img *Image) ExpectedLen() int {
	return int(img.Width) * int(img.Height) * img.Format.Channels()
}

// Validate checks that the pixel buffer matches the declared shape.
func (img *Image) Validate() error {
	if img.Format.Channels() == 0 {
		return fmt.Errorf("%w: unknown pixel format %v", ErrInvalidData, img.Format)
	}
	if len(img.Data) != img.ExpectedLen() {
		return fmt.Errorf("%w: image data length %d, want %d (%dx%d %v)",
			ErrInvalidData, len(img.Data), img.ExpectedLen(), img.Width, img.Height, img.Format)
	}
	return nil
}

// MaxQuantBits is the largest accepted CodecConfig.QuantBits.
const MaxQuantBits = 15

// CodecConfig holds the parameters of one encode or decode call.
type CodecConfig struct {
	Codec CodecKind
	// QuantBits selects the residual quantizer; 0 means lossless.
	QuantBits uint8
	// StrictRecon keeps the encoder's predictor on reconstructed values,
	// which is what the decoder always does.
	StrictRecon    bool
	ColorTransform ColorTransform
}

// DefaultConfig returns a lossless configuration with YCoCg-R enabled.
func DefaultConfig() CodecConfig {
	return CodecConfig{
		Codec:          PredictVarint,
		QuantBits:      0,
		StrictRecon:    true,
		ColorTransform: ColorYCoCgR,
	}
}

// Validate checks the configuration's field ranges.
func (c CodecConfig) Validate() error {
	if c.Codec != PredictVarint {
		return fmt.Errorf("%w: codec kind %v", ErrUnsupported, c.Codec)
	}
	if c.QuantBits > MaxQuantBits {
		return fmt.Errorf("%w: quant bits %d out of range 0-%d", ErrInvalidData, c.QuantBits, MaxQuantBits)
	}
	switch c.ColorTransform {
	case ColorNone, ColorYCoCgR:
	default:
		return fmt.Errorf("%w: color transform %v", ErrInvalidData, c.ColorTransform)
	}
	return nil
}

// RoundTrips reports whether a stream produced with this configuration decodes
// to exactly what the encoder's predictor saw. Quantizing while the encoder
// tracks original values desynchronizes encoder and decoder.
func (c CodecConfig) RoundTrips() bool {
	return c.QuantBits == 0 || c.StrictRecon
}
