package codec

import "fmt"

// Codec is the universal interface for all image codecs
type Codec interface {
	// Encode encodes pixel data
	Encode(params EncodeParams) ([]byte, error)

	// Decode decodes compressed data
	Decode(data []byte) (*DecodeResult, error)

	// UID returns the unique identifier (the container magic)
	UID() string

	// Name returns a human-readable name
	Name() string
}

// EncodeParams contains parameters for encoding
type EncodeParams struct {
	PixelData  []byte  // Raw interleaved pixel data
	Width      int     // Image width
	Height     int     // Image height
	Components int     // Number of color components (1=grayscale, 3=RGB, 4=RGBA)
	BitDepth   int     // Bits per sample (only 8 is supported)
	Options    Options // Codec-specific options
}

// SampleBytes returns the bytes per sample implied by BitDepth (0 means 8 bits).
func (p *EncodeParams) SampleBytes() int {
	if p.BitDepth <= 0 {
		return 1
	}
	return (p.BitDepth + 7) / 8
}

// Validate checks the image geometry against the size of PixelData.
func (p *EncodeParams) Validate() error {
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidParameter, p.Width, p.Height)
	}
	if p.Components <= 0 {
		return fmt.Errorf("%w: %d components", ErrInvalidParameter, p.Components)
	}
	want := p.Width * p.Height * p.Components * p.SampleBytes()
	if len(p.PixelData) != want {
		return fmt.Errorf("%w: pixel data is %d bytes, %dx%dx%d needs %d",
			ErrInvalidParameter, len(p.PixelData), p.Width, p.Height, p.Components, want)
	}
	return nil
}

// Options is an interface for codec-specific encoding options
type Options interface {
	// Validate checks if the options are valid
	Validate() error
}

// DecodeResult contains the result of decoding
type DecodeResult struct {
	PixelData  []byte // Decoded pixel data
	Width      int    // Image width
	Height     int    // Image height
	Components int    // Number of color components
	BitDepth   int    // Bits per sample
}

// BaseOptions provides common options for all codecs
type BaseOptions struct {
	// QuantBits selects residual quantization for codecs that support it
	// 0 = lossless, 1-15 = quantized residuals with 2^QuantBits levels
	QuantBits int
}

// Validate validates base options
func (o *BaseOptions) Validate() error {
	if o.QuantBits < 0 || o.QuantBits > 15 {
		return ErrInvalidParameter
	}
	return nil
}
