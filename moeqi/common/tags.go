package common

import "fmt"

// Wire tags of the MOEQI1 header. Encoders and decoders go through these
// functions only.

// PixelFormatTag returns the header byte for f (its channel count).
func PixelFormatTag(f PixelFormat) (uint8, error) {
	switch f {
	case Gray8:
		return 1, nil
	case Rgb8:
		return 3, nil
	case Rgba8:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: pixel format %v", ErrInvalidData, f)
	}
}

// PixelFormatFromTag is the inverse of PixelFormatTag.
func PixelFormatFromTag(tag uint8) (PixelFormat, error) {
	switch tag {
	case 1:
		return Gray8, nil
	case 3:
		return Rgb8, nil
	case 4:
		return Rgba8, nil
	default:
		return 0, fmt.Errorf("%w: bad pixel format tag %d", ErrInvalidData, tag)
	}
}

// ColorTransformTag returns the header byte for t.
func ColorTransformTag(t ColorTransform) (uint8, error) {
	switch t {
	case ColorNone:
		return 0, nil
	case ColorYCoCgR:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: color transform %v", ErrInvalidData, t)
	}
}

// ColorTransformFromTag is the inverse of ColorTransformTag.
func ColorTransformFromTag(tag uint8) (ColorTransform, error) {
	switch tag {
	case 0:
		return ColorNone, nil
	case 1:
		return ColorYCoCgR, nil
	default:
		return 0, fmt.Errorf("%w: bad color transform tag %d", ErrInvalidData, tag)
	}
}

// ClampU8 clamps v to [0,255].
func ClampU8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
