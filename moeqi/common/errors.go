package common

import "errors"

// Error classes shared by every MOEQI package. Errors returned by the codec wrap
// exactly one of these; use errors.Is to classify them.
var (
	// ErrInvalidData is returned for malformed sizes or shapes, e.g. a pixel buffer
	// that does not match its declared dimensions or a bad container field value.
	ErrInvalidData = errors.New("invalid data")

	// ErrFormat is returned for structural bitstream violations.
	ErrFormat = errors.New("format error")

	// ErrUnsupported is returned for unknown versions, codec ids or weight precisions.
	ErrUnsupported = errors.New("unsupported")

	// ErrUnexpectedEOF is returned when a stream ends in the middle of a value.
	ErrUnexpectedEOF = errors.New("unexpected end of data")

	// ErrDecode is returned when an entropy decoder fails.
	ErrDecode = errors.New("decode error")
)
