package container

import (
	"fmt"

	"github.com/cocosip/go-moeqi-codec/codec"
	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

// Codec implements the codec.Codec interface for the MOEQI1 container
type Codec struct{}

// NewCodec creates a new MOEQI1 codec
func NewCodec() *Codec {
	return &Codec{}
}

// Encode encodes pixel data into a MOEQI1 stream
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	if params.BitDepth != 0 && params.BitDepth != 8 {
		return nil, fmt.Errorf("%w: bit depth %d", codec.ErrUnsupportedFormat, params.BitDepth)
	}
	format, err := common.FormatForChannels(params.Components)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrUnsupportedFormat, err)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	cfg := common.DefaultConfig()
	if params.Options != nil {
		if opts, ok := params.Options.(*Options); ok {
			if err := opts.Validate(); err != nil {
				return nil, err
			}
			cfg = opts.Config()
		}
	}

	return Encode(&common.Image{
		Width:  uint32(params.Width),
		Height: uint32(params.Height),
		Format: format,
		Data:   params.PixelData,
	}, cfg)
}

// Decode decodes a MOEQI1 stream
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return &codec.DecodeResult{
		PixelData:  img.Data,
		Width:      int(img.Width),
		Height:     int(img.Height),
		Components: img.Format.Channels(),
		BitDepth:   8,
	}, nil
}

// UID returns the stream magic
func (c *Codec) UID() string {
	return Magic
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return "moeqi1"
}

// Options contains encoding options for MOEQI1
type Options struct {
	codec.BaseOptions
	StrictRecon    bool
	ColorTransform common.ColorTransform
}

// DefaultOptions returns lossless options with strict reconstruction and YCoCg-R
func DefaultOptions() *Options {
	def := common.DefaultConfig()
	return &Options{StrictRecon: def.StrictRecon, ColorTransform: def.ColorTransform}
}

// Validate validates the options
func (o *Options) Validate() error {
	if err := o.BaseOptions.Validate(); err != nil {
		return err
	}
	return o.Config().Validate()
}

// Config converts the options into a codec configuration
func (o *Options) Config() common.CodecConfig {
	return common.CodecConfig{
		Codec:          common.PredictVarint,
		QuantBits:      uint8(o.QuantBits),
		StrictRecon:    o.StrictRecon,
		ColorTransform: o.ColorTransform,
	}
}

// Register registers this codec with the global registry
func init() {
	codec.Register(NewCodec())
}
