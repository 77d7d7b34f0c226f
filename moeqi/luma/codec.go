package luma

import (
	"fmt"

	"github.com/cocosip/go-moeqi-codec/codec"
	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/cocosip/go-moeqi-codec/moeqi/mqb"
)

// Codec implements the codec.Codec interface for MOEQIBIN luma streams.
// Only decoding is available.
type Codec struct{}

// NewCodec creates a new MOEQIBIN codec
func NewCodec() *Codec {
	return &Codec{}
}

// Encode always fails; MOEQIBIN streams cannot be produced here
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	return mqb.Pack(nil)
}

// Decode parses a MOEQIBIN stream and reconstructs its luma plane
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	bs, err := mqb.Parse(data)
	if err != nil {
		return nil, err
	}
	plane, err := Decode(bs)
	if err != nil {
		return nil, fmt.Errorf("decode luma: %w", err)
	}

	return &codec.DecodeResult{
		PixelData:  plane,
		Width:      int(bs.Width),
		Height:     int(bs.Height),
		Components: common.Gray8.Channels(),
		BitDepth:   8,
	}, nil
}

// UID returns the stream magic
func (c *Codec) UID() string {
	return mqb.Magic
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return "moeqibin"
}

// Register registers this codec with the global registry
func init() {
	codec.Register(NewCodec())
}
