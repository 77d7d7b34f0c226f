package container

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

var _ codec.Codec = (*MOEQICodec)(nil)

// MOEQICodec implements the external codec.Codec interface for MOEQI1 frames.
// MOEQI has no standard transfer syntax, so the caller supplies a private one.
type MOEQICodec struct {
	transferSyntax *transfer.Syntax
}

// NewMOEQICodec creates a MOEQI1 codec bound to the given transfer syntax
func NewMOEQICodec(ts *transfer.Syntax) *MOEQICodec {
	return &MOEQICodec{transferSyntax: ts}
}

// Name returns the codec name
func (c *MOEQICodec) Name() string {
	return "MOEQI1 Predictive"
}

// TransferSyntax returns the transfer syntax this codec handles
func (c *MOEQICodec) TransferSyntax() *transfer.Syntax {
	return c.transferSyntax
}

// GetDefaultParameters returns the default codec parameters
func (c *MOEQICodec) GetDefaultParameters() codec.Parameters {
	return NewMOEQIParameters()
}

// Encode encodes every frame of oldPixelData into a MOEQI1 stream
func (c *MOEQICodec) Encode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}

	frameInfo := oldPixelData.GetFrameInfo()
	if frameInfo == nil {
		return fmt.Errorf("failed to get frame info from source pixel data")
	}
	if frameInfo.BitsAllocated != 8 {
		return fmt.Errorf("%w: MOEQI1 supports 8-bit samples, got %d bits", common.ErrUnsupported, frameInfo.BitsAllocated)
	}
	format, err := common.FormatForChannels(int(frameInfo.SamplesPerPixel))
	if err != nil {
		return err
	}

	var moeqiParams *MOEQIParameters
	if parameters != nil {
		if mp, ok := parameters.(*MOEQIParameters); ok {
			moeqiParams = mp
		} else {
			// Fallback: create from generic parameters
			moeqiParams = NewMOEQIParameters()
			for _, name := range []string{"quantBits", "strictRecon", "colorTransform"} {
				if v := parameters.GetParameter(name); v != nil {
					moeqiParams.SetParameter(name, v)
				}
			}
		}
	} else {
		moeqiParams = NewMOEQIParameters()
	}
	moeqiParams.Validate()
	cfg := moeqiParams.Config()

	frameCount := oldPixelData.FrameCount()
	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		frameData, err := oldPixelData.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}
		if len(frameData) == 0 {
			return fmt.Errorf("frame %d pixel data is empty", frameIndex)
		}

		img := &common.Image{
			Width:  uint32(frameInfo.Width),
			Height: uint32(frameInfo.Height),
			Format: format,
			Data:   frameData,
		}
		encoded, err := Encode(img, cfg)
		if err != nil {
			return fmt.Errorf("MOEQI1 encode failed for frame %d: %w", frameIndex, err)
		}

		if err := newPixelData.AddFrame(encoded); err != nil {
			return fmt.Errorf("failed to add encoded frame %d: %w", frameIndex, err)
		}
	}

	return nil
}

// Decode decodes every MOEQI1 frame of oldPixelData into raw samples
func (c *MOEQICodec) Decode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}

	frameInfo := oldPixelData.GetFrameInfo()
	if frameInfo == nil {
		return fmt.Errorf("failed to get frame info from source pixel data")
	}

	frameCount := oldPixelData.FrameCount()
	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		frameData, err := oldPixelData.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}
		if len(frameData) == 0 {
			return fmt.Errorf("frame %d pixel data is empty", frameIndex)
		}

		img, cfg, err := Decode(frameData)
		if err != nil {
			return fmt.Errorf("MOEQI1 decode failed for frame %d: %w", frameIndex, err)
		}

		// Verify dimensions match if specified
		if frameInfo.Width > 0 && img.Width != uint32(frameInfo.Width) {
			return fmt.Errorf("decoded width (%d) doesn't match expected (%d)", img.Width, frameInfo.Width)
		}
		if frameInfo.Height > 0 && img.Height != uint32(frameInfo.Height) {
			return fmt.Errorf("decoded height (%d) doesn't match expected (%d)", img.Height, frameInfo.Height)
		}
		if frameInfo.SamplesPerPixel > 0 && img.Format.Channels() != int(frameInfo.SamplesPerPixel) {
			return fmt.Errorf("decoded %v doesn't match %d samples per pixel", img.Format, frameInfo.SamplesPerPixel)
		}

		// Report the stream's configuration back to the caller
		if parameters != nil {
			parameters.SetParameter("quantBits", int(cfg.QuantBits))
			parameters.SetParameter("strictRecon", cfg.StrictRecon)
			parameters.SetParameter("colorTransform", cfg.ColorTransform.String())
		}

		if err := newPixelData.AddFrame(img.Data); err != nil {
			return fmt.Errorf("failed to add decoded frame %d: %w", frameIndex, err)
		}
	}

	return nil
}

// RegisterDICOMCodec registers the MOEQI1 codec with the go-dicom global
// registry under the given private transfer syntax
func RegisterDICOMCodec(ts *transfer.Syntax) {
	registry := codec.GetGlobalRegistry()
	registry.RegisterCodec(ts, NewMOEQICodec(ts))
}
