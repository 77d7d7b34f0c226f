package codec

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
)

// FramePixelData is an in-memory imagetypes.PixelData holding one byte slice per
// frame. It is the source and destination used when driving the go-dicom
// adapters outside of a dataset.
type FramePixelData struct {
	frames       [][]byte
	frameInfo    *imagetypes.FrameInfo
	encapsulated bool
}

// NewFramePixelData returns native (uncompressed) pixel data seeded with frames.
func NewFramePixelData(frameInfo *imagetypes.FrameInfo, frames ...[]byte) *FramePixelData {
	p := &FramePixelData{frameInfo: frameInfo}
	for _, f := range frames {
		p.frames = append(p.frames, f)
	}
	return p
}

// NewEncapsulatedPixelData returns empty pixel data marked as compressed.
func NewEncapsulatedPixelData(frameInfo *imagetypes.FrameInfo) *FramePixelData {
	return &FramePixelData{frameInfo: frameInfo, encapsulated: true}
}

// GetFrame returns frame frameIndex (0-indexed).
func (p *FramePixelData) GetFrame(frameIndex int) ([]byte, error) {
	if frameIndex < 0 || frameIndex >= len(p.frames) {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", frameIndex, len(p.frames))
	}
	return p.frames[frameIndex], nil
}

// AddFrame appends a frame. Empty frames are rejected.
func (p *FramePixelData) AddFrame(frameData []byte) error {
	if len(frameData) == 0 {
		return fmt.Errorf("frame %d is empty", len(p.frames))
	}
	p.frames = append(p.frames, frameData)
	return nil
}

func (p *FramePixelData) FrameCount() int {
	return len(p.frames)
}

func (p *FramePixelData) GetFrameInfo() *imagetypes.FrameInfo {
	return p.frameInfo
}

func (p *FramePixelData) IsEncapsulated() bool {
	return p.encapsulated
}
