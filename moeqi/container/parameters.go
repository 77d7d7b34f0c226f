package container

import (
	"github.com/cocosip/go-dicom/pkg/imaging/codec"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

// Ensure MOEQIParameters implements codec.Parameters
var _ codec.Parameters = (*MOEQIParameters)(nil)

// MOEQIParameters contains parameters for MOEQI1 compression
type MOEQIParameters struct {
	// QuantBits selects residual quantization
	// - 0:    lossless
	// - 1-15: quantized residuals with a step derived from 2^QuantBits levels
	QuantBits int

	// StrictRecon makes the encoder predict from reconstructed samples, so
	// quantization error stays bounded by half a step
	StrictRecon bool

	// ColorTransform is "none" or "ycocg-r"; ignored for grayscale frames
	ColorTransform common.ColorTransform

	// internal storage for compatibility with generic parameter interface
	params map[string]interface{}
}

// NewMOEQIParameters creates a new MOEQIParameters with default values
func NewMOEQIParameters() *MOEQIParameters {
	def := common.DefaultConfig()
	return &MOEQIParameters{
		QuantBits:      int(def.QuantBits),
		StrictRecon:    def.StrictRecon,
		ColorTransform: def.ColorTransform,
		params:         make(map[string]interface{}),
	}
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *MOEQIParameters) GetParameter(name string) interface{} {
	switch name {
	case "quantBits":
		return p.QuantBits
	case "strictRecon":
		return p.StrictRecon
	case "colorTransform":
		return p.ColorTransform.String()
	default:
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements codec.Parameters)
func (p *MOEQIParameters) SetParameter(name string, value interface{}) {
	switch name {
	case "quantBits":
		if v, ok := value.(int); ok {
			p.QuantBits = v
		}
	case "strictRecon":
		if v, ok := value.(bool); ok {
			p.StrictRecon = v
		}
	case "colorTransform":
		switch v := value.(type) {
		case string:
			if ct, err := common.ParseColorTransform(v); err == nil {
				p.ColorTransform = ct
			}
		case common.ColorTransform:
			p.ColorTransform = v
		}
	default:
		p.params[name] = value
	}
}

// Validate checks if the parameters are valid
func (p *MOEQIParameters) Validate() error {
	if p.QuantBits < 0 || p.QuantBits > common.MaxQuantBits {
		p.QuantBits = 0 // Reset to lossless
	}
	if p.ColorTransform != common.ColorNone && p.ColorTransform != common.ColorYCoCgR {
		p.ColorTransform = common.ColorYCoCgR
	}
	return nil
}

// Config converts the parameters into a codec configuration
func (p *MOEQIParameters) Config() common.CodecConfig {
	return common.CodecConfig{
		Codec:          common.PredictVarint,
		QuantBits:      uint8(p.QuantBits),
		StrictRecon:    p.StrictRecon,
		ColorTransform: p.ColorTransform,
	}
}

// WithQuantBits sets the quantization bits and returns the parameters for chaining
func (p *MOEQIParameters) WithQuantBits(bits int) *MOEQIParameters {
	p.QuantBits = bits
	return p
}

// WithStrictRecon sets strict reconstruction and returns the parameters for chaining
func (p *MOEQIParameters) WithStrictRecon(strict bool) *MOEQIParameters {
	p.StrictRecon = strict
	return p
}

// WithColorTransform sets the color transform and returns the parameters for chaining
func (p *MOEQIParameters) WithColorTransform(ct common.ColorTransform) *MOEQIParameters {
	p.ColorTransform = ct
	return p
}
