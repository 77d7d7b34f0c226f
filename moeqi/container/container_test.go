package container

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

func grayImage() *common.Image {
	return &common.Image{Width: 2, Height: 2, Format: common.Gray8, Data: []byte{10, 20, 30, 40}}
}

func TestEncodeLayout(t *testing.T) {
	data, err := Encode(grayImage(), common.DefaultConfig())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := []byte{
		'M', 'O', 'E', 'Q', 'I', '1',
		2, 0, 0, 0, // width
		2, 0, 0, 0, // height
		1,          // gray8
		0,          // quant bits
		1,          // strict
		1,          // ycocg-r
		4, 0, 0, 0, // payload length
		20, 20, 60, 20,
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("stream mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	rgba := &common.Image{Width: 3, Height: 2, Format: common.Rgba8}
	rgba.Data = make([]byte, rgba.ExpectedLen())
	for i := range rgba.Data {
		rgba.Data[i] = byte(i*37 + 11)
	}

	tests := []struct {
		name string
		img  *common.Image
		cfg  common.CodecConfig
	}{
		{"gray default", grayImage(), common.DefaultConfig()},
		{"gray no transform", grayImage(), common.CodecConfig{StrictRecon: true}},
		{"rgba ycocg", rgba, common.DefaultConfig()},
		{"rgba plain", rgba, common.CodecConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.img, tt.cfg)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, cfg, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(tt.img, got); diff != "" {
				t.Errorf("image mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.cfg, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQuantizedConfigSurvivesHeader(t *testing.T) {
	cfg := common.CodecConfig{QuantBits: 6, StrictRecon: false, ColorTransform: common.ColorNone}
	data, err := Encode(grayImage(), cfg)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	hdr, payload, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if diff := cmp.Diff(cfg, hdr.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if int(hdr.PayloadLen) != len(payload) || len(data) != HeaderSize+len(payload) {
		t.Errorf("payload length %d, slice %d, stream %d", hdr.PayloadLen, len(payload), len(data))
	}
}

func TestTrailingBytesIgnored(t *testing.T) {
	data, err := Encode(grayImage(), common.DefaultConfig())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, _, err := Decode(append(data, 0xAA, 0xBB))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(grayImage(), got); diff != "" {
		t.Errorf("image mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Encode(grayImage(), common.DefaultConfig())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	mutate := func(i int, b byte) []byte {
		out := append([]byte(nil), valid...)
		out[i] = b
		return out
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, common.ErrInvalidData},
		{"short header", valid[:HeaderSize-1], common.ErrInvalidData},
		{"bad magic", mutate(0, 'X'), common.ErrInvalidData},
		{"bad format tag", mutate(14, 2), common.ErrInvalidData},
		{"quant bits out of range", mutate(15, 16), common.ErrInvalidData},
		{"bad transform tag", mutate(17, 7), common.ErrInvalidData},
		{"payload truncated", valid[:len(valid)-1], common.ErrUnexpectedEOF},
		{"payload length too large", mutate(18, 200), common.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeRejectsMismatchedData(t *testing.T) {
	img := &common.Image{Width: 4, Height: 4, Format: common.Rgb8, Data: make([]byte, 10)}
	if _, err := Encode(img, common.DefaultConfig()); !errors.Is(err, common.ErrInvalidData) {
		t.Errorf("Encode() error = %v, want ErrInvalidData", err)
	}
}
