package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosip/go-moeqi-codec/codec"
	"github.com/cocosip/go-moeqi-codec/internal/mqbtest"
	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/cocosip/go-moeqi-codec/moeqi/container"
	"github.com/cocosip/go-moeqi-codec/moeqi/envelope"
	"github.com/cocosip/go-moeqi-codec/moeqi/model"
	"github.com/cocosip/go-moeqi-codec/moeqi/mqb"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func gradient(w, h int, alpha bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if alpha {
				a = uint8(x * 255 / w)
			}
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 8), uint8(y * 8), uint8(x*y + 3), a})
		}
	}
	return img
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, alpha := range []bool{false, true} {
		dir := t.TempDir()
		src := gradient(13, 7, alpha)
		in := filepath.Join(dir, "in.png")
		writePNG(t, in, src)

		_, err := run(t, "encode", in)
		require.NoError(t, err)
		encoded := filepath.Join(dir, "in.moeqi")
		require.FileExists(t, encoded)

		out := filepath.Join(dir, "out.png")
		_, err = run(t, "decode", encoded, "-o", out)
		require.NoError(t, err)

		got := readPNG(t, out)
		require.Equal(t, src.Bounds(), got.Bounds())
		for y := 0; y < 7; y++ {
			for x := 0; x < 13; x++ {
				want := src.NRGBAAt(x, y)
				have := color.NRGBAModel.Convert(got.At(x, y)).(color.NRGBA)
				if alpha {
					require.Equal(t, want, have, "pixel (%d,%d)", x, y)
				} else {
					require.Equal(t, []uint8{want.R, want.G, want.B}, []uint8{have.R, have.G, have.B}, "pixel (%d,%d)", x, y)
				}
			}
		}
	}
}

func TestEncodeOptions(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, gradient(8, 8, false))
	out := filepath.Join(dir, "custom.bin")

	_, err := run(t, "encode", in, "-o", out, "--quant-bits", "4", "--color-transform", "none", "--format", "gray8", "--zstd")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, envelope.IsWrapped(data))

	stream, err := envelope.Unwrap(data)
	require.NoError(t, err)
	hdr, _, err := container.ParseHeader(stream)
	require.NoError(t, err)
	assert.Equal(t, common.Gray8, hdr.Format)
	assert.Equal(t, uint8(4), hdr.Config.QuantBits)
	assert.True(t, hdr.Config.StrictRecon)
	assert.Equal(t, common.ColorNone, hdr.Config.ColorTransform)
}

func TestEncodeMany(t *testing.T) {
	dir := t.TempDir()
	var ins []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		in := filepath.Join(dir, name)
		writePNG(t, in, gradient(5, 5, false))
		ins = append(ins, in)
	}

	_, err := run(t, append([]string{"encode", "--jobs", "2"}, ins...)...)
	require.NoError(t, err)
	for _, name := range []string{"a.moeqi", "b.moeqi", "c.moeqi"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestEncodeErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, gradient(4, 4, false))

	_, err := run(t, "encode", in, in, "-o", filepath.Join(dir, "x.moeqi"))
	assert.Error(t, err)

	_, err = run(t, "encode", in, "--quant-bits", "16")
	assert.Error(t, err)

	_, err = run(t, "encode", in, "--color-transform", "hsv")
	assert.ErrorIs(t, err, common.ErrInvalidData)

	_, err = run(t, "encode", in, "--format", "cmyk")
	assert.Error(t, err)

	notImage := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notImage, []byte("hello"), 0o644))
	_, err = run(t, "encode", notImage)
	assert.ErrorIs(t, err, image.ErrFormat)

	_, err = run(t, "encode")
	assert.Error(t, err)
}

func lumaFixture() []byte {
	residuals := []int16{0, 1, -1, 2, 0, 0}
	return mqbtest.Write(&mqb.Bitstream{
		Width:          4,
		Height:         3,
		QStep:          2,
		Codec:          mqb.Varint,
		FirstRow:       []byte{10, 20, 30, 40},
		FirstCol:       []byte{10, 50, 90},
		ResidualsCount: uint32(len(residuals)),
		Payload:        mqbtest.VarintPayload(residuals),
		Model: model.Model{
			NumExperts: 1,
			Router:     []float32{0, 0, 0, 0, 0, 0, 0},
			Experts:    []float32{0, 1, 0, 0, 0, 0, 0},
		},
	}, mqbtest.Options{})
}

func TestDecodeLumaStream(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "plane.mqb")
	require.NoError(t, os.WriteFile(in, envelope.Wrap(lumaFixture()), 0o644))

	_, err := run(t, "decode", in)
	require.NoError(t, err)

	got := readPNG(t, filepath.Join(dir, "plane.png"))
	gray, ok := got.(*image.Gray)
	require.True(t, ok, "decoded %T, want *image.Gray", got)
	// Left-neighbour prediction plus 2*residual.
	assert.Equal(t, []byte{
		10, 20, 30, 40,
		50, 50, 52, 50,
		90, 94, 94, 94,
	}, gray.Pix)
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.bin")
	require.NoError(t, os.WriteFile(unknown, []byte("GIF89a"), 0o644))
	_, err := run(t, "decode", unknown)
	assert.ErrorIs(t, err, codec.ErrCodecNotFound)

	truncated := filepath.Join(dir, "truncated.moeqi")
	stream, err := container.Encode(&common.Image{Width: 2, Height: 2, Format: common.Gray8, Data: []byte{10, 20, 30, 40}}, common.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(truncated, stream[:len(stream)-1], 0o644))
	_, err = run(t, "decode", truncated)
	assert.ErrorIs(t, err, common.ErrUnexpectedEOF)

	_, err = run(t, "decode", filepath.Join(dir, "missing.moeqi"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	simple := filepath.Join(dir, "simple.moeqi")
	stream, err := container.Encode(&common.Image{Width: 3, Height: 2, Format: common.Rgb8, Data: make([]byte, 18)}, common.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(simple, envelope.Wrap(stream), 0o644))

	luma := filepath.Join(dir, "plane.mqb")
	require.NoError(t, os.WriteFile(luma, lumaFixture(), 0o644))

	out, err := run(t, "inspect", simple, luma)
	require.NoError(t, err)
	for _, want := range []string{"MOEQI1", "rgb8", "ycocg-r", "zstd", "MOEQIBIN", "varint", "fp32"} {
		assert.Contains(t, out, want)
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("MOEQI_QUANT_BITS", "3")
	out, err := run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "MOEQI_QUANT_BITS")
	assert.Contains(t, out, "MOEQI_JOBS")
}

func TestPickFormat(t *testing.T) {
	cases := []struct {
		name   string
		img    image.Image
		format string
		want   common.PixelFormat
	}{
		{"gray auto", image.NewGray(image.Rect(0, 0, 1, 1)), "auto", common.Gray8},
		{"opaque auto", gradient(2, 2, false), "auto", common.Rgb8},
		{"alpha auto", gradient(2, 2, true), "auto", common.Rgba8},
		{"forced gray", gradient(2, 2, true), "gray8", common.Gray8},
		{"forced rgba", image.NewGray(image.Rect(0, 0, 1, 1)), "rgba8", common.Rgba8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := pickFormat(tc.img, tc.format)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToImageRejectsOddComponents(t *testing.T) {
	_, err := toImage(&codec.DecodeResult{Width: 1, Height: 1, Components: 2, PixelData: []byte{0, 0}})
	assert.ErrorIs(t, err, codec.ErrUnsupportedFormat)
}

func TestEncodeLogsDecoderKind(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	t.Setenv("MOEQI_DEBUG", "1")

	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, gradient(4, 4, false))

	var stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"encode", in})
	require.NotPanics(t, func() { require.NoError(t, cmd.Execute()) })

	assert.Contains(t, stderr.String(), "decoder=png")
	assert.Contains(t, stderr.String(), "source=")
}

func TestSetupLoggingStringSourceAttr(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	t.Setenv("MOEQI_DEBUG", "1")

	var buf bytes.Buffer
	setupLogging(&buf)
	assert.NotPanics(t, func() { slog.Info("event", slog.SourceKey, "png") })
	assert.Contains(t, buf.String(), "event")
}
