package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cocosip/go-moeqi-codec/envconfig"
	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/cocosip/go-moeqi-codec/moeqi/container"
	"github.com/cocosip/go-moeqi-codec/moeqi/envelope"
)

// Extension is appended to encoded files.
const Extension = ".moeqi"

type encodeOptions struct {
	quantBits      uint
	strictRecon    bool
	colorTransform string
	format         string
	zstd           bool
	jobs           int
	output         string
}

func newEncodeCmd() *cobra.Command {
	opts := &encodeOptions{}
	encodeCmd := &cobra.Command{
		Use:   "encode IMAGE...",
		Short: "Encode PNG, JPEG, GIF, BMP, TIFF or WebP images as MOEQI1",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return EncodeHandler(cmd, args, opts)
		},
	}

	flags := encodeCmd.Flags()
	flags.UintVar(&opts.quantBits, "quant-bits", envconfig.QuantBits(), "Residual quantization bits (0 = lossless, 1-15)")
	flags.BoolVar(&opts.strictRecon, "strict-recon", true, "Predict from reconstructed samples (required for exact quantized decoding)")
	flags.StringVar(&opts.colorTransform, "color-transform", common.ColorYCoCgR.String(), "Color decorrelation: none or ycocg-r")
	flags.StringVar(&opts.format, "format", "auto", "Pixel format: auto, gray8, rgb8 or rgba8")
	flags.BoolVar(&opts.zstd, "zstd", envconfig.Zstd(), "Wrap output in a zstd envelope")
	flags.IntVar(&opts.jobs, "jobs", envconfig.Jobs(), "Files encoded concurrently")
	flags.StringVarP(&opts.output, "output", "o", "", "Output path (single input only)")

	return encodeCmd
}

// EncodeHandler encodes every input file, up to opts.jobs at a time.
func EncodeHandler(cmd *cobra.Command, args []string, opts *encodeOptions) error {
	if opts.output != "" && len(args) > 1 {
		return errors.New("--output requires a single input")
	}
	if opts.quantBits > common.MaxQuantBits {
		return fmt.Errorf("--quant-bits %d out of range 0-%d", opts.quantBits, common.MaxQuantBits)
	}
	ct, err := common.ParseColorTransform(opts.colorTransform)
	if err != nil {
		return err
	}

	cfg := common.CodecConfig{
		Codec:          common.PredictVarint,
		QuantBits:      uint8(opts.quantBits),
		StrictRecon:    opts.strictRecon,
		ColorTransform: ct,
	}
	if !cfg.RoundTrips() {
		slog.Warn("quantization without strict reconstruction does not decode to the encoder's reconstruction",
			"quant_bits", cfg.QuantBits)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(opts.jobs, 1))
	for _, in := range args {
		out := opts.output
		if out == "" {
			out = strings.TrimSuffix(in, filepath.Ext(in)) + Extension
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return encodeFile(in, out, cfg, opts)
		})
	}
	return g.Wait()
}

func encodeFile(in, out string, cfg common.CodecConfig, opts *encodeOptions) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	img, kind, err := readImage(data, opts.format)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	stream, err := container.Encode(img, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if opts.zstd {
		stream = envelope.Wrap(stream)
	}
	if err := os.WriteFile(out, stream, 0o644); err != nil {
		return err
	}

	slog.Info("encoded", "input", in, "decoder", kind, "output", out,
		"width", img.Width, "height", img.Height, "format", img.Format,
		"raw_bytes", len(img.Data), "bytes", len(stream))
	return nil
}
