package main

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cocosip/go-moeqi-codec/codec"
	"github.com/cocosip/go-moeqi-codec/moeqi/envelope"
	_ "github.com/cocosip/go-moeqi-codec/moeqi/luma"
)

func newDecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode a MOEQI1 or MOEQIBIN stream to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  DecodeHandler,
	}

	decodeCmd.Flags().StringP("output", "o", "", "Output PNG path (default: input with .png)")

	return decodeCmd
}

// DecodeHandler decodes one stream, picking the codec from its magic.
func DecodeHandler(cmd *cobra.Command, args []string) error {
	in := args[0]
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".png"
	}

	data, _, err := readStream(in)
	if err != nil {
		return err
	}
	c, err := codec.Sniff(data)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	res, err := c.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	img, err := toImage(res)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}

	slog.Info("decoded", "input", in, "codec", c.Name(), "output", out,
		"width", res.Width, "height", res.Height, "components", res.Components)
	return nil
}

// readStream reads a container file, removing a zstd envelope if present.
func readStream(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	wrapped := envelope.IsWrapped(data)
	if wrapped {
		slog.Debug("zstd envelope", "path", path, "bytes", len(data))
	}
	data, err = envelope.Unwrap(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return data, wrapped, nil
}
