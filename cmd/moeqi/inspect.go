package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cocosip/go-moeqi-codec/envconfig"
	"github.com/cocosip/go-moeqi-codec/moeqi/container"
	"github.com/cocosip/go-moeqi-codec/moeqi/mqb"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Show container header fields",
		Args:  cobra.MinimumNArgs(1),
		RunE:  InspectHandler,
	}
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show environment configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vars := envconfig.AsMap()
			keys := make([]string, 0, len(vars))
			for k := range vars {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			rows := make([][]string, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, []string{k, fmt.Sprintf("%v", vars[k].Value), vars[k].Description})
			}
			renderTable(cmd.OutOrStdout(), []string{"NAME", "VALUE", "DESCRIPTION"}, rows)
			return nil
		},
	}
}

// InspectHandler prints the header of every file without decoding pixels.
func InspectHandler(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	for _, path := range args {
		data, wrapped, err := readStream(path)
		if err != nil {
			return err
		}
		rows, err := headerRows(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if wrapped {
			rows = append(rows, []string{"envelope", "zstd"})
		}

		fmt.Fprintln(w, " ", path)
		renderTable(w, nil, rows)
		fmt.Fprintln(w)
	}
	return nil
}

func headerRows(data []byte) ([][]string, error) {
	switch {
	case len(data) >= len(mqb.Magic) && string(data[:len(mqb.Magic)]) == mqb.Magic:
		bs, err := mqb.Parse(data)
		if err != nil {
			return nil, err
		}
		rows := [][]string{
			{"container", mqb.Magic},
			{"version", strconv.Itoa(mqb.Version)},
			{"width", strconv.Itoa(int(bs.Width))},
			{"height", strconv.Itoa(int(bs.Height))},
			{"qstep", strconv.Itoa(int(bs.QStep))},
			{"entropy codec", bs.Codec.String()},
			{"experts", strconv.Itoa(int(bs.Model.NumExperts))},
			{"expert weights", bs.ExpertPrecision.String()},
			{"residuals", strconv.FormatUint(uint64(bs.ResidualsCount), 10)},
			{"payload bytes", strconv.Itoa(len(bs.Payload))},
		}
		if bs.Codec == mqb.Huff {
			rows = append(rows, []string{"huffman symbols", strconv.Itoa(len(bs.HuffSymbols))})
		}
		return rows, nil
	default:
		hdr, _, err := container.ParseHeader(data)
		if err != nil {
			return nil, err
		}
		return [][]string{
			{"container", container.Magic},
			{"width", strconv.FormatUint(uint64(hdr.Width), 10)},
			{"height", strconv.FormatUint(uint64(hdr.Height), 10)},
			{"format", hdr.Format.String()},
			{"quant bits", strconv.Itoa(int(hdr.Config.QuantBits))},
			{"strict recon", strconv.FormatBool(hdr.Config.StrictRecon)},
			{"color transform", hdr.Config.ColorTransform.String()},
			{"payload bytes", strconv.FormatUint(uint64(hdr.PayloadLen), 10)},
		}, nil
	}
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	if header != nil {
		table.SetHeader(header)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeaderLine(false)
	}
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	table.Render()
}
