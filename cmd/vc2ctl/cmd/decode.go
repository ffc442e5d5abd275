package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-vc2/vc2/pkg/vc2/codec"
)

// NewDecodeCmd decodes a VC-2 bitstream, writing planar samples (or one
// of the three intermediate diagnostic stages) to outFile.
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [inFile] [outFile]",
		Short: "decode a VC-2 elementary stream to planar samples",
		Long:  "decode reads a VC-2 elementary stream and writes decoded planar samples, or, with --output, one of the intermediate diagnostic stages (transform, quantised, indices).",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, outPath := positional(args)

			diagStr, _ := cmd.Flags().GetString("output")
			diag, err := parseDiagnostic(diagStr)
			if err != nil {
				return err
			}

			in, err := openInput(inPath)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer in.Close()

			out, err := openOutput(outPath)
			if err != nil {
				return fmt.Errorf("open output: %w", err)
			}
			defer out.Close()

			opts := codec.DecodeOptions{
				Diagnostic: diag,
				Logger:     slog.Default(),
			}
			if err := codec.Decode(in, out, opts); err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "decoded", "which stage to write: decoded|transform|quantised|indices")
	return cmd
}

func positional(args []string) (in, out string) {
	in, out = "-", "-"
	if len(args) > 0 {
		in = args[0]
	}
	if len(args) > 1 {
		out = args[1]
	}
	return in, out
}
