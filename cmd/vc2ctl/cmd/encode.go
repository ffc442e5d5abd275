package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-vc2/vc2/pkg/vc2/codec"
	"github.com/go-vc2/vc2/pkg/vc2/sequence"
)

// NewEncodeCmd reads planar samples and writes a VC-2 elementary
// stream at a constant quantiser index, per spec.md's Non-goals
// excluding bit-rate control.
func NewEncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [inFile] [outFile]",
		Short: "encode planar samples to a VC-2 elementary stream",
		Long:  "encode reads planar samples at a fixed picture format and writes a VC-2 elementary stream using a single constant-quantiser Low Delay or High Quality picture profile.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, outPath := positional(args)

			opts, err := encodeOptionsFromFlags(cmd)
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

			if err := codec.Encode(in, out, opts); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	pf := cmd.Flags()
	pf.Int("height", 0, "luma picture height in samples")
	pf.Int("width", 0, "luma picture width in samples")
	pf.String("chroma", "420", "chroma format: 444|422|420|mono")
	pf.Bool("interlace", false, "each input picture is one field of an interlaced frame pair")
	pf.Bool("top-field-first", false, "first field displays before the second (ignored when --interlace is false)")
	pf.Int("frame-rate-num", 25, "frame rate numerator")
	pf.Int("frame-rate-den", 1, "frame rate denominator")
	pf.Int("luma-depth", 8, "luma bit depth")
	pf.Int("chroma-depth", 8, "chroma bit depth")
	pf.String("kernel", "legall", "wavelet kernel: dd97|legall|dd137|haar|haarshift|fidelity|daub97")
	pf.Int("depth", 1, "wavelet decomposition depth")
	pf.Int("slices-y", 1, "slices across the picture height")
	pf.Int("slices-x", 1, "slices across the picture width")
	pf.Int("qindex", 0, "constant quantiser index")
	pf.Bool("low-delay", true, "use the Low Delay (CBR) slice profile instead of High Quality (VBR)")
	pf.Int("ld-slice-bytes", 16, "Low Delay per-slice byte budget")
	pf.Int("hq-slice-prefix", 0, "High Quality slice prefix byte count")
	pf.Int("hq-slice-scalar", 1, "High Quality slice size-field scalar")
	return cmd
}

func encodeOptionsFromFlags(cmd *cobra.Command) (codec.EncodeOptions, error) {
	pf := cmd.Flags()

	height, _ := pf.GetInt("height")
	width, _ := pf.GetInt("width")
	chromaStr, _ := pf.GetString("chroma")
	interlace, _ := pf.GetBool("interlace")
	topFieldFirst, _ := pf.GetBool("top-field-first")
	rateNum, _ := pf.GetInt("frame-rate-num")
	rateDen, _ := pf.GetInt("frame-rate-den")
	lumaDepth, _ := pf.GetInt("luma-depth")
	chromaDepth, _ := pf.GetInt("chroma-depth")
	kernelStr, _ := pf.GetString("kernel")
	depth, _ := pf.GetInt("depth")
	slicesY, _ := pf.GetInt("slices-y")
	slicesX, _ := pf.GetInt("slices-x")
	qindex, _ := pf.GetInt("qindex")
	lowDelay, _ := pf.GetBool("low-delay")
	ldSliceBytes, _ := pf.GetInt("ld-slice-bytes")
	hqPrefix, _ := pf.GetInt("hq-slice-prefix")
	hqScalar, _ := pf.GetInt("hq-slice-scalar")

	chroma, err := parseChromaFormat(chromaStr)
	if err != nil {
		return codec.EncodeOptions{}, err
	}
	kernel, err := parseKernel(kernelStr)
	if err != nil {
		return codec.EncodeOptions{}, err
	}

	header := sequence.Header{
		Height:         height,
		Width:          width,
		ChromaFormat:   chroma,
		Interlace:      interlace,
		TopFieldFirst:  topFieldFirst,
		FrameRate:      sequence.Rational{Numerator: rateNum, Denominator: rateDen},
		LumaBitDepth:   lumaDepth,
		ChromaBitDepth: chromaDepth,
	}

	return codec.EncodeOptions{
		Header:             header,
		QIndex:             qindex,
		Kernel:             kernel,
		Depth:              depth,
		SlicesY:            slicesY,
		SlicesX:            slicesX,
		LowDelay:           lowDelay,
		LowDelaySliceBytes: ldSliceBytes,
		HQSlicePrefix:      hqPrefix,
		HQSliceScalar:      hqScalar,
		Logger:             slog.Default(),
	}, nil
}
