package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-vc2/vc2/pkg/vc2/codec"
	"github.com/go-vc2/vc2/pkg/vc2/types"
	"github.com/go-vc2/vc2/pkg/vc2/wavelet"
)

// openInput maps "-" to stdin and any other path to a file, matching
// cmd/ctl/cmd/root.go's URI handling minus the http(s) fetch case,
// which has no analogue for a local elementary stream.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func parseDiagnostic(s string) (codec.DiagnosticMode, error) {
	switch strings.ToLower(s) {
	case "", "decoded":
		return codec.Decoded, nil
	case "transform":
		return codec.Transform, nil
	case "quantised", "quantized":
		return codec.Quantised, nil
	case "indices":
		return codec.Indices, nil
	default:
		return 0, fmt.Errorf("unknown --output value %q (want decoded|transform|quantised|indices)", s)
	}
}

func parseChromaFormat(s string) (types.ChromaFormat, error) {
	switch strings.ToLower(s) {
	case "444":
		return types.Format444, nil
	case "422":
		return types.Format422, nil
	case "420":
		return types.Format420, nil
	case "mono":
		return types.FormatMono, nil
	default:
		return 0, fmt.Errorf("unknown --chroma value %q (want 444|422|420|mono)", s)
	}
}

func parseKernel(s string) (wavelet.Kernel, error) {
	switch strings.ToLower(s) {
	case "dd97":
		return wavelet.KernelDD97, nil
	case "legall":
		return wavelet.KernelLeGall, nil
	case "dd137":
		return wavelet.KernelDD137, nil
	case "haar":
		return wavelet.KernelHaar, nil
	case "haarshift":
		return wavelet.KernelHaarShift, nil
	case "fidelity":
		return wavelet.KernelFidelity, nil
	case "daub97":
		return wavelet.KernelDaub97, nil
	default:
		return 0, fmt.Errorf("unknown --kernel value %q (want dd97|legall|dd137|haar|haarshift|fidelity|daub97)", s)
	}
}
