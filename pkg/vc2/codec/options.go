// Package codec is the top-level decode/encode facade: it drives
// package sequence's dispatch loop over a package stream Synchroniser,
// wires in quantisation and the wavelet transform, and handles the
// planar sample I/O and diagnostic short-circuits that sit outside
// the bitstream proper. Ports the control flow of
// original_source/DecodeStream.cpp's main loop (same case order, same
// short-circuit continue points) into an explicit Go pipeline.
package codec

import (
	"log/slog"

	"github.com/go-vc2/vc2/pkg/vc2/sequence"
	"github.com/go-vc2/vc2/pkg/vc2/wavelet"
)

// DiagnosticMode selects which stage of the decode pipeline is
// written to the output stream, in place of the default fully
// decoded picture.
type DiagnosticMode int

const (
	Decoded DiagnosticMode = iota
	Transform
	Quantised
	Indices
)

// String names the diagnostic mode.
func (m DiagnosticMode) String() string {
	switch m {
	case Decoded:
		return "decoded"
	case Transform:
		return "transform"
	case Quantised:
		return "quantised"
	case Indices:
		return "indices"
	default:
		return "unknown"
	}
}

// DecodeOptions configures one Decode call.
type DecodeOptions struct {
	Diagnostic DiagnosticMode
	Logger     *slog.Logger
}

// EncodeOptions configures one Encode call: a constant quantisation
// index only, per spec.md's Non-goals excluding bit-rate control.
type EncodeOptions struct {
	Header   sequence.Header
	QIndex   int
	Kernel   wavelet.Kernel
	Depth    int
	SlicesY  int
	SlicesX  int
	LowDelay bool
	// LowDelaySliceBytes is the per-slice byte budget for Low Delay
	// mode, passed to slice.SliceBytesTable as numerator with
	// denominator 1 so every slice gets the same fixed size. Unused for
	// High Quality mode.
	LowDelaySliceBytes int
	// HQSlicePrefix and HQSliceScalar configure High Quality slices.
	// Unused for Low Delay mode.
	HQSlicePrefix int
	HQSliceScalar int
	Logger        *slog.Logger
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
