// Package sequence interprets VC-2's sequence-level state: the
// sequence header that fixes a picture format until the next one
// arrives, the per-picture preamble that selects a slice profile and
// wavelet kernel, and the progressive/interlaced field-accumulation
// state machine. Grounded on pkg/dicos/decode.go's dispatch-and-mutate
// state idiom and, for the field state machine, the pic==0/continue
// branch of original_source/DecodeStream.cpp's main loop.
package sequence

import (
	"io"

	"github.com/go-vc2/vc2/pkg/vc2/bitio"
	"github.com/go-vc2/vc2/pkg/vc2/types"
)

// Rational is a fraction, used for frame rate and the Low Delay
// slice-bytes proportion.
type Rational struct {
	Numerator, Denominator int
}

// Header is a sequence header: the format that governs every
// following picture until the next SEQUENCE_HEADER data unit.
// LumaBitDepth and ChromaBitDepth are carried separately per
// original_source/DecodeStream.cpp's yMin/yMax vs uvMin/uvMax clip
// ranges, even though most streams set them equal.
type Header struct {
	Height, Width  int
	ChromaFormat   types.ChromaFormat
	Interlace      bool
	TopFieldFirst  bool
	FrameRate      Rational
	LumaBitDepth   int
	ChromaBitDepth int
}

// OutputBytes returns the number of bytes one output sample occupies:
// 1 for bitdepth<=8, 2 for <=16, otherwise the general ceil(d/8) case
// spec.md's 3- and 4-byte widths require. Output sample width is
// driven by the luma bit depth; a stream with a narrower chroma depth
// still writes chroma samples at the luma width.
func (h Header) OutputBytes() int {
	return bytesForDepth(h.LumaBitDepth)
}

func bytesForDepth(d int) int {
	switch {
	case d <= 8:
		return 1
	case d <= 16:
		return 2
	default:
		return (d + 7) / 8
	}
}

// ReadHeader parses a sequence-header payload: height, width (4 bytes
// each), chroma format and interlace flags (1 byte each), frame rate
// (two 4-byte fields) and luma/chroma bit depth (1 byte each), all
// big-endian and byte-aligned — sequence headers are rare enough per
// stream that there is no benefit to VC-2's bit-packed coefficient
// encodings here.
func ReadHeader(r io.Reader) (Header, error) {
	br := bitio.NewReader(r)
	height, err := br.ReadUint32BE()
	if err != nil {
		return Header{}, err
	}
	width, err := br.ReadUint32BE()
	if err != nil {
		return Header{}, err
	}
	chromaByte, err := br.ReadByte()
	if err != nil {
		return Header{}, err
	}
	interlaceByte, err := br.ReadByte()
	if err != nil {
		return Header{}, err
	}
	topFieldByte, err := br.ReadByte()
	if err != nil {
		return Header{}, err
	}
	num, err := br.ReadUint32BE()
	if err != nil {
		return Header{}, err
	}
	den, err := br.ReadUint32BE()
	if err != nil {
		return Header{}, err
	}
	lumaDepthByte, err := br.ReadByte()
	if err != nil {
		return Header{}, err
	}
	chromaDepthByte, err := br.ReadByte()
	if err != nil {
		return Header{}, err
	}

	return Header{
		Height:         int(height),
		Width:          int(width),
		ChromaFormat:   types.ChromaFormat(chromaByte),
		Interlace:      interlaceByte != 0,
		TopFieldFirst:  topFieldByte != 0,
		FrameRate:      Rational{Numerator: int(num), Denominator: int(den)},
		LumaBitDepth:   int(lumaDepthByte),
		ChromaBitDepth: int(chromaDepthByte),
	}, nil
}

// WriteHeader serialises h in ReadHeader's wire format.
func WriteHeader(w io.Writer, h Header) error {
	bw := bitio.NewWriter(w)
	if err := bw.WriteUint32BE(uint32(h.Height)); err != nil {
		return err
	}
	if err := bw.WriteUint32BE(uint32(h.Width)); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(h.ChromaFormat)); err != nil {
		return err
	}
	if err := bw.WriteByte(boolByte(h.Interlace)); err != nil {
		return err
	}
	if err := bw.WriteByte(boolByte(h.TopFieldFirst)); err != nil {
		return err
	}
	if err := bw.WriteUint32BE(uint32(h.FrameRate.Numerator)); err != nil {
		return err
	}
	if err := bw.WriteUint32BE(uint32(h.FrameRate.Denominator)); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(h.LumaBitDepth)); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(h.ChromaBitDepth)); err != nil {
		return err
	}
	return bw.Flush()
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
