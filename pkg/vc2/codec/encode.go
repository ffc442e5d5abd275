package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-vc2/vc2/pkg/vc2/bitio"
	"github.com/go-vc2/vc2/pkg/vc2/quant"
	"github.com/go-vc2/vc2/pkg/vc2/sequence"
	"github.com/go-vc2/vc2/pkg/vc2/slice"
	"github.com/go-vc2/vc2/pkg/vc2/stream"
	"github.com/go-vc2/vc2/pkg/vc2/types"
	"github.com/go-vc2/vc2/pkg/vc2/wavelet"
)

// Encode reads one or more planar pictures from r (with the same
// left-justified offset-binary samples Decode writes) and writes a
// VC-2 bitstream to w: a single SEQUENCE_HEADER, one picture data unit
// per input picture at a constant quantiser index, and a closing
// END_OF_SEQUENCE. For an interlaced header each input picture is one
// half-height field, read whole; input frames with interleaved field
// rows (the layout Decode writes) are not split into fields. This is
// the dual of Decode's pipeline: forward wavelet transform, quantise,
// split into slices, write.
func Encode(r io.Reader, w io.Writer, opts EncodeOptions) error {
	if err := validateEncodeOptions(opts); err != nil {
		return err
	}

	log := logger(opts.Logger)
	h := opts.Header

	var prevOffset uint32

	var hdrBuf bytes.Buffer
	if err := sequence.WriteHeader(&hdrBuf, h); err != nil {
		return err
	}
	next, err := writeDataUnit(w, stream.ParseCodeSequenceHeader, hdrBuf.Bytes(), prevOffset)
	if err != nil {
		return err
	}
	prevOffset = next

	inFormat := SampleFormat{BytesPerSample: h.OutputBytes(), Signed: false}
	pictureHeight := h.Height
	if h.Interlace {
		pictureHeight /= 2
	}

	var pictureNumber uint32
	fieldsPerFrame := 1
	if h.Interlace {
		fieldsPerFrame = 2
	}

	for frames := 0; ; frames++ {
		for field := 0; field < fieldsPerFrame; field++ {
			justified, err := ReadSamples(r, pictureHeight, h.Width, h.ChromaFormat, inFormat)
			if err != nil {
				if errors.Is(err, ErrIO) && frames > 0 && field == 0 {
					log.Info("reached end of input", "frames", frames)
					_, err := writeDataUnit(w, stream.ParseCodeEndOfSequence, nil, prevOffset)
					return err
				}
				return err
			}
			pic := unjustifyPicture(justified, h.LumaBitDepth, h.ChromaBitDepth, inFormat.BytesPerSample)

			parseCode, payload, err := encodePicture(pic, pictureNumber, opts)
			if err != nil {
				return err
			}
			next, err := writeDataUnit(w, parseCode, payload, prevOffset)
			if err != nil {
				return err
			}
			prevOffset = next
			pictureNumber++
		}
	}
}

// encodePicture pads, transforms, quantises and slices one picture,
// returning the parse code and payload of its picture data unit.
func encodePicture(pic types.Picture, pictureNumber uint32, opts EncodeOptions) (stream.ParseCode, []byte, error) {
	paddedHeight := wavelet.PaddedSize(pic.Y.Height, opts.Depth)
	paddedWidth := wavelet.PaddedSize(pic.Y.Width, opts.Depth)

	padded := types.Picture{
		Y:      padArray(pic.Y, paddedHeight, paddedWidth),
		Chroma: pic.Chroma,
	}
	if pic.Chroma != types.FormatMono {
		chromaH, chromaW := pic.Chroma.ChromaSize(paddedHeight, paddedWidth)
		padded.Cb = padArray(pic.Cb, chromaH, chromaW)
		padded.Cr = padArray(pic.Cr, chromaH, chromaW)
	}

	preShift := wavelet.PreShiftAmount(opts.Kernel)
	wavelet.ApplyPreShift(padded.Y, preShift)
	wavelet.ForwardMultiLevel(padded.Y, opts.Kernel, opts.Depth)
	if pic.Chroma != types.FormatMono {
		wavelet.ApplyPreShift(padded.Cb, preShift)
		wavelet.ApplyPreShift(padded.Cr, preShift)
		wavelet.ForwardMultiLevel(padded.Cb, opts.Kernel, opts.Depth)
		wavelet.ForwardMultiLevel(padded.Cr, opts.Kernel, opts.Depth)
	}

	chromaH, chromaW := pic.Chroma.ChromaSize(paddedHeight, paddedWidth)
	shape := slice.PictureShape{
		Depth:        opts.Depth,
		LumaHeight:   paddedHeight,
		LumaWidth:    paddedWidth,
		ChromaHeight: chromaH,
		ChromaWidth:  chromaW,
		Chroma:       pic.Chroma,
		YSlices:      opts.SlicesY,
		XSlices:      opts.SlicesX,
	}
	sliceShape := shape.SliceShape()
	matrix := quant.Matrix(opts.Kernel, opts.Depth)
	lumaCounts := sliceShape.LumaCounts()
	chromaCounts := sliceShape.ChromaCounts()

	splitQuant := slice.SplitBlocks(padded, shape)
	for y := 0; y < shape.YSlices; y++ {
		for x := 0; x < shape.XSlices; x++ {
			s := splitQuant.At(y, x)
			splitQuant.Set(y, x, slice.Slice{
				QIndex: opts.QIndex,
				Y:      quant.QuantiseComponent(s.Y, opts.QIndex, matrix, lumaCounts),
				Cb:     quant.QuantiseComponent(s.Cb, opts.QIndex, matrix, chromaCounts),
				Cr:     quant.QuantiseComponent(s.Cr, opts.QIndex, matrix, chromaCounts),
			})
		}
	}

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)

	var preamble sequence.PicturePreamble
	preamble.PictureNumber = pictureNumber
	preamble.Kernel = opts.Kernel
	preamble.Depth = opts.Depth
	preamble.SlicesX = opts.SlicesX
	preamble.SlicesY = opts.SlicesY

	var parseCode stream.ParseCode
	if opts.LowDelay {
		parseCode = stream.ParseCodeLDPicture
		preamble.LD = &sequence.LDParams{Numerator: opts.LowDelaySliceBytes, Denominator: 1}
	} else {
		parseCode = stream.ParseCodeHQPicture
		preamble.HQ = &sequence.HQParams{SlicePrefix: opts.HQSlicePrefix, SliceScalar: opts.HQSliceScalar}
	}

	if err := sequence.WritePicturePreamble(bw, preamble); err != nil {
		return 0, nil, err
	}
	if err := bw.Flush(); err != nil {
		return 0, nil, err
	}

	if opts.LowDelay {
		sliceBytes := slice.SliceBytesTable(opts.SlicesY, opts.SlicesX, opts.LowDelaySliceBytes, 1)
		for y := 0; y < shape.YSlices; y++ {
			for x := 0; x < shape.XSlices; x++ {
				if err := slice.WriteLowDelay(bw, splitQuant.At(y, x), int(sliceBytes.At(y, x)), sliceShape); err != nil {
					return 0, nil, err
				}
			}
		}
	} else {
		for y := 0; y < shape.YSlices; y++ {
			for x := 0; x < shape.XSlices; x++ {
				if err := slice.WriteHighQuality(bw, splitQuant.At(y, x), opts.HQSlicePrefix, opts.HQSliceScalar); err != nil {
					return 0, nil, err
				}
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, nil, err
	}

	return parseCode, buf.Bytes(), nil
}

// validateEncodeOptions rejects the picture-format and slicing
// combinations that would make encodePicture's geometry meaningless,
// surfacing ErrCommandLine so the CLI can pick an exit code instead of
// treating it as a stream I/O failure.
func validateEncodeOptions(opts EncodeOptions) error {
	h := opts.Header
	switch {
	case h.Height <= 0 || h.Width <= 0:
		return fmt.Errorf("%w: height and width must be positive", ErrCommandLine)
	case opts.Depth <= 0:
		return fmt.Errorf("%w: wavelet decomposition depth must be positive", ErrCommandLine)
	case opts.SlicesY <= 0 || opts.SlicesX <= 0:
		return fmt.Errorf("%w: slice counts must be positive", ErrCommandLine)
	case opts.LowDelay && opts.LowDelaySliceBytes <= 0:
		return fmt.Errorf("%w: low-delay slice byte budget must be positive", ErrCommandLine)
	case !opts.LowDelay && opts.HQSliceScalar <= 0:
		return fmt.Errorf("%w: high-quality slice scalar must be positive", ErrCommandLine)
	default:
		return nil
	}
}

func padArray(a types.Array2D, height, width int) types.Array2D {
	out := types.NewArray2D(height, width)
	out.SetSubArray(0, 0, a)
	return out
}

func unjustifyPicture(pic types.Picture, lumaDepth, chromaDepth, bytesPerSample int) types.Picture {
	out := types.Picture{Y: unjustifyArray(pic.Y, lumaDepth, bytesPerSample), Chroma: pic.Chroma}
	if pic.Chroma != types.FormatMono {
		out.Cb = unjustifyArray(pic.Cb, chromaDepth, bytesPerSample)
		out.Cr = unjustifyArray(pic.Cr, chromaDepth, bytesPerSample)
	}
	return out
}

func unjustifyArray(a types.Array2D, depth, bytesPerSample int) types.Array2D {
	out := a.Copy()
	shift := bytesPerSample*8 - depth
	offset := int32(1) << uint(depth-1)
	for y := 0; y < out.Height; y++ {
		row := out.Row(y)
		for x, v := range row {
			if shift > 0 {
				v >>= uint(shift)
			}
			row[x] = v - offset
		}
	}
	return out
}

// writeDataUnit writes one data unit and returns its total length
// (header plus payload), the caller's next prevOffset.
func writeDataUnit(w io.Writer, code stream.ParseCode, payload []byte, prevOffset uint32) (uint32, error) {
	total := uint32(headerLenForWrite() + len(payload))
	pi := stream.ParseInfo{ParseCode: code, NextOffset: total, PrevOffset: prevOffset}
	if err := stream.WriteParseInfo(w, pi); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	return total, nil
}

// headerLenForWrite returns the 13-byte parse-info header length, the
// same value as package stream's unexported headerLen; no test compares
// the two.
func headerLenForWrite() int {
	return 13
}
