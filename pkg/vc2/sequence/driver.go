package sequence

import (
	"bytes"

	"github.com/go-vc2/vc2/pkg/vc2/bitio"
	"github.com/go-vc2/vc2/pkg/vc2/quant"
	"github.com/go-vc2/vc2/pkg/vc2/slice"
	"github.com/go-vc2/vc2/pkg/vc2/stream"
	"github.com/go-vc2/vc2/pkg/vc2/types"
	"github.com/go-vc2/vc2/pkg/vc2/wavelet"
)

// fieldState tracks progress through an interlaced frame: Empty means
// no field is pending; halfFilled means the first field of a frame
// has been decoded and is waiting for its pair.
type fieldState int

const (
	stateEmpty fieldState = iota
	stateHalfFilled
)

// Driver holds the live state of one sequence: the most recently seen
// sequence header, and (for interlaced streams) whichever field is
// waiting to be paired into a frame.
type Driver struct {
	Header *Header

	state      fieldState
	firstField types.Picture
}

// NewDriver returns a driver with no sequence header yet seen.
func NewDriver() *Driver {
	return &Driver{}
}

// PictureResult holds every stage of decoding one picture or field,
// from the raw per-slice indices through to the cropped, inverse-
// transformed picture — the intermediate stages a diagnostic run
// writes out instead of the fully decoded picture.
type PictureResult struct {
	Preamble  PicturePreamble
	Indices   types.Array2D // per-slice qIndex, ySlices x xSlices
	Quantised types.Picture // merged coefficients, still quantised, padded size
	Transform types.Picture // dequantised coefficients, padded size
	Decoded   types.Picture // after inverse wavelet transform, cropped to display size
}

// Dispatch advances sequence state by one data unit. For
// SEQUENCE_HEADER it replaces Header. For AUX_DATA and PADDING it
// does nothing. For END_OF_SEQUENCE it returns ErrEndOfSequence. For
// LD_PICTURE and HQ_PICTURE it decodes the full picture pipeline (slice
// read, merge, dequantise, inverse transform, crop) and returns the
// result; callers that want a fully assembled Frame pass Decoded to
// AssembleFrame themselves, since diagnostic modes need the
// intermediate stages instead.
func (d *Driver) Dispatch(du stream.DataUnit) (*PictureResult, error) {
	switch du.Info.ParseCode {
	case stream.ParseCodeSequenceHeader:
		hdr, err := ReadHeader(bytes.NewReader(du.Payload))
		if err != nil {
			return nil, err
		}
		d.Header = &hdr
		d.state = stateEmpty
		return nil, nil
	case stream.ParseCodeEndOfSequence:
		return nil, ErrEndOfSequence
	case stream.ParseCodeAuxData, stream.ParseCodePadding:
		return nil, nil
	case stream.ParseCodeLDPicture, stream.ParseCodeHQPicture:
		if d.Header == nil {
			return nil, ErrMissingSequenceHeader
		}
		return d.DecodePicture(du)
	default:
		return nil, stream.ErrUnknownDataUnit
	}
}

// DecodePicture parses du's picture preamble and decodes its slices
// into every intermediate stage. It does not touch the interlaced
// field state machine; call AssembleFrame separately on Decoded when
// a fully assembled Frame is wanted.
func (d *Driver) DecodePicture(du stream.DataUnit) (*PictureResult, error) {
	ld := du.Info.ParseCode == stream.ParseCodeLDPicture
	br := bitio.NewReader(bytes.NewReader(du.Payload))

	preamble, err := ReadPicturePreamble(br, ld)
	if err != nil {
		return nil, err
	}
	br.ByteAlign()

	pictureHeight := d.Header.Height
	if d.Header.Interlace {
		pictureHeight /= 2
	}
	paddedHeight := wavelet.PaddedSize(pictureHeight, preamble.Depth)
	paddedWidth := wavelet.PaddedSize(d.Header.Width, preamble.Depth)
	chromaH, chromaW := d.Header.ChromaFormat.ChromaSize(paddedHeight, paddedWidth)

	shape := slice.PictureShape{
		Depth:        preamble.Depth,
		LumaHeight:   paddedHeight,
		LumaWidth:    paddedWidth,
		ChromaHeight: chromaH,
		ChromaWidth:  chromaW,
		Chroma:       d.Header.ChromaFormat,
		YSlices:      preamble.SlicesY,
		XSlices:      preamble.SlicesX,
	}
	sliceShape := shape.SliceShape()

	slices := slice.NewSlices(preamble.SlicesY, preamble.SlicesX, preamble.Depth)
	indices := types.NewArray2D(preamble.SlicesY, preamble.SlicesX)

	if ld {
		sliceBytes := slice.SliceBytesTable(preamble.SlicesY, preamble.SlicesX, preamble.LD.Numerator, preamble.LD.Denominator)
		for y := 0; y < preamble.SlicesY; y++ {
			for x := 0; x < preamble.SlicesX; x++ {
				s, err := slice.ReadLowDelay(br, int(sliceBytes.At(y, x)), sliceShape)
				if err != nil {
					return nil, err
				}
				slices.Set(y, x, s)
				indices.Set(y, x, int32(s.QIndex))
			}
		}
	} else {
		for y := 0; y < preamble.SlicesY; y++ {
			for x := 0; x < preamble.SlicesX; x++ {
				s, err := slice.ReadHighQuality(br, preamble.HQ.SlicePrefix, preamble.HQ.SliceScalar, sliceShape)
				if err != nil {
					return nil, err
				}
				slices.Set(y, x, s)
				indices.Set(y, x, int32(s.QIndex))
			}
		}
	}

	quantised := slice.MergeBlocks(slices, shape)

	matrix := quant.Matrix(preamble.Kernel, preamble.Depth)
	lumaCounts := sliceShape.LumaCounts()
	chromaCounts := sliceShape.ChromaCounts()
	dequantSlices := slice.NewSlices(preamble.SlicesY, preamble.SlicesX, preamble.Depth)
	for y := 0; y < preamble.SlicesY; y++ {
		for x := 0; x < preamble.SlicesX; x++ {
			s := slices.At(y, x)
			dequantSlices.Set(y, x, slice.Slice{
				QIndex: s.QIndex,
				Y:      quant.DequantiseComponent(s.Y, s.QIndex, matrix, lumaCounts, ld),
				Cb:     quant.DequantiseComponent(s.Cb, s.QIndex, matrix, chromaCounts, ld),
				Cr:     quant.DequantiseComponent(s.Cr, s.QIndex, matrix, chromaCounts, ld),
			})
		}
	}
	transform := slice.MergeBlocks(dequantSlices, shape)

	decodedPadded := types.Picture{
		Y:      transform.Y.Copy(),
		Cb:     transform.Cb.Copy(),
		Cr:     transform.Cr.Copy(),
		Chroma: transform.Chroma,
	}
	wavelet.InverseMultiLevel(decodedPadded.Y, preamble.Kernel, preamble.Depth)
	preShift := wavelet.PreShiftAmount(preamble.Kernel)
	wavelet.UndoPreShift(decodedPadded.Y, preShift)
	if d.Header.ChromaFormat != types.FormatMono {
		wavelet.InverseMultiLevel(decodedPadded.Cb, preamble.Kernel, preamble.Depth)
		wavelet.InverseMultiLevel(decodedPadded.Cr, preamble.Kernel, preamble.Depth)
		wavelet.UndoPreShift(decodedPadded.Cb, preShift)
		wavelet.UndoPreShift(decodedPadded.Cr, preShift)
	}

	decoded := cropPicture(decodedPadded, pictureHeight, d.Header.Width, d.Header.ChromaFormat)

	return &PictureResult{
		Preamble:  preamble,
		Indices:   indices,
		Quantised: quantised,
		Transform: transform,
		Decoded:   decoded,
	}, nil
}

func cropPicture(pic types.Picture, height, width int, chroma types.ChromaFormat) types.Picture {
	out := types.Picture{
		Y:      pic.Y.SubArray(0, height, 0, width),
		Chroma: chroma,
	}
	if chroma != types.FormatMono {
		chromaH, chromaW := chroma.ChromaSize(height, width)
		out.Cb = pic.Cb.SubArray(0, chromaH, 0, chromaW)
		out.Cr = pic.Cr.SubArray(0, chromaH, 0, chromaW)
	}
	return out
}

// AssembleFrame feeds one decoded picture into the field state
// machine. Progressive sequences always return a ready frame.
// Interlaced sequences return ready=false after the first field of a
// pair and ready=true (with the completed Frame) after the second.
func (d *Driver) AssembleFrame(pic types.Picture) (frame *types.Frame, ready bool, err error) {
	if !d.Header.Interlace {
		f := types.NewProgressiveFrame(pic)
		return &f, true, nil
	}

	if d.state == stateEmpty {
		d.firstField = pic
		d.state = stateHalfFilled
		return nil, false, nil
	}

	d.state = stateEmpty
	if !sameFormat(d.firstField, pic) {
		return nil, false, ErrFormatMismatch
	}
	f := types.Frame{
		First:         d.firstField,
		Second:        pic,
		Interlaced:    true,
		TopFieldFirst: d.Header.TopFieldFirst,
	}
	return &f, true, nil
}

func sameFormat(a, b types.Picture) bool {
	return a.Y.Height == b.Y.Height && a.Y.Width == b.Y.Width && a.Chroma == b.Chroma
}
