package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-vc2/vc2/pkg/vc2/sequence"
	"github.com/go-vc2/vc2/pkg/vc2/stream"
	"github.com/go-vc2/vc2/pkg/vc2/types"
)

// Decode reads a VC-2 bitstream from r and writes its decoded output
// to w in the shape opts.Diagnostic selects. It ports
// original_source/DecodeStream.cpp's main loop: synchronise, dispatch
// each data unit, and for pictures either write one of the three
// diagnostic short-circuits or assemble and write a decoded frame.
func Decode(r io.Reader, w io.Writer, opts DecodeOptions) error {
	log := logger(opts.Logger)
	sync := stream.NewSynchroniser(r)
	sync.Logger = log
	driver := sequence.NewDriver()

	frames := 0
	for {
		du, err := sync.ReadDataUnit()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info("reached end of stream", "frames", frames)
				return nil
			}
			return fmt.Errorf("%w: %v", ErrIO, err)
		}

		res, err := driver.Dispatch(du)
		if err != nil {
			switch {
			case errors.Is(err, sequence.ErrEndOfSequence):
				log.Info("end of sequence", "frames", frames)
				return nil
			case errors.Is(err, sequence.ErrMissingSequenceHeader):
				log.Warn("picture data unit before sequence header, dropping")
				continue
			case errors.Is(err, stream.ErrUnknownDataUnit):
				log.Debug("skipping unknown data unit", "parse_code", du.Info.ParseCode)
				continue
			default:
				return err
			}
		}
		if res == nil {
			continue
		}
		log.Debug("decoded picture preamble",
			"picture_number", res.Preamble.PictureNumber,
			"kernel", res.Preamble.Kernel,
			"depth", res.Preamble.Depth)

		switch opts.Diagnostic {
		case Indices:
			log.Debug("writing quantisation indices")
			if err := writeIndices(w, res.Indices); err != nil {
				return err
			}
			continue
		case Quantised:
			log.Debug("writing quantised transform coefficients")
			if err := WriteSamples(w, res.Quantised, SampleFormat{BytesPerSample: 4, Signed: true}); err != nil {
				return err
			}
			continue
		case Transform:
			log.Debug("writing dequantised transform coefficients")
			if err := WriteSamples(w, res.Transform, SampleFormat{BytesPerSample: 4, Signed: true}); err != nil {
				return err
			}
			continue
		}

		frame, ready, err := driver.AssembleFrame(res.Decoded)
		if err != nil {
			if errors.Is(err, sequence.ErrFormatMismatch) {
				log.Warn("interlaced second field does not match first, dropping pending frame")
				continue
			}
			return err
		}
		if !ready {
			continue
		}

		out := clipPicture(frame.Flatten(), driver.Header.LumaBitDepth, driver.Header.ChromaBitDepth)
		format := SampleFormat{BytesPerSample: driver.Header.OutputBytes(), Signed: false}
		justified := justifyPicture(out, driver.Header.LumaBitDepth, driver.Header.ChromaBitDepth, format.BytesPerSample)
		if err := WriteSamples(w, justified, format); err != nil {
			return err
		}
		frames++
	}
}

// clipPicture clips luma and chroma samples to their respective
// signed ranges, per original_source/DecodeStream.cpp's separate
// yMin/yMax and uvMin/uvMax clip bounds.
func clipPicture(pic types.Picture, lumaDepth, chromaDepth int) types.Picture {
	yLo, yHi := clipRange(lumaDepth)
	cLo, cHi := clipRange(chromaDepth)
	out := types.Picture{Y: clipArray(pic.Y, yLo, yHi), Chroma: pic.Chroma}
	if pic.Chroma != types.FormatMono {
		out.Cb = clipArray(pic.Cb, cLo, cHi)
		out.Cr = clipArray(pic.Cr, cLo, cHi)
	}
	return out
}

func clipRange(depth int) (lo, hi int32) {
	half := int32(1) << uint(depth-1)
	return -half, half - 1
}

func clipArray(a types.Array2D, lo, hi int32) types.Array2D {
	out := a.Copy()
	for y := 0; y < out.Height; y++ {
		row := out.Row(y)
		for x, v := range row {
			row[x] = types.Clip(v, lo, hi)
		}
	}
	return out
}

// justifyPicture converts clipped signed samples to left-justified
// offset-binary, the wire shape spec.md §6 requires for decoded
// output.
func justifyPicture(pic types.Picture, lumaDepth, chromaDepth, bytesPerSample int) types.Picture {
	out := types.Picture{Y: justifyArray(pic.Y, lumaDepth, bytesPerSample), Chroma: pic.Chroma}
	if pic.Chroma != types.FormatMono {
		out.Cb = justifyArray(pic.Cb, chromaDepth, bytesPerSample)
		out.Cr = justifyArray(pic.Cr, chromaDepth, bytesPerSample)
	}
	return out
}

func justifyArray(a types.Array2D, depth, bytesPerSample int) types.Array2D {
	out := a.Copy()
	for y := 0; y < out.Height; y++ {
		row := out.Row(y)
		for x, v := range row {
			row[x] = LeftJustify(OffsetBinary(v, depth), depth, bytesPerSample)
		}
	}
	return out
}
