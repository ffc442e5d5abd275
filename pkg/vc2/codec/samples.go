package codec

import (
	"fmt"
	"io"

	"github.com/go-vc2/vc2/pkg/vc2/types"
)

// SampleFormat describes one planar sample's wire shape: a fixed byte
// width, written/read big-endian, and whether ReadSamples should
// sign-extend the stored bit pattern (WriteSamples itself only ever
// writes the low BytesPerSample*8 bits of v, so a 2's-complement
// negative value and its unsigned bit-pattern equivalent serialise
// identically).
type SampleFormat struct {
	BytesPerSample int
	Signed         bool
}

// OffsetBinary shifts a signed sample of the given bit depth into
// unsigned offset-binary range, per spec.md §6.
func OffsetBinary(v int32, depth int) int32 {
	return v + (1 << uint(depth-1))
}

// LeftJustify shifts an offset-binary value so it occupies the
// high-order bits of a BytesPerSample-wide word, matching how
// broadcast formats pack sub-byte-multiple depths (e.g. 10 bits in a
// 16-bit word).
func LeftJustify(v int32, depth, bytesPerSample int) int32 {
	shift := bytesPerSample*8 - depth
	if shift <= 0 {
		return v
	}
	return v << uint(shift)
}

// WriteSamples writes every sample of pic (Y row-major, then Cb, then
// Cr, omitted for FormatMono) as BytesPerSample big-endian bytes.
func WriteSamples(w io.Writer, pic types.Picture, format SampleFormat) error {
	if err := writeArray(w, pic.Y, format); err != nil {
		return err
	}
	if pic.Chroma == types.FormatMono {
		return nil
	}
	if err := writeArray(w, pic.Cb, format); err != nil {
		return err
	}
	return writeArray(w, pic.Cr, format)
}

func writeArray(w io.Writer, a types.Array2D, format SampleFormat) error {
	buf := make([]byte, format.BytesPerSample)
	for y := 0; y < a.Height; y++ {
		for _, v := range a.Row(y) {
			putSample(buf, v)
			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
		}
	}
	return nil
}

func putSample(buf []byte, v int32) {
	u := uint32(v)
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = byte(u)
		u >>= 8
	}
}

// ReadSamples reads a picture of the given dimensions and chroma
// format back from r, the inverse of WriteSamples.
func ReadSamples(r io.Reader, height, width int, chroma types.ChromaFormat, format SampleFormat) (types.Picture, error) {
	pic := types.NewPicture(height, width, chroma)
	if err := readArray(r, pic.Y, format); err != nil {
		return types.Picture{}, err
	}
	if chroma == types.FormatMono {
		return pic, nil
	}
	if err := readArray(r, pic.Cb, format); err != nil {
		return types.Picture{}, err
	}
	if err := readArray(r, pic.Cr, format); err != nil {
		return types.Picture{}, err
	}
	return pic, nil
}

func readArray(r io.Reader, a types.Array2D, format SampleFormat) error {
	buf := make([]byte, format.BytesPerSample)
	for y := 0; y < a.Height; y++ {
		row := a.Row(y)
		for x := range row {
			if _, err := io.ReadFull(r, buf); err != nil {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
			row[x] = getSample(buf, format.Signed)
		}
	}
	return nil
}

func getSample(buf []byte, signed bool) int32 {
	var u uint32
	for _, b := range buf {
		u = u<<8 | uint32(b)
	}
	if !signed || len(buf) >= 4 {
		return int32(u)
	}
	bits := uint(len(buf) * 8)
	signBit := uint32(1) << (bits - 1)
	if u&signBit != 0 {
		u |= ^uint32(0) << bits
	}
	return int32(u)
}

// writeIndices writes a's values as 1-byte unsigned samples in raster
// order, the wire shape of the "indices" diagnostic output.
func writeIndices(w io.Writer, a types.Array2D) error {
	return writeArray(w, a, SampleFormat{BytesPerSample: 1, Signed: false})
}
