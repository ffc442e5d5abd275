package slice

import "github.com/go-vc2/vc2/pkg/vc2/bitio"

// ReadHighQuality reads one High Quality VBR slice: prefixBytes of
// (ignored) prefix, a 1-byte qIndex, then for each of Y, Cb, Cr a
// 1-byte size (scaled by scalar) followed by that many bytes of
// exp-Golomb-coded coefficients, zero-padded to the byte boundary.
func ReadHighQuality(br *bitio.Reader, prefixBytes, scalar int, shape Shape) (Slice, error) {
	if prefixBytes > 0 {
		if _, err := br.ReadBytes(prefixBytes); err != nil {
			return Slice{}, err
		}
	}

	q, err := br.ReadByte()
	if err != nil {
		return Slice{}, err
	}

	y, err := readHQComponent(br, scalar, sum(shape.LumaCounts()))
	if err != nil {
		return Slice{}, err
	}
	chromaN := sum(shape.ChromaCounts())
	cb, err := readHQComponent(br, scalar, chromaN)
	if err != nil {
		return Slice{}, err
	}
	cr, err := readHQComponent(br, scalar, chromaN)
	if err != nil {
		return Slice{}, err
	}

	return Slice{QIndex: int(q), Y: y, Cb: cb, Cr: cr}, nil
}

func readHQComponent(br *bitio.Reader, scalar, n int) ([]int32, error) {
	sizeField, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	byteLen := int(sizeField) * scalar
	startBit := br.BitPos()

	vs, err := readSints(br, n)
	if err != nil {
		return nil, err
	}
	return vs, br.SkipToBit(startBit + int64(8*byteLen))
}

// WriteHighQuality writes s as one High Quality slice: prefixBytes of
// zero prefix, the 1-byte qIndex, then each component's coefficients
// preceded by a 1-byte size field scaled by scalar and padded to that
// scaled byte length. Returns ErrSliceOverflow if any component's
// coefficients need more than 255*scalar bytes.
func WriteHighQuality(bw *bitio.Writer, s Slice, prefixBytes, scalar int) error {
	if prefixBytes > 0 {
		if err := bw.WriteBytes(make([]byte, prefixBytes)); err != nil {
			return err
		}
	}
	if err := bw.WriteByte(byte(s.QIndex)); err != nil {
		return err
	}
	if err := writeHQComponent(bw, scalar, s.Y); err != nil {
		return err
	}
	if err := writeHQComponent(bw, scalar, s.Cb); err != nil {
		return err
	}
	return writeHQComponent(bw, scalar, s.Cr)
}

func writeHQComponent(bw *bitio.Writer, scalar int, vs []int32) error {
	bitLen := sintStreamLen(vs)
	byteLen := (bitLen + 7) / 8
	sizeField := (byteLen + scalar - 1) / scalar
	if sizeField > 255 {
		return ErrSliceOverflow
	}
	if err := bw.WriteByte(byte(sizeField)); err != nil {
		return err
	}
	startBit := bw.BitPos()
	if err := writeSints(bw, vs); err != nil {
		return err
	}
	return bw.ZeroPadToBit(startBit + int64(8*sizeField*scalar))
}
