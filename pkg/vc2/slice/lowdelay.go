package slice

import "github.com/go-vc2/vc2/pkg/vc2/bitio"

// ceilLog2 returns the smallest w such that 1<<w >= n, n > 0.
func ceilLog2(n int) int {
	w := 0
	for (1 << w) < n {
		w++
	}
	return w
}

// ReadLowDelay reads one constant-bytes-per-slice Low Delay slice:
// 7-bit qIndex, a sliceYLength field sized to the slice's own byte
// budget, the Y subband coefficients padded to sliceYLength bits, then
// the UV coefficients padded to the slice's byte boundary.
func ReadLowDelay(br *bitio.Reader, sliceBytes int, shape Shape) (Slice, error) {
	startBit := br.BitPos()
	endBit := startBit + int64(8*sliceBytes)

	q, err := br.ReadBits(7)
	if err != nil {
		return Slice{}, err
	}

	lenFieldWidth := ceilLog2(8 * sliceBytes)
	yLen, err := br.ReadBits(lenFieldWidth)
	if err != nil {
		return Slice{}, err
	}
	yStart := br.BitPos()

	y, err := readSints(br, sum(shape.LumaCounts()))
	if err != nil {
		return Slice{}, err
	}
	if err := br.SkipToBit(yStart + int64(yLen)); err != nil {
		return Slice{}, err
	}

	chromaN := sum(shape.ChromaCounts())
	cb, err := readSints(br, chromaN)
	if err != nil {
		return Slice{}, err
	}
	cr, err := readSints(br, chromaN)
	if err != nil {
		return Slice{}, err
	}
	if err := br.SkipToBit(endBit); err != nil {
		return Slice{}, err
	}

	return Slice{QIndex: int(q), Y: y, Cb: cb, Cr: cr}, nil
}

// WriteLowDelay writes s into exactly sliceBytes bytes. It returns
// ErrSliceOverflow if the Y coefficients (at s.QIndex) would need more
// bits than the fixed per-slice budget leaves for them, or if the UV
// coefficients overrun the remaining byte-aligned space: a
// constant-quantiser encoder has no recourse but to fail, since it
// never revisits qIndex to shrink the payload.
func WriteLowDelay(bw *bitio.Writer, s Slice, sliceBytes int, shape Shape) error {
	startBit := bw.BitPos()
	endBit := startBit + int64(8*sliceBytes)

	if err := bw.WriteBits(uint32(s.QIndex), 7); err != nil {
		return err
	}

	lenFieldWidth := ceilLog2(8 * sliceBytes)
	yLen := sintStreamLen(s.Y)
	fieldMax := (1 << lenFieldWidth) - 1
	if yLen > fieldMax {
		return ErrSliceOverflow
	}
	if err := bw.WriteBits(uint32(yLen), lenFieldWidth); err != nil {
		return err
	}
	yStart := bw.BitPos()

	if err := writeSints(bw, s.Y); err != nil {
		return err
	}
	if bw.BitPos() > yStart+int64(yLen) {
		return ErrSliceOverflow
	}
	if err := bw.ZeroPadToBit(yStart + int64(yLen)); err != nil {
		return err
	}

	if err := writeSints(bw, s.Cb); err != nil {
		return err
	}
	if err := writeSints(bw, s.Cr); err != nil {
		return err
	}
	if bw.BitPos() > endBit {
		return ErrSliceOverflow
	}
	return bw.ZeroPadToBit(endBit)
}

func readSints(br *bitio.Reader, n int) ([]int32, error) {
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		v, err := br.ReadSint()
		if err != nil {
			return nil, err
		}
		out[i] = int32(v)
	}
	return out, nil
}

func writeSints(bw *bitio.Writer, vs []int32) error {
	for _, v := range vs {
		if err := bw.WriteSint(int64(v)); err != nil {
			return err
		}
	}
	return nil
}

func sintStreamLen(vs []int32) int {
	total := 0
	for _, v := range vs {
		total += bitio.SintLen(int64(v))
	}
	return total
}
