package slice

import (
	"bytes"
	"testing"

	"github.com/go-vc2/vc2/pkg/vc2/bitio"
	"github.com/go-vc2/vc2/pkg/vc2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShape() Shape {
	return Shape{Depth: 2, LumaHeight: 8, LumaWidth: 8, ChromaHeight: 4, ChromaWidth: 4}
}

func testSlice(shape Shape) Slice {
	y := make([]int32, sum(shape.LumaCounts()))
	for i := range y {
		y[i] = int32(i%9) - 4
	}
	cb := make([]int32, sum(shape.ChromaCounts()))
	cr := make([]int32, sum(shape.ChromaCounts()))
	for i := range cb {
		cb[i] = int32(i % 5)
		cr[i] = -int32(i % 3)
	}
	return Slice{QIndex: 17, Y: y, Cb: cb, Cr: cr}
}

func TestSubbandCountsSumToTotal(t *testing.T) {
	for _, depth := range []int{1, 2, 3} {
		counts := subbandCounts(16, 16, depth)
		require.Len(t, counts, 3*depth+1)
		assert.Equal(t, 16*16, sum(counts))
	}
}

func TestLowDelayRoundTrip(t *testing.T) {
	shape := testShape()
	s := testSlice(shape)

	for _, sliceBytes := range []int{64, 48, 128} {
		s.QIndex = 4
		var buf bytes.Buffer
		bw := bitio.NewWriter(&buf)
		// Use a slice with small-magnitude coefficients that are
		// guaranteed to fit in a modest byte budget.
		small := Slice{QIndex: 4, Y: smallish(s.Y), Cb: smallish(s.Cb), Cr: smallish(s.Cr)}
		err := WriteLowDelay(bw, small, sliceBytes, shape)
		require.NoError(t, err)
		require.NoError(t, bw.Flush())
		require.Len(t, buf.Bytes(), sliceBytes)

		br := bitio.NewReader(bytes.NewReader(buf.Bytes()))
		got, err := ReadLowDelay(br, sliceBytes, shape)
		require.NoError(t, err)
		assert.Equal(t, small.QIndex, got.QIndex)
		assert.Equal(t, small.Y, got.Y)
		assert.Equal(t, small.Cb, got.Cb)
		assert.Equal(t, small.Cr, got.Cr)
	}
}

func smallish(vs []int32) []int32 {
	out := make([]int32, len(vs))
	for i, v := range vs {
		out[i] = v % 3
	}
	return out
}

func TestLowDelayOverflow(t *testing.T) {
	shape := testShape()
	huge := Slice{
		QIndex: 0,
		Y:      make([]int32, sum(shape.LumaCounts())),
		Cb:     make([]int32, sum(shape.ChromaCounts())),
		Cr:     make([]int32, sum(shape.ChromaCounts())),
	}
	for i := range huge.Y {
		huge.Y[i] = 1 << 20
	}
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	err := WriteLowDelay(bw, huge, 4, shape)
	assert.ErrorIs(t, err, ErrSliceOverflow)
}

func TestHighQualityRoundTrip(t *testing.T) {
	shape := testShape()
	s := testSlice(shape)

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	require.NoError(t, WriteHighQuality(bw, s, 0, 1))
	require.NoError(t, bw.Flush())

	br := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := ReadHighQuality(br, 0, 1, shape)
	require.NoError(t, err)
	assert.Equal(t, s.QIndex, got.QIndex)
	assert.Equal(t, s.Y, got.Y)
	assert.Equal(t, s.Cb, got.Cb)
	assert.Equal(t, s.Cr, got.Cr)
}

func TestHighQualityWithPrefix(t *testing.T) {
	shape := testShape()
	s := testSlice(shape)

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	require.NoError(t, WriteHighQuality(bw, s, 3, 2))
	require.NoError(t, bw.Flush())

	br := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := ReadHighQuality(br, 3, 2, shape)
	require.NoError(t, err)
	assert.Equal(t, s.Y, got.Y)
}

func TestSliceBytesTableSumsToNumerator(t *testing.T) {
	table := SliceBytesTable(4, 4, 4096, 16)
	var total int32
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			total += table.At(y, x)
		}
	}
	assert.Equal(t, int32(4*4*4096/16), total)
}

func TestMergeSplitBlocksRoundTrip(t *testing.T) {
	shape := PictureShape{
		Depth: 2,
		LumaHeight: 16, LumaWidth: 16,
		ChromaHeight: 8, ChromaWidth: 8,
		Chroma:  types.Format420,
		YSlices: 2, XSlices: 2,
	}
	sliceShape := shape.SliceShape()

	slices := NewSlices(shape.YSlices, shape.XSlices, shape.Depth)
	n := 0
	for sy := 0; sy < shape.YSlices; sy++ {
		for sx := 0; sx < shape.XSlices; sx++ {
			y := make([]int32, sum(sliceShape.LumaCounts()))
			cb := make([]int32, sum(sliceShape.ChromaCounts()))
			cr := make([]int32, sum(sliceShape.ChromaCounts()))
			for i := range y {
				y[i] = int32(n)
				n++
			}
			for i := range cb {
				cb[i] = int32(n)
				n++
				cr[i] = int32(n)
				n++
			}
			slices.Set(sy, sx, Slice{QIndex: sy*shape.XSlices + sx, Y: y, Cb: cb, Cr: cr})
		}
	}

	pic := MergeBlocks(slices, shape)
	assert.Equal(t, shape.LumaHeight, pic.Y.Height)
	assert.Equal(t, shape.LumaWidth, pic.Y.Width)

	back := SplitBlocks(pic, shape)
	for sy := 0; sy < shape.YSlices; sy++ {
		for sx := 0; sx < shape.XSlices; sx++ {
			want := slices.At(sy, sx)
			got := back.At(sy, sx)
			assert.Equal(t, want.Y, got.Y, "y sy=%d sx=%d", sy, sx)
			assert.Equal(t, want.Cb, got.Cb, "cb sy=%d sx=%d", sy, sx)
			assert.Equal(t, want.Cr, got.Cr, "cr sy=%d sx=%d", sy, sx)
		}
	}
}
