package slice

import "github.com/go-vc2/vc2/pkg/vc2/types"

// Slices holds one picture's worth of slices, indexed [y][x].
type Slices struct {
	YSlices, XSlices int
	Depth            int
	Data             [][]Slice
}

// NewSlices allocates an empty ySlices×xSlices grid.
func NewSlices(ySlices, xSlices, depth int) Slices {
	data := make([][]Slice, ySlices)
	for y := range data {
		data[y] = make([]Slice, xSlices)
	}
	return Slices{YSlices: ySlices, XSlices: xSlices, Depth: depth, Data: data}
}

// At returns the slice at grid position (y, x).
func (s Slices) At(y, x int) Slice {
	return s.Data[y][x]
}

// Set stores sl at grid position (y, x).
func (s Slices) Set(y, x int, sl Slice) {
	s.Data[y][x] = sl
}

// PictureShape describes a whole transform-domain picture's extent,
// decomposition depth, chroma format and slice grid: everything
// MergeBlocks/SplitBlocks need to place a slice's flattened
// coefficients at the right rectangle of each subband.
type PictureShape struct {
	Depth                     int
	LumaHeight, LumaWidth     int
	ChromaHeight, ChromaWidth int
	Chroma                    types.ChromaFormat
	YSlices, XSlices          int
}

// SliceShape derives the per-slice Shape from the picture-wide extent
// and slice grid: every slice covers an equal fraction of the padded
// picture.
func (p PictureShape) SliceShape() Shape {
	return Shape{
		Depth:        p.Depth,
		LumaHeight:   p.LumaHeight / p.YSlices,
		LumaWidth:    p.LumaWidth / p.XSlices,
		ChromaHeight: p.ChromaHeight / p.YSlices,
		ChromaWidth:  p.ChromaWidth / p.XSlices,
	}
}

// SliceBytesTable gives every slice of a ySlices×xSlices grid an
// average of numerator/denominator bytes (a picture total of
// ySlices*xSlices*numerator/denominator), split as evenly as integer
// division allows, mirroring
// original_source/DecodeStream.cpp's per-slice slice_bytes(...) call:
// each slice's byte count is floor((i+1)*numerator/denominator) -
// floor(i*numerator/denominator) for its position i in raster order,
// so the running total always lands exactly on the intended fraction
// and any remainder is spread across the earliest slices rather than
// dumped on the last one.
func SliceBytesTable(ySlices, xSlices, numerator, denominator int) types.Array2D {
	out := types.NewArray2D(ySlices, xSlices)
	i := 0
	for y := 0; y < ySlices; y++ {
		for x := 0; x < xSlices; x++ {
			lo := i * numerator / denominator
			hi := (i + 1) * numerator / denominator
			out.Set(y, x, int32(hi-lo))
			i++
		}
	}
	return out
}
