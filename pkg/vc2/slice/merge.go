package slice

import "github.com/go-vc2/vc2/pkg/vc2/types"

// MergeBlocks assembles a full transform-domain Picture by copying
// each slice's flattened per-subband coefficients into the matching
// rectangle of the corresponding whole-picture subband. Generalises
// jpeg2k.InsertSubband's bounds-driven copy loop to run once per
// slice per subband instead of once per whole subband.
func MergeBlocks(slices Slices, shape PictureShape) types.Picture {
	y := mergeComponent(func(sy, sx int) []int32 { return slices.Data[sy][sx].Y },
		shape.LumaHeight, shape.LumaWidth, shape.Depth, shape.YSlices, shape.XSlices)
	cb := mergeComponent(func(sy, sx int) []int32 { return slices.Data[sy][sx].Cb },
		shape.ChromaHeight, shape.ChromaWidth, shape.Depth, shape.YSlices, shape.XSlices)
	cr := mergeComponent(func(sy, sx int) []int32 { return slices.Data[sy][sx].Cr },
		shape.ChromaHeight, shape.ChromaWidth, shape.Depth, shape.YSlices, shape.XSlices)

	return types.Picture{Y: y, Cb: cb, Cr: cr, Chroma: shape.Chroma}
}

// SplitBlocks is MergeBlocks' inverse: it carves a whole-picture
// component back into per-slice, per-subband flat coefficient runs.
// Per-slice QIndex is not carried by SplitBlocks; callers that need it
// (the encoder, assigning a chosen qIndex per slice) set Slice.QIndex
// after SplitBlocks returns.
func SplitBlocks(pic types.Picture, shape PictureShape) Slices {
	yBlocks := splitComponent(pic.Y, shape.Depth, shape.YSlices, shape.XSlices)
	cbBlocks := splitComponent(pic.Cb, shape.Depth, shape.YSlices, shape.XSlices)
	crBlocks := splitComponent(pic.Cr, shape.Depth, shape.YSlices, shape.XSlices)

	slices := NewSlices(shape.YSlices, shape.XSlices, shape.Depth)
	for sy := 0; sy < shape.YSlices; sy++ {
		for sx := 0; sx < shape.XSlices; sx++ {
			slices.Data[sy][sx] = Slice{
				Y:  yBlocks[sy][sx],
				Cb: cbBlocks[sy][sx],
				Cr: crBlocks[sy][sx],
			}
		}
	}
	return slices
}

func mergeComponent(getBlock func(sy, sx int) []int32, height, width, depth, ySlices, xSlices int) types.Array2D {
	out := types.NewArray2D(height, width)
	sliceH := height / ySlices
	sliceW := width / xSlices

	for sy := 0; sy < ySlices; sy++ {
		for sx := 0; sx < xSlices; sx++ {
			coeffs := getBlock(sy, sx)
			pos := 0

			llH, llW := sliceH>>depth, sliceW>>depth
			pos = copySubbandBlock(out, coeffs, pos, llH, llW, sy*llH, sx*llW)

			for level := depth; level >= 1; level-- {
				bh, bw := sliceH>>level, sliceW>>level
				hRowOff, hColOff := 0, width>>level
				lRowOff, lColOff := height>>level, 0
				hhRowOff, hhColOff := height>>level, width>>level

				pos = copySubbandBlock(out, coeffs, pos, bh, bw, hRowOff+sy*bh, hColOff+sx*bw)
				pos = copySubbandBlock(out, coeffs, pos, bh, bw, lRowOff+sy*bh, lColOff+sx*bw)
				pos = copySubbandBlock(out, coeffs, pos, bh, bw, hhRowOff+sy*bh, hhColOff+sx*bw)
			}
		}
	}
	return out
}

func splitComponent(a types.Array2D, depth, ySlices, xSlices int) [][][]int32 {
	height, width := a.Height, a.Width
	sliceH := height / ySlices
	sliceW := width / xSlices

	out := make([][][]int32, ySlices)
	for sy := 0; sy < ySlices; sy++ {
		out[sy] = make([][]int32, xSlices)
		for sx := 0; sx < xSlices; sx++ {
			var coeffs []int32

			llH, llW := sliceH>>depth, sliceW>>depth
			coeffs = append(coeffs, extractSubbandBlock(a, llH, llW, sy*llH, sx*llW)...)

			for level := depth; level >= 1; level-- {
				bh, bw := sliceH>>level, sliceW>>level
				hRowOff, hColOff := 0, width>>level
				lRowOff, lColOff := height>>level, 0
				hhRowOff, hhColOff := height>>level, width>>level

				coeffs = append(coeffs, extractSubbandBlock(a, bh, bw, hRowOff+sy*bh, hColOff+sx*bw)...)
				coeffs = append(coeffs, extractSubbandBlock(a, bh, bw, lRowOff+sy*bh, lColOff+sx*bw)...)
				coeffs = append(coeffs, extractSubbandBlock(a, bh, bw, hhRowOff+sy*bh, hhColOff+sx*bw)...)
			}
			out[sy][sx] = coeffs
		}
	}
	return out
}

func copySubbandBlock(out types.Array2D, coeffs []int32, pos, h, w, rowOff, colOff int) int {
	for y := 0; y < h; y++ {
		row := out.Row(rowOff + y)
		copy(row[colOff:colOff+w], coeffs[pos:pos+w])
		pos += w
	}
	return pos
}

func extractSubbandBlock(a types.Array2D, h, w, rowOff, colOff int) []int32 {
	block := make([]int32, h*w)
	pos := 0
	for y := 0; y < h; y++ {
		row := a.Row(rowOff + y)
		copy(block[pos:pos+w], row[colOff:colOff+w])
		pos += w
	}
	return block
}
