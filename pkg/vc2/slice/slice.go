// Package slice implements VC-2's two picture-slicing profiles: the
// constant-bytes-per-slice Low Delay coder used for low-latency
// applications, and the variable-bytes-per-slice High Quality coder
// used for higher-fidelity encoding. Both pack one slice's worth of
// already-quantised transform coefficients, grouped by subband in the
// same order quant.Matrix produces, into (or out of) the bitstream.
//
// Generalises pkg/compress/jpeg2k/tile.go's per-codeblock
// extract/insert bounds-copy idiom to VC-2's per-slice, per-subband
// block layout, and borrows the sign/escape-bit shape of
// pkg/compress/rle/packbits.go and pkg/compress/jpegls/run_mode.go for
// the exp-Golomb coefficient stream itself (via pkg/vc2/bitio).
package slice

import "errors"

// ErrSliceOverflow is returned by WriteLowDelay when a slice's
// quantised coefficients cannot be made to fit sliceBytes at the
// qIndex given. The constant-quantiser encoder (codec.Encode with no
// bit-rate control) treats this as fatal rather than retrying at a
// coarser qIndex.
var ErrSliceOverflow = errors.New("slice: coefficients overflow fixed slice budget")

// Shape describes one slice's per-component transform-domain extent
// and decomposition depth; it is constant across every slice of a
// picture and is used to compute how many coefficients each subband
// within a slice holds.
type Shape struct {
	Depth                     int
	LumaHeight, LumaWidth     int
	ChromaHeight, ChromaWidth int
}

// LumaCounts returns the number of coefficients in each luma subband
// of one slice, in qMatrix order (LL_D, HL_D, LH_D, HH_D, ..., HH_1).
func (s Shape) LumaCounts() []int {
	return subbandCounts(s.LumaHeight, s.LumaWidth, s.Depth)
}

// ChromaCounts returns the same, for a chroma component.
func (s Shape) ChromaCounts() []int {
	return subbandCounts(s.ChromaHeight, s.ChromaWidth, s.Depth)
}

// subbandCounts mirrors quant.Matrix's subband ordering: the slice's
// own block is itself a self-similar depth-level decomposition, so the
// sample count at each level follows the same halving the whole
// picture's subbands do.
func subbandCounts(h, w, depth int) []int {
	counts := make([]int, 3*depth+1)
	counts[0] = (h >> depth) * (w >> depth)
	idx := 1
	for level := depth; level >= 1; level-- {
		n := (h >> level) * (w >> level)
		counts[idx], counts[idx+1], counts[idx+2] = n, n, n
		idx += 3
	}
	return counts
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// Slice holds one slice's quantiser index and its coefficients for
// each component, flattened in qMatrix subband order.
type Slice struct {
	QIndex    int
	Y, Cb, Cr []int32
}
