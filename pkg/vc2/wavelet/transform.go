// Package wavelet implements the VC-2 discrete wavelet transform: the
// seven standard lifting kernels, single- and multi-level forward and
// inverse decomposition, and the deinterleave/interleave step that
// turns lifted rows/columns into LL/HL/LH/HH subbands. Generalises
// pkg/compress/jpeg2k/dwt.go's fixed 5/3 lifting into a data-driven
// kernel table (see kernel.go).
package wavelet

import "github.com/go-vc2/vc2/pkg/vc2/types"

// Forward2D performs one level of forward transform in place on a
// (already pre-shifted, if applicable) region of a: vertical lift
// down each column, horizontal lift along each row, then deinterleave
// rows and columns into LL (top-left), HL (top-right), LH
// (bottom-left), HH (bottom-right).
func Forward2D(a types.Array2D, kernel Kernel) {
	spec := SpecFor(kernel)

	col := make([]int32, a.Height)
	for x := 0; x < a.Width; x++ {
		a.Col(x, col)
		LiftForward(col, spec)
		a.SetCol(x, col)
	}
	for y := 0; y < a.Height; y++ {
		LiftForward(a.Row(y), spec)
	}

	col2 := make([]int32, a.Height)
	for x := 0; x < a.Width; x++ {
		a.Col(x, col2)
		Deinterleave(col2)
		a.SetCol(x, col2)
	}
	for y := 0; y < a.Height; y++ {
		Deinterleave(a.Row(y))
	}
}

// Inverse2D reverses Forward2D: interleave columns then rows,
// inverse horizontal lift, then inverse vertical lift.
func Inverse2D(a types.Array2D, kernel Kernel) {
	spec := SpecFor(kernel)

	col := make([]int32, a.Height)
	for x := 0; x < a.Width; x++ {
		a.Col(x, col)
		Interleave(col)
		a.SetCol(x, col)
	}
	for y := 0; y < a.Height; y++ {
		Interleave(a.Row(y))
	}

	for y := 0; y < a.Height; y++ {
		LiftInverse(a.Row(y), spec)
	}
	col2 := make([]int32, a.Height)
	for x := 0; x < a.Width; x++ {
		a.Col(x, col2)
		LiftInverse(col2, spec)
		a.SetCol(x, col2)
	}
}

// ForwardMultiLevel applies depth levels of forward transform, each
// level operating on the LL quadrant (top-left) produced by the
// previous level, exactly as jpeg2k.forwardLLRegion recurses on
// shrinking regions of the same backing array.
func ForwardMultiLevel(a types.Array2D, kernel Kernel, depth int) {
	h, w := a.Height, a.Width
	for level := 0; level < depth; level++ {
		region := a.SubArray(0, h, 0, w)
		Forward2D(region, kernel)
		a.SetSubArray(0, 0, region)
		h /= 2
		w /= 2
	}
}

// InverseMultiLevel reverses ForwardMultiLevel: levels are
// reconstructed from the coarsest (smallest LL) outward.
func InverseMultiLevel(a types.Array2D, kernel Kernel, depth int) {
	dims := make([][2]int, depth+1)
	dims[0] = [2]int{a.Height, a.Width}
	for i := 1; i <= depth; i++ {
		dims[i] = [2]int{dims[i-1][0] / 2, dims[i-1][1] / 2}
	}
	for level := depth - 1; level >= 0; level-- {
		h, w := dims[level][0], dims[level][1]
		region := a.SubArray(0, h, 0, w)
		Inverse2D(region, kernel)
		a.SetSubArray(0, 0, region)
	}
}

// PreShiftAmount returns the per-kernel pre-shift applied to samples
// before the forward transform (and undone after the inverse), per
// ST 2042 §15.4.1. Zero for every kernel except KernelHaarShift.
func PreShiftAmount(kernel Kernel) uint {
	return SpecFor(kernel).PreShift
}

// ApplyPreShift left-shifts every sample of a by n bits.
func ApplyPreShift(a types.Array2D, n uint) {
	if n == 0 {
		return
	}
	for y := 0; y < a.Height; y++ {
		row := a.Row(y)
		for x := range row {
			row[x] <<= n
		}
	}
}

// UndoPreShift performs the matching arithmetic right-shift after the
// inverse transform.
func UndoPreShift(a types.Array2D, n uint) {
	if n == 0 {
		return
	}
	for y := 0; y < a.Height; y++ {
		row := a.Row(y)
		for x := range row {
			row[x] >>= n
		}
	}
}

// PaddedSize rounds size up to the next multiple of 2^depth, the
// invariant spec.md §3(i) requires of transform-domain dimensions.
func PaddedSize(size, depth int) int {
	m := 1 << depth
	if size%m == 0 {
		return size
	}
	return (size/m + 1) * m
}
