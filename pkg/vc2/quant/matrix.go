package quant

import "github.com/go-vc2/vc2/pkg/vc2/wavelet"

// orientation identifies a subband's position within one decomposition
// level.
type orientation int

const (
	orientLL orientation = iota
	orientHL
	orientLH
	orientHH
)

// gainExponent gives each orientation's base-2 gain exponent relative
// to LL, following the subband-gain model of quantize_encode.go's
// defaultStepSizes: LL unweighted, HL/LH weighted by 2, HH by 4. VC-2's
// qf(q) doubles every four quantiser indices, so a gain of 2^g
// corresponds to an additive offset of 4*g quantiser-index units.
func gainExponent(o orientation) int {
	switch o {
	case orientLL:
		return 0
	case orientHL, orientLH:
		return 1
	case orientHH:
		return 2
	default:
		return 0
	}
}

// Matrix builds the per-subband additive quantiser-index offsets for a
// depth-level decomposition: the slice-level quantiser index the
// bitstream carries is added to matrix[i] to get the index actually
// used to dequantise subband i. Order is LL_D, HL_D, LH_D, HH_D,
// HL_{D-1}, LH_{D-1}, HH_{D-1}, ..., HL_1, LH_1, HH_1 (coarsest level
// first), matching the subband order slice.ReadHighQuality/ReadLowDelay
// iterate in. len(Matrix(k, depth)) == 3*depth+1.
//
// quantize_encode.go additionally scales step size by 2^(numLevels-1)
// as resolution gets finer; the same shape is reproduced here via
// levelsFromCoarsest, so that finer (lower-level) subbands get a
// larger additive offset than coarser ones of the same orientation.
// The kernel argument is accepted for symmetry with the rest of the
// package's API (a future per-kernel refinement could key off it) but
// every kernel currently uses the same orientation-gain model.
func Matrix(kernel wavelet.Kernel, depth int) []int32 {
	_ = kernel
	if depth < 1 {
		panic("quant: depth must be >= 1")
	}
	m := make([]int32, 3*depth+1)
	m[0] = int32(4 * gainExponent(orientLL))
	idx := 1
	for level := depth; level >= 1; level-- {
		levelsFromCoarsest := depth - level
		m[idx+0] = int32(4 * (gainExponent(orientHL) + levelsFromCoarsest))
		m[idx+1] = int32(4 * (gainExponent(orientLH) + levelsFromCoarsest))
		m[idx+2] = int32(4 * (gainExponent(orientHH) + levelsFromCoarsest))
		idx += 3
	}
	return m
}
