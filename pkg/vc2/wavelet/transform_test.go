package wavelet

import (
	"testing"

	"github.com/go-vc2/vc2/pkg/vc2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKernels = []Kernel{
	KernelDD97, KernelLeGall, KernelDD137, KernelHaar, KernelHaarShift, KernelFidelity, KernelDaub97,
}

func ramp(h, w int) types.Array2D {
	a := types.NewArray2D(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a.Set(y, x, int32((y*w+x)%251))
		}
	}
	return a
}

func TestForward1DInverse1DRoundTrip(t *testing.T) {
	for _, k := range allKernels {
		spec := SpecFor(k)
		signal := []int32{1, 2, 3, 4, 5, 6, 7, 8}
		original := append([]int32{}, signal...)

		LiftForward(signal, spec)
		LiftInverse(signal, spec)
		assert.Equal(t, original, signal, k.String())
	}
}

func TestDeinterleaveInterleaveRoundTrip(t *testing.T) {
	x := []int32{1, 2, 3, 4, 5, 6, 7, 8}
	original := append([]int32{}, x...)
	Deinterleave(x)
	Interleave(x)
	assert.Equal(t, original, x)
}

func TestForward2DInverse2DRoundTrip(t *testing.T) {
	for _, k := range allKernels {
		a := ramp(8, 8)
		original := a.Copy()

		Forward2D(a, k)
		Inverse2D(a, k)
		assert.True(t, original.Equal(a), "kernel %s", k.String())
	}
}

func TestMultiLevelRoundTrip(t *testing.T) {
	for _, k := range allKernels {
		for _, depth := range []int{1, 2, 3} {
			a := ramp(32, 32)
			original := a.Copy()

			ForwardMultiLevel(a, k, depth)
			InverseMultiLevel(a, k, depth)
			require.True(t, original.Equal(a), "kernel %s depth %d", k.String(), depth)
		}
	}
}

func TestPreShiftRoundTrip(t *testing.T) {
	a := ramp(4, 4)
	original := a.Copy()
	n := PreShiftAmount(KernelHaarShift)
	require.Equal(t, uint(1), n)

	ApplyPreShift(a, n)
	UndoPreShift(a, n)
	assert.True(t, original.Equal(a))
}

func TestPaddedSize(t *testing.T) {
	assert.Equal(t, 16, PaddedSize(16, 2))
	assert.Equal(t, 20, PaddedSize(17, 2))
	assert.Equal(t, 0, PaddedSize(0, 2))
}

func TestReflectBoundary(t *testing.T) {
	assert.Equal(t, 1, reflect(-1, 8))
	assert.Equal(t, 6, reflect(8, 8))
	assert.Equal(t, 3, reflect(3, 8))
}

func TestConstantSignalHasZeroDetail(t *testing.T) {
	// A constant signal should produce zero high-pass detail after
	// predict, for every kernel whose predict stage sums to the
	// identity on a constant input.
	for _, k := range []Kernel{KernelLeGall, KernelHaar} {
		x := make([]int32, 8)
		for i := range x {
			x[i] = 100
		}
		LiftForward(x, SpecFor(k))
		Deinterleave(x)
		for i := 4; i < 8; i++ {
			assert.Equal(t, int32(0), x[i], "kernel %s high-pass[%d]", k.String(), i)
		}
	}
}
