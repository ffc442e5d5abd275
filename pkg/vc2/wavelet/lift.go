package wavelet

// reflect maps an out-of-range index into [0, n) by whole-sample
// symmetric extension: x[-1]=x[1], x[N]=x[N-2] (spec.md §9 "Boundary
// extension"). Bounces more than once for taps that reach further
// than one sample past the edge.
func reflect(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

// applyStageForward applies one forward lifting stage in place to x.
// Predict stages subtract the prediction from odd-indexed samples;
// update stages add the correction to even-indexed samples.
func applyStageForward(x []int32, s Stage) {
	n := len(x)
	start := 0
	if s.Predict {
		start = 1
	}
	for i := start; i < n; i += 2 {
		var acc int64
		for k, off := range s.Offsets {
			acc += int64(s.Taps[k]) * int64(x[reflect(i+off, n)])
		}
		acc += int64(s.Add)
		delta := int32(acc >> s.Shift)
		if s.Predict {
			x[i] -= delta
		} else {
			x[i] += delta
		}
	}
}

// applyStageInverse undoes one forward lifting stage in place: the
// exact same tap sum with the opposite sign applied to the target
// sample.
func applyStageInverse(x []int32, s Stage) {
	n := len(x)
	start := 0
	if s.Predict {
		start = 1
	}
	for i := start; i < n; i += 2 {
		var acc int64
		for k, off := range s.Offsets {
			acc += int64(s.Taps[k]) * int64(x[reflect(i+off, n)])
		}
		acc += int64(s.Add)
		delta := int32(acc >> s.Shift)
		if s.Predict {
			x[i] += delta
		} else {
			x[i] -= delta
		}
	}
}

// LiftForward applies every stage of spec to x, in order.
func LiftForward(x []int32, spec Spec) {
	for _, s := range spec.Stages {
		applyStageForward(x, s)
	}
}

// LiftInverse undoes every stage of spec, in reverse order.
func LiftInverse(x []int32, spec Spec) {
	for i := len(spec.Stages) - 1; i >= 0; i-- {
		applyStageInverse(x, spec.Stages[i])
	}
}

// Deinterleave splits x (length n) into low-pass (even-indexed) and
// high-pass (odd-indexed) halves, low-pass first, matching spec.md
// §4.3 step 3.
func Deinterleave(x []int32) {
	n := len(x)
	half := n / 2
	tmp := make([]int32, n)
	for i := 0; i < half; i++ {
		tmp[i] = x[2*i]
		tmp[half+i] = x[2*i+1]
	}
	copy(x, tmp)
}

// Interleave is the inverse of Deinterleave: even positions get the
// low-pass half, odd positions get the high-pass half.
func Interleave(x []int32) {
	n := len(x)
	half := n / 2
	tmp := make([]int32, n)
	for i := 0; i < half; i++ {
		tmp[2*i] = x[i]
		tmp[2*i+1] = x[half+i]
	}
	copy(x, tmp)
}
