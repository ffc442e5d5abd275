// Package quant implements the VC-2 dead-zone scalar quantiser: the
// per-index quantisation factor qf(q), the forward quantise step used
// by an encoder, and the two inverse (dequantise) variants the
// standard defines for its two slice profiles. Grounded on the
// step-size/gain model of quantize_encode.go's defaultStepSizes,
// adapted from JPEG2000's floating-point step sizes to VC-2's integer
// qf(q) table and carried-remainder arithmetic.
package quant

// QuantFactor returns qf(q), the quantisation factor for quantiser
// index q. ST 2042 defines qf via a table that doubles every four
// indices; baseTable holds the four values within one octave and the
// shift by q/4 doubles them rounding q/4 times.
func QuantFactor(q int) int64 {
	if q < 0 {
		panic("quant: negative quantiser index")
	}
	base := baseTable[q%4]
	return base << uint(q/4)
}

var baseTable = [4]int64{4, 5, 6, 7}

// Quantise maps a transform coefficient through the forward dead-zone
// quantiser at index q: multiply by 4 and divide by qf(q), truncating
// towards zero, so
// that consecutive integers map to the same index around zero (the
// "dead zone").
func Quantise(coeff int32, q int) int32 {
	if coeff == 0 {
		return 0
	}
	qf := QuantFactor(q)
	mag := int64(coeff)
	sign := int64(1)
	if mag < 0 {
		sign = -1
		mag = -mag
	}
	return int32(sign * ((4 * mag) / qf))
}

// DequantiseHQ reconstructs a coefficient from its quantised index
// using the unbiased High Quality profile formula: magnitude scaled
// by qf(q) with a rounding remainder of +2 before the final shift by
// 2, and zero maps to zero.
func DequantiseHQ(qCoeff int32, q int) int32 {
	if qCoeff == 0 {
		return 0
	}
	qf := QuantFactor(q)
	mag := int64(qCoeff)
	sign := int64(1)
	if mag < 0 {
		sign = -1
		mag = -mag
	}
	val := (mag*qf + 2) >> 2
	return int32(sign * val)
}

// DequantiseLD reconstructs a coefficient using the Low Delay
// profile's mid-tread-biased formula: the same scale-and-round as
// DequantiseHQ but with an extra offset of qf(q)/2 added before the
// shift, biasing reconstruction towards the centre of each
// quantisation bin rather than its edge.
func DequantiseLD(qCoeff int32, q int) int32 {
	if qCoeff == 0 {
		return 0
	}
	qf := QuantFactor(q)
	mag := int64(qCoeff)
	sign := int64(1)
	if mag < 0 {
		sign = -1
		mag = -mag
	}
	val := (mag*qf + qf/2 + 2) >> 2
	return int32(sign * val)
}

// Dequantise picks DequantiseLD or DequantiseHQ according to ld.
func Dequantise(qCoeff int32, q int, ld bool) int32 {
	if ld {
		return DequantiseLD(qCoeff, q)
	}
	return DequantiseHQ(qCoeff, q)
}
