package sequence

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-vc2/vc2/pkg/vc2/bitio"
	"github.com/go-vc2/vc2/pkg/vc2/slice"
	"github.com/go-vc2/vc2/pkg/vc2/stream"
	"github.com/go-vc2/vc2/pkg/vc2/types"
	"github.com/go-vc2/vc2/pkg/vc2/wavelet"
)

func testHeader() Header {
	return Header{
		Height:         16,
		Width:          16,
		ChromaFormat:   types.Format420,
		Interlace:      false,
		TopFieldFirst:  false,
		FrameRate:      Rational{Numerator: 25, Denominator: 1},
		LumaBitDepth:   10,
		ChromaBitDepth: 10,
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := testHeader()
	h.Interlace = true
	h.TopFieldFirst = true

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestHeaderOutputBytes(t *testing.T) {
	cases := []struct {
		depth int
		want  int
	}{
		{8, 1}, {10, 2}, {16, 2}, {20, 3}, {32, 4},
	}
	for _, c := range cases {
		h := Header{LumaBitDepth: c.depth}
		assert.Equal(t, c.want, h.OutputBytes())
	}
}

func TestPicturePreambleRoundTripLD(t *testing.T) {
	p := PicturePreamble{
		PictureNumber: 42,
		Kernel:        wavelet.KernelLeGall,
		Depth:         2,
		SlicesX:       2,
		SlicesY:       2,
		LD:            &LDParams{Numerator: 3, Denominator: 4},
	}

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	require.NoError(t, WritePicturePreamble(bw, p))
	require.NoError(t, bw.Flush())

	br := bitio.NewReader(&buf)
	got, err := ReadPicturePreamble(br, true)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestPicturePreambleRoundTripHQ(t *testing.T) {
	p := PicturePreamble{
		PictureNumber: 7,
		Kernel:        wavelet.KernelHaar,
		Depth:         3,
		SlicesX:       4,
		SlicesY:       2,
		HQ:            &HQParams{SlicePrefix: 1, SliceScalar: 2},
	}

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	require.NoError(t, WritePicturePreamble(bw, p))
	require.NoError(t, bw.Flush())

	br := bitio.NewReader(&buf)
	got, err := ReadPicturePreamble(br, false)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

// buildPicturePayload writes a full LD or HQ picture data unit payload
// (preamble plus every slice) for a small, evenly-divisible picture,
// filling every slice with small coefficients so quantisation at
// qIndex 0 (the identity dead-zone step) round-trips exactly.
func buildPicturePayload(t *testing.T, ld bool, shape slice.PictureShape, preamble PicturePreamble) []byte {
	t.Helper()
	sliceShape := shape.SliceShape()

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	require.NoError(t, WritePicturePreamble(bw, preamble))
	require.NoError(t, bw.Flush())

	lumaN := sum(sliceShape.LumaCounts())
	chromaN := sum(sliceShape.ChromaCounts())

	fill := func(n int) []int32 {
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(i%5) - 2
		}
		return out
	}

	for y := 0; y < shape.YSlices; y++ {
		for x := 0; x < shape.XSlices; x++ {
			s := slice.Slice{QIndex: 0, Y: fill(lumaN), Cb: fill(chromaN), Cr: fill(chromaN)}
			if ld {
				require.NoError(t, slice.WriteLowDelay(bw, s, 256, sliceShape))
			} else {
				require.NoError(t, slice.WriteHighQuality(bw, s, preamble.HQ.SlicePrefix, preamble.HQ.SliceScalar))
			}
		}
	}
	require.NoError(t, bw.Flush())
	return buf.Bytes()
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestDriverDecodePictureLowDelay(t *testing.T) {
	d := NewDriver()
	h := testHeader()
	d.Header = &h

	shape := slice.PictureShape{
		Depth: 1, LumaHeight: 16, LumaWidth: 16,
		ChromaHeight: 8, ChromaWidth: 8,
		Chroma: types.Format420, YSlices: 2, XSlices: 2,
	}
	preamble := PicturePreamble{
		PictureNumber: 1, Kernel: wavelet.KernelHaar, Depth: 1,
		SlicesX: 2, SlicesY: 2, LD: &LDParams{Numerator: 256, Denominator: 1},
	}
	payload := buildPicturePayload(t, true, shape, preamble)

	du := stream.DataUnit{Info: stream.ParseInfo{ParseCode: stream.ParseCodeLDPicture}, Payload: payload}
	res, err := d.DecodePicture(du)
	require.NoError(t, err)

	assert.Equal(t, preamble, res.Preamble)
	assert.Equal(t, 16, res.Decoded.Y.Height)
	assert.Equal(t, 16, res.Decoded.Y.Width)
	assert.Equal(t, 8, res.Decoded.Cb.Height)
	assert.Equal(t, 8, res.Decoded.Cb.Width)
}

func TestDriverDecodePictureHighQuality(t *testing.T) {
	d := NewDriver()
	h := testHeader()
	d.Header = &h

	shape := slice.PictureShape{
		Depth: 1, LumaHeight: 16, LumaWidth: 16,
		ChromaHeight: 8, ChromaWidth: 8,
		Chroma: types.Format420, YSlices: 2, XSlices: 2,
	}
	preamble := PicturePreamble{
		PictureNumber: 1, Kernel: wavelet.KernelHaar, Depth: 1,
		SlicesX: 2, SlicesY: 2, HQ: &HQParams{SlicePrefix: 0, SliceScalar: 1},
	}
	payload := buildPicturePayload(t, false, shape, preamble)

	du := stream.DataUnit{Info: stream.ParseInfo{ParseCode: stream.ParseCodeHQPicture}, Payload: payload}
	res, err := d.DecodePicture(du)
	require.NoError(t, err)
	assert.Equal(t, 16, res.Decoded.Y.Height)
}

func TestDriverDecodePictureRequiresHeader(t *testing.T) {
	d := NewDriver()
	du := stream.DataUnit{Info: stream.ParseInfo{ParseCode: stream.ParseCodeLDPicture}}
	_, err := d.Dispatch(du)
	assert.ErrorIs(t, err, ErrMissingSequenceHeader)
}

func TestDriverDispatchSequenceHeaderAndEndOfSequence(t *testing.T) {
	d := NewDriver()
	h := testHeader()

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))

	res, err := d.Dispatch(stream.DataUnit{
		Info:    stream.ParseInfo{ParseCode: stream.ParseCodeSequenceHeader},
		Payload: buf.Bytes(),
	})
	require.NoError(t, err)
	assert.Nil(t, res)
	require.NotNil(t, d.Header)
	assert.Equal(t, h, *d.Header)

	_, err = d.Dispatch(stream.DataUnit{Info: stream.ParseInfo{ParseCode: stream.ParseCodeEndOfSequence}})
	assert.ErrorIs(t, err, ErrEndOfSequence)
}

func TestDriverDispatchAuxAndPaddingAreNoops(t *testing.T) {
	d := NewDriver()
	res, err := d.Dispatch(stream.DataUnit{Info: stream.ParseInfo{ParseCode: stream.ParseCodeAuxData}})
	assert.NoError(t, err)
	assert.Nil(t, res)

	res, err = d.Dispatch(stream.DataUnit{Info: stream.ParseInfo{ParseCode: stream.ParseCodePadding}})
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestDriverDispatchUnknownParseCode(t *testing.T) {
	d := NewDriver()
	_, err := d.Dispatch(stream.DataUnit{Info: stream.ParseInfo{ParseCode: stream.ParseCode(0x55)}})
	assert.ErrorIs(t, err, stream.ErrUnknownDataUnit)
}

func TestAssembleFrameProgressive(t *testing.T) {
	d := NewDriver()
	h := testHeader()
	d.Header = &h

	pic := types.NewPicture(16, 16, types.Format420)
	frame, ready, err := d.AssembleFrame(pic)
	require.NoError(t, err)
	assert.True(t, ready)
	require.NotNil(t, frame)
	assert.False(t, frame.Interlaced)
}

func TestAssembleFrameInterlaced(t *testing.T) {
	d := NewDriver()
	h := testHeader()
	h.Interlace = true
	h.TopFieldFirst = true
	d.Header = &h

	first := types.NewPicture(8, 16, types.Format420)
	frame, ready, err := d.AssembleFrame(first)
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Nil(t, frame)
	assert.Equal(t, stateHalfFilled, d.state)

	second := types.NewPicture(8, 16, types.Format420)
	frame, ready, err = d.AssembleFrame(second)
	require.NoError(t, err)
	assert.True(t, ready)
	require.NotNil(t, frame)
	assert.True(t, frame.Interlaced)
	assert.True(t, frame.TopFieldFirst)
	assert.Equal(t, stateEmpty, d.state)
}

func TestAssembleFrameInterlacedFormatMismatch(t *testing.T) {
	d := NewDriver()
	h := testHeader()
	h.Interlace = true
	d.Header = &h

	first := types.NewPicture(8, 16, types.Format420)
	_, _, err := d.AssembleFrame(first)
	require.NoError(t, err)

	second := types.NewPicture(8, 8, types.Format420)
	_, ready, err := d.AssembleFrame(second)
	assert.ErrorIs(t, err, ErrFormatMismatch)
	assert.False(t, ready)
	assert.Equal(t, stateEmpty, d.state)
}
