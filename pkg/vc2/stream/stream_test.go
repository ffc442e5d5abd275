package stream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInfoRoundTrip(t *testing.T) {
	pi := ParseInfo{ParseCode: ParseCodeHQPicture, NextOffset: 4096, PrevOffset: 128}
	var buf bytes.Buffer
	require.NoError(t, WriteParseInfo(&buf, pi))
	require.Len(t, buf.Bytes(), headerLen)

	got, err := ReadParseInfo(&buf)
	require.NoError(t, err)
	assert.Equal(t, pi, got)
}

func TestReadParseInfoBadSync(t *testing.T) {
	bad := make([]byte, headerLen)
	copy(bad, []byte{0x00, 0x00, 0x00, 0x00})
	_, err := ReadParseInfo(bytes.NewReader(bad))
	assert.ErrorIs(t, err, ErrBadSync)
}

func TestParseCodeString(t *testing.T) {
	assert.Equal(t, "sequence_header", ParseCodeSequenceHeader.String())
	assert.Equal(t, "ld_picture", ParseCodeLDPicture.String())
	assert.Contains(t, ParseCode(0x99).String(), "unknown")
}

func TestParseCodeIsPicture(t *testing.T) {
	assert.True(t, ParseCodeLDPicture.IsPicture())
	assert.True(t, ParseCodeHQPicture.IsPicture())
	assert.False(t, ParseCodeSequenceHeader.IsPicture())
}

func buildStream(units []DataUnit) []byte {
	var buf bytes.Buffer
	for _, u := range units {
		_ = WriteParseInfo(&buf, u.Info)
		buf.Write(u.Payload)
	}
	return buf.Bytes()
}

func TestSynchroniserReadsSequentialUnits(t *testing.T) {
	units := []DataUnit{
		{Info: ParseInfo{ParseCode: ParseCodeSequenceHeader, NextOffset: headerLen + 3}, Payload: []byte{1, 2, 3}},
		{Info: ParseInfo{ParseCode: ParseCodeLDPicture, NextOffset: headerLen + 2}, Payload: []byte{9, 9}},
		{Info: ParseInfo{ParseCode: ParseCodeEndOfSequence, NextOffset: 0}, Payload: nil},
	}
	data := buildStream(units)
	sync := NewSynchroniser(bytes.NewReader(data))

	for i, want := range units {
		got, err := sync.ReadDataUnit()
		require.NoError(t, err, "unit %d", i)
		assert.Equal(t, want.Info.ParseCode, got.Info.ParseCode, "unit %d", i)
		assert.Equal(t, want.Payload, got.Payload, "unit %d", i)
	}
}

func TestSynchroniserScansLeadingGarbage(t *testing.T) {
	units := []DataUnit{
		{Info: ParseInfo{ParseCode: ParseCodeSequenceHeader, NextOffset: headerLen}, Payload: nil},
	}
	garbage := []byte{0xFF, 0x00, 0x42, 0x11}
	data := append(garbage, buildStream(units)...)

	sync := NewSynchroniser(bytes.NewReader(data))
	got, err := sync.ReadDataUnit()
	require.NoError(t, err)
	assert.Equal(t, ParseCodeSequenceHeader, got.Info.ParseCode)
}

func TestSynchroniserResyncsOnCorruption(t *testing.T) {
	good := DataUnit{Info: ParseInfo{ParseCode: ParseCodeAuxData, NextOffset: headerLen + 5}, Payload: []byte{1, 2, 3, 4, 5}}
	next := DataUnit{Info: ParseInfo{ParseCode: ParseCodeEndOfSequence, NextOffset: 0}}

	data := buildStream([]DataUnit{good})
	// Corrupt the declared nextOffset so the reader lands short of the
	// real next header and must resynchronise.
	data[8] = data[8] - 1 // NextOffset's low byte, off by one
	data = append(data, buildStream([]DataUnit{next})...)

	sync := NewSynchroniser(bytes.NewReader(data))
	first, err := sync.ReadDataUnit()
	require.NoError(t, err)
	assert.Equal(t, ParseCodeAuxData, first.Info.ParseCode)

	second, err := sync.ReadDataUnit()
	require.NoError(t, err)
	assert.Equal(t, ParseCodeEndOfSequence, second.Info.ParseCode)
	assert.Equal(t, 1, sync.Resyncs)
}
