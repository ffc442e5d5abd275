// Package stream implements VC-2's data-unit framing: the fixed
// 13-byte parse-info header every data unit starts with, the
// sync-and-resync scan that locates one in a byte stream, and the
// parse-code dispatch VC-2 uses in place of JPEG 2000's two-byte
// markers. Generalises pkg/compress/jpeg2k/codestream.go's
// "read fixed framing, validate, dispatch" shape to a byte-level sync
// pattern, and borrows pkg/dicos/reader.go's resync-on-mismatch
// instinct for malformed input.
package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const headerLen = 13

var syncPrefix = [4]byte{0x42, 0x42, 0x43, 0x44} // "BBCD"

// ParseCode identifies a data unit's kind. The six named values are
// the ones a decoder must recognise; any other byte value is valid on
// the wire (an encoder may emit vendor-specific aux-data subtypes) and
// is reported as ErrUnknownDataUnit by dispatch code.
type ParseCode byte

const (
	ParseCodeSequenceHeader ParseCode = 0x00
	ParseCodeEndOfSequence  ParseCode = 0x10
	ParseCodeAuxData        ParseCode = 0x20
	ParseCodePadding        ParseCode = 0x30
	ParseCodeLDPicture      ParseCode = 0xC8
	ParseCodeHQPicture      ParseCode = 0xE8
)

// String names the parse code, or formats an unrecognised byte value.
func (c ParseCode) String() string {
	switch c {
	case ParseCodeSequenceHeader:
		return "sequence_header"
	case ParseCodeEndOfSequence:
		return "end_of_sequence"
	case ParseCodeAuxData:
		return "aux_data"
	case ParseCodePadding:
		return "padding"
	case ParseCodeLDPicture:
		return "ld_picture"
	case ParseCodeHQPicture:
		return "hq_picture"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(c))
	}
}

// IsPicture reports whether c carries a picture payload.
func (c ParseCode) IsPicture() bool {
	return c == ParseCodeLDPicture || c == ParseCodeHQPicture
}

// ParseInfo is the 13-byte header every data unit begins with:
// 4-byte sync prefix, 1-byte parse code, 4-byte nextOffset (bytes from
// the start of this header to the next one, 0 meaning "to end of
// stream"), 4-byte prevOffset, all big-endian.
type ParseInfo struct {
	ParseCode  ParseCode
	NextOffset uint32
	PrevOffset uint32
}

// ErrBadSync is returned when a 13-byte header is read at a position
// that does not begin with the sync prefix.
var ErrBadSync = errors.New("stream: parse-info sync prefix mismatch")

// ReadParseInfo reads and validates one 13-byte header from r. Callers
// that need resync-on-mismatch behaviour should go through
// Synchroniser instead of calling this directly.
func ReadParseInfo(r io.Reader) (ParseInfo, error) {
	var buf [headerLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ParseInfo{}, fmt.Errorf("stream: reading parse info: %w", err)
	}
	if !bytes.Equal(buf[:4], syncPrefix[:]) {
		return ParseInfo{}, ErrBadSync
	}
	return ParseInfo{
		ParseCode:  ParseCode(buf[4]),
		NextOffset: binary.BigEndian.Uint32(buf[5:9]),
		PrevOffset: binary.BigEndian.Uint32(buf[9:13]),
	}, nil
}

// WriteParseInfo writes pi's 13-byte header to w.
func WriteParseInfo(w io.Writer, pi ParseInfo) error {
	var buf [headerLen]byte
	copy(buf[:4], syncPrefix[:])
	buf[4] = byte(pi.ParseCode)
	binary.BigEndian.PutUint32(buf[5:9], pi.NextOffset)
	binary.BigEndian.PutUint32(buf[9:13], pi.PrevOffset)
	_, err := w.Write(buf[:])
	return err
}
