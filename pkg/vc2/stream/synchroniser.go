package stream

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrOutOfSync is the warning condition Synchronise reports (via
// Logger, not as a returned error) whenever the stream is not
// positioned on a valid header where one was expected and a rescan
// was needed to find the next one.
var ErrOutOfSync = errors.New("stream: out of sync")

// Synchroniser locates successive parse-info headers in a byte
// stream. The normal case needs no scanning at all: once a caller has
// consumed exactly one data unit's payload, the stream is already
// positioned at the next header. Synchroniser only falls back to a
// byte-by-byte scan on the very first call, and again whenever the
// expected position turns out not to hold the sync prefix.
type Synchroniser struct {
	r       *bufio.Reader
	first   bool
	Logger  *slog.Logger
	Resyncs int
}

// NewSynchroniser wraps r.
func NewSynchroniser(r io.Reader) *Synchroniser {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Synchroniser{r: br, first: true}
}

// Synchronise returns the next parse-info header.
func (s *Synchroniser) Synchronise() (ParseInfo, error) {
	if s.first {
		s.first = false
		return s.scan()
	}
	pi, err := s.tryReadHeader()
	if err == nil {
		return pi, nil
	}
	if !errors.Is(err, ErrOutOfSync) {
		return ParseInfo{}, err
	}
	s.Resyncs++
	if s.Logger != nil {
		s.Logger.Warn("resynchronising data-unit stream", "reason", err)
	}
	return s.scan()
}

// ReadPayload reads pi's payload: exactly NextOffset-headerLen bytes,
// or everything remaining in the stream when NextOffset is 0. A
// zero-length payload is returned as nil.
func (s *Synchroniser) ReadPayload(pi ParseInfo) ([]byte, error) {
	if pi.NextOffset == 0 {
		rest, err := io.ReadAll(s.r)
		if err != nil || len(rest) == 0 {
			return nil, err
		}
		return rest, nil
	}
	n := int(pi.NextOffset) - headerLen
	if n < 0 {
		return nil, fmt.Errorf("stream: invalid next_offset %d", pi.NextOffset)
	}
	if n == 0 {
		return nil, nil
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(s.r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// tryReadHeader reads a header assuming the stream is already
// positioned on one, without consuming any bytes if it is not.
func (s *Synchroniser) tryReadHeader() (ParseInfo, error) {
	peek, err := s.r.Peek(4)
	if err != nil {
		return ParseInfo{}, err
	}
	if !bytes.Equal(peek, syncPrefix[:]) {
		return ParseInfo{}, ErrOutOfSync
	}
	return ReadParseInfo(s.r)
}

// scan advances byte by byte until the sync prefix is found, then
// reads the header there.
func (s *Synchroniser) scan() (ParseInfo, error) {
	for {
		peek, err := s.r.Peek(4)
		if err != nil {
			return ParseInfo{}, err
		}
		if bytes.Equal(peek, syncPrefix[:]) {
			return ReadParseInfo(s.r)
		}
		if _, err := s.r.Discard(1); err != nil {
			return ParseInfo{}, err
		}
	}
}
