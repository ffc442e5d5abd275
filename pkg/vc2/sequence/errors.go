package sequence

import "errors"

// ErrMissingSequenceHeader is returned when a picture data unit
// arrives before any SEQUENCE_HEADER has been seen.
var ErrMissingSequenceHeader = errors.New("sequence: picture data unit with no preceding sequence header")

// ErrFormatMismatch is returned when an interlaced stream's second
// field does not match the dimensions or chroma format of the first
// field it is meant to pair with. The pending field is discarded so
// the driver can resynchronise on the next picture.
var ErrFormatMismatch = errors.New("sequence: second field format does not match first field")

// ErrEndOfSequence is the sentinel Dispatch returns on an
// END_OF_SEQUENCE data unit: a clean termination signal, not a
// failure.
var ErrEndOfSequence = errors.New("sequence: end of sequence")
