package codec

import "errors"

// ErrCommandLine is returned for invalid Decode/Encode arguments that
// originate from the CLI boundary rather than the bitstream itself;
// cmd/vc2ctl maps it to a non-zero exit without a stack of wrapped
// bitstream errors.
var ErrCommandLine = errors.New("codec: invalid command line arguments")

// ErrIO wraps a read/write failure on the caller's underlying stream,
// as distinct from a malformed-bitstream error.
var ErrIO = errors.New("codec: io failure")
