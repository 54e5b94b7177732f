// Package errs defines the sentinel errors returned by the pack codec.
//
// Every failure raised by the encoder or decoder wraps one of these sentinels
// with fmt.Errorf("%w: ...", ...), so callers can test the failure kind with
// errors.Is regardless of the detail carried in the message.
package errs

import "errors"

var (
	// ErrEndOfInput is returned when a decode operation finds no bytes
	// available at the source.
	ErrEndOfInput = errors.New("pack: end of input")

	// ErrStreamWrite is returned when the sink reports a write failure.
	ErrStreamWrite = errors.New("pack: stream write failed")

	// ErrTypeMismatch is returned when the peeked tag is not a member of the
	// family group selected by the destination type.
	ErrTypeMismatch = errors.New("pack: tag is not a member of the requested type family")

	// ErrNarrowingConversion is returned when the decoded family is
	// compatible with the destination but the destination's representable
	// range cannot hold every value of that family.
	ErrNarrowingConversion = errors.New("pack: destination cannot represent the full range of the encoded family")

	// ErrCapacityTooSmall is returned when a fixed-size destination buffer
	// is smaller than the decoded length (plus any mandatory NUL byte).
	ErrCapacityTooSmall = errors.New("pack: destination capacity too small for decoded length")

	// ErrLengthOverflow is returned when an input string or array exceeds
	// 2^32-1 elements/bytes during encode.
	ErrLengthOverflow = errors.New("pack: length exceeds maximum encodable size")
)
