package format

import "errors"

var (
	// ErrSignatureMismatch indicates the container did not begin with "PATCH".
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a field.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrOffsetRange indicates an offset that does not fit in 24 bits.
	ErrOffsetRange = errors.New("format: offset out of range")
	// ErrReservedOffset indicates a record offset equal to the EOF marker.
	ErrReservedOffset = errors.New("format: offset collides with EOF marker")
	// ErrPayloadSize indicates a literal payload that is empty or longer than MaxPayload.
	ErrPayloadSize = errors.New("format: invalid payload size")
)
