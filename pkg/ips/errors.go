package ips

import (
	"errors"
	"fmt"

	"github.com/joshuapare/ipskit/internal/format"
)

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindInvalidFormat ErrKind = iota // container does not start with "PATCH"
	ErrKindUnexpectedEOS                // a field needed more bytes than remain
	ErrKindEncode                       // a record cannot be represented in a container
	ErrKindConflict                     // overlapping records from different patches (strict load)
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidFormat:
		return "invalid format"
	case ErrKindUnexpectedEOS:
		return "unexpected end of stream"
	case ErrKindEncode:
		return "encode"
	case ErrKindConflict:
		return "conflict"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause. Pos is the
// container position where decoding stopped, or -1 when it does not apply.
type Error struct {
	Kind ErrKind
	Msg  string
	Pos  int
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Pos >= 0 {
		msg = fmt.Sprintf("%s at byte %d", msg, e.Pos)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so positioned
// errors still match the package sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks.
var (
	// ErrInvalidFormat indicates the buffer is not an IPS container.
	ErrInvalidFormat = &Error{Kind: ErrKindInvalidFormat, Msg: "not an IPS patch", Pos: -1}
	// ErrUnexpectedEndOfStream indicates the container ended inside a record.
	ErrUnexpectedEndOfStream = &Error{Kind: ErrKindUnexpectedEOS, Msg: "unexpected end of IPS stream", Pos: -1}
	// ErrEncode indicates a record that cannot be written to a container.
	ErrEncode = &Error{Kind: ErrKindEncode, Msg: "cannot encode IPS record", Pos: -1}
	// ErrConflict indicates overlapping writes from different patches.
	ErrConflict = &Error{Kind: ErrKindConflict, Msg: "conflicting IPS patches", Pos: -1}
)

// wrapFormat lifts an internal/format error into a typed error.
func wrapFormat(err error, pos int) error {
	switch {
	case errors.Is(err, format.ErrSignatureMismatch):
		return &Error{Kind: ErrKindInvalidFormat, Msg: ErrInvalidFormat.Msg, Pos: pos, Err: err}
	case errors.Is(err, format.ErrTruncated):
		return &Error{Kind: ErrKindUnexpectedEOS, Msg: ErrUnexpectedEndOfStream.Msg, Pos: pos, Err: err}
	case errors.Is(err, format.ErrOffsetRange),
		errors.Is(err, format.ErrReservedOffset),
		errors.Is(err, format.ErrPayloadSize):
		return &Error{Kind: ErrKindEncode, Msg: ErrEncode.Msg, Pos: -1, Err: err}
	default:
		return err
	}
}
