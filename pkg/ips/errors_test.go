package ips

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshuapare/ipskit/internal/format"
)

func TestError_Message(t *testing.T) {
	err := &Error{Kind: ErrKindUnexpectedEOS, Msg: "unexpected end of IPS stream", Pos: 12, Err: format.ErrTruncated}
	assert.Equal(t, "unexpected end of IPS stream at byte 12: format: truncated buffer", err.Error())
	assert.Equal(t, "not an IPS patch", ErrInvalidFormat.Error())

	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("load seed.ips: %w", wrapFormat(fmt.Errorf("x: %w", format.ErrTruncated), 40))
	assert.ErrorIs(t, err, ErrUnexpectedEndOfStream)
	assert.ErrorIs(t, err, format.ErrTruncated)
	assert.NotErrorIs(t, err, ErrInvalidFormat)

	var ipsErr *Error
	assert.True(t, errors.As(err, &ipsErr))
	assert.Equal(t, 40, ipsErr.Pos)
	assert.False(t, ipsErr.Is(errors.New("other")))
}

func TestWrapFormat_PassesThroughUnknown(t *testing.T) {
	other := errors.New("disk on fire")
	assert.Same(t, other, wrapFormat(other, 3))
}

func TestErrKind_String(t *testing.T) {
	assert.Equal(t, "invalid format", ErrKindInvalidFormat.String())
	assert.Equal(t, "unexpected end of stream", ErrKindUnexpectedEOS.String())
	assert.Equal(t, "ErrKind(42)", ErrKind(42).String())
}
