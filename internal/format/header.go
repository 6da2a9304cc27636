package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/ipskit/internal/buf"
)

// CheckHeader validates the container signature and returns the position of
// the first record.
func CheckHeader(b []byte) (int, error) {
	if !buf.Has(b, 0, SignatureSize) {
		return 0, fmt.Errorf("ips header: %w", ErrSignatureMismatch)
	}
	if !bytes.Equal(b[:SignatureSize], Signature) {
		return 0, fmt.Errorf("ips header: %w", ErrSignatureMismatch)
	}
	return SignatureSize, nil
}

// AppendHeader appends the container signature to dst.
func AppendHeader(dst []byte) []byte {
	return append(dst, Signature...)
}

// AppendEOF appends the end-of-stream marker to dst.
func AppendEOF(dst []byte) []byte {
	return append(dst, 'E', 'O', 'F')
}
