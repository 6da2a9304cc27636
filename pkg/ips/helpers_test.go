package ips

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// container builds "PATCH" + body + "EOF".
func container(body ...[]byte) []byte {
	out := []byte("PATCH")
	for _, b := range body {
		out = append(out, b...)
	}
	return append(out, 'E', 'O', 'F')
}

// literal encodes one literal record.
func literal(offset uint32, data ...byte) []byte {
	out := []byte{byte(offset >> 16), byte(offset >> 8), byte(offset), byte(len(data) >> 8), byte(len(data))}
	return append(out, data...)
}

// rle encodes one run-length record.
func rle(offset uint32, count uint16, fill byte) []byte {
	return []byte{byte(offset >> 16), byte(offset >> 8), byte(offset), 0, 0, byte(count >> 8), byte(count), fill}
}

func mustOpen(t *testing.T, data []byte) *Reader {
	t.Helper()
	r, err := Open(data)
	require.NoError(t, err)
	return r
}
