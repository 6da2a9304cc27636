// Package buf contains helpers for endian-safe decoding routines.
package buf

import "encoding/binary"

// U16BE reads a big-endian uint16 from b. Returns 0 when b is too short.
func U16BE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// U24BE reads a big-endian 24-bit unsigned value from b. Returns 0 when b is too short.
func U24BE(b []byte) uint32 {
	if len(b) < 3 {
		return 0
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// AppendU16BE appends v to b in big-endian order.
func AppendU16BE(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}

// AppendU24BE appends the low 24 bits of v to b in big-endian order.
func AppendU24BE(b []byte, v uint32) []byte {
	return append(b, byte(v>>16), byte(v>>8), byte(v))
}
