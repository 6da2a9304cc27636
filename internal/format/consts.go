// Package format houses low-level decoders and encoders for the IPS patch
// container format. The goal is to keep the parsing focused, allocation-free
// where possible, and independent from the public API so higher-level packages
// can orchestrate the data in a more ergonomic form.
package format

// Signature is the five-byte magic at the start of every IPS container.
// Layout:
//
//	0x00  'P' 'A' 'T' 'C' 'H'
var Signature = []byte{'P', 'A', 'T', 'C', 'H'}

const (
	// SignatureSize is the length of the container magic in bytes.
	SignatureSize = 5

	// EOFMarker is the reserved offset value ("EOF" in ASCII) that terminates
	// the record stream. It is never a record.
	EOFMarker uint32 = 0x454F46

	// MaxOffset is the largest value a 24-bit offset field can hold.
	MaxOffset uint32 = 0xFFFFFF

	// MaxPayload is the largest literal length or RLE repeat count.
	MaxPayload = 0xFFFF
)

// Record field sizes. Every record starts with an offset and a length field;
// a zero length selects the run-length body.
//
//	Literal:  offset(3) length(2) data(length)
//	RLE:      offset(3) 0x0000(2) count(2) fill(1)
//	End:      "EOF"(3)
const (
	OffsetFieldSize = 3
	LengthFieldSize = 2
	RLECountSize    = 2
	RLEFillSize     = 1

	// RecordHeaderSize covers the offset and length fields.
	RecordHeaderSize = OffsetFieldSize + LengthFieldSize

	// RLEBodySize covers the count and fill fields following a zero length.
	RLEBodySize = RLECountSize + RLEFillSize
)
