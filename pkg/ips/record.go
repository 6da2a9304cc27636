package ips

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/ipskit/internal/format"
)

// Kind is the physical encoding of a record.
type Kind = format.RecordKind

// Record encodings (re-exported for convenience).
const (
	KindLiteral = format.KindLiteral
	KindRLE     = format.KindRLE
)

// Record is one edit instruction: write Payload starting at Offset.
//
// Literal and run-length records share this shape; for run-length records
// Payload is already expanded and Fill holds the repeated byte, so a record
// with a zero repeat count still remembers what it would have written.
type Record struct {
	Offset  uint32
	Payload []byte
	Kind    Kind
	Fill    byte // run-length fill value; zero for literal records
	Pos     int  // container position of the record, -1 when built in memory
}

// NewLiteral returns a literal record writing a copy of data at offset.
func NewLiteral(offset uint32, data []byte) Record {
	return Record{
		Offset:  offset,
		Payload: bytes.Clone(data),
		Kind:    KindLiteral,
		Pos:     -1,
	}
}

// NewRLE returns a run-length record writing fill count times at offset.
func NewRLE(offset uint32, count int, fill byte) Record {
	if count < 0 {
		count = 0
	}
	return Record{
		Offset:  offset,
		Payload: bytes.Repeat([]byte{fill}, count),
		Kind:    KindRLE,
		Fill:    fill,
		Pos:     -1,
	}
}

// Len returns the number of bytes the record writes.
func (r Record) Len() int { return len(r.Payload) }

// End returns the first position past the bytes the record writes.
func (r Record) End() int { return int(r.Offset) + len(r.Payload) }

// Overlaps reports whether r and o write at least one common position.
// Empty records never overlap anything.
func (r Record) Overlaps(o Record) bool {
	if r.Len() == 0 || o.Len() == 0 {
		return false
	}
	return int(r.Offset) < o.End() && int(o.Offset) < r.End()
}

func (r Record) String() string {
	if r.Kind == KindRLE {
		return fmt.Sprintf("rle 0x%06X: %02X x %d", r.Offset, r.Fill, r.Len())
	}
	return fmt.Sprintf("literal 0x%06X: %d bytes", r.Offset, r.Len())
}

// fromRaw copies a decoded record out of the container buffer.
func fromRaw(raw format.RawRecord) Record {
	rec := Record{Offset: raw.Offset, Kind: raw.Kind, Pos: raw.Pos}
	switch raw.Kind {
	case format.KindRLE:
		rec.Fill = raw.Fill
		rec.Payload = bytes.Repeat([]byte{raw.Fill}, raw.Size)
	default:
		rec.Payload = bytes.Clone(raw.Data)
	}
	return rec
}
