package format

import (
	"fmt"
	"io"

	"github.com/joshuapare/ipskit/internal/buf"
)

// RecordKind identifies the physical encoding of a record.
type RecordKind uint8

const (
	// KindLiteral records carry their payload verbatim.
	KindLiteral RecordKind = iota
	// KindRLE records carry a repeat count and a single fill byte.
	KindRLE
)

func (k RecordKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindRLE:
		return "rle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// RawRecord is a decoded record. For literal records Data aliases the
// container buffer; callers that keep the record must copy it.
type RawRecord struct {
	Pos    int // position of the offset field within the container
	Offset uint32
	Kind   RecordKind
	Size   int  // literal length or RLE repeat count
	Fill   byte // RLE only
	Data   []byte
}

// NextRecord decodes the record starting at off and returns it along with the
// position of the following record. When the EOF marker is found it returns
// io.EOF and the position just past the marker.
//
//	Offset  Size  Field
//	0x00    3     target offset (big-endian), 0x454F46 = end
//	0x03    2     length (big-endian), 0 = run-length body follows
//	0x05    n     literal data            (length > 0)
//	0x05    2     repeat count            (length == 0)
//	0x07    1     fill byte               (length == 0)
func NextRecord(b []byte, off int) (RawRecord, int, error) {
	field, ok := buf.Slice(b, off, OffsetFieldSize)
	if !ok {
		return RawRecord{}, off, fmt.Errorf("ips record offset at %d: %w", off, ErrTruncated)
	}
	target := buf.U24BE(field)
	pos := off + OffsetFieldSize
	if target == EOFMarker {
		return RawRecord{}, pos, io.EOF
	}

	field, ok = buf.Slice(b, pos, LengthFieldSize)
	if !ok {
		return RawRecord{}, pos, fmt.Errorf("ips record length at %d: %w", pos, ErrTruncated)
	}
	size := int(buf.U16BE(field))
	pos += LengthFieldSize

	rec := RawRecord{Pos: off, Offset: target, Size: size}
	if size > 0 {
		end, err := buf.CheckFieldBounds(len(b), pos, size)
		if err != nil {
			return RawRecord{}, pos, fmt.Errorf("ips literal data at %d (%v): %w", pos, err, ErrTruncated)
		}
		rec.Kind = KindLiteral
		rec.Data = b[pos:end]
		return rec, end, nil
	}

	field, ok = buf.Slice(b, pos, RLECountSize)
	if !ok {
		return RawRecord{}, pos, fmt.Errorf("ips rle count at %d: %w", pos, ErrTruncated)
	}
	rec.Size = int(buf.U16BE(field))
	pos += RLECountSize

	field, ok = buf.Slice(b, pos, RLEFillSize)
	if !ok {
		return RawRecord{}, pos, fmt.Errorf("ips rle fill at %d: %w", pos, ErrTruncated)
	}
	rec.Kind = KindRLE
	rec.Fill = field[0]
	return rec, pos + RLEFillSize, nil
}

// AppendLiteral appends a literal record to dst.
func AppendLiteral(dst []byte, offset uint32, data []byte) ([]byte, error) {
	if err := checkOffset(offset); err != nil {
		return dst, err
	}
	if len(data) == 0 || len(data) > MaxPayload {
		return dst, fmt.Errorf("ips literal at 0x%06X (%d bytes): %w", offset, len(data), ErrPayloadSize)
	}
	dst = buf.AppendU24BE(dst, offset)
	dst = buf.AppendU16BE(dst, uint16(len(data)))
	return append(dst, data...), nil
}

// AppendRLE appends a run-length record to dst.
func AppendRLE(dst []byte, offset uint32, count int, fill byte) ([]byte, error) {
	if err := checkOffset(offset); err != nil {
		return dst, err
	}
	if count < 0 || count > MaxPayload {
		return dst, fmt.Errorf("ips rle at 0x%06X (count %d): %w", offset, count, ErrPayloadSize)
	}
	dst = buf.AppendU24BE(dst, offset)
	dst = buf.AppendU16BE(dst, 0)
	dst = buf.AppendU16BE(dst, uint16(count))
	return append(dst, fill), nil
}

func checkOffset(offset uint32) error {
	if offset > MaxOffset {
		return fmt.Errorf("ips offset 0x%X: %w", offset, ErrOffsetRange)
	}
	if offset == EOFMarker {
		return fmt.Errorf("ips offset 0x%06X: %w", offset, ErrReservedOffset)
	}
	return nil
}
