package ips

import (
	"fmt"

	"github.com/joshuapare/ipskit/internal/format"
)

// Encode writes records to a new container in the given order, each in its
// own encoding, followed by the EOF marker.
//
// Literal records must carry 1..0xFFFF bytes; an empty write has to be a
// run-length record with a zero count. Run-length payloads must repeat Fill.
// Offsets must fit in 24 bits and may not equal the EOF marker.
func Encode(records []Record) ([]byte, error) {
	size := format.SignatureSize + format.OffsetFieldSize
	for _, rec := range records {
		size += format.RecordHeaderSize
		if rec.Kind == KindRLE {
			size += format.RLEBodySize
		} else {
			size += rec.Len()
		}
	}

	out := format.AppendHeader(make([]byte, 0, size))
	var err error
	for i, rec := range records {
		switch rec.Kind {
		case KindRLE:
			if !isRun(rec.Payload, rec.Fill) {
				return nil, &Error{
					Kind: ErrKindEncode,
					Msg:  ErrEncode.Msg,
					Pos:  -1,
					Err:  fmt.Errorf("record %d at 0x%06X: rle payload is not a run of %02X", i, rec.Offset, rec.Fill),
				}
			}
			out, err = format.AppendRLE(out, rec.Offset, rec.Len(), rec.Fill)
		default:
			out, err = format.AppendLiteral(out, rec.Offset, rec.Payload)
		}
		if err != nil {
			return nil, wrapFormat(fmt.Errorf("record %d: %w", i, err), -1)
		}
	}
	return format.AppendEOF(out), nil
}

func isRun(b []byte, fill byte) bool {
	for _, c := range b {
		if c != fill {
			return false
		}
	}
	return true
}
