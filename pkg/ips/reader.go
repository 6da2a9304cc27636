package ips

import (
	"errors"
	"io"
	"iter"

	"github.com/joshuapare/ipskit/internal/format"
)

// Reader decodes records from an IPS container one at a time.
//
// A Reader is forward-only: the cursor never moves backwards, records come out
// in container order, and once Next has reported the end of the stream or an
// error every later call reports the same result. The container bytes are
// not copied; callers must not modify them while the Reader is in use.
type Reader struct {
	data  []byte
	pos   int
	count int
	err   error // sticky terminal state: io.EOF or *Error
}

// Open validates the container signature and returns a Reader positioned at
// the first record. It fails with ErrInvalidFormat when data is shorter than
// the signature or does not start with "PATCH".
func Open(data []byte) (*Reader, error) {
	pos, err := format.CheckHeader(data)
	if err != nil {
		return nil, wrapFormat(err, 0)
	}
	return &Reader{data: data, pos: pos}, nil
}

// Next returns the next record. At the EOF marker it returns io.EOF. When a
// field runs past the end of the container it returns an error matching
// ErrUnexpectedEndOfStream.
func (r *Reader) Next() (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}
	raw, next, err := format.NextRecord(r.data, r.pos)
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.pos = next
			r.err = io.EOF
		} else {
			r.err = wrapFormat(err, next)
		}
		return Record{}, r.err
	}
	r.pos = next
	r.count++
	return fromRaw(raw), nil
}

// Pos returns the container position of the next field to be read.
func (r *Reader) Pos() int { return r.pos }

// Count returns the number of records decoded so far.
func (r *Reader) Count() int { return r.count }

// Done reports whether the Reader reached a terminal state.
func (r *Reader) Done() bool { return r.err != nil }

// Err returns the terminal error, or nil while records remain or after a
// clean end of stream.
func (r *Reader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}

// Trailing returns the bytes after the EOF marker. Some producers append a
// truncation size there; the bytes are ignored when applying.
func (r *Reader) Trailing() []byte {
	if r.err != io.EOF {
		return nil
	}
	return r.data[r.pos:]
}

// Records drains the remaining records.
func (r *Reader) Records() ([]Record, error) {
	var out []Record
	for rec, err := range r.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// All returns an iterator over the remaining records. Iteration stops at the
// end of the stream; a decoding error is yielded once as the final element.
//
//	for rec, err := range r.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(rec)
//	}
func (r *Reader) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := r.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
