package ips

import (
	"errors"
	"io"

	"github.com/joshuapare/ipskit/internal/buf"
)

// Apply returns a patched copy of source. Records are applied in the order r
// decodes them, so where two records overlap the later one wins. A record
// ending past the current image grows it; bytes between the old end and the
// new data are zero.
//
// source is never modified. If r reports an error, Apply returns nil and the
// error; no partially patched image is exposed.
func Apply(source []byte, r *Reader) ([]byte, error) {
	if r == nil {
		return nil, errors.New("ips: apply with nil reader")
	}
	p := newPatcher(source, nil)
	if err := p.drain(r); err != nil {
		return nil, err
	}
	return p.out, nil
}

// ApplyBytes opens patch and applies it to source.
func ApplyBytes(source, patch []byte) ([]byte, error) {
	r, err := Open(patch)
	if err != nil {
		return nil, err
	}
	return Apply(source, r)
}

// ApplyRecords applies already decoded records to a copy of source.
func ApplyRecords(source []byte, records []Record) []byte {
	p := newPatcher(source, nil)
	for _, rec := range records {
		p.write(rec)
	}
	return p.out
}

// patcher owns the target image for the duration of one apply.
type patcher struct {
	out      []byte
	srcLen   int
	onRecord func(Record)
	stats    ApplyStats
}

// ApplyStats summarizes one apply.
type ApplyStats struct {
	Records      int  // records applied, including empty ones
	RLERecords   int  // run-length records among them
	BytesWritten int  // payload bytes copied into the image
	SourceSize   int  // length of the unpatched image
	OutputSize   int  // length of the patched image
	Grown        bool // the patch wrote past the end of the source
}

func newPatcher(source []byte, onRecord func(Record)) *patcher {
	out := make([]byte, len(source))
	copy(out, source)
	return &patcher{
		out:      out,
		srcLen:   len(source),
		onRecord: onRecord,
		stats:    ApplyStats{SourceSize: len(source), OutputSize: len(source)},
	}
}

func (p *patcher) drain(r *Reader) error {
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		p.write(rec)
	}
}

func (p *patcher) write(rec Record) {
	p.stats.Records++
	if rec.Kind == KindRLE {
		p.stats.RLERecords++
	}
	if p.onRecord != nil {
		p.onRecord(rec)
	}
	if rec.Len() == 0 {
		return
	}
	end := rec.End()
	if end > len(p.out) {
		p.out = buf.Grow(p.out, end)
		p.stats.Grown = true
		p.stats.OutputSize = len(p.out)
	}
	copy(p.out[rec.Offset:end], rec.Payload)
	p.stats.BytesWritten += rec.Len()
}
