package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// CheckFieldBounds validates that a field of size bytes fits in a buffer of
// bufLen bytes starting at offset. Returns the end offset if valid, or an error
// describing the specific failure (overflow or out of bounds).
//
//	end, err := buf.CheckFieldBounds(len(data), pos, 3)
//	if err != nil {
//	    return fmt.Errorf("offset field: %w", err)
//	}
func CheckFieldBounds(bufLen, offset, size int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("negative offset: %d", offset)
	}
	if size < 0 {
		return 0, fmt.Errorf("negative size: %d", size)
	}
	end, ok := AddOverflowSafe(offset, size)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, size)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}

// Grow returns b extended to at least n bytes. New bytes are zero. When b is
// already long enough it is returned unchanged.
func Grow(b []byte, n int) []byte {
	if n <= len(b) {
		return b
	}
	if n <= cap(b) {
		ext := b[:n]
		clear(ext[len(b):])
		return ext
	}
	out := make([]byte, n, growCap(cap(b), n))
	copy(out, b)
	return out
}

// growCap doubles the capacity until it covers n, so a stream of small
// extensions past the end stays amortized.
func growCap(c, n int) int {
	if c < 64 {
		c = 64
	}
	for c < n {
		if c > math.MaxInt/2 {
			return n
		}
		c *= 2
	}
	return c
}
