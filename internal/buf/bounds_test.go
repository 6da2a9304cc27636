package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestCheckFieldBounds(t *testing.T) {
	if end, err := CheckFieldBounds(8, 5, 3); err != nil || end != 8 {
		t.Fatalf("CheckFieldBounds(8,5,3)=%d,%v want 8,nil", end, err)
	}
	if _, err := CheckFieldBounds(7, 5, 3); err == nil {
		t.Fatalf("expected bounds error for partial field")
	}
	if _, err := CheckFieldBounds(8, -1, 1); err == nil {
		t.Fatalf("expected negative offset error")
	}
	if _, err := CheckFieldBounds(8, 0, -1); err == nil {
		t.Fatalf("expected negative size error")
	}
	if _, err := CheckFieldBounds(math.MaxInt, math.MaxInt, 1); err == nil {
		t.Fatalf("expected overflow error")
	}
	if end, err := CheckFieldBounds(4, 4, 0); err != nil || end != 4 {
		t.Fatalf("zero-size field at end should be valid, got %d,%v", end, err)
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if Has(data, 2, 4) {
		t.Fatalf("Has should be false for out-of-bounds range")
	}
	if !Has(data, 2, 1) {
		t.Fatalf("Has should be true for valid range")
	}

	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
}

func TestGrow(t *testing.T) {
	b := []byte{1, 2, 3}
	if got := Grow(b, 2); len(got) != 3 {
		t.Fatalf("Grow should not shrink, len=%d", len(got))
	}

	got := Grow(b, 10)
	if len(got) != 10 {
		t.Fatalf("Grow len=%d want 10", len(got))
	}
	if got[0] != 1 || got[2] != 3 {
		t.Fatalf("Grow lost prefix: %v", got)
	}
	for i := 3; i < 10; i++ {
		if got[i] != 0 {
			t.Fatalf("Grow byte %d = %d, want 0", i, got[i])
		}
	}

	// Reuse of spare capacity must still zero the extension.
	dirty := make([]byte, 4, 16)
	full := dirty[:16]
	for i := range full {
		full[i] = 0xEE
	}
	ext := Grow(dirty, 8)
	for i := 4; i < 8; i++ {
		if ext[i] != 0 {
			t.Fatalf("Grow reused capacity without zeroing byte %d", i)
		}
	}
}
