package buf

import "testing"

func TestEndianHelpers(t *testing.T) {
	data := []byte{0x45, 0x4F, 0x46, 0x89}

	if got := U16BE(data); got != 0x454F {
		t.Fatalf("U16BE = 0x%x, want 0x454f", got)
	}
	if got := U24BE(data); got != 0x454F46 {
		t.Fatalf("U24BE = 0x%x, want 0x454f46", got)
	}
	if got := U24BE(data[1:]); got != 0x4F4689 {
		t.Fatalf("U24BE offset = 0x%x, want 0x4f4689", got)
	}

	short := []byte{0xAA}
	if U16BE(short) != 0 || U24BE(short) != 0 || U24BE(data[:2]) != 0 {
		t.Fatalf("short reads should return 0")
	}
}

func TestAppendHelpers(t *testing.T) {
	var b []byte
	b = AppendU24BE(b, 0x123456)
	b = AppendU16BE(b, 0xABCD)
	want := []byte{0x12, 0x34, 0x56, 0xAB, 0xCD}
	if string(b) != string(want) {
		t.Fatalf("append = % x, want % x", b, want)
	}
	// only the low 24 bits are kept
	if got := AppendU24BE(nil, 0xFF000001); got[0] != 0 || got[2] != 1 {
		t.Fatalf("AppendU24BE truncation = % x", got)
	}
	if U24BE(AppendU24BE(nil, 0xFFFFFF)) != 0xFFFFFF {
		t.Fatalf("U24BE(AppendU24BE(max)) mismatch")
	}
}
