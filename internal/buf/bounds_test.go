package buf

import (
	"math"
	"testing"
)

func TestAddU32(t *testing.T) {
	if sum, ok := AddU32(10, 5); !ok || sum != 15 {
		t.Fatalf("AddU32(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddU32(math.MaxUint32, 1); ok {
		t.Fatalf("expected overflow when adding to MaxUint32")
	}
	if sum, ok := AddU32(math.MaxUint32-1, 1); !ok || sum != math.MaxUint32 {
		t.Fatalf("AddU32 at the edge = %d,%v", sum, ok)
	}
}

func TestCheckRange(t *testing.T) {
	const base, size = 0x04000000, 0x1000

	off, err := CheckRange(base, size, base+0x200, 0x200)
	if err != nil || off != 0x200 {
		t.Fatalf("CheckRange valid = %#x, %v", off, err)
	}
	if _, err := CheckRange(base, size, base+size-1, 1); err != nil {
		t.Fatalf("last byte should be in range: %v", err)
	}
	if _, err := CheckRange(base, size, base+size-1, 2); err == nil {
		t.Fatal("range past the end should fail")
	}
	if _, err := CheckRange(base, size, base-1, 1); err == nil {
		t.Fatal("address below base should fail")
	}
	if _, err := CheckRange(base, size, base+1, math.MaxUint32); err == nil {
		t.Fatal("overflowing length should fail")
	}
}

func TestSlice(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}

	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
	if _, ok := Slice(data, 1, math.MaxInt); ok {
		t.Fatalf("Slice should reject overflowing length")
	}
}
