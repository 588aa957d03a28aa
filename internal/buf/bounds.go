// Package buf provides overflow-safe arithmetic and bounds checks for 32-bit
// address ranges and the byte slices that back them.
package buf

import (
	"fmt"
	"math"
)

// AddU32 adds a and b, returning ok = false when the result would overflow uint32.
func AddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// CheckRange validates that the n-byte range starting at addr lies within
// [base, base+size) and returns its offset from base.
//
// This is the recommended way to translate an absolute address before indexing
// the region's backing bytes:
//
//	off, err := buf.CheckRange(g.Base, g.Size, addr, n)
//	if err != nil {
//	    return fmt.Errorf("backing: %w", err)
//	}
//	// Safe to use mem[off : off+n]
func CheckRange(base, size, addr, n uint32) (uint32, error) {
	if addr < base {
		return 0, fmt.Errorf("bounds: addr=%#x below base=%#x", addr, base)
	}
	off := addr - base
	end, ok := AddU32(off, n)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%#x + len=%d", off, n)
	}
	if end > size {
		return 0, fmt.Errorf("bounds: end=%#x > size=%#x", end, size)
	}
	return off, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	if n > math.MaxInt-off {
		return nil, false
	}
	end := off + n
	if end > len(b) {
		return nil, false
	}
	return b[off:end], true
}
