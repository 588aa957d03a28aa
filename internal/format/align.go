package format

// Alignment helpers for granule arithmetic. Granule sizes are powers of two so
// rounding can be done with masks.

// IsPow2 reports whether n is a non-zero power of two.
func IsPow2(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

// IsAligned reports whether n is a multiple of blockSize (a power of two).
func IsAligned(n, blockSize uint32) bool {
	return n&(blockSize-1) == 0
}

// BlocksFor returns the number of granules needed to hold n bytes.
// It cannot overflow.
//
// Example:
//
//	BlocksFor(0, 512)    = 0
//	BlocksFor(1, 512)    = 1
//	BlocksFor(1536, 512) = 3
//	BlocksFor(1537, 512) = 4
func BlocksFor(n, blockSize uint32) uint32 {
	blocks := n / blockSize
	if n%blockSize != 0 {
		blocks++
	}
	return blocks
}
