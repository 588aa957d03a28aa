// Package addr translates pointers between the CPU-visible aperture and the
// relative addressing used by display lists. The functions are pure bit
// operations over fixed constants and carry no allocator state.
package addr

import "github.com/joshuapare/vramkit/internal/format"

// Relative strips the aperture base from p, yielding the offset form that
// display-list commands (frame/depth buffer pointers) expect.
func Relative(p uint32) uint32 {
	return p &^ format.DefaultBase
}

// Absolute maps a relative pointer back into the CPU-visible aperture.
func Absolute(p uint32) uint32 {
	return p | format.DefaultBase
}

// Uncached returns the uncached mirror of p. Writes through this address
// bypass the data cache, which texture uploads rely on.
func Uncached(p uint32) uint32 {
	return p | format.UncachedBit
}

// Cached returns the cached view of a possibly uncached pointer.
func Cached(p uint32) uint32 {
	return p &^ format.UncachedBit
}
