// Package alloc provides block-granular allocation for a fixed memory region.
//
// # Overview
//
// This package sub-allocates a scarce, externally addressed byte range (a
// graphics memory aperture) without using a general-purpose heap. The region
// is divided into fixed-size granules and described by a flat block table with
// one packed 32-bit entry per granule. Only the entry at the first granule of a
// block (its head) is authoritative; the remaining entries are interior slots.
//
// # Allocator Interface
//
// The core abstraction is the Allocator interface:
//
//   - Alloc(size): Reserve at least size bytes, aligned to the granule
//   - Free(addr): Return a block and merge it with free neighbours
//   - Available(): Total free bytes, O(1)
//   - Largest(): Largest contiguous free run, cached
//
// # Implementations
//
// RegionAllocator: The block-table allocator
//
//   - Best-fit search in address order, stopping early on an exact fit
//   - Splits oversized blocks, coalesces on free in both directions
//   - Lazy largest-free-run cache with a staleness flag
//   - Table built on first allocation
//
// Locked: Mutex wrapper for regions shared between goroutines
//
// # Usage Example
//
//	ra, err := alloc.New(alloc.DefaultGeometry())
//	if err != nil {
//	    return err
//	}
//
//	// Reserve a 480x272 16-bit frame buffer
//	fb, err := ra.Alloc(512 * 272 * 2)
//	if errors.Is(err, alloc.ErrNoSpace) {
//	    // fall back to system memory
//	}
//
//	// Later, release it
//	_ = ra.Free(fb)
//
// # Block Table
//
// Each entry packs four fields (see internal/format):
//
//	bit  31     free
//	bit  30     start (1 = block head, 0 = interior)
//	bits 29-15  prev  (index of the preceding head)
//	bits 14-0   size  (granules)
//
// The 15-bit fields cap a region at 32767 granules; with the default 512-byte
// granule the default 2 MiB region uses 4096 entries.
//
// # Largest Free Run Cache
//
// Increases are exact and recorded immediately (a merge that produces a
// larger run). Decreases are not: when an allocation consumes the largest run
// the cache is marked stale and Largest rescans the table on demand. While
// the cache is fresh, Alloc rejects requests larger than it without scanning.
//
// # Invalid Frees
//
// Freeing an address that is not the head of an allocated block (outside the
// region, misaligned, interior, already free) is ignored and counted in
// Stats.InvalidFrees. WithStrict(true) reports these as ErrInvalidFree
// instead.
//
// # Thread Safety
//
// RegionAllocator instances are not thread-safe. Callers must synchronize
// access externally or wrap the allocator with NewLocked.
//
// # Related Packages
//
//   - github.com/joshuapare/vramkit/region/addr: Relative/absolute pointer helpers
//   - github.com/joshuapare/vramkit/region/verify: Block table invariant checks
//   - github.com/joshuapare/vramkit/region/backing: Bytes behind the region
package alloc
