// Package format holds the fixed layout of the region block table: geometry
// defaults, the packed block-entry word, and alignment helpers. It has no
// allocator state; higher-level packages build on these primitives.
package format

// Default aperture managed by the allocator. These mirror the graphics memory
// window the block table was designed for: 2 MiB starting at 0x04000000,
// subdivided into 512-byte granules.
const (
	// DefaultBase is the CPU-visible start address of the managed region.
	DefaultBase = 0x04000000

	// DefaultRegionSize is the number of bytes under management.
	DefaultRegionSize = 0x00200000

	// DefaultBlockSize is the allocation granule. It is also the alignment of
	// every address handed out. Larger granules shrink the table (better cache
	// behaviour during scans) at the cost of more internal fragmentation.
	DefaultBlockSize = 512

	// DefaultBlocks is DefaultRegionSize / DefaultBlockSize.
	DefaultBlocks = DefaultRegionSize / DefaultBlockSize
)

// UncachedBit selects the uncached mirror of the aperture. Writes that must
// bypass the CPU cache (texture uploads) go through Base|UncachedBit.
const UncachedBit = 0x40000000

// Block entry layout (one uint32 per granule):
//
//	bit  31     free   1 = block is unallocated
//	bit  30     start  1 = entry is the head of a block, 0 = interior slot
//	bits 29-15  prev   index of the preceding block head
//	bits 14-0   size   granules covered by this block
const (
	// IndexBits is the width of the size and prev fields.
	IndexBits = 15

	// IndexMask extracts a size or prev field after shifting.
	IndexMask = 1<<IndexBits - 1

	// MaxBlocks is the largest block count a table may hold. A single free
	// block must be able to describe the whole region, so the count is bounded
	// by what the size field can store.
	MaxBlocks = IndexMask

	// SizeShift is the bit offset of the size field.
	SizeShift = 0

	// PrevShift is the bit offset of the prev field.
	PrevShift = IndexBits

	// StartBit marks a block head.
	StartBit = 1 << 30

	// FreeBit marks an unallocated block.
	FreeBit = 1 << 31

	sizeFieldMask = IndexMask << SizeShift
	prevFieldMask = IndexMask << PrevShift
)
