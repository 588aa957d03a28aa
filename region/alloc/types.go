package alloc

import (
	"fmt"

	"github.com/joshuapare/vramkit/internal/buf"
	"github.com/joshuapare/vramkit/internal/format"
)

// Addr is an absolute address inside the managed region.
type Addr = uint32

// Nil is the failure/null address. No valid allocation returns it.
const Nil Addr = 0

// Geometry describes the region under management.
type Geometry struct {
	Base      uint32 // CPU-visible address of the first byte
	Size      uint32 // Bytes under management
	BlockSize uint32 // Allocation granule and alignment
}

// DefaultGeometry returns the 2 MiB aperture at 0x04000000 with 512-byte granules.
func DefaultGeometry() Geometry {
	return Geometry{
		Base:      format.DefaultBase,
		Size:      format.DefaultRegionSize,
		BlockSize: format.DefaultBlockSize,
	}
}

// Blocks returns the number of granules in the region.
func (g Geometry) Blocks() uint32 {
	if g.BlockSize == 0 {
		return 0
	}
	return g.Size / g.BlockSize
}

// Contains reports whether a lies inside the region.
func (g Geometry) Contains(a Addr) bool {
	return a >= g.Base && a-g.Base < g.Size
}

// Validate checks that the block table can describe the region.
func (g Geometry) Validate() error {
	if !format.IsPow2(g.BlockSize) {
		return fmt.Errorf("%w: block size %d is not a power of two", ErrBadGeometry, g.BlockSize)
	}
	if g.Size == 0 || !format.IsAligned(g.Size, g.BlockSize) {
		return fmt.Errorf("%w: size %#x is not a non-zero multiple of %d", ErrBadGeometry, g.Size, g.BlockSize)
	}
	if err := format.CheckIndex(g.Blocks()); err != nil {
		return fmt.Errorf("%w: %d blocks: %w", ErrBadGeometry, g.Blocks(), err)
	}
	if g.Base == Nil {
		return fmt.Errorf("%w: base address must be non-zero", ErrBadGeometry)
	}
	if !format.IsAligned(g.Base, g.BlockSize) {
		return fmt.Errorf("%w: base %#x is not aligned to %d", ErrBadGeometry, g.Base, g.BlockSize)
	}
	if _, ok := buf.AddU32(g.Base, g.Size-1); !ok {
		return fmt.Errorf("%w: region %#x+%#x exceeds the 32-bit address space", ErrBadGeometry, g.Base, g.Size)
	}
	return nil
}

// Block describes one block head in address order.
type Block struct {
	Index    uint32 // Table index of the head
	Addr     Addr   // Absolute address of the first byte
	Granules uint32 // Size in granules
	Size     uint32 // Size in bytes
	Free     bool
}

// End returns the address one past the last byte of the block.
func (b Block) End() Addr {
	return b.Addr + b.Size
}
