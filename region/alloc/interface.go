package alloc

// Allocator defines the interface for region allocation and deallocation.
//
// Implementations:
//   - RegionAllocator: Block-table allocator
//   - Locked: Mutex wrapper around another Allocator
type Allocator interface {
	// Alloc reserves at least size bytes and returns the absolute address of
	// the first byte. Fails with ErrNoSpace or ErrZeroSize.
	Alloc(size uint32) (Addr, error)

	// Free releases a block returned by Alloc. Freeing Nil is a no-op.
	Free(addr Addr) error

	// Available returns the total number of free bytes.
	Available() uint32

	// Largest returns the size in bytes of the largest contiguous free run.
	Largest() uint32
}
