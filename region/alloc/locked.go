package alloc

import "sync"

// Locked serializes access to an Allocator so one region can be shared
// between goroutines. Every call takes the same mutex; Largest is included
// because it may rescan and update the cache.
type Locked struct {
	mu sync.Mutex
	a  Allocator
}

// NewLocked wraps a.
func NewLocked(a Allocator) *Locked {
	return &Locked{a: a}
}

// Alloc implements Allocator.
func (l *Locked) Alloc(size uint32) (Addr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Alloc(size)
}

// Free implements Allocator.
func (l *Locked) Free(addr Addr) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Free(addr)
}

// Available implements Allocator.
func (l *Locked) Available() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Available()
}

// Largest implements Allocator.
func (l *Locked) Largest() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Largest()
}

// Do runs fn with the lock held, for sequences that must not interleave with
// other callers (allocate-then-fill, or a consistency check).
func (l *Locked) Do(fn func(a Allocator)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.a)
}

var (
	_ Allocator = (*RegionAllocator)(nil)
	_ Allocator = (*Locked)(nil)
)
