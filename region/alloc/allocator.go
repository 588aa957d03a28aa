package alloc

import (
	"fmt"
	"iter"
	"log/slog"
	"os"
	"slices"

	"github.com/joshuapare/vramkit/internal/format"
	"github.com/joshuapare/vramkit/internal/logger"
	"github.com/joshuapare/vramkit/region/verify"
)

// Runtime debug flag for allocation logging - controlled by VRAMKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("VRAMKIT_LOG_ALLOC") != ""

// RegionAllocator manages one region through a flat block table.
//   - One packed entry per granule, authoritative only at block heads
//   - Best-fit scan over heads with early exit on an exact fit
//   - O(1) Available via a running free counter
//   - Largest run cached, rescanned only after the cache went stale
type RegionAllocator struct {
	geo    Geometry
	blocks uint32

	// Block table, nil until the first Alloc
	table []format.Entry

	// Running count of free granules
	free uint32

	// Largest free run in granules. When largestStale is set the value may
	// overestimate (never underestimate) and Largest() rescans.
	largest      uint32
	largestStale bool

	strict bool
	log    *slog.Logger

	// Statistics for testing and instrumentation
	stats Stats
}

// New creates an allocator for the region described by g.
//
// The block table is not built until the first allocation; before that the
// whole region counts as one free block.
func New(g Geometry, opts ...Option) (*RegionAllocator, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	blocks := g.Blocks()
	ra := &RegionAllocator{
		geo:     g,
		blocks:  blocks,
		free:    blocks,
		largest: blocks,
		log:     defaultLogger(),
	}
	for _, opt := range opts {
		opt(ra)
	}
	return ra, nil
}

func defaultLogger() *slog.Logger {
	if logAlloc {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return logger.L
}

// Alloc reserves size bytes rounded up to whole granules.
func (ra *RegionAllocator) Alloc(size uint32) (Addr, error) {
	ra.stats.AllocCalls++

	if size == 0 {
		ra.stats.AllocFailures++
		return Nil, ErrZeroSize
	}

	ra.ensureTable()
	need := format.BlocksFor(size, ra.geo.BlockSize)

	// A fresh cache proves no block can satisfy the request.
	if !ra.largestStale && ra.largest < need {
		ra.stats.FastRejects++
		ra.stats.AllocFailures++
		ra.log.Debug("alloc rejected by largest-run cache",
			"size", size, "need_blocks", need, "largest_blocks", ra.largest)
		return Nil, ErrNoSpace
	}

	idx, prev, csize, ok := ra.findBestFit(need)
	if !ok {
		ra.stats.AllocFailures++
		ra.log.Debug("alloc found no fitting block",
			"size", size, "need_blocks", need, "free_blocks", ra.free)
		return Nil, ErrNoSpace
	}

	ra.split(idx, prev, csize, need)
	ra.free -= need

	// We just allocated from (one of) the largest blocks. If the remainder
	// holds more than half of all free granules nothing else can be larger;
	// otherwise defer to a rescan.
	if ra.largest == csize {
		if rem := csize - need; rem > ra.free>>1 {
			ra.largest = rem
		} else {
			ra.largestStale = true
		}
	}

	return ra.addrOf(idx), nil
}

// Free releases the block starting at a and merges it with free neighbours.
//
// Nil is ignored. Any other address that does not name an allocated block head
// is an invalid free: it is ignored unless the allocator is strict.
func (ra *RegionAllocator) Free(a Addr) error {
	ra.stats.FreeCalls++

	if a == Nil {
		return nil
	}

	i, reason := ra.indexOf(a)
	if reason != "" {
		return ra.invalidFree(a, reason)
	}

	t := ra.table
	e := t[i]
	if !e.AllocatedHead() || e.Size() == 0 {
		if e.FreeHead() {
			return ra.invalidFree(a, "block is already free")
		}
		return ra.invalidFree(a, "address is not a block head")
	}

	size := e.Size()
	t[i] = e.WithFree(true)
	ra.free += size

	next := i + size
	block := i

	// Merge into the previous block. Index 0 links to itself.
	if prev := e.Prev(); prev < i && t[prev].FreeHead() {
		ra.stats.CoalesceBackward++
		t[prev] = t[prev].AddSize(size)
		t[i] = t[i].WithStart(false)
		if next < ra.blocks {
			t[next] = t[next].WithPrev(prev)
		}
		block = prev
	}

	// Absorb the following block.
	if next < ra.blocks && t[next].FreeHead() {
		ra.stats.CoalesceForward++
		nsize := t[next].Size()
		t[block] = t[block].AddSize(nsize)
		t[next] = t[next].WithStart(false)
		if nextnext := next + nsize; nextnext < ra.blocks {
			t[nextnext] = t[nextnext].WithPrev(block)
		}
	}

	// Growth of the largest run is always exact.
	if merged := t[block].Size(); merged > ra.largest {
		ra.largest = merged
		ra.largestStale = false
	}

	return nil
}

// Available returns the number of free bytes.
func (ra *RegionAllocator) Available() uint32 {
	return ra.free * ra.geo.BlockSize
}

// Largest returns the size in bytes of the largest free run, rescanning the
// table if an allocation may have shrunk it.
func (ra *RegionAllocator) Largest() uint32 {
	if ra.largestStale {
		ra.rescanLargest()
	}
	return ra.largest * ra.geo.BlockSize
}

// Geometry returns the region description.
func (ra *RegionAllocator) Geometry() Geometry {
	return ra.geo
}

// Stats returns a copy of the allocator counters.
func (ra *RegionAllocator) Stats() Stats {
	return ra.stats
}

// SizeOf returns the size in bytes of the allocated block starting at a.
func (ra *RegionAllocator) SizeOf(a Addr) (uint32, bool) {
	i, reason := ra.indexOf(a)
	if reason != "" || !ra.table[i].AllocatedHead() {
		return 0, false
	}
	return ra.table[i].Size() * ra.geo.BlockSize, true
}

// Blocks iterates over block heads in address order.
func (ra *RegionAllocator) Blocks() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		if ra.table == nil {
			yield(ra.block(0, format.MakeEntry(ra.blocks, 0, true, true)))
			return
		}
		for i := uint32(0); i < ra.blocks; {
			e := ra.table[i]
			if e.Size() == 0 {
				return
			}
			if !yield(ra.block(i, e)) {
				return
			}
			i += e.Size()
		}
	}
}

// State copies the block table and counters for verification.
func (ra *RegionAllocator) State() verify.State {
	return verify.State{
		Blocks:       ra.blocks,
		Entries:      slices.Clone(ra.table),
		FreeBlocks:   ra.free,
		LargestFree:  ra.largest,
		LargestStale: ra.largestStale,
	}
}

// Check validates the block table invariants.
func (ra *RegionAllocator) Check() error {
	return verify.AllInvariants(ra.State())
}

// ============================================================================
// Internal helpers
// ============================================================================

// ensureTable builds the table on first use: one free block spanning the region.
func (ra *RegionAllocator) ensureTable() {
	if ra.table != nil {
		return
	}
	ra.table = make([]format.Entry, ra.blocks)
	ra.table[0] = format.MakeEntry(ra.blocks, 0, true, true)
}

// findBestFit walks the heads in address order and returns the smallest free
// block of at least need granules, with its predecessor. The walk stops at the
// first exact fit.
func (ra *RegionAllocator) findBestFit(need uint32) (idx, prev, size uint32, ok bool) {
	best := ra.blocks + 1

	var i, j uint32
	for i < ra.blocks {
		e := ra.table[i]
		csize := e.Size()
		if csize == 0 {
			// prevent infinite loop on a corrupt entry
			break
		}
		if e.FreeHead() && csize >= need {
			if csize < best {
				idx, prev, best, ok = i, j, csize, true
			}
			if csize == need {
				break
			}
		}
		j = i
		i += csize
	}
	return idx, prev, best, ok
}

// split turns the free block at idx (csize granules) into an allocated block
// of need granules followed by a free remainder.
func (ra *RegionAllocator) split(idx, prev, csize, need uint32) {
	t := ra.table
	t[idx] = format.MakeEntry(need, prev, false, true)

	if csize == need {
		return
	}

	ra.stats.Splits++
	next := idx + need
	t[next] = format.MakeEntry(csize-need, idx, true, true)
	if nextnext := idx + csize; nextnext < ra.blocks {
		t[nextnext] = t[nextnext].WithPrev(next)
	}
}

func (ra *RegionAllocator) rescanLargest() {
	ra.stats.Rescans++

	var largest uint32
	for i := uint32(0); i < ra.blocks; {
		e := ra.table[i]
		csize := e.Size()
		if csize == 0 {
			break
		}
		if e.FreeHead() && csize > largest {
			largest = csize
		}
		i += csize
	}

	ra.log.Debug("rescanned largest free run", "old_blocks", ra.largest, "new_blocks", largest)
	ra.largest = largest
	ra.largestStale = false
}

// indexOf converts an absolute address to a table index. A non-empty reason
// means the address cannot name a block.
func (ra *RegionAllocator) indexOf(a Addr) (uint32, string) {
	switch {
	case ra.table == nil:
		return 0, "nothing has been allocated"
	case !ra.geo.Contains(a):
		return 0, "address outside region"
	case !format.IsAligned(a-ra.geo.Base, ra.geo.BlockSize):
		return 0, "address not aligned to block size"
	}
	return (a - ra.geo.Base) / ra.geo.BlockSize, ""
}

func (ra *RegionAllocator) invalidFree(a Addr, reason string) error {
	ra.stats.InvalidFrees++
	ra.log.Debug("invalid free", "addr", fmt.Sprintf("%#x", a), "reason", reason, "strict", ra.strict)
	if ra.strict {
		return fmt.Errorf("%w: %#x: %s", ErrInvalidFree, a, reason)
	}
	return nil
}

func (ra *RegionAllocator) addrOf(idx uint32) Addr {
	return ra.geo.Base + idx*ra.geo.BlockSize
}

func (ra *RegionAllocator) block(idx uint32, e format.Entry) Block {
	return Block{
		Index:    idx,
		Addr:     ra.addrOf(idx),
		Granules: e.Size(),
		Size:     e.Size() * ra.geo.BlockSize,
		Free:     e.FreeHead(),
	}
}
