package verify

import (
	"fmt"

	"github.com/joshuapare/vramkit/internal/format"
)

// State is a point-in-time copy of an allocator's block table and counters.
type State struct {
	Blocks       uint32         // Total granules in the region
	Entries      []format.Entry // Block table; empty if not yet built
	FreeBlocks   uint32         // Running free-granule counter
	LargestFree  uint32         // Cached largest free run, in granules
	LargestStale bool           // Cache may overestimate
}

// ValidationError describes a violated invariant.
type ValidationError struct {
	Type    string
	Message string
	Index   int // Block index where the error occurred (-1 if N/A)
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s at block %d: %s", e.Type, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates every invariant in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(s State) error {
	if err := Tiling(s); err != nil {
		return err
	}
	if err := PrevChain(s); err != nil {
		return err
	}
	if err := Coalesced(s); err != nil {
		return err
	}
	if err := Accounting(s); err != nil {
		return err
	}
	return LargestCache(s)
}

// Tiling checks that block heads cover the table exactly.
func Tiling(s State) error {
	if len(s.Entries) == 0 {
		return nil
	}
	if len(s.Entries) != int(s.Blocks) {
		return &ValidationError{
			Type:    "Tiling",
			Message: fmt.Sprintf("table has %d entries, region has %d blocks", len(s.Entries), s.Blocks),
			Index:   -1,
		}
	}

	var i uint32
	for i < s.Blocks {
		e := s.Entries[i]
		if !e.Start() {
			return &ValidationError{
				Type:    "Tiling",
				Message: fmt.Sprintf("expected block head, found interior entry %v", e),
				Index:   int(i),
			}
		}
		size := e.Size()
		if size == 0 || size > s.Blocks-i {
			return &ValidationError{
				Type:    "Tiling",
				Message: fmt.Sprintf("block size %d out of range (remaining %d)", size, s.Blocks-i),
				Index:   int(i),
				Details: map[string]interface{}{"size": size, "remaining": s.Blocks - i},
			}
		}
		for j := i + 1; j < i+size; j++ {
			if s.Entries[j].Start() {
				return &ValidationError{
					Type:    "Tiling",
					Message: fmt.Sprintf("interior entry of block %d is marked as a head", i),
					Index:   int(j),
				}
			}
		}
		i += size
	}
	return nil
}

// PrevChain checks that every head's prev field names the preceding head.
// Callers should run Tiling first; PrevChain stops at the first bad size.
func PrevChain(s State) error {
	if len(s.Entries) == 0 {
		return nil
	}

	var i, prev uint32
	for i < s.Blocks {
		e := s.Entries[i]
		if e.Prev() != prev {
			return &ValidationError{
				Type:    "PrevChain",
				Message: fmt.Sprintf("prev=%d, expected %d", e.Prev(), prev),
				Index:   int(i),
				Details: map[string]interface{}{"prev": e.Prev(), "expected": prev},
			}
		}
		if e.Size() == 0 {
			break
		}
		prev = i
		i += e.Size()
	}
	return nil
}

// Coalesced checks that no two address-adjacent blocks are both free.
func Coalesced(s State) error {
	if len(s.Entries) == 0 {
		return nil
	}

	var i uint32
	prevFree := false
	for i < s.Blocks {
		e := s.Entries[i]
		free := e.FreeHead()
		if free && prevFree {
			return &ValidationError{
				Type:    "Coalesced",
				Message: "free block follows another free block",
				Index:   int(i),
			}
		}
		if e.Size() == 0 {
			break
		}
		prevFree = free
		i += e.Size()
	}
	return nil
}

// Accounting checks the running free counter against the free heads.
func Accounting(s State) error {
	var free uint32
	if len(s.Entries) == 0 {
		free = s.Blocks
	} else {
		free = freeBlocks(s)
	}
	if free != s.FreeBlocks {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("free counter=%d, free heads sum to %d", s.FreeBlocks, free),
			Index:   -1,
			Details: map[string]interface{}{"counter": s.FreeBlocks, "actual": free},
		}
	}
	return nil
}

// LargestCache checks the cached largest free run. A fresh cache must be exact;
// a stale one may only overestimate.
func LargestCache(s State) error {
	var largest uint32
	if len(s.Entries) == 0 {
		largest = s.Blocks
	} else {
		largest = LargestRun(s.Entries)
	}

	switch {
	case !s.LargestStale && s.LargestFree != largest:
		return &ValidationError{
			Type:    "LargestCache",
			Message: fmt.Sprintf("cached largest=%d, actual=%d", s.LargestFree, largest),
			Index:   -1,
			Details: map[string]interface{}{"cached": s.LargestFree, "actual": largest},
		}
	case s.LargestStale && s.LargestFree < largest:
		return &ValidationError{
			Type:    "LargestCache",
			Message: fmt.Sprintf("stale cached largest=%d underestimates actual=%d", s.LargestFree, largest),
			Index:   -1,
			Details: map[string]interface{}{"cached": s.LargestFree, "actual": largest},
		}
	}
	return nil
}

// LargestRun returns the size in granules of the largest free head.
func LargestRun(entries []format.Entry) uint32 {
	var largest uint32
	for i := 0; i < len(entries); {
		e := entries[i]
		if e.FreeHead() && e.Size() > largest {
			largest = e.Size()
		}
		if e.Size() == 0 {
			break
		}
		i += int(e.Size())
	}
	return largest
}

func freeBlocks(s State) uint32 {
	var free uint32
	for i := 0; i < len(s.Entries); {
		e := s.Entries[i]
		if e.FreeHead() {
			free += e.Size()
		}
		if e.Size() == 0 {
			break
		}
		i += int(e.Size())
	}
	return free
}
