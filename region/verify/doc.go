// Package verify provides validation functions for region block tables.
//
// # Overview
//
// A block table is valid when its heads tile the region exactly, each head's
// prev field links to the head before it, no two neighbouring blocks are both
// free, the running free counter matches the free heads, and the cached
// largest-free value is exact (or, when marked stale, an overestimate).
//
// The checks operate on a State copied out of an allocator, so they never
// mutate allocator internals:
//
//	if err := verify.AllInvariants(a.State()); err != nil {
//	    var verr *verify.ValidationError
//	    if errors.As(err, &verr) {
//	        fmt.Printf("%s at block %d: %s\n", verr.Type, verr.Index, verr.Message)
//	    }
//	}
//
// # Validation categories
//
//   - Tiling: heads cover [0, Blocks) with no gap or overlap, interior slots
//     are not marked as heads, sizes are in range
//   - PrevChain: the address-order back links are consistent
//   - Coalesced: no two adjacent heads are both free
//   - Accounting: sum of free head sizes equals FreeBlocks
//   - LargestCache: the cached largest run is exact when fresh and an
//     overestimate when stale
//
// A State with no entries describes a table that has not been built yet; only
// the accounting checks apply to it.
//
// # Performance
//
// Every check is a single pass over the heads, O(blocks) in the worst case.
// AllInvariants runs them in order and returns the first failure.
package verify
