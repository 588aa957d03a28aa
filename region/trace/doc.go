// Package trace decodes and replays allocation traces.
//
// A trace is a YAML document listing alloc, free and check steps against one
// region. Traces are used to reproduce fragmentation patterns, to pin down
// allocator behaviour in tests, and as input to the regionctl tool.
//
//	geometry: {base: 0x04000000, size: 4096, block_size: 512}
//	strict: true
//	steps:
//	  - {op: alloc, name: fb, size: 1536, expect: {addr: 0x04000000}}
//	  - {op: alloc, size: 8192, expect: {error: no_space}}
//	  - {op: free, name: fb}
//	  - {op: free, addr: 0x04000000, expect: {error: invalid_free}}
//	  - {op: check, expect: {available: 4096, largest: 4096}}
//
// Named allocations bind the returned address for later frees. A name may be
// reused once its block is freed. A failed allocation binds nothing, so
// freeing its name frees Nil: the same no-op it would be in a program that
// ignored the error.
//
// Expectations are optional. A step without one never fails replay; a step
// with one must match every field it sets, and an error the step did not
// expect is a mismatch.
package trace
