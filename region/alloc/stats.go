package alloc

// Stats holds allocator counters for tests and instrumentation.
type Stats struct {
	AllocCalls       int // Total Alloc() calls
	AllocFailures    int // Alloc() calls that returned an error
	FastRejects      int // Failures decided by the largest-run cache without a scan
	FreeCalls        int // Total Free() calls, including Nil
	InvalidFrees     int // Free() calls that were ignored or rejected
	Splits           int // Blocks split on allocation
	CoalesceBackward int // Merges into the preceding block
	CoalesceForward  int // Merges with the following block
	Rescans          int // Full table scans to refresh the largest-run cache
}
