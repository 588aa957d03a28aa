package alloc

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/vramkit/internal/format"
)

// G is the granule size used by most tests.
const G = 512

func testGeometry(blocks uint32) Geometry {
	return Geometry{Base: format.DefaultBase, Size: blocks * G, BlockSize: G}
}

func newTestAllocator(t testing.TB, blocks uint32, opts ...Option) *RegionAllocator {
	t.Helper()
	ra, err := New(testGeometry(blocks), opts...)
	require.NoError(t, err)
	return ra
}

// at returns the absolute address of granule idx in the test geometry.
func at(idx uint32) Addr {
	return format.DefaultBase + idx*G
}

func mustAlloc(t testing.TB, ra *RegionAllocator, size uint32) Addr {
	t.Helper()
	a, err := ra.Alloc(size)
	require.NoError(t, err, "Alloc(%d)", size)
	require.NotEqual(t, Nil, a)
	return a
}

func mustFree(t testing.TB, ra *RegionAllocator, a Addr) {
	t.Helper()
	require.NoError(t, ra.Free(a), "Free(%#x)", a)
}

func assertInvariants(t testing.TB, ra *RegionAllocator) {
	t.Helper()
	require.NoError(t, ra.Check())
}

// span is a block head reduced to what layout assertions care about.
type span struct {
	Granules uint32
	Free     bool
}

func spans(ra *RegionAllocator) []span {
	var out []span
	for b := range ra.Blocks() {
		out = append(out, span{Granules: b.Granules, Free: b.Free})
	}
	return out
}

func collect(ra *RegionAllocator) []Block {
	return slices.Collect(ra.Blocks())
}
