package alloc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Locked_ConcurrentAllocFree(t *testing.T) {
	ra := newTestAllocator(t, 1024, WithStrict(true))
	l := NewLocked(ra)

	const workers = 8
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var mine []Addr
			for i := range 200 {
				a, err := l.Alloc(uint32((w%4 + 1) * G))
				if err == nil {
					mine = append(mine, a)
				}
				if i%3 == 0 && len(mine) > 0 {
					_ = l.Free(mine[0])
					mine = mine[1:]
				}
			}
			for _, a := range mine {
				_ = l.Free(a)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, uint32(1024*G), l.Available())
	require.Equal(t, uint32(1024*G), l.Largest())
	l.Do(func(a Allocator) {
		require.NoError(t, a.(*RegionAllocator).Check())
	})
	require.Zero(t, ra.Stats().InvalidFrees)
}
