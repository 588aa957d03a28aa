// Package backing provides the bytes behind a region.
//
// The allocator only hands out addresses; it never reads or writes the memory
// it manages. Tools and tests that want to touch allocated ranges (fill a
// frame buffer, check that two blocks do not overlap in practice) map an
// anonymous buffer the size of the region and address it with the same
// absolute addresses the allocator returns.
package backing

import (
	"errors"
	"fmt"

	"github.com/joshuapare/vramkit/internal/buf"
	"github.com/joshuapare/vramkit/region/alloc"
)

var (
	// ErrClosed indicates use of a Memory after Close.
	ErrClosed = errors.New("backing: memory is closed")

	// ErrOutOfRange indicates an address range outside the region.
	ErrOutOfRange = errors.New("backing: range outside region")
)

// Memory is an anonymous read/write mapping addressed like the region.
type Memory struct {
	geo     alloc.Geometry
	data    []byte
	release func() error
}

// Open maps g.Size bytes of zeroed memory.
func Open(g alloc.Geometry) (*Memory, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	data, release, err := mapAnon(g.Size)
	if err != nil {
		return nil, fmt.Errorf("backing: map %d bytes: %w", g.Size, err)
	}
	return &Memory{geo: g, data: data, release: release}, nil
}

// Geometry returns the region the memory is addressed as.
func (m *Memory) Geometry() alloc.Geometry {
	return m.geo
}

// Bytes returns the whole mapping, or nil after Close.
func (m *Memory) Bytes() []byte {
	return m.data
}

// Slice returns the n bytes at absolute address addr. The slice aliases the
// mapping and is invalid after Close.
func (m *Memory) Slice(addr alloc.Addr, n uint32) ([]byte, error) {
	if m.data == nil {
		return nil, ErrClosed
	}
	off, err := buf.CheckRange(m.geo.Base, m.geo.Size, addr, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	b, ok := buf.Slice(m.data, int(off), int(n))
	if !ok {
		return nil, fmt.Errorf("%w: %#x+%d", ErrOutOfRange, addr, n)
	}
	return b, nil
}

// Fill sets n bytes at addr to v.
func (m *Memory) Fill(addr alloc.Addr, n uint32, v byte) error {
	b, err := m.Slice(addr, n)
	if err != nil {
		return err
	}
	for i := range b {
		b[i] = v
	}
	return nil
}

// Close releases the mapping. Calling it again is a no-op.
func (m *Memory) Close() error {
	if m.data == nil {
		return nil
	}
	m.data = nil
	release := m.release
	m.release = nil
	return release()
}
