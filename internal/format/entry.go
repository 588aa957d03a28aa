package format

import "fmt"

// Entry is one packed block-table word. See the layout comment on IndexBits.
//
// Setters return a modified copy so table updates read as t[i] = t[i].WithX(v).
type Entry uint32

// MakeEntry packs a block entry. size and prev are truncated to IndexBits;
// use CheckIndex beforehand when the values come from untrusted input.
func MakeEntry(size, prev uint32, free, start bool) Entry {
	e := Entry((size&IndexMask)<<SizeShift | (prev&IndexMask)<<PrevShift)
	if start {
		e |= StartBit
	}
	if free {
		e |= FreeBit
	}
	return e
}

// CheckIndex validates that v fits in a size or prev field.
func CheckIndex(v uint32) error {
	if v > IndexMask {
		return fmt.Errorf("%w: %d > %d", ErrFieldOverflow, v, IndexMask)
	}
	return nil
}

// Size returns the number of granules covered by the block.
func (e Entry) Size() uint32 { return uint32(e) >> SizeShift & IndexMask }

// Prev returns the index of the preceding block head.
func (e Entry) Prev() uint32 { return uint32(e) >> PrevShift & IndexMask }

// Free reports whether the free bit is set.
func (e Entry) Free() bool { return e&FreeBit != 0 }

// Start reports whether the entry is a block head.
func (e Entry) Start() bool { return e&StartBit != 0 }

// FreeHead reports whether the entry heads a free block.
func (e Entry) FreeHead() bool { return e&(FreeBit|StartBit) == FreeBit|StartBit }

// AllocatedHead reports whether the entry heads an allocated block.
func (e Entry) AllocatedHead() bool { return e&(FreeBit|StartBit) == StartBit }

// WithSize returns e with the size field replaced.
func (e Entry) WithSize(size uint32) Entry {
	return e&^sizeFieldMask | Entry((size&IndexMask)<<SizeShift)
}

// AddSize returns e with n granules added to the size field.
func (e Entry) AddSize(n uint32) Entry {
	return e.WithSize(e.Size() + n)
}

// WithPrev returns e with the prev field replaced.
func (e Entry) WithPrev(prev uint32) Entry {
	return e&^prevFieldMask | Entry((prev&IndexMask)<<PrevShift)
}

// WithFree returns e with the free bit set or cleared.
func (e Entry) WithFree(free bool) Entry {
	if free {
		return e | FreeBit
	}
	return e &^ FreeBit
}

// WithStart returns e with the start bit set or cleared.
func (e Entry) WithStart(start bool) Entry {
	if start {
		return e | StartBit
	}
	return e &^ StartBit
}

func (e Entry) String() string {
	state := "used"
	if e.Free() {
		state = "free"
	}
	if !e.Start() {
		state += ",interior"
	}
	return fmt.Sprintf("{size=%d prev=%d %s}", e.Size(), e.Prev(), state)
}
