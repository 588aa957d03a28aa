package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free block large enough exists.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrZeroSize indicates a zero-byte allocation request.
	ErrZeroSize = errors.New("alloc: zero-size allocation")

	// ErrInvalidFree indicates a free of an address that is not an allocated block
	// head. Only returned in strict mode.
	ErrInvalidFree = errors.New("alloc: invalid free")

	// ErrBadGeometry indicates a region geometry that the block table cannot describe.
	ErrBadGeometry = errors.New("alloc: bad region geometry")
)
