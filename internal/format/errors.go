package format

import "errors"

var (
	// ErrFieldOverflow indicates a size or prev value does not fit in IndexBits.
	ErrFieldOverflow = errors.New("format: value exceeds block index width")
)
