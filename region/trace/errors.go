package trace

import (
	"errors"
	"fmt"

	"github.com/joshuapare/vramkit/region/alloc"
)

var (
	// ErrInvalidScript indicates a trace that decodes but cannot be replayed.
	ErrInvalidScript = errors.New("trace: invalid script")

	// ErrEmpty indicates an input with no YAML document.
	ErrEmpty = errors.New("trace: empty input")
)

// Error names used in expectations.
const (
	ErrNameNoSpace     = "no_space"
	ErrNameZeroSize    = "zero_size"
	ErrNameInvalidFree = "invalid_free"
)

// ErrorName maps an allocator error to its trace name. nil maps to "".
// Errors the allocator does not define map to "error".
func ErrorName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, alloc.ErrNoSpace):
		return ErrNameNoSpace
	case errors.Is(err, alloc.ErrZeroSize):
		return ErrNameZeroSize
	case errors.Is(err, alloc.ErrInvalidFree):
		return ErrNameInvalidFree
	default:
		return "error"
	}
}

func knownErrorName(name string) bool {
	switch name {
	case ErrNameNoSpace, ErrNameZeroSize, ErrNameInvalidFree:
		return true
	}
	return false
}

// MismatchError reports a step whose outcome differs from its expectation.
type MismatchError struct {
	Step  int // Zero-based step index
	Op    Op
	Field string // addr, error, available or largest
	Want  string
	Got   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("trace: step %d (%s): %s: want %s, got %s", e.Step, e.Op, e.Field, e.Want, e.Got)
}
