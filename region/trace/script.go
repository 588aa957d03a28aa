package trace

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/vramkit/region/alloc"
)

// Op is a step operation.
type Op string

const (
	OpAlloc Op = "alloc"
	OpFree  Op = "free"
	OpCheck Op = "check"
)

// Script is a decoded trace.
type Script struct {
	Geometry *Geometry `yaml:"geometry,omitempty"`
	Strict   bool      `yaml:"strict,omitempty"`
	Steps    []Step    `yaml:"steps"`
}

// Geometry overrides the region. Zero fields take the default.
type Geometry struct {
	Base      uint32 `yaml:"base,omitempty"`
	Size      uint32 `yaml:"size,omitempty"`
	BlockSize uint32 `yaml:"block_size,omitempty"`
}

// Step is one operation.
type Step struct {
	Op     Op      `yaml:"op"`
	Name   string  `yaml:"name,omitempty"`
	Size   uint32  `yaml:"size,omitempty"`
	Addr   *uint32 `yaml:"addr,omitempty"` // raw address for free
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect holds the outcome a step must produce. Nil fields are not checked.
type Expect struct {
	Addr      *uint32 `yaml:"addr,omitempty"`
	Error     string  `yaml:"error,omitempty"`
	Available *uint32 `yaml:"available,omitempty"`
	Largest   *uint32 `yaml:"largest,omitempty"`
}

// Decode reads a trace. The input may be UTF-8 with or without a byte order
// mark, or UTF-16 with one. Unknown fields are rejected.
func Decode(r io.Reader) (*Script, error) {
	tr := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	dec := yaml.NewDecoder(tr)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("trace: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DecodeFile opens and decodes the trace at path.
func DecodeFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Region returns the geometry the trace runs against, starting from base
// and filling fields the trace leaves zero.
func (s *Script) Region(base alloc.Geometry) alloc.Geometry {
	g := base
	if s.Geometry == nil {
		return g
	}
	if s.Geometry.Base != 0 {
		g.Base = s.Geometry.Base
	}
	if s.Geometry.Size != 0 {
		g.Size = s.Geometry.Size
	}
	if s.Geometry.BlockSize != 0 {
		g.BlockSize = s.Geometry.BlockSize
	}
	return g
}

// NewAllocator builds an allocator for the trace's region on top of base,
// honouring its strict setting. opts are applied after the trace's own.
func (s *Script) NewAllocator(base alloc.Geometry, opts ...alloc.Option) (*alloc.RegionAllocator, error) {
	all := append([]alloc.Option{alloc.WithStrict(s.Strict)}, opts...)
	return alloc.New(s.Region(base), all...)
}

// Validate checks that every step is well formed, that named frees refer to
// an earlier named allocation, and that a name is not reused while its block
// is still allocated.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScript)
	}

	// name -> currently allocated
	named := make(map[string]bool)
	for i, st := range s.Steps {
		if err := st.validate(named); err != nil {
			return fmt.Errorf("%w: step %d (%s): %w", ErrInvalidScript, i, st.Op, err)
		}
	}
	return nil
}

func (st Step) validate(named map[string]bool) error {
	if e := st.Expect; e != nil && e.Error != "" && !knownErrorName(e.Error) {
		return fmt.Errorf("unknown error name %q", e.Error)
	}
	if e := st.Expect; e != nil && e.Largest != nil && st.Op != OpCheck {
		return errors.New("expect.largest only applies to check")
	}

	switch st.Op {
	case OpAlloc:
		if st.Addr != nil {
			return errors.New("alloc takes no addr")
		}
		if e := st.Expect; e != nil && e.Addr != nil && e.Error != "" {
			return errors.New("expect sets both addr and error")
		}
		if st.Name != "" {
			if named[st.Name] {
				return fmt.Errorf("%q is still allocated; free it before reusing the name", st.Name)
			}
			named[st.Name] = true
		}

	case OpFree:
		if st.Size != 0 {
			return errors.New("free takes no size")
		}
		if (st.Name == "") == (st.Addr == nil) {
			return errors.New("free needs exactly one of name or addr")
		}
		if st.Name != "" {
			if _, seen := named[st.Name]; !seen {
				return fmt.Errorf("free of %q before any alloc names it", st.Name)
			}
			named[st.Name] = false
		}
		if st.Expect != nil && st.Expect.Addr != nil {
			return errors.New("expect.addr only applies to alloc")
		}

	case OpCheck:
		if st.Name != "" || st.Size != 0 || st.Addr != nil {
			return errors.New("check takes only expect")
		}
		if e := st.Expect; e != nil && (e.Addr != nil || e.Error != "") {
			return errors.New("check can only expect available and largest")
		}

	case "":
		return errors.New("missing op")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}
