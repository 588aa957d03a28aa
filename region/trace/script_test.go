package trace

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/vramkit/region/alloc"
)

const small = `
geometry: {size: 2048, block_size: 512}
steps:
  - {op: alloc, name: a, size: 700, expect: {addr: 0x04000000}}
  - {op: free, name: a}
  - {op: check, expect: {available: 2048}}
`

func u32(v uint32) *uint32 { return &v }

func TestDecode(t *testing.T) {
	s, err := Decode(strings.NewReader(small))
	require.NoError(t, err)

	want := &Script{
		Geometry: &Geometry{Size: 2048, BlockSize: 512},
		Steps: []Step{
			{Op: OpAlloc, Name: "a", Size: 700, Expect: &Expect{Addr: u32(0x04000000)}},
			{Op: OpFree, Name: "a"},
			{Op: OpCheck, Expect: &Expect{Available: u32(2048)}},
		},
	}
	require.Empty(t, cmp.Diff(want, s))
}

func TestDecode_ByteOrderMarks(t *testing.T) {
	tests := []struct {
		name string
		enc  func(string) (string, error)
	}{
		{"utf8 bom", func(s string) (string, error) { return "\xEF\xBB\xBF" + s, nil }},
		{"utf16le bom", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String},
		{"utf16be bom", unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String},
	}

	plain, err := Decode(strings.NewReader(small))
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := tt.enc(small)
			require.NoError(t, err)
			s, err := Decode(strings.NewReader(encoded))
			require.NoError(t, err)
			require.Empty(t, cmp.Diff(plain, s))
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmpty)
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader("steps:\n  - {op: alloc, size: 1, colour: red}\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "colour")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"no steps", "strict: true\n", "no steps"},
		{"missing op", "steps: [{size: 1}]", "missing op"},
		{"unknown op", "steps: [{op: realloc}]", `unknown op "realloc"`},
		{"unknown error", "steps: [{op: alloc, size: 1, expect: {error: oom}}]", `unknown error name "oom"`},
		{"alloc with addr", "steps: [{op: alloc, addr: 1}]", "alloc takes no addr"},
		{"addr and error", "steps: [{op: alloc, size: 1, expect: {addr: 1, error: no_space}}]", "both addr and error"},
		{"free without target", "steps: [{op: free}]", "exactly one of name or addr"},
		{"free with both", "steps: [{op: alloc, name: a, size: 1}, {op: free, name: a, addr: 1}]", "exactly one of name or addr"},
		{"free unknown name", "steps: [{op: free, name: a}]", `free of "a" before any alloc`},
		{"free with size", "steps: [{op: free, addr: 1, size: 2}]", "free takes no size"},
		{"free expects addr", "steps: [{op: free, addr: 1, expect: {addr: 1}}]", "expect.addr only applies to alloc"},
		{"largest on alloc", "steps: [{op: alloc, size: 1, expect: {largest: 1}}]", "expect.largest only applies to check"},
		{"rebind live name", "steps: [{op: alloc, name: a, size: 1}, {op: alloc, name: a, size: 1}]", `"a" is still allocated`},
		{"check with name", "steps: [{op: check, name: a}]", "check takes only expect"},
		{"check expects error", "steps: [{op: check, expect: {error: no_space}}]", "check can only expect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, ErrInvalidScript)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestScript_Region(t *testing.T) {
	def := alloc.DefaultGeometry()

	s := &Script{}
	require.Equal(t, def, s.Region(def))

	s.Geometry = &Geometry{Size: 4096}
	require.Equal(t, alloc.Geometry{Base: def.Base, Size: 4096, BlockSize: def.BlockSize}, s.Region(def))

	s.Geometry = &Geometry{Base: 0x1000, Size: 0x800, BlockSize: 256}
	require.Equal(t, alloc.Geometry{Base: 0x1000, Size: 0x800, BlockSize: 256}, s.Region(def))
}

func TestDecodeFile(t *testing.T) {
	s, err := DecodeFile("testdata/walkthrough.yaml")
	require.NoError(t, err)
	require.True(t, s.Strict)
	require.Len(t, s.Steps, 9)

	_, err = DecodeFile("testdata/missing.yaml")
	require.Error(t, err)
}

func TestValidate_NameReusableAfterFree(t *testing.T) {
	_, err := Decode(strings.NewReader(`
steps:
  - {op: alloc, name: a, size: 512}
  - {op: free, name: a}
  - {op: alloc, name: a, size: 1024}
  - {op: free, name: a}
  - {op: free, name: a}
`))
	require.NoError(t, err)
}
