package schema

import (
	"strings"
	"testing"

	"github.com/wippyai/scale-encode/errors"
)

func TestLoadYAML_Basic(t *testing.T) {
	doc := `
types:
  point:
    composite:
      - {name: x, type: u32}
      - {name: y, type: u32}
  pair: {tuple: [u32, str]}
  hash: {array: {of: u8, len: 32}}
  balance: {compact: u128}
  ids: {sequence: u64}
  flags: {bits: {order: msb0, store: u16}}
  unit: {void: true}
`
	r := NewRegistry()
	if err := r.LoadYAML([]byte(doc)); err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}

	point, ok := r.Lookup("point")
	if !ok {
		t.Fatal("point not registered")
	}
	shape, err := r.Resolve(point)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if shape.Kind != KindComposite || len(shape.Fields) != 2 {
		t.Fatalf("point shape = %+v", shape)
	}
	if shape.Fields[0].Name != "x" || shape.Fields[1].Name != "y" {
		t.Errorf("field names = %q, %q", shape.Fields[0].Name, shape.Fields[1].Name)
	}
	xShape, _ := r.Resolve(shape.Fields[0].Type)
	if xShape.Kind != KindPrimitive || xShape.Primitive != PrimU32 {
		t.Errorf("x type = %+v, want u32", xShape)
	}

	checks := []struct {
		name string
		kind Kind
	}{
		{"pair", KindTuple},
		{"hash", KindArray},
		{"balance", KindCompact},
		{"ids", KindSequence},
		{"flags", KindBitSequence},
		{"unit", KindVoid},
	}
	for _, c := range checks {
		id, ok := r.Lookup(c.name)
		if !ok {
			t.Errorf("%s not registered", c.name)
			continue
		}
		s, err := r.Resolve(id)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if s.Kind != c.kind {
			t.Errorf("%s kind = %v, want %v", c.name, s.Kind, c.kind)
		}
	}

	hash, _ := r.Lookup("hash")
	hs, _ := r.Resolve(hash)
	if hs.Len != 32 {
		t.Errorf("hash len = %d, want 32", hs.Len)
	}
	flags, _ := r.Lookup("flags")
	fs, _ := r.Resolve(flags)
	if fs.BitOrder != Msb0 || fs.BitStore != StoreU16 {
		t.Errorf("flags packing = %v/%v, want msb0/u16", fs.BitOrder, fs.BitStore)
	}
}

func TestLoadYAML_Variant(t *testing.T) {
	doc := `
types:
  outcome:
    variant:
      - {name: Err, fields: [{name: msg, type: str}]}
      - {name: Ok, index: 5, fields: [{name: value, type: u32}]}
      - {name: Unknown}
`
	r := NewRegistry()
	if err := r.LoadYAML([]byte(doc)); err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}

	id, _ := r.Lookup("outcome")
	shape, err := r.Resolve(id)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(shape.Variants) != 3 {
		t.Fatalf("got %d variants, want 3", len(shape.Variants))
	}
	// Omitted index takes the list position, explicit index wins.
	if shape.Variants[0].Index != 0 {
		t.Errorf("Err index = %d, want 0", shape.Variants[0].Index)
	}
	if shape.Variants[1].Index != 5 {
		t.Errorf("Ok index = %d, want 5", shape.Variants[1].Index)
	}
	if shape.Variants[2].Index != 2 || len(shape.Variants[2].Fields) != 0 {
		t.Errorf("Unknown = %+v, want fieldless index 2", shape.Variants[2])
	}
}

func TestLoadYAML_ForwardAndSelfReferences(t *testing.T) {
	doc := `
types:
  tree:
    composite:
      - {name: value, type: u32}
      - {name: children, type: forest}
  forest: {sequence: tree}
`
	r := NewRegistry()
	if err := r.LoadYAML([]byte(doc)); err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}

	tree, _ := r.Lookup("tree")
	forest, _ := r.Lookup("forest")
	ts, err := r.Resolve(tree)
	if err != nil {
		t.Fatalf("Resolve tree: %v", err)
	}
	if ts.Fields[1].Type != forest {
		t.Errorf("tree.children type = %d, want %d", ts.Fields[1].Type, forest)
	}
	fs, err := r.Resolve(forest)
	if err != nil {
		t.Fatalf("Resolve forest: %v", err)
	}
	if fs.Elem != tree {
		t.Errorf("forest elem = %d, want %d", fs.Elem, tree)
	}
}

func TestLoadYAML_Alias(t *testing.T) {
	doc := `
types:
  point:
    composite:
      - {name: x, type: u8}
  coord: {alias: point}
`
	r := NewRegistry()
	if err := r.LoadYAML([]byte(doc)); err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}

	coord, _ := r.Lookup("coord")
	point, _ := r.Lookup("point")
	shape, err := r.Resolve(coord)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if shape.Kind != KindComposite || len(shape.Fields) != 1 || shape.Fields[0].Type != point {
		t.Errorf("alias shape = %+v, want single-field wrapper of point", shape)
	}
}

func TestLoadYAML_SecondLoadSeesEarlierNames(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadYAML([]byte("types:\n  id: {compact: u64}\n")); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := r.LoadYAML([]byte("types:\n  ids: {sequence: id}\n")); err != nil {
		t.Fatalf("second load: %v", err)
	}
	ids, _ := r.Lookup("ids")
	shape, err := r.Resolve(ids)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	id, _ := r.Lookup("id")
	if shape.Elem != id {
		t.Errorf("ids elem = %d, want %d", shape.Elem, id)
	}
}

func TestLoadYAML_Errors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		kind     errors.Kind
		contains string
	}{
		{
			name:     "unknown reference",
			doc:      "types:\n  a: {sequence: nothere}\n",
			kind:     errors.KindCannotResolve,
			contains: "nothere",
		},
		{
			name:     "two shapes in one type",
			doc:      "types:\n  a:\n    sequence: u8\n    compact: u8\n",
			kind:     errors.KindCustom,
			contains: "exactly one shape",
		},
		{
			name:     "empty type",
			doc:      "types:\n  a: {}\n",
			kind:     errors.KindCustom,
			contains: "exactly one shape",
		},
		{
			name:     "reserved name",
			doc:      "types:\n  u8: {void: true}\n",
			kind:     errors.KindCustom,
			contains: "reserved",
		},
		{
			name:     "bad bit order",
			doc:      "types:\n  a: {bits: {order: big, store: u8}}\n",
			kind:     errors.KindUnsupported,
			contains: "bit order",
		},
		{
			name:     "bad bit store",
			doc:      "types:\n  a: {bits: {order: lsb0, store: u12}}\n",
			kind:     errors.KindUnsupported,
			contains: "bit store",
		},
		{
			name:     "unnamed variant case",
			doc:      "types:\n  a:\n    variant:\n      - {index: 0}\n",
			kind:     errors.KindCustom,
			contains: "no name",
		},
		{
			name:     "not yaml",
			doc:      "types: [",
			kind:     errors.KindCustom,
			contains: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.LoadYAML([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.KindOf(err) != tt.kind {
				t.Errorf("kind = %v, want %v (err: %v)", errors.KindOf(err), tt.kind, err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestLoadYAML_DuplicateAcrossLoads(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadYAML([]byte("types:\n  a: {void: true}\n")); err != nil {
		t.Fatalf("first load: %v", err)
	}
	err := r.LoadYAML([]byte("types:\n  a: {sequence: u8}\n"))
	if err == nil {
		t.Fatal("redefining a name in a later load should fail")
	}
	if !strings.Contains(err.Error(), "already defined") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadYAML_FailedLoadRollsBack(t *testing.T) {
	r := NewRegistry()
	u8 := r.Primitive(PrimU8)
	before := r.Len()

	// aa defines cleanly and interns u16 before zz fails on its unknown
	// reference; none of that may survive the failed load.
	doc := `
types:
  aa: {sequence: u16}
  zz: {array: {of: nothere, len: 4}}
`
	err := r.LoadYAML([]byte(doc))
	if errors.KindOf(err) != errors.KindCannotResolve {
		t.Fatalf("kind = %v, want %v (err: %v)", errors.KindOf(err), errors.KindCannotResolve, err)
	}
	if r.Len() != before {
		t.Errorf("registry holds %d ids after failed load, want %d", r.Len(), before)
	}
	for _, name := range []string{"aa", "zz"} {
		if _, ok := r.Lookup(name); ok {
			t.Errorf("name %q still bound after failed load", name)
		}
	}
	if shape, err := r.Resolve(u8); err != nil || shape.Primitive != PrimU8 {
		t.Errorf("pre-load id broken after rollback: %+v, %v", shape, err)
	}
	u16 := r.Primitive(PrimU16)
	if shape, err := r.Resolve(u16); err != nil || shape.Primitive != PrimU16 {
		t.Errorf("re-interned u16 = %+v, %v", shape, err)
	}
}

func TestLoadYAML_CorrectedDocumentAfterFailure(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadYAML([]byte("types:\n  base: {compact: u32}\n")); err != nil {
		t.Fatalf("first load: %v", err)
	}

	err := r.LoadYAML([]byte("types:\n  a: {sequence: nothere}\n"))
	if errors.KindOf(err) != errors.KindCannotResolve {
		t.Fatalf("bad load: kind = %v, want %v", errors.KindOf(err), errors.KindCannotResolve)
	}

	// The same name must be loadable again once the document is fixed.
	if err := r.LoadYAML([]byte("types:\n  a: {sequence: base}\n")); err != nil {
		t.Fatalf("corrected load: %v", err)
	}
	a, ok := r.Lookup("a")
	if !ok {
		t.Fatal("a not registered after corrected load")
	}
	shape, err := r.Resolve(a)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	base, _ := r.Lookup("base")
	if shape.Kind != KindSequence || shape.Elem != base {
		t.Errorf("a shape = %+v, want sequence of base", shape)
	}
}
