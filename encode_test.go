package scale

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/wippyai/scale-encode/errors"
	"github.com/wippyai/scale-encode/schema"
	"github.com/wippyai/scale-encode/wire"
)

func mustEncode(t *testing.T, v any, id schema.TypeID, types schema.Resolver) []byte {
	t.Helper()
	got, err := Encode(v, id, types)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return got
}

func wantKind(t *testing.T, err error, kind errors.Kind) *errors.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("want %s error, got nil", kind)
	}
	e, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("error type = %T, want *errors.Error (%v)", err, err)
	}
	if e.Kind != kind {
		t.Fatalf("error kind = %s, want %s (%v)", e.Kind, kind, err)
	}
	return e
}

func wantBytes(t *testing.T, got, want []byte) {
	t.Helper()
	if !bytes.Equal(got, want) {
		t.Errorf("encoded bytes = %x, want %x", got, want)
	}
}

func TestEncode_Primitives(t *testing.T) {
	reg := schema.NewRegistry()

	tests := []struct {
		value any
		name  string
		id    schema.TypeID
		want  []byte
	}{
		{true, "bool true", reg.Primitive(schema.PrimBool), []byte{0x01}},
		{false, "bool false", reg.Primitive(schema.PrimBool), []byte{0x00}},
		{uint8(7), "u8", reg.Primitive(schema.PrimU8), []byte{0x07}},
		{uint32(7), "u32", reg.Primitive(schema.PrimU32), []byte{0x07, 0x00, 0x00, 0x00}},
		{int16(-2), "i16", reg.Primitive(schema.PrimI16), []byte{0xFE, 0xFF}},
		{int(1), "int as u64", reg.Primitive(schema.PrimU64), []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"hi", "str", reg.Str(), []byte{0x08, 'h', 'i'}},
		{"A", "one-rune string as char", reg.Primitive(schema.PrimChar), []byte{0x41, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantBytes(t, mustEncode(t, tt.value, tt.id, reg), tt.want)
		})
	}
}

func TestEncode_StrRejectsInvalidUTF8(t *testing.T) {
	reg := schema.NewRegistry()
	str := reg.Str()

	// Multibyte text passes through byte for byte.
	wantBytes(t, mustEncode(t, "café", str, reg), []byte{0x14, 'c', 'a', 'f', 0xC3, 0xA9})

	_, err := Encode("ok\xff", str, reg)
	wantKind(t, err, errors.KindWrongShape)
}

func TestEncode_CrossTypeTargets(t *testing.T) {
	// The same Go value produces different bytes under different targets.
	reg := schema.NewRegistry()
	u8 := reg.Primitive(schema.PrimU8)
	u32 := reg.Primitive(schema.PrimU32)
	compact := reg.Compact(reg.Primitive(schema.PrimU64))

	v := uint16(63)
	wantBytes(t, mustEncode(t, v, u8, reg), []byte{63})
	wantBytes(t, mustEncode(t, v, u32, reg), []byte{63, 0, 0, 0})
	wantBytes(t, mustEncode(t, v, compact, reg), []byte{63 << 2})
}

func TestEncode_WrapperTargetTransparency(t *testing.T) {
	reg := schema.NewRegistry()
	boolID := reg.Primitive(schema.PrimBool)
	wrapped := reg.Composite(schema.Field{Type: boolID})
	doubly := reg.Tuple(reg.Composite(schema.Field{Name: "inner", Type: wrapped}))

	// A plain bool satisfies a chain of one-field wrappers.
	wantBytes(t, mustEncode(t, true, wrapped, reg), []byte{0x01})
	wantBytes(t, mustEncode(t, true, doubly, reg), []byte{0x01})

	// A one-field composite source unwraps the same way.
	src := Composite{{Name: "x", Value: true}}
	wantBytes(t, mustEncode(t, src, wrapped, reg), []byte{0x01})
	wantBytes(t, mustEncode(t, src, doubly, reg), []byte{0x01})
}

func TestEncode_NilTargets(t *testing.T) {
	reg := schema.NewRegistry()
	voidID := reg.Void()
	emptyComposite := reg.Composite()
	emptyTuple := reg.Tuple()
	option := reg.Variant(
		schema.VariantDef{Name: "None", Index: 0},
		schema.VariantDef{Name: "Some", Index: 1, Fields: []schema.Field{{Type: reg.Primitive(schema.PrimU8)}}},
	)

	tests := []struct {
		name string
		id   schema.TypeID
		want []byte
	}{
		{"void", voidID, []byte{}},
		{"empty composite", emptyComposite, []byte{}},
		{"empty tuple", emptyTuple, []byte{}},
		{"option none", option, []byte{0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantBytes(t, mustEncode(t, nil, tt.id, reg), tt.want)
		})
	}

	_, err := Encode(nil, reg.Primitive(schema.PrimU8), reg)
	wantKind(t, err, errors.KindWrongShape)
}

func TestEncode_VoidTargetRejectsValues(t *testing.T) {
	reg := schema.NewRegistry()
	voidID := reg.Void()

	wantBytes(t, mustEncode(t, Composite{}, voidID, reg), []byte{})

	_, err := Encode(uint8(1), voidID, reg)
	wantKind(t, err, errors.KindUnsupported)
}

func TestEncode_SelfReferentialType(t *testing.T) {
	reg := schema.NewRegistry()
	self := reg.Reserve()
	if err := reg.Define(self, schema.Shape{
		Kind:   schema.KindComposite,
		Fields: []schema.Field{{Name: "next", Type: self}},
	}); err != nil {
		t.Fatalf("Define: %v", err)
	}

	_, err := Encode(true, self, reg)
	wantKind(t, err, errors.KindRecursionLimit)
}

func TestEncode_MaxDepthOption(t *testing.T) {
	reg := schema.NewRegistry()
	id := reg.Primitive(schema.PrimBool)
	for i := 0; i < 8; i++ {
		id = reg.Composite(schema.Field{Type: id})
	}

	if _, err := Encode(true, id, reg); err != nil {
		t.Fatalf("default depth: %v", err)
	}

	_, err := Encode(true, id, reg, WithMaxDepth(4))
	wantKind(t, err, errors.KindRecursionLimit)
}

func TestEncode_UnknownTypeID(t *testing.T) {
	reg := schema.NewRegistry()
	_, err := Encode(true, schema.TypeID(999), reg)
	wantKind(t, err, errors.KindCannotResolve)
}

type stampValue struct {
	Ignored uint8
}

func (stampValue) EncodeAsType(id schema.TypeID, types schema.Resolver, w *wire.Writer) error {
	w.U8(0xAA)
	return nil
}

type failingValue struct{}

func (failingValue) EncodeAsType(id schema.TypeID, types schema.Resolver, w *wire.Writer) error {
	return fmt.Errorf("no encoding today")
}

func TestEncode_CustomHook(t *testing.T) {
	reg := schema.NewRegistry()
	u8 := reg.Primitive(schema.PrimU8)

	// The hook wins over the struct's reflected fields.
	wantBytes(t, mustEncode(t, stampValue{Ignored: 3}, u8, reg), []byte{0xAA})

	_, err := Encode(failingValue{}, u8, reg)
	wantKind(t, err, errors.KindCustom)
}

func TestEncodeTo_AppendsToWriter(t *testing.T) {
	reg := schema.NewRegistry()
	u8 := reg.Primitive(schema.PrimU8)

	w := wire.NewWriter()
	w.U8(0xFF)
	if err := EncodeTo(uint8(1), u8, reg, w); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	wantBytes(t, w.Bytes(), []byte{0xFF, 0x01})
}

func TestEncode_ConcurrentCalls(t *testing.T) {
	reg := schema.NewRegistry()
	pair := reg.Composite(
		schema.Field{Name: "a", Type: reg.Primitive(schema.PrimU8)},
		schema.Field{Name: "b", Type: reg.Str()},
	)

	type pairValue struct {
		A uint8  `scale:"a"`
		B string `scale:"b"`
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n uint8) {
			defer wg.Done()
			got, err := Encode(pairValue{A: n, B: "x"}, pair, reg)
			if err != nil {
				t.Errorf("Encode(%d): %v", n, err)
				return
			}
			want := []byte{n, 0x04, 'x'}
			if !bytes.Equal(got, want) {
				t.Errorf("Encode(%d) = %x, want %x", n, got, want)
			}
		}(uint8(i))
	}
	wg.Wait()
}
