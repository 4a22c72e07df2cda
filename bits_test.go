package scale

import (
	"testing"

	"github.com/wippyai/scale-encode/errors"
	"github.com/wippyai/scale-encode/schema"
)

func TestBitsEncode_OrderAndStore(t *testing.T) {
	src := Bits{true, false, true, true}

	tests := []struct {
		name  string
		order schema.BitOrder
		store schema.BitStore
		want  []byte
	}{
		{"lsb0 u8", schema.Lsb0, schema.StoreU8, []byte{0x10, 0x0D}},
		{"msb0 u8", schema.Msb0, schema.StoreU8, []byte{0x10, 0xB0}},
		{"lsb0 u16", schema.Lsb0, schema.StoreU16, []byte{0x10, 0x0D, 0x00}},
		{"msb0 u32", schema.Msb0, schema.StoreU32, []byte{0x10, 0x00, 0x00, 0x00, 0xB0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := schema.NewRegistry()
			id := reg.BitSequence(tt.order, tt.store)
			wantBytes(t, mustEncode(t, src, id, reg), tt.want)
		})
	}
}

func TestBitsEncode_Empty(t *testing.T) {
	reg := schema.NewRegistry()
	id := reg.BitSequence(schema.Lsb0, schema.StoreU8)

	// Just the zero bit count.
	wantBytes(t, mustEncode(t, Bits{}, id, reg), []byte{0x00})
}

func TestBitsEncode_BoolSliceBridge(t *testing.T) {
	reg := schema.NewRegistry()
	id := reg.BitSequence(schema.Lsb0, schema.StoreU8)

	wantBytes(t, mustEncode(t, []bool{true, false, true, true}, id, reg), []byte{0x10, 0x0D})
}

func TestBitsEncode_WrappedTarget(t *testing.T) {
	reg := schema.NewRegistry()
	id := reg.Composite(schema.Field{Name: "flags", Type: reg.BitSequence(schema.Lsb0, schema.StoreU8)})

	wantBytes(t, mustEncode(t, Bits{true}, id, reg), []byte{0x04, 0x01})
}

func TestBitsEncode_WrongTarget(t *testing.T) {
	reg := schema.NewRegistry()

	_, err := Encode(Bits{true}, reg.Primitive(schema.PrimU8), reg)
	wantKind(t, err, errors.KindWrongShape)

	// A bool slice against a plain sequence target stays a sequence.
	seq := reg.Sequence(reg.Primitive(schema.PrimBool))
	wantBytes(t, mustEncode(t, []bool{true, false}, seq, reg), []byte{0x08, 0x01, 0x00})
}
