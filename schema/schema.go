package schema

// TypeID is an opaque handle into a Resolver. The engine never interprets
// it beyond passing it back to the resolver that issued it.
type TypeID uint32

// Kind discriminates the closed set of target type shapes.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindCompact
	KindComposite
	KindVariant
	KindSequence
	KindArray
	KindTuple
	KindStr
	KindBitSequence
	KindVoid
)

var kindNames = [...]string{
	KindPrimitive:   "primitive",
	KindCompact:     "compact",
	KindComposite:   "composite",
	KindVariant:     "variant",
	KindSequence:    "sequence",
	KindArray:       "array",
	KindTuple:       "tuple",
	KindStr:         "str",
	KindBitSequence: "bits",
	KindVoid:        "void",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// PrimitiveKind identifies a scalar wire representation.
type PrimitiveKind uint8

const (
	PrimBool PrimitiveKind = iota
	PrimChar
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimU128
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimI128
)

var primitiveNames = [...]string{
	PrimBool: "bool",
	PrimChar: "char",
	PrimU8:   "u8",
	PrimU16:  "u16",
	PrimU32:  "u32",
	PrimU64:  "u64",
	PrimU128: "u128",
	PrimI8:   "i8",
	PrimI16:  "i16",
	PrimI32:  "i32",
	PrimI64:  "i64",
	PrimI128: "i128",
}

func (p PrimitiveKind) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "unknown"
}

// IsUnsigned reports whether p is an unsigned integer kind. Only these may
// sit under a compact wrapper.
func (p PrimitiveKind) IsUnsigned() bool {
	return p >= PrimU8 && p <= PrimU128
}

// IsSigned reports whether p is a signed integer kind.
func (p PrimitiveKind) IsSigned() bool {
	return p >= PrimI8 && p <= PrimI128
}

// BitOrder selects which end of a store unit the first bit occupies.
type BitOrder uint8

const (
	Lsb0 BitOrder = iota
	Msb0
)

func (o BitOrder) String() string {
	if o == Msb0 {
		return "msb0"
	}
	return "lsb0"
}

// BitStore selects the packing unit for a bit sequence.
type BitStore uint8

const (
	StoreU8 BitStore = iota
	StoreU16
	StoreU32
	StoreU64
)

var storeBits = [...]int{StoreU8: 8, StoreU16: 16, StoreU32: 32, StoreU64: 64}

// Bits returns the unit width in bits.
func (s BitStore) Bits() int {
	if int(s) < len(storeBits) {
		return storeBits[s]
	}
	return 8
}

func (s BitStore) String() string {
	switch s {
	case StoreU16:
		return "u16"
	case StoreU32:
		return "u32"
	case StoreU64:
		return "u64"
	default:
		return "u8"
	}
}

// Field is one entry of a composite or variant payload. An empty Name
// marks a positional field. Order is significant and preserved end to end.
type Field struct {
	Name string
	Type TypeID
}

// VariantDef is one case of a variant type. Index is the declared wire
// discriminant and is independent of the case's position in the list.
type VariantDef struct {
	Name   string
	Index  uint8
	Fields []Field
}

// Shape describes one target type. Exactly one shape applies per type id;
// the Kind discriminant selects which of the remaining slots are
// meaningful:
//
//	KindPrimitive    Primitive
//	KindCompact      Elem (the wrapped type)
//	KindComposite    Fields
//	KindVariant      Variants
//	KindSequence     Elem
//	KindArray        Elem, Len
//	KindTuple        Elems
//	KindStr          -
//	KindBitSequence  BitOrder, BitStore
//	KindVoid         -
//
// Shapes are reported by value and are transient: the engine never stores
// one across calls. The slices inside a Shape are owned by the resolver
// and must be treated as read-only.
type Shape struct {
	Kind      Kind
	Primitive PrimitiveKind
	Elem      TypeID
	Len       uint32
	Fields    []Field
	Elems     []TypeID
	Variants  []VariantDef
	BitOrder  BitOrder
	BitStore  BitStore
}

// Resolver reports the shape of a type id. Implementations must be safe
// for concurrent use by independent encode calls and must not retain or
// mutate anything the engine passes in.
type Resolver interface {
	Resolve(id TypeID) (Shape, error)
}
