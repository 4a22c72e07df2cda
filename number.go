package scale

import (
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/wippyai/scale-encode/errors"
	"github.com/wippyai/scale-encode/schema"
)

// number is a source integer normalized for range checks. Magnitudes
// beyond 64 bits carry a big.Int; everything else is a sign flag plus
// magnitude, so MinInt64 needs no special casing downstream.
type number struct {
	neg bool
	mag uint64
	big *big.Int
}

var (
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

func intNumber(v int64) number {
	if v < 0 {
		return number{neg: true, mag: uint64(-(v + 1)) + 1}
	}
	return number{mag: uint64(v)}
}

func uintNumber(v uint64) number {
	return number{mag: v}
}

func bigNumber(v *big.Int) number {
	if v.IsUint64() {
		return number{mag: v.Uint64()}
	}
	if v.IsInt64() {
		return intNumber(v.Int64())
	}
	return number{neg: v.Sign() < 0, big: v}
}

// floatNumber accepts only floats with an exact integer form.
func floatNumber(v float64) (number, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Trunc(v) != v {
		return number{}, false
	}
	bi, _ := big.NewFloat(v).Int(nil)
	return bigNumber(bi), true
}

// asNumber normalizes a Go numeric value for range checking. ok is false
// for floats with no exact integer form.
func asNumber(v any) (number, bool) {
	switch n := v.(type) {
	case int:
		return intNumber(int64(n)), true
	case int8:
		return intNumber(int64(n)), true
	case int16:
		return intNumber(int64(n)), true
	case int32:
		return intNumber(int64(n)), true
	case int64:
		return intNumber(n), true
	case uint:
		return uintNumber(uint64(n)), true
	case uint8:
		return uintNumber(uint64(n)), true
	case uint16:
		return uintNumber(uint64(n)), true
	case uint32:
		return uintNumber(uint64(n)), true
	case uint64:
		return uintNumber(n), true
	case float32:
		return floatNumber(float64(n))
	case float64:
		return floatNumber(n)
	}
	return number{}, false
}

func (n number) fitsUint(width uint) bool {
	if n.neg || n.big != nil {
		return false
	}
	if width >= 64 {
		return true
	}
	return n.mag <= (uint64(1)<<width)-1
}

func (n number) fitsInt(width uint) bool {
	if n.big != nil {
		return false
	}
	limit := uint64(1) << (width - 1)
	if n.neg {
		return n.mag <= limit
	}
	return n.mag <= limit-1
}

// fits reports whether n is representable in the primitive kind p. Only
// integer kinds can return true.
func (n number) fits(p schema.PrimitiveKind) bool {
	switch p {
	case schema.PrimU8:
		return n.fitsUint(8)
	case schema.PrimU16:
		return n.fitsUint(16)
	case schema.PrimU32:
		return n.fitsUint(32)
	case schema.PrimU64:
		return n.fitsUint(64)
	case schema.PrimU128:
		return !n.neg && (n.big == nil || n.big.Cmp(maxU128) <= 0)
	case schema.PrimI8:
		return n.fitsInt(8)
	case schema.PrimI16:
		return n.fitsInt(16)
	case schema.PrimI32:
		return n.fitsInt(32)
	case schema.PrimI64:
		return n.fitsInt(64)
	case schema.PrimI128:
		return n.big == nil || (n.big.Cmp(minI128) >= 0 && n.big.Cmp(maxI128) <= 0)
	}
	return false
}

// int64 returns the value for widths up to 64 bits. Call only after a
// successful fitsInt check.
func (n number) int64() int64 {
	if n.neg {
		return -int64(n.mag-1) - 1
	}
	return int64(n.mag)
}

func (n number) asBig() *big.Int {
	if n.big != nil {
		return n.big
	}
	b := new(big.Int).SetUint64(n.mag)
	if n.neg {
		b.Neg(b)
	}
	return b
}

// encodeNumber routes an integer source against its target: a primitive
// of matching range, a compact wrapper, or an all-fieldless variant whose
// case indices act as enum discriminants.
func (e *encoder) encodeNumber(v any, n number, id schema.TypeID, depth int) error {
	_, shape, err := e.singleEntry(id, depth)
	if err != nil {
		return err
	}
	switch shape.Kind {
	case schema.KindPrimitive:
		return e.writeNumber(v, n, shape.Primitive)
	case schema.KindCompact:
		return e.encodeCompact(v, n, shape.Elem, depth)
	case schema.KindVariant:
		return e.encodeDiscriminant(v, n, shape)
	}
	return wrongTarget(v, shape)
}

func (e *encoder) writeNumber(v any, n number, p schema.PrimitiveKind) error {
	if p == schema.PrimBool {
		return errors.WrongShape(errors.PhaseEncode, v, "bool")
	}
	if p == schema.PrimChar {
		if n.big == nil && !n.neg && n.mag <= uint64(utf8.MaxRune) && utf8.ValidRune(rune(n.mag)) {
			e.w.Char(rune(n.mag))
			return nil
		}
		return errors.NumberOutOfRange(errors.PhaseEncode, v, "char")
	}
	if !n.fits(p) {
		return errors.NumberOutOfRange(errors.PhaseEncode, v, p.String())
	}
	switch p {
	case schema.PrimU8:
		e.w.U8(uint8(n.mag))
	case schema.PrimU16:
		e.w.U16(uint16(n.mag))
	case schema.PrimU32:
		e.w.U32(uint32(n.mag))
	case schema.PrimU64:
		e.w.U64(n.mag)
	case schema.PrimU128:
		e.w.U128(n.asBig())
	case schema.PrimI8:
		e.w.I8(int8(n.int64()))
	case schema.PrimI16:
		e.w.I16(int16(n.int64()))
	case schema.PrimI32:
		e.w.I32(int32(n.int64()))
	case schema.PrimI64:
		e.w.I64(n.int64())
	case schema.PrimI128:
		e.w.I128(n.asBig())
	}
	return nil
}

// encodeCompact writes n in the variable-length encoding after checking
// it against the wrapped inner type, which must reduce to an unsigned
// integer through any single-field wrappers.
func (e *encoder) encodeCompact(v any, n number, inner schema.TypeID, depth int) error {
	_, shape, err := e.singleEntry(inner, depth)
	if err != nil {
		return err
	}
	if shape.Kind != schema.KindPrimitive || !shape.Primitive.IsUnsigned() {
		return errors.New(errors.PhaseEncode, errors.KindWrongShape).
			GoType(fmt.Sprintf("%T", v)).
			Target("compact " + describe(shape)).
			Value(v).
			Detail("compact encoding takes unsigned integers only").
			Build()
	}
	if !n.fits(shape.Primitive) {
		return errors.NumberOutOfRange(errors.PhaseEncode, v, "compact "+shape.Primitive.String())
	}
	if n.big != nil {
		e.w.CompactBig(n.big)
		return nil
	}
	e.w.Compact(n.mag)
	return nil
}

// encodeDiscriminant lets an integer select a case of an all-fieldless
// variant target by declared index, the form enums commonly take in
// dynamic data.
func (e *encoder) encodeDiscriminant(v any, n number, shape schema.Shape) error {
	for i := range shape.Variants {
		if len(shape.Variants[i].Fields) > 0 {
			return errors.WrongShape(errors.PhaseEncode, v, "variant")
		}
	}
	if n.big == nil && !n.neg && n.mag <= math.MaxUint8 {
		idx := uint8(n.mag)
		for i := range shape.Variants {
			if shape.Variants[i].Index == idx {
				e.w.U8(idx)
				return nil
			}
		}
	}
	return errors.New(errors.PhaseEncode, errors.KindCannotFindVariant).
		Target("variant").
		Detail("no case has index %v", v).
		Build()
}
