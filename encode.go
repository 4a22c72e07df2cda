package scale

import (
	"fmt"
	"math/big"
	"reflect"
	"time"
	"unicode/utf8"

	"github.com/wippyai/scale-encode/errors"
	"github.com/wippyai/scale-encode/schema"
	"github.com/wippyai/scale-encode/wire"
)

// encoder carries the state of one encode call. It is created per call and
// never shared; the writer and resolver are caller-owned.
type encoder struct {
	types    schema.Resolver
	w        *wire.Writer
	maxDepth int
}

// encodeValue routes one source value against one target type. Built-in
// source forms dispatch directly; any other value is offered its Encodable
// hook before falling back to reflection.
func (e *encoder) encodeValue(v any, id schema.TypeID, depth int) error {
	if depth > e.maxDepth {
		return errors.RecursionLimit(errors.PhaseEncode, e.maxDepth)
	}

	switch val := v.(type) {
	case nil:
		return e.encodeNil(id, depth)
	case Composite:
		return e.encodeComposite(val, id, depth)
	case Variant:
		return e.encodeVariant(val, id, depth)
	case Bits:
		return e.encodeBits(val, id, depth)
	case bool:
		return e.encodeBool(val, id, depth)
	case string:
		return e.encodeString(val, id, depth)
	case *big.Int:
		if val == nil {
			return e.encodeNil(id, depth)
		}
		return e.encodeNumber(val, bigNumber(val), id, depth)
	case time.Duration:
		// whole seconds then the subsecond remainder in nanos, lined up
		// against the target's two fields
		return e.encodeComposite(Tuple(int64(val/time.Second), int64(val%time.Second)), id, depth)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		n, ok := asNumber(val)
		if !ok {
			return errors.New(errors.PhaseEncode, errors.KindNumberOutOfRange).
				GoType(fmt.Sprintf("%T", val)).
				Value(val).
				Detail("%v is not an integral number", val).
				Build()
		}
		return e.encodeNumber(val, n, id, depth)
	}

	if enc, ok := v.(Encodable); ok {
		if err := enc.EncodeAsType(id, e.types, e.w); err != nil {
			return customErr(err)
		}
		return nil
	}

	return e.encodeReflect(reflect.ValueOf(v), id, depth)
}

// encodeValueFields is the field-list twin of encodeValue, backing the
// EncodeFields entry points.
func (e *encoder) encodeValueFields(v any, targets []schema.Field, depth int) error {
	switch val := v.(type) {
	case nil:
		return e.encodeFields(nil, targets, depth)
	case Composite:
		return e.encodeFields(val.effective(), targets, depth)
	}

	if fe, ok := v.(FieldsEncodable); ok {
		if err := fe.EncodeAsFields(targets, e.types, e.w); err != nil {
			return customErr(err)
		}
		return nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			break
		}
		rv = rv.Elem()
	}
	switch {
	case rv.Kind() == reflect.Struct:
		return e.encodeFields(structComposite(rv), targets, depth)
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		return e.encodeFields(mapComposite(rv), targets, depth)
	}
	return errors.New(errors.PhaseEncode, errors.KindWrongShape).
		GoType(fmt.Sprintf("%T", v)).
		Value(v).
		Detail("value does not expose fields").
		Build()
}

// resolve asks the resolver for a shape, wrapping failures.
func (e *encoder) resolve(id schema.TypeID) (schema.Shape, error) {
	shape, err := e.types.Resolve(id)
	if err != nil {
		return schema.Shape{}, errors.CannotResolve(errors.PhaseEncode, uint32(id), err)
	}
	return shape, nil
}

// singleEntry resolves id and steps through any chain of one-field
// composites and one-element tuples, returning the innermost type that
// shares the outer type's wire representation. Wrapper chains longer than
// the remaining depth budget are treated as self-referential.
func (e *encoder) singleEntry(id schema.TypeID, depth int) (schema.TypeID, schema.Shape, error) {
	for hops := depth; ; hops++ {
		if hops > e.maxDepth {
			return id, schema.Shape{}, errors.RecursionLimit(errors.PhaseEncode, e.maxDepth)
		}
		shape, err := e.resolve(id)
		if err != nil {
			return id, schema.Shape{}, err
		}
		switch {
		case shape.Kind == schema.KindComposite && len(shape.Fields) == 1:
			id = shape.Fields[0].Type
		case shape.Kind == schema.KindTuple && len(shape.Elems) == 1:
			id = shape.Elems[0]
		default:
			return id, shape, nil
		}
	}
}

// encodeNil handles untyped nil and nil pointers that reach the dispatch
// with no element to follow. Unit-like targets encode to nothing; an
// optional target takes its None case.
func (e *encoder) encodeNil(id schema.TypeID, depth int) error {
	tid, shape, err := e.singleEntry(id, depth)
	if err != nil {
		return err
	}
	switch shape.Kind {
	case schema.KindVoid:
		return nil
	case schema.KindComposite:
		if len(shape.Fields) == 0 {
			return nil
		}
	case schema.KindTuple:
		if len(shape.Elems) == 0 {
			return nil
		}
	case schema.KindVariant:
		if hasVariant(shape.Variants, "None") {
			return e.encodeVariant(Variant{Name: "None"}, tid, depth)
		}
	}
	return errors.WrongShape(errors.PhaseEncode, nil, describe(shape))
}

func (e *encoder) encodeBool(v bool, id schema.TypeID, depth int) error {
	_, shape, err := e.singleEntry(id, depth)
	if err != nil {
		return err
	}
	if shape.Kind == schema.KindPrimitive && shape.Primitive == schema.PrimBool {
		e.w.Bool(v)
		return nil
	}
	return wrongTarget(v, shape)
}

func (e *encoder) encodeString(s string, id schema.TypeID, depth int) error {
	_, shape, err := e.singleEntry(id, depth)
	if err != nil {
		return err
	}
	switch {
	case shape.Kind == schema.KindStr:
		if !utf8.ValidString(s) {
			return errors.New(errors.PhaseEncode, errors.KindWrongShape).
				GoType("string").
				Target("str").
				Value(s).
				Detail("string is not valid UTF-8").
				Build()
		}
		e.w.Str(s)
		return nil
	case shape.Kind == schema.KindPrimitive && shape.Primitive == schema.PrimChar:
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || (r == utf8.RuneError && size == 1) {
			return errors.New(errors.PhaseEncode, errors.KindWrongShape).
				GoType("string").
				Target("char").
				Value(s).
				Detail("char target needs exactly one rune").
				Build()
		}
		e.w.Char(r)
		return nil
	}
	return wrongTarget(s, shape)
}

// describe renders a target shape for error messages.
func describe(s schema.Shape) string {
	switch s.Kind {
	case schema.KindPrimitive:
		return s.Primitive.String()
	case schema.KindArray:
		return fmt.Sprintf("array of %d", s.Len)
	default:
		return s.Kind.String()
	}
}

// wrongTarget builds the error for a source that cannot meet shape. A void
// target has no encoding at all, which reports as unsupported rather than
// as a shape mismatch.
func wrongTarget(v any, shape schema.Shape) error {
	if shape.Kind == schema.KindVoid {
		return errors.Unsupported(errors.PhaseEncode, fmt.Sprintf("void target for %T value", v))
	}
	return errors.WrongShape(errors.PhaseEncode, v, describe(shape))
}

// customErr keeps structured errors from hooks intact and wraps anything
// else as a custom encoding failure.
func customErr(err error) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.Custom(errors.PhaseEncode, err, "")
}
