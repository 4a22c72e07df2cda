package scale

import (
	"github.com/wippyai/scale-encode/schema"
	"github.com/wippyai/scale-encode/wire"
)

// DefaultMaxDepth bounds type graph recursion per encode call. Wrapper
// chains and nested values both count against it.
const DefaultMaxDepth = 1024

// Encodable lets a value supply its own complete encoding for a target
// type. The dispatch core offers the hook to any value that is not one of
// the built-in source forms and treats the outcome as final.
type Encodable interface {
	EncodeAsType(id schema.TypeID, types schema.Resolver, w *wire.Writer) error
}

// FieldsEncodable is the contract for natively field-bearing values: an
// encoding against an ordered target field list rather than a single
// target type. EncodeFields prefers this hook over reflection.
type FieldsEncodable interface {
	EncodeAsFields(fields []schema.Field, types schema.Resolver, w *wire.Writer) error
}

// Option adjusts the behavior of one encode call.
type Option func(*options)

type options struct {
	maxDepth int
}

// WithMaxDepth overrides the recursion bound that guards against
// self-referential type graphs. Values below one are ignored.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Encode returns the SCALE bytes of v encoded as the target type id.
func Encode(v any, id schema.TypeID, types schema.Resolver, opts ...Option) ([]byte, error) {
	w := getWriter()
	defer putWriter(w)

	if err := EncodeTo(v, id, types, w, opts...); err != nil {
		return nil, err
	}
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// EncodeTo encodes v as the target type id, appending to w. On error the
// writer may hold a partial encoding and should be discarded or reset.
func EncodeTo(v any, id schema.TypeID, types schema.Resolver, w *wire.Writer, opts ...Option) error {
	debugf("encode: %T value as type %d", v, id)
	e := &encoder{types: types, w: w, maxDepth: buildOptions(opts).maxDepth}
	return e.encodeValue(v, id, 0)
}

// EncodeFields returns the SCALE bytes of a field-bearing value v encoded
// against the target field list, without a length prefix or any other
// wrapping. This is the shape extrinsic call data and events use, where
// the field list comes from the enclosing definition rather than from a
// standalone type id.
func EncodeFields(v any, fields []schema.Field, types schema.Resolver, opts ...Option) ([]byte, error) {
	w := getWriter()
	defer putWriter(w)

	if err := EncodeFieldsTo(v, fields, types, w, opts...); err != nil {
		return nil, err
	}
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// EncodeFieldsTo encodes a field-bearing value v against the target field
// list, appending to w. A value qualifies by being a Composite, by
// implementing FieldsEncodable, or by reducing to fields through
// reflection, which covers structs and string-keyed maps.
func EncodeFieldsTo(v any, fields []schema.Field, types schema.Resolver, w *wire.Writer, opts ...Option) error {
	debugf("encode fields: %T value against %d fields", v, len(fields))
	e := &encoder{types: types, w: w, maxDepth: buildOptions(opts).maxDepth}
	return e.encodeValueFields(v, fields, 0)
}
