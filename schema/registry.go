package schema

import (
	"github.com/wippyai/scale-encode/errors"
)

// Registry is an in-memory Resolver built by appending shape definitions.
// Ids are issued sequentially. Building is not synchronized; once built,
// a Registry is immutable in practice and safe for concurrent Resolve
// calls from independent encodes.
type Registry struct {
	shapes  []Shape
	defined []bool
	prims   map[PrimitiveKind]TypeID
	names   map[string]TypeID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		prims: make(map[PrimitiveKind]TypeID),
		names: make(map[string]TypeID),
	}
}

func (r *Registry) add(s Shape) TypeID {
	r.shapes = append(r.shapes, s)
	r.defined = append(r.defined, true)
	id := TypeID(len(r.shapes) - 1)
	debugf("registry: id %d = %s", id, s.Kind)
	return id
}

// Primitive returns the id for a scalar kind, interning repeats.
func (r *Registry) Primitive(p PrimitiveKind) TypeID {
	if id, ok := r.prims[p]; ok {
		return id
	}
	id := r.add(Shape{Kind: KindPrimitive, Primitive: p})
	r.prims[p] = id
	return id
}

// Str returns the id for the string type.
func (r *Registry) Str() TypeID {
	if id, ok := r.names["str"]; ok {
		return id
	}
	id := r.add(Shape{Kind: KindStr})
	r.names["str"] = id
	return id
}

// Void returns the id for the unit type, which encodes to nothing.
func (r *Registry) Void() TypeID {
	if id, ok := r.names["void"]; ok {
		return id
	}
	id := r.add(Shape{Kind: KindVoid})
	r.names["void"] = id
	return id
}

// Compact returns the id for a compact-encoded wrapper around inner.
// Inner must resolve, possibly through single-field wrappers, to an
// unsigned integer primitive; that is checked at encode time.
func (r *Registry) Compact(inner TypeID) TypeID {
	return r.add(Shape{Kind: KindCompact, Elem: inner})
}

// Composite returns the id for a composite with the given ordered fields.
func (r *Registry) Composite(fields ...Field) TypeID {
	return r.add(Shape{Kind: KindComposite, Fields: fields})
}

// Variant returns the id for a variant type with the given cases.
func (r *Registry) Variant(variants ...VariantDef) TypeID {
	return r.add(Shape{Kind: KindVariant, Variants: variants})
}

// Sequence returns the id for a variable-length sequence of elem.
func (r *Registry) Sequence(elem TypeID) TypeID {
	return r.add(Shape{Kind: KindSequence, Elem: elem})
}

// Array returns the id for a fixed-length array of elem.
func (r *Registry) Array(elem TypeID, length uint32) TypeID {
	return r.add(Shape{Kind: KindArray, Elem: elem, Len: length})
}

// Tuple returns the id for a positional list of element types.
func (r *Registry) Tuple(elems ...TypeID) TypeID {
	return r.add(Shape{Kind: KindTuple, Elems: elems})
}

// BitSequence returns the id for a bit sequence with the given packing.
func (r *Registry) BitSequence(order BitOrder, store BitStore) TypeID {
	return r.add(Shape{Kind: KindBitSequence, BitOrder: order, BitStore: store})
}

// Reserve issues an id whose shape is supplied later via Define. This is
// how self-referential types are built.
func (r *Registry) Reserve() TypeID {
	r.shapes = append(r.shapes, Shape{})
	r.defined = append(r.defined, false)
	return TypeID(len(r.shapes) - 1)
}

// Define fills a reserved id with its shape.
func (r *Registry) Define(id TypeID, s Shape) error {
	if int(id) >= len(r.shapes) {
		return errors.New(errors.PhaseSchema, errors.KindCannotResolve).
			Detail("type id %d was never issued", id).
			Build()
	}
	if r.defined[id] {
		return errors.New(errors.PhaseSchema, errors.KindCustom).
			Detail("type id %d is already defined", id).
			Build()
	}
	r.shapes[id] = s
	r.defined[id] = true
	debugf("registry: id %d = %s (deferred)", id, s.Kind)
	return nil
}

// Name assigns a lookup name to an id. Returns an error if the name is
// taken by a different id.
func (r *Registry) Name(id TypeID, name string) error {
	if prev, ok := r.names[name]; ok && prev != id {
		return errors.New(errors.PhaseSchema, errors.KindCustom).
			Detail("type name %q is already bound to id %d", name, prev).
			Build()
	}
	r.names[name] = id
	return nil
}

// Lookup returns the id bound to name, if any.
func (r *Registry) Lookup(name string) (TypeID, bool) {
	id, ok := r.names[name]
	return id, ok
}

// Len returns the number of issued ids, including reserved ones.
func (r *Registry) Len() int {
	return len(r.shapes)
}

// Resolve implements Resolver.
func (r *Registry) Resolve(id TypeID) (Shape, error) {
	if int(id) >= len(r.shapes) {
		return Shape{}, errors.New(errors.PhaseSchema, errors.KindCannotResolve).
			Detail("type id %d is not in this registry", id).
			Build()
	}
	if !r.defined[id] {
		return Shape{}, errors.New(errors.PhaseSchema, errors.KindCannotResolve).
			Detail("type id %d is reserved but never defined", id).
			Build()
	}
	return r.shapes[id], nil
}
