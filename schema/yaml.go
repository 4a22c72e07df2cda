package schema

import (
	"sort"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/wippyai/scale-encode/errors"
)

// LoadYAML registers the types declared in a YAML document. The document
// is a "types" mapping from name to a single-key shape node:
//
//	types:
//	  point:
//	    composite:
//	      - {name: x, type: u32}
//	      - {name: y, type: u32}
//	  pair: {tuple: [u32, str]}
//	  hash: {array: {of: u8, len: 32}}
//	  balance: {compact: u128}
//	  ids: {sequence: u64}
//	  flags: {bits: {order: lsb0, store: u8}}
//	  unit: {void: true}
//	  coord: {alias: point}
//	  shape:
//	    variant:
//	      - {name: Circle, index: 0, fields: [{name: radius, type: u32}]}
//	      - {name: Rect, index: 1, fields: [{name: w, type: u32}, {name: h, type: u32}]}
//
// A type reference is a primitive name (bool, char, str, void, u8..u128,
// i8..i128) or a name declared in the same registry, including names from
// earlier LoadYAML calls. Declarations may reference each other in any
// order, and may reference themselves. An alias defines a single-field
// wrapper, which encodes identically to its target. Variant cases with no
// explicit index take their position in the list.
func (r *Registry) LoadYAML(data []byte) error {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.New(errors.PhaseSchema, errors.KindCustom).
			Detail("parse type document").
			Cause(err).
			Build()
	}

	// Reserve ids for every declared name first so definitions can refer
	// to each other regardless of order. Names are sorted to keep id
	// assignment deterministic across loads of the same document.
	names := make([]string, 0, len(doc.Types))
	for name := range doc.Types {
		if _, reserved := primitiveRefs[name]; reserved || name == "str" || name == "void" {
			return errors.New(errors.PhaseSchema, errors.KindCustom).
				Detail("type name %q is reserved for a builtin", name).
				Build()
		}
		if _, exists := r.names[name]; exists {
			return errors.New(errors.PhaseSchema, errors.KindCustom).
				Detail("type name %q is already defined", name).
				Build()
		}
		names = append(names, name)
	}
	sort.Strings(names)

	// Everything a load adds sits at the tail of the id space, so a failed
	// load can be undone by truncating back to the pre-load length.
	mark := r.Len()
	for _, name := range names {
		id := r.Reserve()
		r.names[name] = id
	}

	for _, name := range names {
		shape, err := r.buildYAMLShape(name, doc.Types[name])
		if err != nil {
			r.rollback(mark)
			return err
		}
		if err := r.Define(r.names[name], shape); err != nil {
			r.rollback(mark)
			return err
		}
	}

	Logger().Debug("loaded type document",
		zap.Int("types", len(names)),
		zap.Int("registry_size", r.Len()),
	)
	return nil
}

// rollback discards every id issued at or after mark along with any name
// or primitive binding that points at one, restoring the registry to its
// state before the failed load so a corrected document can be loaded on
// the same registry.
func (r *Registry) rollback(mark int) {
	r.shapes = r.shapes[:mark]
	r.defined = r.defined[:mark]
	for name, id := range r.names {
		if int(id) >= mark {
			delete(r.names, name)
		}
	}
	for p, id := range r.prims {
		if int(id) >= mark {
			delete(r.prims, p)
		}
	}
}

type yamlDoc struct {
	Types map[string]yamlType `yaml:"types"`
}

type yamlType struct {
	Composite []yamlField   `yaml:"composite"`
	Variant   []yamlVariant `yaml:"variant"`
	Sequence  string        `yaml:"sequence"`
	Array     *yamlArray    `yaml:"array"`
	Tuple     []string      `yaml:"tuple"`
	Compact   string        `yaml:"compact"`
	Bits      *yamlBits     `yaml:"bits"`
	Alias     string        `yaml:"alias"`
	Void      bool          `yaml:"void"`
}

type yamlField struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type yamlVariant struct {
	Name   string      `yaml:"name"`
	Index  *uint8      `yaml:"index"`
	Fields []yamlField `yaml:"fields"`
}

type yamlArray struct {
	Of  string `yaml:"of"`
	Len uint32 `yaml:"len"`
}

type yamlBits struct {
	Order string `yaml:"order"`
	Store string `yaml:"store"`
}

func (r *Registry) buildYAMLShape(name string, t yamlType) (Shape, error) {
	declared := 0
	if t.Composite != nil {
		declared++
	}
	if t.Variant != nil {
		declared++
	}
	if t.Sequence != "" {
		declared++
	}
	if t.Array != nil {
		declared++
	}
	if t.Tuple != nil {
		declared++
	}
	if t.Compact != "" {
		declared++
	}
	if t.Bits != nil {
		declared++
	}
	if t.Alias != "" {
		declared++
	}
	if t.Void {
		declared++
	}
	if declared != 1 {
		return Shape{}, errors.New(errors.PhaseSchema, errors.KindCustom).
			Detail("type %q must declare exactly one shape, found %d", name, declared).
			Build()
	}

	switch {
	case t.Composite != nil:
		fields, err := r.yamlFields(name, t.Composite)
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: KindComposite, Fields: fields}, nil

	case t.Variant != nil:
		variants := make([]VariantDef, 0, len(t.Variant))
		for i, v := range t.Variant {
			if v.Name == "" {
				return Shape{}, errors.New(errors.PhaseSchema, errors.KindCustom).
					Detail("type %q: variant case %d has no name", name, i).
					Build()
			}
			index := uint8(i)
			if v.Index != nil {
				index = *v.Index
			} else if i > 255 {
				return Shape{}, errors.New(errors.PhaseSchema, errors.KindUnsupported).
					Detail("type %q: more than 256 variant cases need explicit indexes", name).
					Build()
			}
			fields, err := r.yamlFields(name, v.Fields)
			if err != nil {
				return Shape{}, err
			}
			variants = append(variants, VariantDef{Name: v.Name, Index: index, Fields: fields})
		}
		return Shape{Kind: KindVariant, Variants: variants}, nil

	case t.Sequence != "":
		elem, err := r.resolveRef(name, t.Sequence)
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: KindSequence, Elem: elem}, nil

	case t.Array != nil:
		elem, err := r.resolveRef(name, t.Array.Of)
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: KindArray, Elem: elem, Len: t.Array.Len}, nil

	case t.Tuple != nil:
		elems := make([]TypeID, 0, len(t.Tuple))
		for _, ref := range t.Tuple {
			id, err := r.resolveRef(name, ref)
			if err != nil {
				return Shape{}, err
			}
			elems = append(elems, id)
		}
		return Shape{Kind: KindTuple, Elems: elems}, nil

	case t.Compact != "":
		inner, err := r.resolveRef(name, t.Compact)
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: KindCompact, Elem: inner}, nil

	case t.Bits != nil:
		order, err := parseBitOrder(name, t.Bits.Order)
		if err != nil {
			return Shape{}, err
		}
		store, err := parseBitStore(name, t.Bits.Store)
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: KindBitSequence, BitOrder: order, BitStore: store}, nil

	case t.Alias != "":
		target, err := r.resolveRef(name, t.Alias)
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: KindComposite, Fields: []Field{{Type: target}}}, nil

	default:
		return Shape{Kind: KindVoid}, nil
	}
}

func (r *Registry) yamlFields(typeName string, in []yamlField) ([]Field, error) {
	fields := make([]Field, 0, len(in))
	for i, f := range in {
		if f.Type == "" {
			return nil, errors.New(errors.PhaseSchema, errors.KindCustom).
				Detail("type %q: field %d has no type", typeName, i).
				Build()
		}
		id, err := r.resolveRef(typeName, f.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: f.Name, Type: id})
	}
	return fields, nil
}

var primitiveRefs = map[string]PrimitiveKind{
	"bool": PrimBool, "char": PrimChar,
	"u8": PrimU8, "u16": PrimU16, "u32": PrimU32, "u64": PrimU64, "u128": PrimU128,
	"i8": PrimI8, "i16": PrimI16, "i32": PrimI32, "i64": PrimI64, "i128": PrimI128,
}

func (r *Registry) resolveRef(typeName, ref string) (TypeID, error) {
	if id, ok := r.names[ref]; ok {
		return id, nil
	}
	if p, ok := primitiveRefs[ref]; ok {
		return r.Primitive(p), nil
	}
	switch ref {
	case "str":
		return r.Str(), nil
	case "void":
		return r.Void(), nil
	}
	return 0, errors.New(errors.PhaseSchema, errors.KindCannotResolve).
		Detail("type %q refers to unknown type %q", typeName, ref).
		Build()
}

func parseBitOrder(typeName, s string) (BitOrder, error) {
	switch s {
	case "", "lsb0":
		return Lsb0, nil
	case "msb0":
		return Msb0, nil
	}
	return Lsb0, errors.New(errors.PhaseSchema, errors.KindUnsupported).
		Detail("type %q: bit order %q (want lsb0 or msb0)", typeName, s).
		Build()
}

func parseBitStore(typeName, s string) (BitStore, error) {
	switch s {
	case "", "u8":
		return StoreU8, nil
	case "u16":
		return StoreU16, nil
	case "u32":
		return StoreU32, nil
	case "u64":
		return StoreU64, nil
	}
	return StoreU8, errors.New(errors.PhaseSchema, errors.KindUnsupported).
		Detail("type %q: bit store %q (want u8, u16, u32 or u64)", typeName, s).
		Build()
}
