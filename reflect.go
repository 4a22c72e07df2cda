package scale

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/wippyai/scale-encode/errors"
	"github.com/wippyai/scale-encode/schema"
)

// encodeReflect normalizes an arbitrary Go value into one of the built-in
// source forms and re-enters the dispatch. Named types land here when the
// exact-type switch misses them.
func (e *encoder) encodeReflect(rv reflect.Value, id schema.TypeID, depth int) error {
	if !rv.IsValid() {
		return e.encodeNil(id, depth)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return e.encodeBool(rv.Bool(), id, depth)
	case reflect.String:
		return e.encodeString(rv.String(), id, depth)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.encodeNumber(rv.Interface(), intNumber(rv.Int()), id, depth)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.encodeNumber(rv.Interface(), uintNumber(rv.Uint()), id, depth)
	case reflect.Float32, reflect.Float64:
		n, ok := floatNumber(rv.Float())
		if !ok {
			return errors.New(errors.PhaseEncode, errors.KindNumberOutOfRange).
				GoType(rv.Type().String()).
				Value(rv.Interface()).
				Detail("%v is not an integral number", rv.Float()).
				Build()
		}
		return e.encodeNumber(rv.Interface(), n, id, depth)
	case reflect.Struct:
		return e.encodeComposite(structComposite(rv), id, depth)
	case reflect.Map:
		return e.encodeMap(rv, id, depth)
	case reflect.Slice, reflect.Array:
		return e.encodeSeq(rv, id, depth)
	case reflect.Pointer:
		return e.encodePointer(rv, id, depth)
	case reflect.Interface:
		if rv.IsNil() {
			return e.encodeNil(id, depth)
		}
		return e.encodeValue(rv.Elem().Interface(), id, depth)
	}

	_, shape, err := e.singleEntry(id, depth)
	if err != nil {
		return err
	}
	return errors.New(errors.PhaseEncode, errors.KindWrongShape).
		GoType(rv.Type().String()).
		Target(describe(shape)).
		Detail("Go kind %s has no encodable form", rv.Kind()).
		Build()
}

type structPlan struct {
	fields []planField
}

type planField struct {
	name  string
	index int
}

// struct plan cache, keyed by reflect.Type
var structPlans sync.Map

// planFor builds or fetches the field plan for a struct type. Unexported
// and tag-skipped fields are left out; names honor the scale tag and
// default to snake_case of the Go name.
func planFor(t reflect.Type) *structPlan {
	if cached, ok := structPlans.Load(t); ok {
		return cached.(*structPlan)
	}

	plan := &structPlan{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := toSnakeCase(f.Name)
		if tag, ok := f.Tag.Lookup("scale"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		plan.fields = append(plan.fields, planField{name: name, index: i})
	}

	actual, _ := structPlans.LoadOrStore(t, plan)
	return actual.(*structPlan)
}

// toSnakeCase converts a Go field name to the snake_case convention type
// registries usually declare fields in.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// structComposite converts a struct into an ordered Composite using the
// type's cached field plan.
func structComposite(rv reflect.Value) Composite {
	plan := planFor(rv.Type())
	c := make(Composite, len(plan.fields))
	for i, f := range plan.fields {
		c[i] = Field{Name: f.name, Value: rv.Field(f.index).Interface()}
	}
	return c
}

// mapComposite converts a string-keyed map into a Composite ordered by
// key, so one map encodes to one byte sequence regardless of iteration
// order.
func mapComposite(rv reflect.Value) Composite {
	type entry struct {
		k string
		v any
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, entry{k: iter.Key().String(), v: iter.Value().Interface()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].k < entries[j].k })

	c := make(Composite, len(entries))
	for i, en := range entries {
		c[i] = Field{Name: en.k, Value: en.v}
	}
	return c
}

func (e *encoder) encodeMap(rv reflect.Value, id schema.TypeID, depth int) error {
	if rv.Type().Key().Kind() != reflect.String {
		_, shape, err := e.singleEntry(id, depth)
		if err != nil {
			return err
		}
		return errors.New(errors.PhaseEncode, errors.KindWrongShape).
			GoType(rv.Type().String()).
			Target(describe(shape)).
			Detail("map keys must be strings").
			Build()
	}
	return e.encodeComposite(mapComposite(rv), id, depth)
}

func (e *encoder) encodeSeq(rv reflect.Value, id schema.TypeID, depth int) error {
	_, shape, err := e.singleEntry(id, depth)
	if err != nil {
		return err
	}
	n := rv.Len()

	switch shape.Kind {
	case schema.KindArray:
		if n != int(shape.Len) {
			return errors.WrongLength(errors.PhaseEncode, n, int(shape.Len), "array")
		}
		if raw, ok := e.byteFast(rv, shape.Elem, depth); ok {
			e.w.Raw(raw)
			return nil
		}
		return e.encodeElems(rv, shape.Elem, depth)
	case schema.KindSequence:
		if raw, ok := e.byteFast(rv, shape.Elem, depth); ok {
			e.w.ByteSeq(raw)
			return nil
		}
		e.w.Compact(uint64(n))
		return e.encodeElems(rv, shape.Elem, depth)
	case schema.KindTuple:
		if n != len(shape.Elems) {
			return errors.WrongLength(errors.PhaseEncode, n, len(shape.Elems), "tuple")
		}
		for i := 0; i < n; i++ {
			if err := e.encodeValue(rv.Index(i).Interface(), shape.Elems[i], depth+1); err != nil {
				return errors.At(err, errors.Index(i))
			}
		}
		return nil
	case schema.KindBitSequence:
		if rv.Type().Elem().Kind() == reflect.Bool {
			bits := make(Bits, n)
			for i := 0; i < n; i++ {
				bits[i] = rv.Index(i).Bool()
			}
			e.w.BitSeq(bits, shape.BitOrder == schema.Lsb0, shape.BitStore.Bits())
			return nil
		}
	}
	return wrongTarget(rv.Interface(), shape)
}

func (e *encoder) encodeElems(rv reflect.Value, elem schema.TypeID, depth int) error {
	for i := 0; i < rv.Len(); i++ {
		if err := e.encodeValue(rv.Index(i).Interface(), elem, depth+1); err != nil {
			return errors.At(err, errors.Index(i))
		}
	}
	return nil
}

// byteFast returns the raw bytes when rv is a byte slice and the target
// element is, through any wrappers, a u8. The resulting single copy is
// what makes large blob fields cheap.
func (e *encoder) byteFast(rv reflect.Value, elem schema.TypeID, depth int) ([]byte, bool) {
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() != reflect.Uint8 {
		return nil, false
	}
	_, shape, err := e.singleEntry(elem, depth)
	if err != nil || shape.Kind != schema.KindPrimitive || shape.Primitive != schema.PrimU8 {
		return nil, false
	}
	return rv.Bytes(), true
}

// encodePointer treats pointers as optionality when the target has an
// Option shape and as plain indirection otherwise.
func (e *encoder) encodePointer(rv reflect.Value, id schema.TypeID, depth int) error {
	tid, shape, err := e.singleEntry(id, depth)
	if err != nil {
		return err
	}

	if shape.Kind == schema.KindVariant {
		if rv.IsNil() {
			if hasVariant(shape.Variants, "None") {
				return e.encodeVariant(Variant{Name: "None"}, tid, depth)
			}
		} else if hasVariant(shape.Variants, "Some") {
			return e.encodeVariant(Variant{Name: "Some", Fields: Tuple(rv.Elem().Interface())}, tid, depth)
		}
	}

	if rv.IsNil() {
		return e.encodeNil(tid, depth)
	}
	return e.encodeValue(rv.Elem().Interface(), tid, depth+1)
}
