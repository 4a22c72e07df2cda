package scale

import (
	"github.com/wippyai/scale-encode/errors"
	"github.com/wippyai/scale-encode/schema"
)

// Variant is a tagged source value: the active case's name, an optional
// declared index, and the case's fields. Name and Index are both matching
// keys; at least one must be set for the value to be encodable.
type Variant struct {
	Name   string
	Index  *uint8
	Fields Composite
}

// WithIndex returns v with its declared index set. It exists because a
// literal cannot take the address of a constant.
func (v Variant) WithIndex(i uint8) Variant {
	v.Index = &i
	return v
}

func (e *encoder) encodeVariant(v Variant, id schema.TypeID, depth int) error {
	_, shape, err := e.singleEntry(id, depth)
	if err != nil {
		return err
	}
	if shape.Kind != schema.KindVariant {
		return wrongTarget(v, shape)
	}

	match, err := matchVariant(v, shape.Variants)
	if err != nil {
		return err
	}

	e.w.U8(match.Index)

	segName := match.Name
	if segName == "" {
		segName = v.Name
	}
	if err := e.encodeFields(v.Fields.effective(), match.Fields, depth); err != nil {
		return errors.At(err, errors.Variant(segName))
	}
	return nil
}

// matchVariant finds the target case for v. Names win: when the source has
// a name and any target case is named, only an exact name match counts.
// The declared index is consulted solely when name matching is impossible
// outright, either because the source carries no name or because no target
// case has one.
func matchVariant(v Variant, vars []schema.VariantDef) (*schema.VariantDef, error) {
	targetNamed := false
	for i := range vars {
		if vars[i].Name != "" {
			targetNamed = true
			break
		}
	}

	if v.Name != "" && targetNamed {
		for i := range vars {
			if vars[i].Name == v.Name {
				return &vars[i], nil
			}
		}
		return nil, errors.CannotFindVariant(errors.PhaseEncode, v.Name, "variant")
	}

	if v.Index != nil {
		for i := range vars {
			if vars[i].Index == *v.Index {
				return &vars[i], nil
			}
		}
		return nil, errors.New(errors.PhaseEncode, errors.KindCannotFindVariant).
			Target("variant").
			Detail("no case has index %d", *v.Index).
			Build()
	}

	return nil, errors.CannotFindVariant(errors.PhaseEncode, v.Name, "variant")
}

func hasVariant(vars []schema.VariantDef, name string) bool {
	for i := range vars {
		if vars[i].Name == name {
			return true
		}
	}
	return false
}
