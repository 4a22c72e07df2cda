package scale

import (
	"github.com/wippyai/scale-encode/errors"
	"github.com/wippyai/scale-encode/schema"
)

// Field is one element of a Composite source value. An empty Name marks a
// positional element. Skip excludes the element from matching and encoding
// entirely, as if it were never listed.
type Field struct {
	Name  string
	Value any
	Skip  bool
}

// Composite is the ordered, optionally named source form that lines up
// with composite, tuple, array and sequence targets. Field order only
// matters when matching falls back to positional.
type Composite []Field

// Tuple returns a Composite whose elements are all positional.
func Tuple(vals ...any) Composite {
	c := make(Composite, len(vals))
	for i, v := range vals {
		c[i] = Field{Value: v}
	}
	return c
}

// effective returns the fields that take part in matching and encoding.
func (c Composite) effective() []Field {
	skipped := false
	for _, f := range c {
		if f.Skip {
			skipped = true
			break
		}
	}
	if !skipped {
		return c
	}
	out := make([]Field, 0, len(c))
	for _, f := range c {
		if !f.Skip {
			out = append(out, f)
		}
	}
	return out
}

func (e *encoder) encodeComposite(c Composite, id schema.TypeID, depth int) error {
	vals := c.effective()
	tid, shape, err := e.singleEntry(id, depth)
	if err != nil {
		return err
	}

	// A lone value encodes directly against the unwrapped target. This is
	// the source side of newtype transparency: a one-field wrapper has the
	// same wire form as its content.
	if len(vals) == 1 {
		return e.encodeValue(vals[0].Value, tid, depth+1)
	}

	switch shape.Kind {
	case schema.KindComposite:
		return e.encodeFields(vals, shape.Fields, depth)
	case schema.KindTuple:
		targets := make([]schema.Field, len(shape.Elems))
		for i, elem := range shape.Elems {
			targets[i] = schema.Field{Type: elem}
		}
		return e.encodeFields(vals, targets, depth)
	case schema.KindArray:
		if len(vals) != int(shape.Len) {
			return errors.WrongLength(errors.PhaseEncode, len(vals), int(shape.Len), "array")
		}
		return e.encodeFieldSeq(vals, shape.Elem, depth)
	case schema.KindSequence:
		e.w.Compact(uint64(len(vals)))
		return e.encodeFieldSeq(vals, shape.Elem, depth)
	case schema.KindVoid:
		if len(vals) == 0 {
			return nil
		}
	}
	return wrongTarget(c, shape)
}

// encodeFieldSeq encodes each field value against one element type, used
// for composite sources aimed at array and sequence targets.
func (e *encoder) encodeFieldSeq(vals []Field, elem schema.TypeID, depth int) error {
	for i, f := range vals {
		if err := e.encodeValue(f.Value, elem, depth+1); err != nil {
			if f.Name != "" {
				return errors.At(err, errors.Field(f.Name))
			}
			return errors.At(err, errors.Index(i))
		}
	}
	return nil
}

// encodeFields lines source fields up with the target's declared field
// list. Matching is by name when the target is fully named and every
// source element carries a name, positional otherwise. Extra named source
// fields are ignored; positional matching demands exact arity.
func (e *encoder) encodeFields(vals []Field, targets []schema.Field, depth int) error {
	if depth > e.maxDepth {
		return errors.RecursionLimit(errors.PhaseEncode, e.maxDepth)
	}

	byName := len(targets) > 0
	for _, tf := range targets {
		if tf.Name == "" {
			byName = false
			break
		}
	}
	if byName {
		for _, sv := range vals {
			if sv.Name == "" {
				byName = false
				break
			}
		}
	}

	if !byName {
		if len(vals) != len(targets) {
			return errors.WrongLength(errors.PhaseEncode, len(vals), len(targets), "fields")
		}
		for i, tf := range targets {
			if err := e.encodeValue(vals[i].Value, tf.Type, depth+1); err != nil {
				if vals[i].Name != "" {
					return errors.At(err, errors.Field(vals[i].Name))
				}
				return errors.At(err, errors.Index(i))
			}
		}
		return nil
	}

	index := make(map[string]int, len(vals))
	for i, sv := range vals {
		if _, dup := index[sv.Name]; dup {
			return errors.DuplicateField(errors.PhaseEncode, sv.Name)
		}
		index[sv.Name] = i
	}
	for _, tf := range targets {
		i, ok := index[tf.Name]
		if !ok {
			return errors.CannotFindField(errors.PhaseEncode, tf.Name)
		}
		if err := e.encodeValue(vals[i].Value, tf.Type, depth+1); err != nil {
			return errors.At(err, errors.Field(tf.Name))
		}
	}
	return nil
}
