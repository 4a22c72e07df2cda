package errors

import (
	"strconv"
	"strings"
)

// SegmentKind discriminates the location forms a Path may contain.
type SegmentKind uint8

const (
	SegmentField   SegmentKind = iota // named composite field
	SegmentVariant                    // matched variant name
	SegmentIndex                      // sequence/array/tuple position
)

// Segment is one step of the location trail from the encode root down to
// the value that failed.
type Segment struct {
	Kind  SegmentKind
	Name  string // SegmentField, SegmentVariant
	Index int    // SegmentIndex
}

// Field returns a segment for a named composite field.
func Field(name string) Segment {
	return Segment{Kind: SegmentField, Name: name}
}

// Variant returns a segment for a matched variant name.
func Variant(name string) Segment {
	return Segment{Kind: SegmentVariant, Name: name}
}

// Index returns a segment for a sequence, array or tuple position.
func Index(i int) Segment {
	return Segment{Kind: SegmentIndex, Index: i}
}

func (s Segment) String() string {
	if s.Kind == SegmentIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Name
}

// Path is the ordered location trail, root first. It is diagnostic data
// only and never drives control flow.
type Path []Segment

func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if s.Kind == SegmentIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Name)
	}
	return b.String()
}

// At prefixes seg to the location of err. Every frame that propagates an
// error from a deeper recursion adds its own segment here, so the stored
// path reads root to leaf by the time the caller sees it. Non-Error values
// are wrapped as custom errors first.
func At(err error, seg Segment) error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		e = &Error{Phase: PhaseEncode, Kind: KindCustom, Cause: err}
	}
	e.Path = append(Path{seg}, e.Path...)
	return e
}
