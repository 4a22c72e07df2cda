package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode Phase = "encode" // value encoding
	PhaseSchema Phase = "schema" // type registry construction and loading
)

// Kind categorizes the error
type Kind string

const (
	KindWrongShape        Kind = "wrong_shape"          // value shape cannot meet the target shape
	KindWrongLength       Kind = "wrong_length"         // array/tuple/field arity mismatch
	KindNumberOutOfRange  Kind = "number_out_of_range"  // numeric value does not fit the target width
	KindCannotFindField   Kind = "cannot_find_field"    // by-name matching found no source field
	KindDuplicateField    Kind = "duplicate_field"      // by-name matching found two source fields with one name
	KindCannotFindVariant Kind = "cannot_find_variant"  // no target variant matches by name or index
	KindUnsupported       Kind = "unsupported"          // target shape has no defined encoding
	KindRecursionLimit    Kind = "recursion_limit"      // type graph recursion exceeded the bound
	KindCannotResolve     Kind = "cannot_resolve"       // resolver failed to report a shape
	KindCustom            Kind = "custom"               // value-specific failure from a custom encoder
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Target string
	Detail string
	Path   Path
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(e.Path.String())
	}

	if e.GoType != "" || e.Target != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.Target != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", target ")
			b.WriteString(e.Target)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("target ")
			b.WriteString(e.Target)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Target != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of err when it is an *Error, or "" otherwise.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location trail
func (b *Builder) Path(segs ...Segment) *Builder {
	b.err.Path = segs
	return b
}

// GoType sets the Go type name of the source value
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Target sets the target type description
func (b *Builder) Target(t string) *Builder {
	b.err.Target = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// WrongShape creates an error for a value whose shape cannot be reconciled
// with the target type's declared shape.
func WrongShape(phase Phase, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWrongShape,
		GoType: goTypeOf(value),
		Target: target,
		Value:  value,
	}
}

// WrongLength creates an arity mismatch error
func WrongLength(phase Phase, actual, expected int, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWrongLength,
		Target: target,
		Detail: fmt.Sprintf("got %d elements, want %d", actual, expected),
	}
}

// NumberOutOfRange creates an error for a numeric value that does not fit
// the target's width or signedness.
func NumberOutOfRange(phase Phase, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNumberOutOfRange,
		GoType: goTypeOf(value),
		Target: target,
		Detail: fmt.Sprintf("value %v does not fit", value),
		Value:  value,
	}
}

// CannotFindField creates a by-name matching error for a missing source field
func CannotFindField(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCannotFindField,
		Detail: fmt.Sprintf("field %q not found in source value", name),
	}
}

// DuplicateField creates a by-name matching error for a repeated source field
func DuplicateField(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateField,
		Detail: fmt.Sprintf("field %q appears more than once in source value", name),
	}
}

// CannotFindVariant creates an error for a variant that matches no target
// variant by name or index.
func CannotFindVariant(phase Phase, name, target string) *Error {
	detail := "no variant matches"
	if name != "" {
		detail = fmt.Sprintf("variant %q not found", name)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindCannotFindVariant,
		Target: target,
		Detail: detail,
	}
}

// Unsupported creates an unsupported encoding error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// RecursionLimit creates an error for a type graph that recursed past the
// configured safety bound.
func RecursionLimit(phase Phase, depth int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRecursionLimit,
		Detail: fmt.Sprintf("type recursion exceeded %d levels", depth),
	}
}

// CannotResolve creates an error for a type id the resolver could not report
func CannotResolve(phase Phase, id uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCannotResolve,
		Detail: fmt.Sprintf("type id %d", id),
		Cause:  cause,
	}
}

// Custom wraps a value-specific failure from a custom encoder
func Custom(phase Phase, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCustom,
		Detail: detail,
		Cause:  cause,
	}
}

func goTypeOf(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
