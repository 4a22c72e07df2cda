// Package errors provides structured error types for the scale-encode library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: a typed location path,
// Go/target type names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindWrongShape).
//		Path(errors.Field("user"), errors.Field("age")).
//		GoType("string").
//		Target("u32").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NumberOutOfRange(errors.PhaseEncode, 300, "u8")
//	err := errors.CannotFindField(errors.PhaseEncode, "age")
//
// As an encode error unwinds out of nested fields, each frame prefixes its
// own location segment with At, so the final path reads from the encode
// root down to the failing value:
//
//	return errors.At(err, errors.Field("address"))
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
