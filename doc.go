// Package scale provides type-directed SCALE encoding for Go values.
//
// Values are not encoded by their Go type alone. Every encode call names a
// target type in an external registry, and the value's shape is reconciled
// against the target's declared shape before any bytes are written. The
// same Go value can therefore encode to different bytes under different
// targets, and a value that cannot meet its target fails with a structured
// error instead of producing bytes a decoder would misread.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	scale/               Root package with the dispatch core and source value forms
//	├── schema/          Type registry, shape model and YAML schema loading
//	├── wire/            Low-level SCALE wire writer (integers, compacts, bit runs)
//	└── errors/          Structured error types with location paths
//
// # Quick Start
//
// Declare the target types, then encode against them:
//
//	reg := schema.NewRegistry()
//	u32 := reg.Primitive(schema.PrimU32)
//	point := reg.Composite(
//	    schema.Field{Name: "x", Type: u32},
//	    schema.Field{Name: "y", Type: u32},
//	)
//
//	type Point struct {
//	    X uint32 `scale:"x"`
//	    Y uint32 `scale:"y"`
//	}
//
//	b, err := scale.Encode(Point{X: 1, Y: 2}, point, reg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%x\n", b) // 0100000002000000
//
// # Source Value Forms
//
// The dispatch core understands a small set of source forms:
//
//   - Go numerics, bool, string and *big.Int for primitive and compact targets
//   - Composite and Tuple for composite, tuple, array and sequence targets
//   - Variant for tagged-union targets
//   - Bits and []bool for bit sequence targets
//   - structs, maps, slices, arrays and pointers, adapted through reflection
//
// Any other type can implement Encodable to take over its own encoding, or
// FieldsEncodable to encode against a target field list.
//
// # Matching Rules
//
// Composite fields match by name when both sides are fully named and by
// position otherwise. Variant cases match by name first; the declared index
// is consulted only when name matching is impossible. One-field wrappers
// are transparent on both sides, so a newtype encodes exactly like its
// content. Numbers are range-checked against the target width before any
// bytes are written.
//
// # Error Handling
//
// All failures are *errors.Error values carrying a phase, a machine
// readable kind and the path from the encode root to the offending value:
//
//	_, err := scale.Encode(v, id, reg)
//	var scaleErr *errors.Error
//	if stderrors.As(err, &scaleErr) {
//	    fmt.Println(scaleErr.Kind, scaleErr.Path)
//	}
//
// # Thread Safety
//
// Registries are safe for concurrent reads after construction, and encode
// calls may run concurrently against one registry. A wire.Writer is NOT
// thread-safe and belongs to a single encode call at a time.
package scale
