// Package schema defines the target type model the encoder is driven by.
//
// A type is identified by an opaque TypeID and described by a Shape, a
// closed tagged union over the kinds the wire format can express:
// primitives, compact wrappers, composites, variants, sequences, fixed
// arrays, tuples, strings, bit sequences and void. The encoding engine
// asks a Resolver for the shape of each id it meets and never inspects
// type information any other way, so values can be encoded against
// schemas that are supplied at runtime.
//
// Registry is the bundled Resolver: an append-style builder that issues
// ids sequentially, supports forward references through Reserve/Define,
// and can load whole type documents from YAML. Any other source of type
// information can drive the encoder by implementing the one-method
// Resolver interface.
package schema
