// Package wire implements the low-level SCALE byte layout.
//
// The format is non-self-describing: nothing written here identifies its
// own type, so readers must already know the expected shape. All
// multi-byte integers are little-endian. Variable-length quantities
// (sequence lengths, string lengths, compact-wrapped integers) use the
// SCALE compact encoding, which stores the mode in the low two bits of
// the first byte:
//
//	00  value < 2^6,  one byte, value in the high six bits
//	01  value < 2^14, two bytes
//	10  value < 2^30, four bytes
//	11  big mode: high six bits hold byte count minus four, followed by
//	    the value's minimal little-endian bytes
//
// Bit sequences are a compact bit count followed by the bits packed into
// fixed-width store units, either least- or most-significant-bit first.
//
// Writer methods never fail; validation (range checks, UTF-8, bit store
// widths) belongs to the callers that decide what to write.
package wire
