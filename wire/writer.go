package wire

import (
	"encoding/binary"
	"math/big"
	"math/bits"
)

// Writer is an append-only sink for SCALE-encoded bytes. The zero value is
// ready to use. A Writer is owned by a single encode call at a time; on an
// encode failure the accumulated bytes are partial and must be discarded.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// NewWriterSize returns an empty writer with capacity for n bytes.
func NewWriterSize(n int) *Writer {
	return &Writer{buf: make([]byte, 0, n)}
}

// Bytes returns the accumulated output. The slice is only valid until the
// next write.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Cap returns the capacity of the underlying buffer.
func (w *Writer) Cap() int {
	return cap(w.buf)
}

// Reset discards the accumulated output, keeping the allocation.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// Bool writes a boolean as a single byte, 0x01 for true.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// U8 writes one byte.
func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

// U16 writes a little-endian 16-bit integer.
func (w *Writer) U16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// U32 writes a little-endian 32-bit integer.
func (w *Writer) U32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// U64 writes a little-endian 64-bit integer.
func (w *Writer) U64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// I8 writes one byte in two's complement.
func (w *Writer) I8(v int8) {
	w.buf = append(w.buf, uint8(v))
}

// I16 writes a little-endian 16-bit integer in two's complement.
func (w *Writer) I16(v int16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(v))
}

// I32 writes a little-endian 32-bit integer in two's complement.
func (w *Writer) I32(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

// I64 writes a little-endian 64-bit integer in two's complement.
func (w *Writer) I64(v int64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

// U128 writes a 128-bit integer as 16 little-endian bytes. The caller must
// ensure 0 <= v < 2^128.
func (w *Writer) U128(v *big.Int) {
	var be [16]byte
	v.FillBytes(be[:])
	for i := 15; i >= 0; i-- {
		w.buf = append(w.buf, be[i])
	}
}

// I128 writes a 128-bit integer as 16 little-endian two's complement bytes.
// The caller must ensure -2^127 <= v < 2^127.
func (w *Writer) I128(v *big.Int) {
	if v.Sign() < 0 {
		w.U128(new(big.Int).Add(two128, v))
		return
	}
	w.U128(v)
}

// Char writes a Unicode scalar value as a little-endian u32.
func (w *Writer) Char(r rune) {
	w.U32(uint32(r))
}

// Str writes a compact byte-length prefix followed by the UTF-8 bytes.
func (w *Writer) Str(s string) {
	w.Compact(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

// Raw appends p verbatim, no prefix.
func (w *Writer) Raw(p []byte) {
	w.buf = append(w.buf, p...)
}

// ByteSeq writes a compact length prefix followed by p.
func (w *Writer) ByteSeq(p []byte) {
	w.Compact(uint64(len(p)))
	w.buf = append(w.buf, p...)
}

// Compact writes v in the SCALE compact integer encoding. The low two bits
// of the first byte select the mode: 00 single byte, 01 two bytes, 10 four
// bytes, 11 length-prefixed little-endian bytes.
func (w *Writer) Compact(v uint64) {
	switch {
	case v < 1<<6:
		w.buf = append(w.buf, uint8(v)<<2)
	case v < 1<<14:
		w.U16(uint16(v)<<2 | 0b01)
	case v < 1<<30:
		w.U32(uint32(v)<<2 | 0b10)
	default:
		n := (bits.Len64(v) + 7) / 8
		w.buf = append(w.buf, uint8(n-4)<<2|0b11)
		for i := 0; i < n; i++ {
			w.buf = append(w.buf, uint8(v>>(8*i)))
		}
	}
}

// CompactBig writes v in the compact encoding, covering magnitudes beyond
// 64 bits. The caller must ensure 0 <= v < 2^536.
func (w *Writer) CompactBig(v *big.Int) {
	if v.IsUint64() {
		w.Compact(v.Uint64())
		return
	}
	be := v.Bytes()
	w.buf = append(w.buf, uint8(len(be)-4)<<2|0b11)
	for i := len(be) - 1; i >= 0; i-- {
		w.buf = append(w.buf, be[i])
	}
}

// BitSeq writes a compact bit count followed by the bits packed into
// little-endian store units. lsb0 selects whether the first bit occupies
// the least significant position of each unit; store is the unit width in
// bits and must be 8, 16, 32 or 64.
func (w *Writer) BitSeq(bitvals []bool, lsb0 bool, store int) {
	w.Compact(uint64(len(bitvals)))
	for u := 0; u < len(bitvals); u += store {
		var word uint64
		for i := 0; i < store && u+i < len(bitvals); i++ {
			if !bitvals[u+i] {
				continue
			}
			if lsb0 {
				word |= 1 << i
			} else {
				word |= 1 << (store - 1 - i)
			}
		}
		switch store {
		case 8:
			w.U8(uint8(word))
		case 16:
			w.U16(uint16(word))
		case 32:
			w.U32(uint32(word))
		default:
			w.U64(word)
		}
	}
}
