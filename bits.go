package scale

import (
	"github.com/wippyai/scale-encode/schema"
)

// Bits is an ordered run of booleans for bit sequence targets. The target
// declares the bit order and store unit; the source only supplies bits.
type Bits []bool

func (e *encoder) encodeBits(b Bits, id schema.TypeID, depth int) error {
	_, shape, err := e.singleEntry(id, depth)
	if err != nil {
		return err
	}
	if shape.Kind != schema.KindBitSequence {
		return wrongTarget(b, shape)
	}
	e.w.BitSeq(b, shape.BitOrder == schema.Lsb0, shape.BitStore.Bits())
	return nil
}
