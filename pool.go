package scale

import (
	"sync"

	"github.com/wippyai/scale-encode/wire"
)

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 64 * 1024 // max retained writer capacity in bytes
	poolInitCap = 128
)

// writer pool for the byte-returning entry points
var writerPool = sync.Pool{
	New: func() any {
		return wire.NewWriterSize(poolInitCap)
	},
}

func getWriter() *wire.Writer {
	return writerPool.Get().(*wire.Writer)
}

func putWriter(w *wire.Writer) {
	if w == nil || w.Cap() > poolMaxCap {
		return // reject oversized
	}
	w.Reset()
	writerPool.Put(w)
}
