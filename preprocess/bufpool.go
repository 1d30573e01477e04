package preprocess

import (
	"sync"
)

// bufferPool recycles tensor buffers of a fixed size
type bufferPool[T uint8 | float32] struct {
	pool sync.Pool
	size int
}

// newBufferPool returns a pool producing buffers of size elements
func newBufferPool[T uint8 | float32](size int) *bufferPool[T] {

	b := &bufferPool[T]{size: size}

	b.pool.New = func() any {
		buf := make([]T, size)
		return &buf
	}

	return b
}

// Get returns a buffer of the pool size.  Its contents are undefined, the
// caller overwrites every element.
func (b *bufferPool[T]) Get() []T {
	return *(b.pool.Get().(*[]T))
}

// Put returns a buffer back into the pool.  Buffers of a different size are
// dropped.
func (b *bufferPool[T]) Put(buf []T) {

	if cap(buf) < b.size {
		return
	}

	buf = buf[:b.size]
	b.pool.Put(&buf)
}
