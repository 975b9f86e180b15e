package pool

import (
	"bytes"
	"sync"
)

// BufferPool recycles the scratch buffers encoders write probes into.
// A search round encodes the same raster many times, so reusing the
// buffers keeps allocation proportional to the output, not the probe count.
type BufferPool struct {
	size int
	pool sync.Pool
}

// NewBufferPool creates a pool whose fresh buffers start with capacity size.
func NewBufferPool(size int) *BufferPool {
	if size <= 0 {
		size = 64 * 1024
	}

	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, size))
			},
		},
	}
}

// Get returns an empty buffer.
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns buf to the pool. Buffers that grew past four times the
// configured size are dropped so one huge image does not pin memory.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > bp.size*4 {
		return
	}

	buf.Reset()
	bp.pool.Put(buf)
}

// Detach copies the buffer contents into a new slice, returns the buffer
// to the pool and hands back the copy. The caller owns the result.
func (bp *BufferPool) Detach(buf *bytes.Buffer) []byte {
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	bp.Put(buf)
	return out
}
