package wire

import "sync/atomic"

// Buffer is a ref-counted byte buffer backing a decoded packet. Decoded
// fields are sub-slices of Buffer.data; nothing is copied on decode.
// Retain/Release let a packet be handed down the service chain and
// across hop boundaries without the caller needing to know when the
// underlying bytes can be reused.
type Buffer struct {
	data []byte
	refs int32
}

// NewBuffer wraps data in a Buffer with an initial reference count of 1.
// The caller must not mutate data outside of the accessors this package
// provides once the buffer has been shared.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data, refs: 1}
}

// Bytes returns the full backing slice. Callers must not retain it past
// a Release that could drop the ref count to zero.
func (b *Buffer) Bytes() []byte { return b.data }

// Slice returns a sub-range of the backing buffer without copying.
func (b *Buffer) Slice(start, end int) []byte { return b.data[start:end] }

// Retain increments the reference count and returns b, for chaining.
func (b *Buffer) Retain() *Buffer {
	atomic.AddInt32(&b.refs, 1)
	return b
}

// Release decrements the reference count. It is safe to call Release
// more than the number of outstanding holders only once each holder is
// done; implementations that pool buffers would reclaim on the
// transition to zero. This implementation has no pool to return to, so
// Release beyond tracking purposes is a no-op, matching the "shared,
// ref-counted" contract without requiring a backing allocator.
func (b *Buffer) Release() int32 {
	return atomic.AddInt32(&b.refs, -1)
}

// RefCount returns the current reference count, chiefly for tests.
func (b *Buffer) RefCount() int32 {
	return atomic.LoadInt32(&b.refs)
}
