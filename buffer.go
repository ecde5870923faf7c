package fixrec

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Buffer is a byte region records bind to. Capabilities are properties of
// how the buffer was obtained: internally allocated and file-mapped buffers
// are mutable and support atomic increments, wrapped foreign slices are
// mutable only, read-only wraps are neither.
//
// All multi-byte accessors use little-endian byte order at absolute offsets;
// this is the single home of the wire encoding.
type Buffer struct {
	data    []byte
	mutable bool
	atomic  bool
	munmap  func() error // set for file-backed buffers
}

// NewBuffer allocates a zeroed mutable buffer of n bytes.
func NewBuffer(n int) *Buffer {
	return &Buffer{data: make([]byte, n), mutable: true, atomic: true}
}

// WrapBytes binds a mutable Buffer over a caller-owned slice.
func WrapBytes(b []byte) *Buffer {
	return &Buffer{data: b, mutable: true}
}

// WrapReadOnly binds an immutable Buffer over a caller-owned slice.
func WrapReadOnly(b []byte) *Buffer {
	return &Buffer{data: b}
}

func (b *Buffer) Len() int      { return len(b.data) }
func (b *Buffer) Mutable() bool { return b.mutable }

// Bytes exposes the underlying storage. Writes through the returned slice
// bypass index maintenance; use Record accessors for indexed fields.
func (b *Buffer) Bytes() []byte { return b.data }

// Close unmaps a file-backed buffer. It is a no-op for heap buffers.
func (b *Buffer) Close() error {
	if b.munmap == nil {
		return nil
	}
	m := b.munmap
	b.munmap = nil
	b.data = nil
	return m()
}

func (b *Buffer) requireMutable() {
	if !b.mutable {
		panic(fmt.Errorf("cannot write to immutable buffer"))
	}
}

func (b *Buffer) Int16At(off int) int16 {
	return int16(binary.LittleEndian.Uint16(b.data[off:]))
}
func (b *Buffer) Int32At(off int) int32 {
	return int32(binary.LittleEndian.Uint32(b.data[off:]))
}
func (b *Buffer) Int64At(off int) int64 {
	return int64(binary.LittleEndian.Uint64(b.data[off:]))
}
func (b *Buffer) Uint16At(off int) uint16 {
	return binary.LittleEndian.Uint16(b.data[off:])
}
func (b *Buffer) ByteAt(off int) byte {
	return b.data[off]
}

func (b *Buffer) PutInt16(off int, v int16) {
	b.requireMutable()
	binary.LittleEndian.PutUint16(b.data[off:], uint16(v))
}
func (b *Buffer) PutInt32(off int, v int32) {
	b.requireMutable()
	binary.LittleEndian.PutUint32(b.data[off:], uint32(v))
}
func (b *Buffer) PutInt64(off int, v int64) {
	b.requireMutable()
	binary.LittleEndian.PutUint64(b.data[off:], uint64(v))
}
func (b *Buffer) PutUint16(off int, v uint16) {
	b.requireMutable()
	binary.LittleEndian.PutUint16(b.data[off:], v)
}
func (b *Buffer) PutByte(off int, v byte) {
	b.requireMutable()
	b.data[off] = v
}

// ASCIIAt reads n raw bytes as a string, no trimming.
func (b *Buffer) ASCIIAt(off, n int) string {
	return string(b.data[off : off+n])
}

// PutASCII writes the raw bytes of s, no padding.
func (b *Buffer) PutASCII(off int, s string) {
	b.requireMutable()
	copy(b.data[off:], s)
}

// CopyIn bulk-copies src into the buffer at off.
func (b *Buffer) CopyIn(off int, src []byte) {
	b.requireMutable()
	copy(b.data[off:], src)
}

// CopyOut copies n bytes starting at off into a fresh slice.
func (b *Buffer) CopyOut(off, n int) []byte {
	out := make([]byte, n)
	copy(out, b.data[off:off+n])
	return out
}

var hostLittleEndian = func() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// canAtomicAdd reports whether an atomic increment of the given width is
// possible at off: the buffer must be atomic-capable, the host byte order
// must match the wire's little-endian, and the word must be aligned.
func (b *Buffer) canAtomicAdd(off, width int) bool {
	if !b.atomic || !hostLittleEndian || off%width != 0 {
		return false
	}
	return uintptr(unsafe.Pointer(&b.data[off]))%uintptr(width) == 0
}

func (b *Buffer) atomicAddInt32(off int, delta int32) int32 {
	b.requireMutable()
	return atomic.AddInt32((*int32)(unsafe.Pointer(&b.data[off])), delta)
}

func (b *Buffer) atomicAddInt64(off int, delta int64) int64 {
	b.requireMutable()
	return atomic.AddInt64((*int64)(unsafe.Pointer(&b.data[off])), delta)
}
