// Package buffer implements the reference-counted, polymorphic byte
// container the rest of the module is built on: heap-backed, pooled
// ("direct"), composite and derived (sliced/duplicated) variants behind one
// Buffer contract, plus read-only and unreleasable wrappers.
package buffer

import (
	"context"
	"io"
	"unsafe"
)

// Buffer is a linearly addressable region of up to MaxCapacity octets,
// with a reader index, a writer index, and a reference count. While the
// reference count is positive the buffer is accessible; once it reaches
// zero, the methods below that return an error fail with
// ErrIllegalReferenceCount (a zero-length SetZero or WriteZero is a no-op
// that reports no error).
type Buffer interface {
	// Capacity returns the number of octets currently backing the buffer.
	Capacity() int
	// MaxCapacity returns the upper bound Capacity may grow to.
	MaxCapacity() int

	ReaderIndex() int
	SetReaderIndex(index int) error
	WriterIndex() int
	SetWriterIndex(index int) error

	ReadableBytes() int
	WritableBytes() int
	IsReadable() bool
	IsWritable() bool

	MarkReaderIndex()
	ResetReaderIndex()
	MarkWriterIndex()
	ResetWriterIndex()

	// Clear resets both indices to zero without touching storage.
	Clear()
	// DiscardReadBytes compacts the buffer, moving readable bytes to the
	// front and shifting both indices down by ReaderIndex().
	DiscardReadBytes()
	// EnsureWritable grows the buffer (up to MaxCapacity) so that at least
	// n more bytes can be written without reallocation failing.
	EnsureWritable(n int) error

	// GetBytes is a random-access bulk read: it does not move either index.
	GetBytes(index int, dst []byte) error
	// SetBytes is a random-access bulk write: it does not move either
	// index, and never mutates partially on failure.
	SetBytes(index int, src []byte) error
	// ReadBytes is a sequential bulk read, advancing ReaderIndex by
	// len(dst) on success.
	ReadBytes(dst []byte) error
	// WriteBytes is a sequential bulk write, advancing WriterIndex (and
	// growing the buffer via EnsureWritable) by len(src).
	WriteBytes(src []byte) error

	SetZero(index, length int) error
	WriteZero(length int) error

	GetUint8(index int) (uint8, error)
	SetUint8(index int, v uint8) error
	ReadUint8() (uint8, error)
	WriteUint8(v uint8) error

	GetInt8(index int) (int8, error)
	SetInt8(index int, v int8) error
	ReadInt8() (int8, error)
	WriteInt8(v int8) error

	GetUint16BE(index int) (uint16, error)
	GetUint16LE(index int) (uint16, error)
	SetUint16BE(index int, v uint16) error
	SetUint16LE(index int, v uint16) error
	ReadUint16BE() (uint16, error)
	ReadUint16LE() (uint16, error)
	WriteUint16BE(v uint16) error
	WriteUint16LE(v uint16) error

	GetInt16BE(index int) (int16, error)
	GetInt16LE(index int) (int16, error)
	SetInt16BE(index int, v int16) error
	SetInt16LE(index int, v int16) error
	ReadInt16BE() (int16, error)
	ReadInt16LE() (int16, error)
	WriteInt16BE(v int16) error
	WriteInt16LE(v int16) error

	GetUint24BE(index int) (uint32, error)
	GetUint24LE(index int) (uint32, error)
	SetUint24BE(index int, v uint32) error
	SetUint24LE(index int, v uint32) error
	ReadUint24BE() (uint32, error)
	ReadUint24LE() (uint32, error)
	WriteUint24BE(v uint32) error
	WriteUint24LE(v uint32) error

	GetInt24BE(index int) (int32, error)
	GetInt24LE(index int) (int32, error)
	SetInt24BE(index int, v int32) error
	SetInt24LE(index int, v int32) error
	ReadInt24BE() (int32, error)
	ReadInt24LE() (int32, error)
	WriteInt24BE(v int32) error
	WriteInt24LE(v int32) error

	GetUint32BE(index int) (uint32, error)
	GetUint32LE(index int) (uint32, error)
	SetUint32BE(index int, v uint32) error
	SetUint32LE(index int, v uint32) error
	ReadUint32BE() (uint32, error)
	ReadUint32LE() (uint32, error)
	WriteUint32BE(v uint32) error
	WriteUint32LE(v uint32) error

	GetInt32BE(index int) (int32, error)
	GetInt32LE(index int) (int32, error)
	SetInt32BE(index int, v int32) error
	SetInt32LE(index int, v int32) error
	ReadInt32BE() (int32, error)
	ReadInt32LE() (int32, error)
	WriteInt32BE(v int32) error
	WriteInt32LE(v int32) error

	GetUint64BE(index int) (uint64, error)
	GetUint64LE(index int) (uint64, error)
	SetUint64BE(index int, v uint64) error
	SetUint64LE(index int, v uint64) error
	ReadUint64BE() (uint64, error)
	ReadUint64LE() (uint64, error)
	WriteUint64BE(v uint64) error
	WriteUint64LE(v uint64) error

	GetInt64BE(index int) (int64, error)
	GetInt64LE(index int) (int64, error)
	SetInt64BE(index int, v int64) error
	SetInt64LE(index int, v int64) error
	ReadInt64BE() (int64, error)
	ReadInt64LE() (int64, error)
	WriteInt64BE(v int64) error
	WriteInt64LE(v int64) error

	// Copy returns an independent buffer holding a copy of
	// [index, index+length).
	Copy(index, length int) (Buffer, error)
	// Slice returns a derived buffer sharing storage with this one, with
	// its own zero-based indices spanning [index, index+length).
	Slice(index, length int) (Buffer, error)
	// Duplicate returns a derived buffer sharing both storage and the
	// current reader/writer indices.
	Duplicate() (Buffer, error)
	// RetainedSlice behaves like Slice but additionally retains this
	// buffer, so the slice keeps it alive independently.
	RetainedSlice(index, length int) (Buffer, error)
	// RetainedDuplicate behaves like Duplicate but additionally retains
	// this buffer.
	RetainedDuplicate() (Buffer, error)

	// SetBytesFrom reads up to length bytes from r into [index, ...).
	SetBytesFrom(r io.Reader, index, length int) (int, error)
	// WriteBytesFrom reads up to length bytes from r, appending them and
	// advancing WriterIndex.
	WriteBytesFrom(r io.Reader, length int) (int, error)
	// WriteBytesFromAsync schedules WriteBytesFrom on the context's
	// executor (here: a goroutine) and returns a channel receiving exactly
	// one AsyncResult. ctx is checked only before the transfer starts: an
	// already-cancelled ctx leaves indices untouched and reports ctx.Err();
	// a later cancellation does not interrupt the read in progress.
	WriteBytesFromAsync(ctx context.Context, r io.Reader, length int) <-chan AsyncResult
	// WriteTo drains ReadableBytes() into w, advancing ReaderIndex.
	WriteTo(w io.Writer) (int64, error)

	HasMemoryAddress() bool
	// MemoryAddress returns a pointer to the buffer's first byte. Only
	// backings with HasMemoryAddress() == true support this; others fail
	// with ErrUnsupportedOperation.
	MemoryAddress() (unsafe.Pointer, error)

	Retain() error
	RetainN(n int32) error
	// Release decrements the reference count by one, reporting whether
	// this call deallocated the buffer.
	Release() (bool, error)
	ReleaseN(n int32) (bool, error)
	ReferenceCount() int32
	IsAccessible() bool

	// SetReferenceCount and ResetReferenceCount are the two unsafe escape
	// hatches described in the reference-counting contract: they exist for
	// subclass/allocator initialisation and are not meant to be called by
	// ordinary users.
	SetReferenceCount(v int32)
	ResetReferenceCount()
}

// AsyncResult is delivered exactly once on the channel returned by
// WriteBytesFromAsync.
type AsyncResult struct {
	N   int
	Err error
}
