package buffer

import (
	"context"
	"io"
)

// readOnlyBuffer rejects every mutating operation while forwarding
// everything else to the wrapped buffer unchanged.
type readOnlyBuffer struct {
	Buffer
}

// NewReadOnly wraps b so that every write/set/grow call fails with
// ErrUnsupportedOperation. Reads, slicing and reference counting still
// operate on (and share storage/refcount with) b.
func NewReadOnly(b Buffer) Buffer {
	return &readOnlyBuffer{b}
}

func (r *readOnlyBuffer) readOnlyFault(op string) error {
	return fault(op, UnsupportedOperation)
}

func (r *readOnlyBuffer) SetBytes(int, []byte) error       { return r.readOnlyFault("SetBytes") }
func (r *readOnlyBuffer) WriteBytes([]byte) error          { return r.readOnlyFault("WriteBytes") }
func (r *readOnlyBuffer) SetZero(int, int) error           { return r.readOnlyFault("SetZero") }
func (r *readOnlyBuffer) WriteZero(int) error               { return r.readOnlyFault("WriteZero") }
func (r *readOnlyBuffer) EnsureWritable(int) error          { return r.readOnlyFault("EnsureWritable") }

func (r *readOnlyBuffer) SetUint8(int, uint8) error   { return r.readOnlyFault("SetUint8") }
func (r *readOnlyBuffer) WriteUint8(uint8) error      { return r.readOnlyFault("WriteUint8") }
func (r *readOnlyBuffer) SetInt8(int, int8) error     { return r.readOnlyFault("SetInt8") }
func (r *readOnlyBuffer) WriteInt8(int8) error        { return r.readOnlyFault("WriteInt8") }

func (r *readOnlyBuffer) SetUint16BE(int, uint16) error { return r.readOnlyFault("SetUint16BE") }
func (r *readOnlyBuffer) SetUint16LE(int, uint16) error { return r.readOnlyFault("SetUint16LE") }
func (r *readOnlyBuffer) WriteUint16BE(uint16) error    { return r.readOnlyFault("WriteUint16BE") }
func (r *readOnlyBuffer) WriteUint16LE(uint16) error    { return r.readOnlyFault("WriteUint16LE") }
func (r *readOnlyBuffer) SetInt16BE(int, int16) error   { return r.readOnlyFault("SetInt16BE") }
func (r *readOnlyBuffer) SetInt16LE(int, int16) error   { return r.readOnlyFault("SetInt16LE") }
func (r *readOnlyBuffer) WriteInt16BE(int16) error      { return r.readOnlyFault("WriteInt16BE") }
func (r *readOnlyBuffer) WriteInt16LE(int16) error      { return r.readOnlyFault("WriteInt16LE") }

func (r *readOnlyBuffer) SetUint24BE(int, uint32) error { return r.readOnlyFault("SetUint24BE") }
func (r *readOnlyBuffer) SetUint24LE(int, uint32) error { return r.readOnlyFault("SetUint24LE") }
func (r *readOnlyBuffer) WriteUint24BE(uint32) error    { return r.readOnlyFault("WriteUint24BE") }
func (r *readOnlyBuffer) WriteUint24LE(uint32) error    { return r.readOnlyFault("WriteUint24LE") }
func (r *readOnlyBuffer) SetInt24BE(int, int32) error   { return r.readOnlyFault("SetInt24BE") }
func (r *readOnlyBuffer) SetInt24LE(int, int32) error   { return r.readOnlyFault("SetInt24LE") }
func (r *readOnlyBuffer) WriteInt24BE(int32) error      { return r.readOnlyFault("WriteInt24BE") }
func (r *readOnlyBuffer) WriteInt24LE(int32) error      { return r.readOnlyFault("WriteInt24LE") }

func (r *readOnlyBuffer) SetUint32BE(int, uint32) error { return r.readOnlyFault("SetUint32BE") }
func (r *readOnlyBuffer) SetUint32LE(int, uint32) error { return r.readOnlyFault("SetUint32LE") }
func (r *readOnlyBuffer) WriteUint32BE(uint32) error    { return r.readOnlyFault("WriteUint32BE") }
func (r *readOnlyBuffer) WriteUint32LE(uint32) error    { return r.readOnlyFault("WriteUint32LE") }
func (r *readOnlyBuffer) SetInt32BE(int, int32) error   { return r.readOnlyFault("SetInt32BE") }
func (r *readOnlyBuffer) SetInt32LE(int, int32) error   { return r.readOnlyFault("SetInt32LE") }
func (r *readOnlyBuffer) WriteInt32BE(int32) error      { return r.readOnlyFault("WriteInt32BE") }
func (r *readOnlyBuffer) WriteInt32LE(int32) error      { return r.readOnlyFault("WriteInt32LE") }

func (r *readOnlyBuffer) SetUint64BE(int, uint64) error { return r.readOnlyFault("SetUint64BE") }
func (r *readOnlyBuffer) SetUint64LE(int, uint64) error { return r.readOnlyFault("SetUint64LE") }
func (r *readOnlyBuffer) WriteUint64BE(uint64) error    { return r.readOnlyFault("WriteUint64BE") }
func (r *readOnlyBuffer) WriteUint64LE(uint64) error    { return r.readOnlyFault("WriteUint64LE") }
func (r *readOnlyBuffer) SetInt64BE(int, int64) error   { return r.readOnlyFault("SetInt64BE") }
func (r *readOnlyBuffer) SetInt64LE(int, int64) error   { return r.readOnlyFault("SetInt64LE") }
func (r *readOnlyBuffer) WriteInt64BE(int64) error      { return r.readOnlyFault("WriteInt64BE") }
func (r *readOnlyBuffer) WriteInt64LE(int64) error      { return r.readOnlyFault("WriteInt64LE") }

func (r *readOnlyBuffer) SetBytesFrom(io.Reader, int, int) (int, error) {
	return 0, r.readOnlyFault("SetBytesFrom")
}

func (r *readOnlyBuffer) WriteBytesFrom(io.Reader, int) (int, error) {
	return 0, r.readOnlyFault("WriteBytesFrom")
}

func (r *readOnlyBuffer) WriteBytesFromAsync(ctx context.Context, _ io.Reader, _ int) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	out <- AsyncResult{Err: r.readOnlyFault("WriteBytesFromAsync")}
	return out
}

// unreleasableBuffer absorbs Release calls so the wrapped buffer's
// reference count never drops below 1 through this handle; the original
// owner remains responsible for the real release.
type unreleasableBuffer struct {
	Buffer
}

// NewUnreleasable wraps b so that Release/ReleaseN on the returned Buffer
// are no-ops (they report "not deallocated, no error" without touching the
// underlying count). Retain still forwards normally.
func NewUnreleasable(b Buffer) Buffer {
	return &unreleasableBuffer{b}
}

func (u *unreleasableBuffer) Release() (bool, error)         { return false, nil }
func (u *unreleasableBuffer) ReleaseN(int32) (bool, error)   { return false, nil }
