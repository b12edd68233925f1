package buffer

import (
	"context"
	"io"
	"unsafe"
)

// buf is the single concrete Buffer implementation. Every variant (heap,
// pooled/"direct", composite, derived) is just a buf wired to a different
// backing; the reader/writer index bookkeeping, reference counting and
// primitive access live here exactly once.
type buf struct {
	back        backing
	idx         *indices // shared by pointer with Duplicate views
	rc          *refCount
	maxCapacity int
}

func newBuf(back backing, maxCapacity int, dealloc func()) *buf {
	return &buf{back: back, idx: &indices{}, maxCapacity: maxCapacity, rc: newRefCount(dealloc)}
}

func (b *buf) checkAccessible(op string) error {
	if !b.rc.accessible() {
		return fault(op, IllegalReferenceCount)
	}

	return nil
}

func (b *buf) Capacity() int    { return b.back.capacity() }
func (b *buf) MaxCapacity() int { return b.maxCapacity }

func (b *buf) ReaderIndex() int { return b.idx.readerIndex }
func (b *buf) WriterIndex() int { return b.idx.writerIndex }

func (b *buf) SetReaderIndex(index int) error {
	if err := b.checkAccessible("SetReaderIndex"); err != nil {
		return err
	}

	return b.idx.setReaderIndex(index, b.Capacity())
}

func (b *buf) SetWriterIndex(index int) error {
	if err := b.checkAccessible("SetWriterIndex"); err != nil {
		return err
	}

	return b.idx.setWriterIndex(index, b.Capacity())
}

func (b *buf) ReadableBytes() int { return b.idx.readableBytes(b.Capacity()) }
func (b *buf) WritableBytes() int { return b.Capacity() - b.idx.writerIndex }
func (b *buf) IsReadable() bool   { return b.ReadableBytes() > 0 }
func (b *buf) IsWritable() bool   { return b.WritableBytes() > 0 }

func (b *buf) MarkReaderIndex()  { b.idx.readerMark = b.idx.readerIndex }
func (b *buf) ResetReaderIndex() { b.idx.readerIndex = b.idx.readerMark }
func (b *buf) MarkWriterIndex()  { b.idx.writerMark = b.idx.writerIndex }
func (b *buf) ResetWriterIndex() { b.idx.writerIndex = b.idx.writerMark }

func (b *buf) Clear() {
	b.idx.readerIndex, b.idx.writerIndex = 0, 0
	b.idx.readerMark, b.idx.writerMark = 0, 0
}

func (b *buf) DiscardReadBytes() {
	if b.idx.readerIndex == 0 {
		return
	}

	readable := b.ReadableBytes()
	if readable > 0 {
		tmp := make([]byte, readable)
		_ = b.back.getBytes(b.idx.readerIndex, tmp)
		_ = b.back.setBytes(0, tmp)
	}

	b.idx.writerIndex -= b.idx.readerIndex
	b.idx.readerMark -= b.idx.readerIndex
	if b.idx.readerMark < 0 {
		b.idx.readerMark = 0
	}
	b.idx.writerMark -= b.idx.readerIndex
	if b.idx.writerMark < 0 {
		b.idx.writerMark = 0
	}
	b.idx.readerIndex = 0
}

func (b *buf) EnsureWritable(n int) error {
	if err := b.checkAccessible("EnsureWritable"); err != nil {
		return err
	}

	if n <= 0 {
		return nil
	}

	needed := b.idx.writerIndex + n
	if needed <= b.Capacity() {
		return nil
	}

	if needed > b.maxCapacity {
		return fault("EnsureWritable", BufferOverflow)
	}

	return b.back.growTo(needed)
}

func (b *buf) GetBytes(index int, dst []byte) error {
	if err := b.checkAccessible("GetBytes"); err != nil {
		return err
	}

	if err := b.idx.checkIndex(index, len(dst), b.Capacity()); err != nil {
		return err
	}

	return b.back.getBytes(index, dst)
}

func (b *buf) SetBytes(index int, src []byte) error {
	if err := b.checkAccessible("SetBytes"); err != nil {
		return err
	}

	if err := b.idx.checkIndex(index, len(src), b.Capacity()); err != nil {
		return err
	}

	return b.back.setBytes(index, src)
}

func (b *buf) ReadBytes(dst []byte) error {
	if err := b.checkAccessible("ReadBytes"); err != nil {
		return err
	}

	if len(dst) > b.ReadableBytes() {
		return fault("ReadBytes", IndexOutOfRange)
	}

	if err := b.GetBytes(b.idx.readerIndex, dst); err != nil {
		return err
	}

	b.idx.readerIndex += len(dst)
	return nil
}

func (b *buf) WriteBytes(src []byte) error {
	if err := b.EnsureWritable(len(src)); err != nil {
		return err
	}

	if err := b.SetBytes(b.idx.writerIndex, src); err != nil {
		return err
	}

	b.idx.writerIndex += len(src)
	return nil
}

func (b *buf) SetZero(index, length int) error {
	if length <= 0 {
		return nil
	}

	return b.SetBytes(index, make([]byte, length))
}

func (b *buf) WriteZero(length int) error {
	if length <= 0 {
		return nil
	}

	return b.WriteBytes(make([]byte, length))
}

func (b *buf) SetBytesFrom(r io.Reader, index, length int) (int, error) {
	if err := b.checkAccessible("SetBytesFrom"); err != nil {
		return 0, err
	}

	if err := b.idx.checkIndex(index, length, b.Capacity()); err != nil {
		return 0, err
	}

	tmp := make([]byte, length)
	n, err := io.ReadFull(r, tmp)
	if n > 0 {
		if setErr := b.back.setBytes(index, tmp[:n]); setErr != nil {
			return n, setErr
		}
	}

	return n, err
}

func (b *buf) WriteBytesFrom(r io.Reader, length int) (int, error) {
	if err := b.EnsureWritable(length); err != nil {
		return 0, err
	}

	n, err := b.SetBytesFrom(r, b.idx.writerIndex, length)
	b.idx.writerIndex += n

	return n, err
}

// WriteBytesFromAsync runs WriteBytesFrom on its own goroutine and reports
// the outcome on the returned channel. ctx is checked once, when the
// goroutine starts: if it is already cancelled, indices are left untouched
// and the reported error is ctx.Err(). A cancellation after that point does
// not interrupt the read in progress; the transfer runs to completion or
// failure and its own outcome is reported.
func (b *buf) WriteBytesFromAsync(ctx context.Context, r io.Reader, length int) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)

	go func() {
		if err := ctx.Err(); err != nil {
			out <- AsyncResult{Err: err}
			return
		}

		n, err := b.WriteBytesFrom(r, length)
		out <- AsyncResult{N: n, Err: err}
	}()

	return out
}

func (b *buf) WriteTo(w io.Writer) (int64, error) {
	if err := b.checkAccessible("WriteTo"); err != nil {
		return 0, err
	}

	readable := b.ReadableBytes()
	if readable == 0 {
		return 0, nil
	}

	tmp := make([]byte, readable)
	if err := b.back.getBytes(b.idx.readerIndex, tmp); err != nil {
		return 0, err
	}

	n, err := w.Write(tmp)
	b.idx.readerIndex += n

	return int64(n), err
}

func (b *buf) HasMemoryAddress() bool { return b.back.hasMemoryAddress() }

func (b *buf) MemoryAddress() (unsafe.Pointer, error) {
	if err := b.checkAccessible("MemoryAddress"); err != nil {
		return nil, err
	}

	return b.back.memoryAddress(0)
}

func (b *buf) Copy(index, length int) (Buffer, error) {
	if err := b.checkAccessible("Copy"); err != nil {
		return nil, err
	}

	if err := b.idx.checkIndex(index, length, b.Capacity()); err != nil {
		return nil, err
	}

	tmp := make([]byte, length)
	if err := b.back.getBytes(index, tmp); err != nil {
		return nil, err
	}

	cp := newHeapBuffer(tmp, b.maxCapacity)
	cp.idx.writerIndex = length

	return cp, nil
}

func (b *buf) sliceView(index, length int) (*buf, error) {
	if err := b.checkAccessible("Slice"); err != nil {
		return nil, err
	}

	if err := b.idx.checkIndex(index, length, b.Capacity()); err != nil {
		return nil, err
	}

	view := &viewBacking{parent: b.back, base: index, length: length}
	derived := &buf{back: view, idx: &indices{}, maxCapacity: length, rc: b.rc}
	derived.idx.writerIndex = length

	return derived, nil
}

func (b *buf) Slice(index, length int) (Buffer, error) {
	return b.sliceView(index, length)
}

func (b *buf) Duplicate() (Buffer, error) {
	if err := b.checkAccessible("Duplicate"); err != nil {
		return nil, err
	}

	view := &viewBacking{parent: b.back, base: 0, length: b.Capacity()}
	derived := &buf{back: view, maxCapacity: b.maxCapacity, rc: b.rc, idx: b.idx}

	return derived, nil
}

func (b *buf) RetainedSlice(index, length int) (Buffer, error) {
	derived, err := b.sliceView(index, length)
	if err != nil {
		return nil, err
	}

	if err := b.rc.retain(1); err != nil {
		return nil, err
	}

	return derived, nil
}

func (b *buf) RetainedDuplicate() (Buffer, error) {
	dup, err := b.Duplicate()
	if err != nil {
		return nil, err
	}

	if err := b.rc.retain(1); err != nil {
		return nil, err
	}

	return dup, nil
}

func (b *buf) Retain() error         { return b.rc.retain(1) }
func (b *buf) RetainN(n int32) error { return b.rc.retain(n) }

func (b *buf) Release() (bool, error)          { return b.rc.release(1) }
func (b *buf) ReleaseN(n int32) (bool, error)  { return b.rc.release(n) }
func (b *buf) ReferenceCount() int32           { return b.rc.get() }
func (b *buf) IsAccessible() bool              { return b.rc.accessible() }
func (b *buf) SetReferenceCount(v int32)       { b.rc.setAbsolute(v) }
func (b *buf) ResetReferenceCount()            { b.rc.reset() }
