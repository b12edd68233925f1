package buffer

import "unsafe"

// heapBacking owns a plain Go byte slice. It never exposes a stable memory
// address: growth may relocate the slice, so primitive access always goes
// through GetBytes/SetBytes rather than a pointer.
type heapBacking struct {
	mem []byte
}

func (h *heapBacking) capacity() int { return len(h.mem) }

func (h *heapBacking) growTo(newCapacity int) error {
	if newCapacity <= len(h.mem) {
		return nil
	}

	grown := make([]byte, newCapacity)
	copy(grown, h.mem)
	h.mem = grown

	return nil
}

func (h *heapBacking) getBytes(index int, dst []byte) error {
	copy(dst, h.mem[index:index+len(dst)])
	return nil
}

func (h *heapBacking) setBytes(index int, src []byte) error {
	copy(h.mem[index:index+len(src)], src)
	return nil
}

func (h *heapBacking) hasMemoryAddress() bool { return false }

func (h *heapBacking) memoryAddress(int) (unsafe.Pointer, error) {
	return nil, fault("MemoryAddress", UnsupportedOperation)
}

// NewHeapBuffer allocates a buffer backed by a freshly-made byte slice of
// initialCapacity bytes, growable up to maxCapacity. This is what a plain
// (non-pooled) Allocator hands out.
func NewHeapBuffer(initialCapacity, maxCapacity int) Buffer {
	return newHeapBuffer(make([]byte, initialCapacity), maxCapacity)
}

func newHeapBuffer(mem []byte, maxCapacity int) *buf {
	return newBuf(&heapBacking{mem: mem}, maxCapacity, nil)
}

// WrapHeap adopts an existing byte slice as a heap buffer's storage without
// copying, with the writer index placed at len(mem) (the slice is treated
// as already holding readable content, mirroring how a caller commonly
// wraps an existing []byte).
func WrapHeap(mem []byte, maxCapacity int) Buffer {
	b := newHeapBuffer(mem, maxCapacity)
	b.idx.writerIndex = len(mem)
	return b
}
