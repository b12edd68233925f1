package buffer

import "unsafe"

// component is one child slice of a composite buffer, as described in the
// data model: a child buffer, its starting offset within the composite's
// logical address space, its length, and the adjustment needed to turn a
// composite-relative index back into a child-relative one.
type component struct {
	child      Buffer
	offset     int
	length     int
	adjustment int
}

// compositeBacking walks an ordered list of components for every read or
// write; it never owns bytes directly. Capacity is always the sum of the
// components' lengths, recomputed as components are added/removed.
type compositeBacking struct {
	components []component
}

func (cb *compositeBacking) capacity() int {
	total := 0
	for _, c := range cb.components {
		total += c.length
	}
	return total
}

func (cb *compositeBacking) growTo(int) error {
	return fault("EnsureWritable", UnsupportedOperation)
}

func (cb *compositeBacking) find(index int) (componentIndex, relative int, ok bool) {
	for i, c := range cb.components {
		if index < c.offset+c.length {
			return i, index - c.offset, true
		}
	}
	return 0, 0, false
}

func (cb *compositeBacking) getBytes(index int, dst []byte) error {
	for len(dst) > 0 {
		ci, relative, ok := cb.find(index)
		if !ok {
			return fault("GetBytes", IndexOutOfRange)
		}

		c := cb.components[ci]
		n := min(len(dst), c.length-relative)
		if err := c.child.GetBytes(relative+c.adjustment, dst[:n]); err != nil {
			return err
		}

		dst = dst[n:]
		index += n
	}

	return nil
}

func (cb *compositeBacking) setBytes(index int, src []byte) error {
	for len(src) > 0 {
		ci, relative, ok := cb.find(index)
		if !ok {
			return fault("SetBytes", IndexOutOfRange)
		}

		c := cb.components[ci]
		n := min(len(src), c.length-relative)
		if err := c.child.SetBytes(relative+c.adjustment, src[:n]); err != nil {
			return err
		}

		src = src[n:]
		index += n
	}

	return nil
}

func (cb *compositeBacking) hasMemoryAddress() bool { return false }

func (cb *compositeBacking) memoryAddress(int) (unsafe.Pointer, error) {
	return nil, fault("MemoryAddress", UnsupportedOperation)
}

func (cb *compositeBacking) releaseAll() {
	for _, c := range cb.components {
		_, _ = c.child.Release()
	}
	cb.components = nil
}

// CompositeBuffer is an ordered sequence of child buffer slices presented
// as one logically contiguous Buffer, without copying their bytes.
type CompositeBuffer struct {
	*buf
	back *compositeBacking
}

// NewCompositeBuffer returns an empty composite buffer. Components are
// added with AddComponent.
func NewCompositeBuffer(maxCapacity int) *CompositeBuffer {
	back := &compositeBacking{}
	b := newBuf(back, maxCapacity, back.releaseAll)

	return &CompositeBuffer{buf: b, back: back}
}

// AddComponent appends child's currently-readable window as a new
// component, retaining child on its own behalf. When increaseWriterIndex
// is true, the composite's writer index grows by the component's readable
// byte count (the common case: the component is newly-produced output
// rather than a pre-existing tail end).
func (c *CompositeBuffer) AddComponent(child Buffer, increaseWriterIndex bool) error {
	if err := c.checkAccessible("AddComponent"); err != nil {
		return err
	}

	if err := child.Retain(); err != nil {
		return err
	}

	start := child.ReaderIndex()
	length := child.ReadableBytes()
	offset := c.back.capacity()

	c.back.components = append(c.back.components, component{
		child:      child,
		offset:     offset,
		length:     length,
		adjustment: start,
	})

	if increaseWriterIndex {
		c.idx.writerIndex += length
	}

	return nil
}

// NumComponents reports how many components currently make up the
// composite.
func (c *CompositeBuffer) NumComponents() int {
	return len(c.back.components)
}

// RemoveComponent drops the component at i, releasing the reference this
// composite held on it, and shifts subsequent components' offsets (and the
// reader/writer indices, if they'd advanced into the removed region) down
// accordingly.
func (c *CompositeBuffer) RemoveComponent(i int) error {
	if i < 0 || i >= len(c.back.components) {
		return fault("RemoveComponent", IndexOutOfRange)
	}

	removed := c.back.components[i]
	_, err := removed.child.Release()

	c.back.components = append(c.back.components[:i], c.back.components[i+1:]...)
	for j := i; j < len(c.back.components); j++ {
		c.back.components[j].offset -= removed.length
	}

	shiftIndex := func(idx int) int {
		if idx <= removed.offset {
			return idx
		}
		shrink := min(idx-removed.offset, removed.length)
		return idx - shrink
	}
	c.idx.writerIndex = shiftIndex(c.idx.writerIndex)
	c.idx.readerIndex = shiftIndex(c.idx.readerIndex)

	return err
}

// Consolidate merges components [fromIndex, toIndex) into one freshly
// allocated heap buffer, releasing the originals.
func (c *CompositeBuffer) Consolidate(fromIndex, toIndex int) error {
	if fromIndex < 0 || toIndex > len(c.back.components) || fromIndex >= toIndex {
		return fault("Consolidate", IndexOutOfRange)
	}

	merging := c.back.components[fromIndex:toIndex]
	total := 0
	for _, comp := range merging {
		total += comp.length
	}

	merged := make([]byte, total)
	pos := 0
	for _, comp := range merging {
		if err := comp.child.GetBytes(comp.adjustment, merged[pos:pos+comp.length]); err != nil {
			return err
		}
		pos += comp.length
		_, _ = comp.child.Release()
	}

	freshBuf := newHeapBuffer(merged, total)
	freshBuf.idx.writerIndex = total

	newComponent := component{
		child:      freshBuf,
		offset:     c.back.components[fromIndex].offset,
		length:     total,
		adjustment: 0,
	}

	rebuilt := make([]component, 0, len(c.back.components)-(toIndex-fromIndex)+1)
	rebuilt = append(rebuilt, c.back.components[:fromIndex]...)
	rebuilt = append(rebuilt, newComponent)
	rebuilt = append(rebuilt, c.back.components[toIndex:]...)
	c.back.components = rebuilt

	return nil
}
