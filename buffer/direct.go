package buffer

import (
	"runtime"
	"sync"
	"unsafe"
)

// directBacking is the "direct"/pooled variant: a byte slice drawn from a
// sync.Pool and pinned for the buffer's lifetime, so MemoryAddress is a
// stable pointer for as long as the buffer is accessible. This is the
// ".NET 4.0-style" path the design notes describe: since Go's allocator
// doesn't expose true off-heap memory without cgo, stability is obtained by
// pinning the slice with runtime.Pinner rather than by allocating outside
// the GC'd heap.
type directBacking struct {
	mem    []byte
	pool   *Pool
	pinner runtime.Pinner
	pinned bool
}

func (d *directBacking) capacity() int { return len(d.mem) }

func (d *directBacking) growTo(newCapacity int) error {
	if newCapacity <= len(d.mem) {
		return nil
	}

	grown := d.pool.get(newCapacity)
	copy(grown, d.mem)
	d.pool.put(d.mem)
	d.mem = grown

	if d.pinned {
		d.pinner.Unpin()
		d.pin()
	}

	return nil
}

func (d *directBacking) pin() {
	if len(d.mem) > 0 {
		d.pinner.Pin(&d.mem[0])
	}
	d.pinned = true
}

func (d *directBacking) getBytes(index int, dst []byte) error {
	copy(dst, d.mem[index:index+len(dst)])
	return nil
}

func (d *directBacking) setBytes(index int, src []byte) error {
	copy(d.mem[index:index+len(src)], src)
	return nil
}

func (d *directBacking) hasMemoryAddress() bool { return true }

func (d *directBacking) memoryAddress(index int) (unsafe.Pointer, error) {
	if index < 0 || index > len(d.mem) {
		return nil, fault("MemoryAddress", IndexOutOfRange)
	}
	if len(d.mem) == 0 {
		return nil, nil
	}
	if index == len(d.mem) {
		index--
	}
	return unsafe.Pointer(&d.mem[index]), nil
}

func (d *directBacking) release() {
	if d.pinned {
		d.pinner.Unpin()
		d.pinned = false
	}
	d.pool.put(d.mem)
	d.mem = nil
}

// Pool is a small pooled allocator for direct buffers, bucketed by
// power-of-two size classes to keep reuse effective across a wide range of
// message sizes without per-size pools, following the slab/arena idiom
// seen across the wider buffer-pool corpus (slab allocators bucket
// fixed-size classes rather than pooling every distinct length).
type Pool struct {
	buckets [poolBuckets]sync.Pool
}

const poolBuckets = 20 // covers size classes from 64 B up to 2^24 (16 MiB) + overflow bucket

func NewPool() *Pool {
	return &Pool{}
}

func bucketIndex(size int) int {
	idx := 0
	for cap := 64; cap < size && idx < poolBuckets-1; cap <<= 1 {
		idx++
	}
	return idx
}

func (p *Pool) get(size int) []byte {
	idx := bucketIndex(size)

	if v := p.buckets[idx].Get(); v != nil {
		mem := v.([]byte)
		if cap(mem) >= size {
			return mem[:size]
		}
	}

	bucketCap := 64 << idx
	if bucketCap < size {
		bucketCap = size
	}

	return make([]byte, size, bucketCap)
}

func (p *Pool) put(mem []byte) {
	if cap(mem) == 0 {
		return
	}

	idx := bucketIndex(cap(mem))
	p.buckets[idx].Put(mem[:0:cap(mem)])
}

// NewDirectBuffer draws initialCapacity bytes from pool, pins them, and
// returns a Buffer growable up to maxCapacity. Deallocation returns the
// backing slice to pool and unpins it.
func NewDirectBuffer(pool *Pool, initialCapacity, maxCapacity int) Buffer {
	back := &directBacking{mem: pool.get(initialCapacity), pool: pool}
	back.pin()

	return newBuf(back, maxCapacity, back.release)
}
