package buffer

// Allocator is the external collaborator described in the interfaces
// section: it is how every other subsystem (the HTTP content decoder, the
// WebSocket deflate decoder) obtains fresh buffers without knowing whether
// they end up heap- or pool-backed.
type Allocator interface {
	// Buffer allocates a buffer with the given initial capacity: a heap
	// buffer from NewAllocator, a pooled direct buffer from
	// NewPooledAllocator.
	Buffer(initialCapacity int) Buffer
	// CompositeDirectBuffer allocates an empty composite buffer whose
	// components, once added, are expected to be direct/pooled buffers.
	CompositeDirectBuffer() *CompositeBuffer
}

// Config mirrors the teacher's nested Default/Maximal option-struct idiom
// (config.HeadersNumber, config.NETWriteBufferSize, ...): every allocator
// produced by NewAllocator hands out buffers with these bounds unless the
// caller passes its own initial capacity up front.
type Config struct {
	// InitialCapacity is used whenever a caller passes a non-positive
	// capacity to Buffer.
	InitialCapacity int
	// MaxCapacity bounds how far EnsureWritable is allowed to grow any
	// buffer this allocator produces.
	MaxCapacity int
}

// DefaultConfig matches indigo's own default buffer sizing order of
// magnitude (a few KiB default, generous ceiling).
var DefaultConfig = Config{
	InitialCapacity: 4 << 10,
	MaxCapacity:     16 << 20,
}

type heapAllocator struct {
	cfg Config
}

// NewAllocator returns an Allocator that hands out plain heap buffers.
func NewAllocator(cfg Config) Allocator {
	return &heapAllocator{cfg: cfg}
}

func (a *heapAllocator) Buffer(initialCapacity int) Buffer {
	if initialCapacity <= 0 {
		initialCapacity = a.cfg.InitialCapacity
	}

	return NewHeapBuffer(initialCapacity, a.cfg.MaxCapacity)
}

func (a *heapAllocator) CompositeDirectBuffer() *CompositeBuffer {
	return NewCompositeBuffer(a.cfg.MaxCapacity)
}

type pooledAllocator struct {
	cfg  Config
	pool *Pool
}

// NewPooledAllocator returns an Allocator whose Buffer() calls draw from a
// shared Pool instead of allocating fresh heap slices every time.
func NewPooledAllocator(cfg Config, pool *Pool) Allocator {
	return &pooledAllocator{cfg: cfg, pool: pool}
}

func (a *pooledAllocator) Buffer(initialCapacity int) Buffer {
	if initialCapacity <= 0 {
		initialCapacity = a.cfg.InitialCapacity
	}

	return NewDirectBuffer(a.pool, initialCapacity, a.cfg.MaxCapacity)
}

func (a *pooledAllocator) CompositeDirectBuffer() *CompositeBuffer {
	return NewCompositeBuffer(a.cfg.MaxCapacity)
}
