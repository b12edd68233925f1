package buffer

import "sync/atomic"

// refCount is a lock-free reference counter, shared by pointer between a
// buffer and every derived (sliced/duplicated) view over it, exactly as
// spec'd: retain/release race via compare-and-swap, a retain on a count
// that already reached zero fails instead of resurrecting the buffer, and
// the transition to zero runs the deallocation hook exactly once.
//
// The counter is biased by one: a live, unreleased buffer holds count == 1.
// This mirrors the allocator contract ("initialised to 1").
type refCount struct {
	v       atomic.Int32
	dealloc func()
}

func newRefCount(dealloc func()) *refCount {
	rc := &refCount{dealloc: dealloc}
	rc.v.Store(1)
	return rc
}

func (rc *refCount) get() int32 {
	return rc.v.Load()
}

func (rc *refCount) accessible() bool {
	return rc.get() > 0
}

// retain adds n (n >= 1) references. Fails if the buffer is already
// deallocated (count == 0, "resurrection") or if the increment would
// overflow.
func (rc *refCount) retain(n int32) error {
	for {
		cur := rc.v.Load()
		if cur <= 0 {
			return fault("retain", IllegalReferenceCount)
		}

		next := cur + n
		if next <= cur {
			// overflow: the sum wrapped around to something not greater
			// than what we started with.
			return fault("retain", IllegalReferenceCount)
		}

		if rc.v.CompareAndSwap(cur, next) {
			return nil
		}
	}
}

// release subtracts n references. Fails if fewer than n references remain.
// Reports whether this call drove the count to zero, in which case it has
// already invoked dealloc exactly once.
func (rc *refCount) release(n int32) (deallocated bool, err error) {
	for {
		cur := rc.v.Load()
		if cur < n {
			return false, fault("release", IllegalReferenceCount)
		}

		next := cur - n
		if !rc.v.CompareAndSwap(cur, next) {
			continue
		}

		if next == 0 {
			if rc.dealloc != nil {
				rc.dealloc()
			}
			return true, nil
		}

		return false, nil
	}
}

// setAbsolute is the unsafe subclass-initialisation escape hatch: it
// overwrites the count outright. Not part of the user-facing contract.
func (rc *refCount) setAbsolute(v int32) {
	rc.v.Store(v)
}

// reset sets the count back to 1. Not part of the user-facing contract.
func (rc *refCount) reset() {
	rc.v.Store(1)
}
