package variant

import "sync/atomic"

// sentinelByte overwrites a block's backing storage when an Arena is
// destroyed, a 0xCD diagnostic poison value. Go's GC reclaims the
// memory regardless; the overwrite exists only so a dangling read
// surfaces recognizably bad data instead of silently stale content.
const sentinelByte = 0xCD

// Arena is a reference-counted allocation region. Every arena-owned
// Variant (composite values, and arena-copied strings/blobs) has a
// lifetime bounded by the Arena that created it. Destroying an arena
// runs its cleanup callbacks in registration order, releases any
// sub-arenas it adopted, and poisons the raw blocks it allocated.
type Arena struct {
	refs      int32
	blocks    [][]byte
	cleanups  []func()
	adopted   []*Arena
	destroyed bool
}

// NewArena creates a fresh arena with one reference.
func NewArena() *Arena {
	return &Arena{refs: 1}
}

// Retain increments the reference count and returns the arena, so
// callers can chain `a := src.Retain()`.
func (a *Arena) Retain() *Arena {
	atomic.AddInt32(&a.refs, 1)
	return a
}

// Release decrements the reference count, destroying the arena once it
// reaches zero. Releasing an already-destroyed arena is a no-op.
func (a *Arena) Release() {
	if a.destroyed {
		return
	}
	if atomic.AddInt32(&a.refs, -1) == 0 {
		a.destroy()
	}
}

// AddCleanup registers a callback to run, in registration order, when
// the arena is destroyed.
func (a *Arena) AddCleanup(fn func()) {
	a.cleanups = append(a.cleanups, fn)
}

// Adopt takes shared ownership of a sub-arena: releasing the parent will
// release the child too, once all of the parent's own references are
// gone.
func (a *Arena) Adopt(sub *Arena) {
	sub.Retain()
	a.adopted = append(a.adopted, sub)
}

// NewBlock allocates and tracks a block of raw storage owned by this
// arena. It panics if the arena has already been destroyed, since that
// is a programmer error (use-after-free), not a runtime condition.
func (a *Arena) NewBlock(size int) []byte {
	if a.destroyed {
		panic("variant: allocation from a destroyed arena")
	}
	block := make([]byte, size)
	a.blocks = append(a.blocks, block)
	return block
}

// IsDestroyed reports whether Release has dropped this arena's refcount
// to zero.
func (a *Arena) IsDestroyed() bool {
	return a.destroyed
}

func (a *Arena) destroy() {
	a.destroyed = true
	for _, fn := range a.cleanups {
		fn()
	}
	for _, sub := range a.adopted {
		sub.Release()
	}
	for _, block := range a.blocks {
		for i := range block {
			block[i] = sentinelByte
		}
	}
	a.blocks = nil
	a.cleanups = nil
	a.adopted = nil
}
