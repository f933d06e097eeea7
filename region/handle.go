// Package region implements the zero-copy byte-region types shared by the
// serial and container packages: an opaque ownership Handle, an immutable
// Frozen region, and a single-writer Mutable region that a Serializer
// freezes into one.
package region

import "sync/atomic"

// Handle is a reference-counted ownership token over some backing storage
// (a heap allocation, a file mapping, or nothing at all). The storage is
// released exactly once, when the last clone drops to zero references.
// A nil *Handle is valid and denotes storage with nothing to release (the
// zero-length fast path).
type Handle struct {
	refs    int32
	release func()
}

// NewHandle wraps release in a Handle with one outstanding reference.
// release may be nil, in which case Release is a no-op.
func NewHandle(release func()) *Handle {
	if release == nil {
		return nil
	}
	return &Handle{refs: 1, release: release}
}

// Clone returns a new reference to the same underlying storage. Safe to
// call from any goroutine; safe to call on a nil Handle.
func (h *Handle) Clone() *Handle {
	if h == nil {
		return nil
	}
	atomic.AddInt32(&h.refs, 1)
	return h
}

// Release drops one reference, running the underlying release action when
// the count reaches zero. Safe to call on a nil Handle. Clone returns the
// same *Handle, so Release must be called exactly once per reference taken
// (the one from NewHandle plus one per Clone); calling it more often runs
// the release action early and is a usage error.
func (h *Handle) Release() {
	if h == nil {
		return
	}
	if atomic.AddInt32(&h.refs, -1) == 0 {
		h.release()
	}
}
