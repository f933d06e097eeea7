package region

import (
	"unsafe"

	"github.com/frozenfs/frozenfs/errs"
	"github.com/frozenfs/frozenfs/internal/buf"
)

// Frozen is an immutable, shareable, zero-copy byte region: a (pointer,
// length, handle) triple. It stays valid as long as any clone of its
// handle is live.
type Frozen struct {
	data []byte
	h    *Handle
}

// NewFrozen wraps data with the given handle. The handle is not cloned;
// callers that want an independent reference should Clone it first.
func NewFrozen(data []byte, h *Handle) Frozen {
	return Frozen{data: data, h: h}
}

// Empty returns a zero-length Frozen region with no backing handle.
func Empty() Frozen {
	return Frozen{}
}

// Bytes returns the region's bytes. Callers must not mutate the returned
// slice; doing so violates the immutability invariant shared with every
// other clone of this region's handle.
func (f Frozen) Bytes() []byte { return f.data }

// Len returns the region's length in bytes.
func (f Frozen) Len() int { return len(f.data) }

// Addr returns the numeric address of the region's first byte, or 0 for
// an empty region. Used by alignment checks and tests; not meaningful for
// any purpose beyond that, since Go's GC may relocate stack-allocated
// backing arrays (it never does so for heap/mmap-backed regions, which is
// all this package ever produces data from).
func (f Frozen) Addr() uintptr {
	if len(f.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&f.data[0]))
}

// Handle returns the region's ownership handle, or nil if the region owns
// nothing releasable (the zero-length fast path).
func (f Frozen) Handle() *Handle { return f.h }

// Clone returns a Frozen region sharing the same bytes with an
// independent reference on the handle.
func (f Frozen) Clone() Frozen {
	return Frozen{data: f.data, h: f.h.Clone()}
}

// Release drops this region's reference to its handle. Call at most once
// per Frozen value obtained via Clone or returned by a Serializer/
// Reconstituter; sub-slices share the parent's single reference and must
// not each be released independently unless produced by Clone.
func (f Frozen) Release() { f.h.Release() }

// Slice returns the sub-region [start:end), sharing this region's handle.
// Fails with errs.KindOutOfBounds unless 0 <= start <= end <= f.Len().
func (f Frozen) Slice(start, end int) (Frozen, error) {
	if end < start {
		return Frozen{}, errs.New(errs.KindOutOfBounds, "frozen region slice out of range", nil)
	}
	sliced, ok := buf.Slice(f.data, start, end-start)
	if !ok {
		return Frozen{}, errs.New(errs.KindOutOfBounds, "frozen region slice out of range", nil)
	}
	return Frozen{data: sliced, h: f.h}, nil
}
