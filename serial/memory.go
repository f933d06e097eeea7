package serial

import (
	"sync"
	"unsafe"

	"github.com/frozenfs/frozenfs/errs"
	"github.com/frozenfs/frozenfs/region"
)

// Memory is a heap-backed Serializer. Each AllocateWritable call performs
// one independent heap allocation; the returned handle's release is a
// no-op, since Go's garbage collector reclaims the backing array once the
// last region referencing it is dropped (there is no manual free to
// perform, unlike a file-backed arena's munmap).
type Memory struct {
	mu       sync.Mutex
	closeErr error
}

// recordCloseErr stashes a stream Sink's close-time failure so the next
// Commit surfaces it, per spec.md 4.8's deferred-error contract. Only the
// first recorded error is kept.
func (s *Memory) recordCloseErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeErr == nil {
		s.closeErr = err
	}
}

// NewMemory constructs a heap-backed Serializer.
func NewMemory() *Memory { return &Memory{} }

// AllocateWritable over-allocates by the alignment and returns an aligned
// sub-slice, since make([]byte, n) makes no alignment guarantee beyond
// what the runtime's allocator happens to produce.
func (s *Memory) AllocateWritable(bytes, alignment int) (*region.Mutable, error) {
	if bytes < 0 || alignment < 0 {
		return nil, errs.New(errs.KindAllocation, "negative size or alignment", nil)
	}
	if bytes == 0 {
		return region.NewMutable(nil, nil, s), nil
	}
	align := alignUp(alignment)
	raw := make([]byte, bytes+align)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	pad := 0
	if rem := addr % uintptr(align); rem != 0 {
		pad = align - int(rem)
	}
	aligned := raw[pad : pad+bytes : pad+bytes]
	h := region.NewHandle(func() {})
	return region.NewMutable(aligned, h, s), nil
}

// Freeze wraps m's bytes and handle as a Frozen region.
func (s *Memory) Freeze(m *region.Mutable) (region.Frozen, error) {
	return region.NewFrozen(m.Bytes(), m.Handle()), nil
}

// Commit is a no-op for a heap-backed serializer, unless a stream Sink
// opened on it failed during Close, in which case that failure surfaces
// here as errs.KindIO.
func (s *Memory) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeErr != nil {
		err := s.closeErr
		s.closeErr = nil
		return errs.New(errs.KindIO, "stream close failed before commit", err)
	}
	return nil
}

// Copy rehomes f into this serializer's backing.
func (s *Memory) Copy(f region.Frozen) (region.Frozen, error) {
	return copyRegion(s, f)
}

// OpenStream returns a write-side stream sink bound to this serializer.
func (s *Memory) OpenStream() *Sink {
	return newSink(s)
}
