package serial

import (
	"unsafe"

	"github.com/frozenfs/frozenfs/internal/buf"
	"github.com/frozenfs/frozenfs/region"
)

// arena is a contiguous, page-aligned span of the backing file, mapped
// into memory and served via bump allocation: (base address, start
// offset in file, length, current offset). Only the most recently
// appended arena is ever grown; earlier arenas are immutable once a new
// one is appended.
type arena struct {
	data   []byte
	start  int64
	offset int
	h      *region.Handle
}

// bumpAlloc carves bytes out of a's remaining space, padding offset so
// the returned slice's address is a multiple of align. Reports false
// without mutating a if the arena has insufficient remaining space.
func bumpAlloc(a *arena, bytes, align int) (int, bool) {
	if len(a.data) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(&a.data[0]))
	addr := base + uintptr(a.offset)
	pad := 0
	if rem := addr % uintptr(align); rem != 0 {
		pad = align - int(rem)
	}
	start := a.offset + pad
	if !buf.Has(a.data, start, bytes) {
		return 0, false
	}
	a.offset = start + bytes
	return start, true
}
