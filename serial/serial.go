// Package serial implements the Serializer contract: allocating aligned
// writable regions, freezing them, and committing bookkeeping. Memory is
// the heap-backed implementation; File is the growing-arena, file-backed
// one.
package serial

import (
	"unsafe"

	"github.com/frozenfs/frozenfs/region"
)

// pointerSize is the minimum alignment every allocation honors regardless
// of the requested alignment, matching the platform's native word size.
const pointerSize = unsafe.Sizeof(uintptr(0))

// Serializer is the full contract shared by Memory and File: allocate,
// freeze (via region.Freezer), commit, copy a foreign region into this
// serializer's backing, and open a write-side stream.
type Serializer interface {
	region.Freezer
	AllocateWritable(bytes, alignment int) (*region.Mutable, error)
	Commit() error
	Copy(f region.Frozen) (region.Frozen, error)
	OpenStream() *Sink
}

// Allocator is the subset of Serializer a Sink or an external entry
// serializer needs in order to be driven by package-level helpers here.
type Allocator interface {
	AllocateWritable(bytes, alignment int) (*region.Mutable, error)
}

// allocator is kept as the internal name used throughout this package's
// unexported helpers; it is identical to Allocator.
type allocator = Allocator

// copyRegion allocates len(f) bytes from a, copies f's bytes in, and
// freezes. A zero-length source region short-circuits without touching
// the allocator, mirroring the original implementation's fast path.
func copyRegion(a allocator, f region.Frozen) (region.Frozen, error) {
	if f.Len() == 0 {
		return region.Empty(), nil
	}
	m, err := a.AllocateWritable(f.Len(), 1)
	if err != nil {
		return region.Frozen{}, err
	}
	copy(m.Bytes(), f.Bytes())
	return m.Freeze()
}

func alignUp(alignment int) int {
	if alignment < int(pointerSize) {
		return int(pointerSize)
	}
	return alignment
}
