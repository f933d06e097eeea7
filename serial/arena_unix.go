//go:build unix

package serial

import (
	"golang.org/x/sys/unix"
)

// mapArena mmaps length bytes of fd starting at start, read-write, shared.
func mapArena(fd int, start int64, length int) ([]byte, error) {
	return unix.Mmap(fd, start, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

// releaseArena unmaps a's current mapping. Must read a.data at call time,
// not at mapArena time: a successful in-place growInPlace replaces a.data
// with a slice unix.Mremap returns under a new tracking key, so munmapping
// the pre-grow slice would miss that key and leak the grown mapping.
func releaseArena(a *arena) error {
	return unix.Munmap(a.data)
}

// msyncArena flushes a's dirty pages synchronously.
func msyncArena(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Msync(data, unix.MS_SYNC)
}
