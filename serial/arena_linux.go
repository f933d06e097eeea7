//go:build linux

package serial

import (
	"errors"

	"golang.org/x/sys/unix"
)

// growInPlace attempts an in-place mremap of a to newLen at the same
// virtual address (flags=0 forbids the kernel from relocating the
// mapping). ENOMEM means the kernel could not extend in place, which is
// reported as ok=false so the caller falls back to a new arena rather
// than as an error.
func growInPlace(a *arena, newLen int) (bool, error) {
	newData, err := unix.Mremap(a.data, newLen, 0)
	if err != nil {
		if errors.Is(err, unix.ENOMEM) {
			return false, nil
		}
		return false, err
	}
	a.data = newData
	return true, nil
}
