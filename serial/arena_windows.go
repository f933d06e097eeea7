//go:build windows

package serial

import (
	"github.com/frozenfs/frozenfs/errs"
)

// mapArena has no read-write MAP_SHARED equivalent wired up on this
// platform; File.appendArena surfaces this as an IOError rather than
// silently degrading to a read-only or copy-based mapping.
func mapArena(fd int, start int64, length int) ([]byte, error) {
	return nil, errs.New(errs.KindIO, "file-backed serializer requires a unix mmap implementation", nil)
}

func releaseArena(a *arena) error { return nil }

func msyncArena(data []byte) error { return nil }
