//go:build unix

package mmfile

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// MapRange maps a byte range of the file at path, read-only, MAP_SHARED.
// The mapping is page-aligned: start is rounded down and length rounded
// up to the page boundary. A negative length means "from start to end of
// file". Returns the page-aligned mapped bytes, the byte offset of the
// caller's requested start within that slice (pad), the resolved
// (non-page-aligned) length actually covered, and a release function that
// unmaps the range and closes the file descriptor.
func MapRange(path string, start, length int64) (data []byte, pad, resolved int64, release func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	// On success the descriptor stays open and release closes it along
	// with the mapping; every other return closes it here.
	owned := false
	defer func() {
		if !owned {
			_ = f.Close()
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, 0, nil, err
	}
	size := info.Size()
	if length < 0 {
		length = size - start
	}
	if start < 0 || length < 0 || start+length > size {
		return nil, 0, 0, nil, errOutOfRange
	}
	if length == 0 {
		return []byte{}, 0, 0, func() error { return nil }, nil
	}

	pageSize := int64(os.Getpagesize())
	alignedStart := (start / pageSize) * pageSize
	pad = start - alignedStart
	alignedLen := length + pad
	if rem := alignedLen % pageSize; rem != 0 {
		alignedLen += pageSize - rem
	}
	if alignedStart+alignedLen > size {
		alignedLen = size - alignedStart
	}

	mapped, err := unix.Mmap(int(f.Fd()), alignedStart, int(alignedLen), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	cleanup := func() error {
		err := unix.Munmap(mapped)
		cerr := f.Close()
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			err = nil
		}
		if err == nil && !errors.Is(cerr, os.ErrClosed) {
			err = cerr
		}
		return err
	}
	owned = true
	return mapped, pad, length, cleanup, nil
}
