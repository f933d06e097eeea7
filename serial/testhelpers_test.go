//go:build unix

package serial_test

import (
	"os"
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

// uintptrAddr avoids importing unsafe into the test files that only
// compare addresses for equality/ordering.
type uintptrAddr = uintptr

func addrOf(b []byte) uintptrAddr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

func statFile(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func mmapWholeFile(t *testing.T, path string) ([]byte, func(), error) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = unix.Munmap(data)
		_ = f.Close()
	}
	return data, cleanup, nil
}
