//go:build !unix && !windows

package mmfile

import "os"

// MapRange reads the requested range into a heap buffer when mmap is not
// available. pad is always 0 and resolved equals the returned length
// exactly, since there is no page alignment to account for.
func MapRange(path string, start, length int64) (data []byte, pad, resolved int64, release func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	defer f.Close()

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

	buf := make([]byte, length)
	if _, err := f.ReadAt(buf, start); err != nil {
		return nil, 0, 0, nil, err
	}
	return buf, 0, length, func() error { return nil }, nil
}
