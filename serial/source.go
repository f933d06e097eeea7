package serial

import (
	"io"

	"github.com/frozenfs/frozenfs/region"
)

// Source is the read-side stream adapter: a seekable, read-only view over
// a Frozen region. It holds its own clone of the region's handle so it
// outlives any transient reference to the region that created it.
// Out-of-range seeks clamp to the region's bounds rather than erroring,
// matching a plain byte-slice reader rather than an os.File.
type Source struct {
	data []byte
	h    *region.Handle
	pos  int64
}

// NewSource wraps f in a Source. f is cloned internally; the caller's
// copy of f may be released independently once NewSource returns.
func NewSource(f region.Frozen) *Source {
	clone := f.Clone()
	return &Source{data: clone.Bytes(), h: clone.Handle()}
}

// Read implements io.Reader.
func (s *Source) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

// Seek implements io.Seeker, clamping the result to [0, len(data)] instead
// of failing on an out-of-range request.
func (s *Source) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.pos + offset
	case io.SeekEnd:
		target = int64(len(s.data)) + offset
	default:
		return 0, errInvalidWhence
	}
	switch {
	case target < 0:
		target = 0
	case target > int64(len(s.data)):
		target = int64(len(s.data))
	}
	s.pos = target
	return s.pos, nil
}

// Len returns the total number of bytes available.
func (s *Source) Len() int { return len(s.data) }

// Close releases the Source's reference to the underlying region.
func (s *Source) Close() error {
	s.h.Release()
	return nil
}
