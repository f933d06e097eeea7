package serial

import (
	"os"
	"sync"

	"github.com/frozenfs/frozenfs/errs"
	"github.com/frozenfs/frozenfs/region"
)

const (
	firstArenaMinPages = 1024
	growMinPages       = 10000
)

// Options configures a File serializer.
type Options struct {
	// PageSize overrides the system page size used to round arena sizes.
	// Zero means use os.Getpagesize().
	PageSize int
}

// DefaultOptions returns the zero-value Options (system page size).
func DefaultOptions() Options { return Options{} }

// File is a file-backed Serializer with growing arenas over one file
// descriptor. allocate_writable, freeze, and commit are safe under
// concurrent calls: an internal mutex serializes all arena manipulation
// and file-length changes.
type File struct {
	mu       sync.Mutex
	f        *os.File
	pageSize int
	size     int64
	arenas   []*arena
	closeErr error
}

// recordCloseErr stashes a stream Sink's close-time failure so the next
// Commit surfaces it, per spec.md 4.8's deferred-error contract. Only the
// first recorded error is kept.
func (s *File) recordCloseErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeErr == nil {
		s.closeErr = err
	}
}

// NewFile wraps an already-open file as a File serializer. The file's
// current size becomes the serializer's initial currentlyAllocated;
// callers creating a fresh file should pass one truncated to zero.
func NewFile(f *os.File, opts Options) (*File, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, errs.New(errs.KindIO, "stat backing file", err)
	}
	ps := opts.PageSize
	if ps <= 0 {
		ps = os.Getpagesize()
	}
	return &File{f: f, pageSize: ps, size: info.Size()}, nil
}

// CreateTemp creates a fresh temp file in dir matching pattern and wraps
// it as a File serializer, matching the S2 scenario's "fresh temp file".
func CreateTemp(dir, pattern string, opts Options) (*File, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, errs.New(errs.KindIO, "create temp file", err)
	}
	return NewFile(f, opts)
}

// Path returns the backing file's path.
func (s *File) Path() string { return s.f.Name() }

// Size returns the file's current on-disk size (currentlyAllocated).
func (s *File) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// AllocateWritable bump-allocates within the last arena, growing it
// in-place or appending a fresh arena as needed. See growOrAppend for the
// growth algorithm.
func (s *File) AllocateWritable(bytes, alignment int) (*region.Mutable, error) {
	if bytes < 0 || alignment < 0 {
		return nil, errs.New(errs.KindAllocation, "negative size or alignment", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if bytes == 0 {
		return region.NewMutable(nil, nil, s), nil
	}
	align := alignUp(alignment)

	if len(s.arenas) == 0 {
		sz := roundPages(int64(bytes+align), s.pageSize)
		minSz := int64(firstArenaMinPages) * int64(s.pageSize)
		if sz < minSz {
			sz = minSz
		}
		if err := s.appendArena(sz); err != nil {
			return nil, err
		}
	}

	for {
		last := s.arenas[len(s.arenas)-1]
		if off, ok := bumpAlloc(last, bytes, align); ok {
			h := last.h.Clone()
			data := last.data[off : off+bytes : off+bytes]
			return region.NewMutable(data, h, s), nil
		}
		if err := s.growOrAppend(bytes, align); err != nil {
			return nil, err
		}
	}
}

// growOrAppend implements steps 3-4 of the allocation algorithm: try an
// in-place grow of the last arena first; if that fails, revert and
// append a fresh arena sized for the request with geometric growth.
func (s *File) growOrAppend(bytes, align int) error {
	last := s.arenas[len(s.arenas)-1]

	growBy := roundPages(int64(bytes+align), s.pageSize)
	minGrow := int64(growMinPages) * int64(s.pageSize)
	if growBy < minGrow {
		growBy = minGrow
	}

	oldSize := s.size
	newSize := oldSize + growBy
	if err := s.f.Truncate(newSize); err != nil {
		return errs.New(errs.KindIO, "truncate file for arena grow", err)
	}

	newLen := len(last.data) + int(growBy)
	ok, err := growInPlace(last, newLen)
	if err != nil {
		if terr := s.f.Truncate(oldSize); terr != nil {
			return errs.New(errs.KindIO, "revert truncate after failed mremap", terr)
		}
		return errs.New(errs.KindIO, "mremap arena in place", err)
	}
	if ok {
		s.size = newSize
		return nil
	}

	if err := s.f.Truncate(oldSize); err != nil {
		return errs.New(errs.KindIO, "revert truncate before new arena", err)
	}

	newArenaLen := int64(bytes + align)
	if minNew := s.size / 8; newArenaLen < minNew {
		newArenaLen = minNew
	}
	newArenaLen = roundPages(newArenaLen, s.pageSize)
	if newArenaLen == 0 {
		newArenaLen = roundPages(int64(bytes+align), s.pageSize)
	}
	return s.appendArena(newArenaLen)
}

// appendArena truncates the file to make room for a new arena of length
// bytes starting at the current end, maps it, and records it.
func (s *File) appendArena(length int64) error {
	start := s.size
	if err := s.f.Truncate(start + length); err != nil {
		return errs.New(errs.KindIO, "truncate file for new arena", err)
	}
	data, err := mapArena(int(s.f.Fd()), start, int(length))
	if err != nil {
		_ = s.f.Truncate(start)
		return errs.New(errs.KindIO, "mmap new arena", err)
	}
	a := &arena{data: data, start: start}
	a.h = region.NewHandle(func() { _ = releaseArena(a) })
	s.arenas = append(s.arenas, a)
	s.size = start + length
	return s.debugVerifyLength()
}

// Freeze wraps m's bytes and arena-derived handle as a Frozen region.
func (s *File) Freeze(m *region.Mutable) (region.Frozen, error) {
	return region.NewFrozen(m.Bytes(), m.Handle()), nil
}

// Commit flushes dirty arena pages and truncates the file to exactly
// last_arena.start + last_arena.current_offset so readers see no
// trailing zeros. If a stream Sink opened on this serializer failed
// during Close, that failure is surfaced here as errs.KindIO instead,
// and the arena flush/truncate is skipped for this call.
func (s *File) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeErr != nil {
		err := s.closeErr
		s.closeErr = nil
		return errs.New(errs.KindIO, "stream close failed before commit", err)
	}
	if len(s.arenas) == 0 {
		return nil
	}
	for _, a := range s.arenas {
		if err := msyncArena(a.data); err != nil {
			return errs.New(errs.KindIO, "msync arena", err)
		}
	}
	last := s.arenas[len(s.arenas)-1]
	newSize := last.start + int64(last.offset)
	if err := s.f.Truncate(newSize); err != nil {
		return errs.New(errs.KindIO, "commit truncate", err)
	}
	s.size = newSize
	return s.debugVerifyLength()
}

// Copy rehomes f into this serializer's backing.
func (s *File) Copy(f region.Frozen) (region.Frozen, error) {
	return copyRegion(s, f)
}

// OpenStream returns a write-side stream sink bound to this serializer.
func (s *File) OpenStream() *Sink {
	return newSink(s)
}

// Close releases the serializer's own reference on every arena's mapping
// handle and closes the file descriptor. Arenas whose mapping is still
// referenced by outstanding Frozen regions stay mapped until those
// regions are released too; closing the descriptor itself is safe, since
// an mmap survives the close of the file descriptor that created it.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.f.Close()
	for _, a := range s.arenas {
		a.h.Release()
	}
	s.arenas = nil
	if err != nil {
		return errs.New(errs.KindIO, "close backing file", err)
	}
	return nil
}

func pagesFor(n int64, pageSize int) int64 {
	if n <= 0 {
		return 0
	}
	return (n + int64(pageSize) - 1) / int64(pageSize)
}

func roundPages(n int64, pageSize int) int64 {
	return pagesFor(n, pageSize) * int64(pageSize)
}
