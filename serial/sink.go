package serial

import (
	"bytes"

	"github.com/frozenfs/frozenfs/region"
)

// Sink is the write-side stream adapter: it accumulates bytes in an
// internal buffer and, on Close, performs a single allocate+copy+freeze
// of the accumulated bytes into its owning Serializer. Close is
// infallible from the caller's perspective once begun: a failure during
// that allocate+copy+freeze is handed to the owner via recordCloseErr
// (when the owner supports it) and surfaces as errs.KindIO on the
// owner's next Commit instead of failing Close itself.
type Sink struct {
	owner  allocator
	buf    bytes.Buffer
	closed bool
	region region.Frozen
	err    error
}

// closeErrorRecorder lets a Sink hand a close-time allocate/copy/freeze
// failure to its owning serializer rather than returning it from Close.
// File and Memory both implement this; an owner that doesn't (a leaf
// serializer with no independent commit step) gets the error back from
// Close directly, as before.
type closeErrorRecorder interface {
	recordCloseErr(err error)
}

// newSink constructs a Sink bound to owner. Unexported: callers obtain
// one through a Serializer's OpenStream method.
func newSink(owner allocator) *Sink {
	return &Sink{owner: owner}
}

// NewSink constructs a Sink bound to any Allocator, for callers outside
// this package that implement their own leaf-serializer semantics (the
// container package's entry serializer, in particular).
func NewSink(owner Allocator) *Sink {
	return newSink(owner)
}

// Write appends p to the sink's internal buffer. Never fails once the
// sink is open; writing after Close returns an error.
func (s *Sink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, errClosedSink
	}
	return s.buf.Write(p)
}

// Close flushes the accumulated bytes into the owning serializer and
// freezes them. Idempotent: subsequent calls return the same result.
func (s *Sink) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true
	frozen, err := copyRegion(s.owner, region.NewFrozen(s.buf.Bytes(), nil))
	s.region = frozen
	if err == nil {
		return nil
	}
	if rec, ok := s.owner.(closeErrorRecorder); ok {
		rec.recordCloseErr(err)
		return nil
	}
	s.err = err
	return err
}

// Region returns the frozen region produced at Close. Only meaningful
// after Close has returned a nil error.
func (s *Sink) Region() region.Frozen { return s.region }
