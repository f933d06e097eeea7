package serial

import (
	"errors"
	"testing"

	"github.com/frozenfs/frozenfs/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deferringAllocator fails every allocation and records the error handed
// to it via recordCloseErr, the way File and Memory do.
type deferringAllocator struct {
	allocErr error
	recorded error
}

func (a *deferringAllocator) AllocateWritable(bytes, alignment int) (*region.Mutable, error) {
	return nil, a.allocErr
}

func (a *deferringAllocator) recordCloseErr(err error) {
	if a.recorded == nil {
		a.recorded = err
	}
}

// plainAllocator fails every allocation and has no recordCloseErr method,
// standing in for an Allocator that cannot defer (e.g. EntrySerializer).
type plainAllocator struct {
	allocErr error
}

func (a *plainAllocator) AllocateWritable(bytes, alignment int) (*region.Mutable, error) {
	return nil, a.allocErr
}

func TestSinkCloseDefersErrorToOwner(t *testing.T) {
	wantErr := errors.New("disk full")
	owner := &deferringAllocator{allocErr: wantErr}
	s := newSink(owner)
	_, _ = s.Write([]byte("x"))

	require.NoError(t, s.Close())
	require.Error(t, owner.recorded)
	assert.ErrorIs(t, owner.recorded, wantErr)

	// Idempotent: a second Close still returns nil.
	require.NoError(t, s.Close())
}

func TestSinkCloseReturnsErrorWhenOwnerCannotDefer(t *testing.T) {
	wantErr := errors.New("disk full")
	owner := &plainAllocator{allocErr: wantErr}
	s := newSink(owner)
	_, _ = s.Write([]byte("x"))

	err := s.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)

	// Idempotent: repeated Close returns the same error.
	assert.ErrorIs(t, s.Close(), wantErr)
}

func TestFileCommitSurfacesDeferredCloseError(t *testing.T) {
	f, err := CreateTemp(t.TempDir(), "commit-defer-*", DefaultOptions())
	require.NoError(t, err)
	defer f.Close()

	wantErr := errors.New("stream close failed")
	f.recordCloseErr(wantErr)

	err = f.Commit()
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)

	// The deferred error is consumed once surfaced.
	require.NoError(t, f.Commit())
}

func TestMemoryCommitSurfacesDeferredCloseError(t *testing.T) {
	m := NewMemory()
	wantErr := errors.New("stream close failed")
	m.recordCloseErr(wantErr)

	err := m.Commit()
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)

	require.NoError(t, m.Commit())
}
