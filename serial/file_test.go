//go:build unix

package serial_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/frozenfs/frozenfs/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S2: 100 regions of 1 MiB each, filled with their index as a repeated
// byte, frozen, committed, then reread via a fresh mmap of the file.
func TestFileSerializerLargeRegionsSurviveCommit(t *testing.T) {
	s, err := serial.CreateTemp(t.TempDir(), "frozenfs-s2-*", serial.DefaultOptions())
	require.NoError(t, err)

	const (
		count    = 100
		regionSz = 1 << 20
	)
	type placement struct {
		fill byte
		data []byte
	}
	placements := make([]placement, count)

	for i := 0; i < count; i++ {
		m, err := s.AllocateWritable(regionSz, 8)
		require.NoError(t, err)
		fill := byte(i)
		for j := range m.Bytes() {
			m.Bytes()[j] = fill
		}
		f, err := m.Freeze()
		require.NoError(t, err)
		placements[i] = placement{fill: fill, data: f.Bytes()}
	}

	for i, p := range placements {
		assert.True(t, bytes.Equal(p.data, bytes.Repeat([]byte{p.fill}, regionSz)), "region %d corrupted before commit", i)
	}

	require.NoError(t, s.Commit())
	path := s.Path()
	require.NoError(t, s.Close())

	reread, cleanup, err := mmapWholeFile(t, path)
	require.NoError(t, err)
	defer cleanup()

	off := 0
	for i := 0; i < count; i++ {
		got := reread[off : off+regionSz]
		assert.True(t, bytes.Equal(got, bytes.Repeat([]byte{byte(i)}, regionSz)), "region %d mismatch on reread", i)
		off += regionSz
	}
}

// Property 6: pointers returned by past allocations remain dereferenceable
// and unchanged in value after any subsequent allocation, including ones
// that trigger arena growth or new-arena creation.
func TestFileSerializerPointerStability(t *testing.T) {
	s, err := serial.CreateTemp(t.TempDir(), "frozenfs-stability-*", serial.DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	var regions []struct {
		addr uintptrAddr
		data []byte
	}
	sizes := []int{1, 17, 4096, 1 << 16, 1 << 20, 3, 4097}
	for round := 0; round < 20; round++ {
		for _, n := range sizes {
			m, err := s.AllocateWritable(n, 8)
			require.NoError(t, err)
			for i := range m.Bytes() {
				m.Bytes()[i] = byte(round)
			}
			f, err := m.Freeze()
			require.NoError(t, err)
			regions = append(regions, struct {
				addr uintptrAddr
				data []byte
			}{addr: addrOf(f.Bytes()), data: f.Bytes()})
		}
	}

	for i, r := range regions {
		assert.Equal(t, r.addr, addrOf(r.data), "region %d address changed", i)
	}
}

// Property 7: after commit, the file size equals the allocation high-water
// mark: every requested byte plus the alignment padding between
// allocations, with no unused arena space left after the last one.
func TestFileSerializerCommitTruncation(t *testing.T) {
	s, err := serial.CreateTemp(t.TempDir(), "frozenfs-commit-*", serial.DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	total := 0
	var first, last []byte
	for _, n := range []int{100, 200, 4096, 1 << 20} {
		m, err := s.AllocateWritable(n, 8)
		require.NoError(t, err)
		if first == nil {
			first = m.Bytes()
		}
		last = m.Bytes()
		total += n
	}
	require.NoError(t, s.Commit())

	info, err := statFile(s.Path())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, info, int64(total))
	// All four fit in the first arena and the first starts at its base, so
	// the high-water mark is the span from the first byte to the end of the
	// last allocation.
	assert.EqualValues(t, addrOf(last)+uintptrAddr(len(last))-addrOf(first), info)
}

// Property 8: N goroutines each allocating K regions, with sizes cycled
// through a fixed list, produce N*K regions with disjoint byte ranges, all
// correctly sized and 8-aligned.
func TestFileSerializerConcurrentAllocation(t *testing.T) {
	s, err := serial.CreateTemp(t.TempDir(), "frozenfs-concurrent-*", serial.DefaultOptions())
	require.NoError(t, err)
	defer s.Close()

	const goroutines = 8
	const perGoroutine = 200
	sizes := []int{1, 17, 4096, 1 << 16}

	var mu sync.Mutex
	var allRanges []struct{ start, end uintptrAddr }

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				n := sizes[(seed+i)%len(sizes)]
				m, err := s.AllocateWritable(n, 8)
				require.NoError(t, err)
				assert.Zero(t, int(addrOf(m.Bytes()))%8)
				f, err := m.Freeze()
				require.NoError(t, err)
				assert.Equal(t, n, f.Len())

				start := addrOf(f.Bytes())
				end := start + uintptrAddr(n)
				mu.Lock()
				allRanges = append(allRanges, struct{ start, end uintptrAddr }{start, end})
				mu.Unlock()
			}
		}(g)
	}
	wg.Wait()

	require.Len(t, allRanges, goroutines*perGoroutine)
	for i := range allRanges {
		for j := range allRanges {
			if i == j {
				continue
			}
			disjoint := allRanges[i].end <= allRanges[j].start || allRanges[j].end <= allRanges[i].start
			assert.True(t, disjoint, "ranges %d and %d overlap", i, j)
		}
	}
}
