package serial_test

import (
	"math/rand/v2"
	"testing"

	"github.com/frozenfs/frozenfs/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAllocateFreezeRoundTrip(t *testing.T) {
	s := serial.NewMemory()
	m, err := s.AllocateWritable(10, 8)
	require.NoError(t, err)

	copy(m.Bytes(), []byte("0123456789"))
	f, err := m.Freeze()
	require.NoError(t, err)

	assert.Equal(t, 10, f.Len())
	assert.Equal(t, []byte("0123456789"), f.Bytes())
	assert.Zero(t, f.Addr()%8)
}

func TestMemoryAlignmentProperty(t *testing.T) {
	s := serial.NewMemory()
	rnd := rand.New(rand.NewPCG(7, 9))
	aligns := []int{1, 2, 4, 8, 16, 32, 64}

	for i := 0; i < 200; i++ {
		n := rnd.IntN(4096)
		a := aligns[rnd.IntN(len(aligns))]

		m, err := s.AllocateWritable(n, a)
		require.NoError(t, err)
		if n == 0 {
			continue
		}
		f, err := m.Freeze()
		require.NoError(t, err)

		want := a
		if want < 8 {
			want = 8
		}
		assert.Zero(t, int(f.Addr())%want)
	}
}

func TestMemoryZeroLengthAllocation(t *testing.T) {
	s := serial.NewMemory()
	m, err := s.AllocateWritable(0, 8)
	require.NoError(t, err)

	f, err := m.Freeze()
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestMemoryCopy(t *testing.T) {
	s := serial.NewMemory()
	m, err := s.AllocateWritable(5, 1)
	require.NoError(t, err)
	copy(m.Bytes(), []byte("hello"))
	src, err := m.Freeze()
	require.NoError(t, err)

	dst, err := s.Copy(src)
	require.NoError(t, err)
	assert.Equal(t, src.Bytes(), dst.Bytes())
}

func TestMemoryOpenStream(t *testing.T) {
	s := serial.NewMemory()
	sink := s.OpenStream()
	_, _ = sink.Write([]byte("hello "))
	_, _ = sink.Write([]byte("world"))
	require.NoError(t, sink.Close())

	assert.Equal(t, []byte("hello world"), sink.Region().Bytes())
}
