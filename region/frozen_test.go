package region_test

import (
	"math/rand/v2"
	"testing"

	"github.com/frozenfs/frozenfs/errs"
	"github.com/frozenfs/frozenfs/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrozenSliceComposition(t *testing.T) {
	data := make([]byte, 256)
	rand.New(rand.NewPCG(1, 2)).Shuffle(len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })
	f := region.NewFrozen(data, nil)

	for i := 0; i < 50; i++ {
		a := rand.IntN(len(data))
		b := a + rand.IntN(len(data)-a+1)
		outer, err := f.Slice(a, b)
		require.NoError(t, err)

		width := b - a
		if width == 0 {
			continue
		}
		c := rand.IntN(width + 1)
		d := c + rand.IntN(width-c+1)

		inner, err := outer.Slice(c, d)
		require.NoError(t, err)

		direct, err := f.Slice(a+c, a+d)
		require.NoError(t, err)

		assert.Equal(t, direct.Bytes(), inner.Bytes())
	}
}

func TestFrozenSliceOutOfBounds(t *testing.T) {
	f := region.NewFrozen(make([]byte, 10), nil)

	_, err := f.Slice(5, 3)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindOutOfBounds))

	_, err = f.Slice(0, 11)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindOutOfBounds))

	_, err = f.Slice(-1, 5)
	require.Error(t, err)
}

func TestFrozenSliceSharesHandle(t *testing.T) {
	released := false
	h := region.NewHandle(func() { released = true })
	f := region.NewFrozen(make([]byte, 10), h)

	sub, err := f.Slice(2, 5)
	require.NoError(t, err)

	clone := sub.Clone()
	f.Release()
	assert.False(t, released, "handle must survive while a clone is outstanding")

	clone.Release()
	assert.True(t, released)
}

func TestEmptyFrozenHasNoAddr(t *testing.T) {
	assert.Equal(t, uintptr(0), region.Empty().Addr())
}
