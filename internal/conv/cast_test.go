package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUint64(t *testing.T) {
	t.Run("zero", func(t *testing.T) {
		got, err := ToUint64(0)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), got)
	})

	t.Run("max", func(t *testing.T) {
		got, err := ToUint64(math.MaxInt)
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxInt), got)
	})

	t.Run("beyond uint32", func(t *testing.T) {
		got, err := ToUint64(5_000_000_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(5_000_000_000), got)
	})

	t.Run("negative", func(t *testing.T) {
		_, err := ToUint64(-1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestToInt(t *testing.T) {
	got, err := ToInt(123)
	require.NoError(t, err)
	assert.Equal(t, 123, got)

	_, err = ToInt(uint64(math.MaxInt) + 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSlices(t *testing.T) {
	u, err := Uint64s([]int{0, 4, 5_000_000_000})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 4, 5_000_000_000}, u)

	back, err := Ints(u)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 5_000_000_000}, back)

	_, err = Uint64s([]int{1, -2})
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Ints([]uint64{1, math.MaxUint64})
	assert.ErrorIs(t, err, ErrOverflow)
}
