package buffer

import (
	"math"
	"testing"

	"github.com/hupe1980/sparse/dtype"
	"github.com/hupe1980/sparse/internal/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func TestPredicates(t *testing.T) {
	assert.True(t, EqualsFill(0.0, 0.0))
	assert.False(t, EqualsFill(nan, nan))
	assert.True(t, IsMissing(nan))
	assert.False(t, IsMissing(1.0))
	assert.False(t, IsMissing(int64(0)))
}

func TestWrap(t *testing.T) {
	t.Run("shares input", func(t *testing.T) {
		src := []float64{1, 2, 3}
		b, err := Wrap(src)
		require.NoError(t, err)
		assert.Equal(t, dtype.Float64, b.DType())
		src[0] = 9
		assert.Equal(t, 9.0, b.At(0))
	})

	t.Run("int widens", func(t *testing.T) {
		b, err := Wrap([]int{1, 2})
		require.NoError(t, err)
		assert.Equal(t, dtype.Int64, b.DType())
		assert.Equal(t, int64(2), b.At(1))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Wrap([]string{"a"})
		assert.ErrorIs(t, err, dtype.ErrUnknown)
	})
}

func TestCompact(t *testing.T) {
	t.Run("nan fill drops nan", func(t *testing.T) {
		b, _ := Wrap([]float64{nan, nan, 1, 2, 3, nan, 4})
		values, mask := b.Compact(nan)
		assert.Equal(t, []float64{1, 2, 3, 4}, values.Data())
		assert.Equal(t, uint(4), mask.Count())
		assert.True(t, mask.Test(2))
		assert.False(t, mask.Test(5))
	})

	t.Run("zero fill keeps nan", func(t *testing.T) {
		b, _ := Wrap([]float64{0, nan, 2})
		values, mask := b.Compact(0.0)
		got := values.Data().([]float64)
		require.Len(t, got, 2)
		assert.True(t, math.IsNaN(got[0]))
		assert.True(t, mask.Test(1))
	})

	t.Run("bool", func(t *testing.T) {
		b, _ := Wrap([]bool{false, false, true, true, false, false})
		values, mask := b.Compact(false)
		assert.Equal(t, []bool{true, true}, values.Data())
		assert.True(t, mask.Test(2))
		assert.True(t, mask.Test(3))
	})

	t.Run("fill is cast", func(t *testing.T) {
		b, _ := Wrap([]int32{0, 5, 0})
		values, _ := b.Compact(0)
		assert.Equal(t, []int32{5}, values.Data())
	})
}

func TestSliceAndClone(t *testing.T) {
	b, _ := Wrap([]int64{1, 2, 3, 4})
	view := b.Slice(1, 3)
	assert.Equal(t, []int64{2, 3}, view.Data())
	assert.True(t, view.SharesStorage(b))

	view.Data().([]int64)[0] = 20
	assert.Equal(t, int64(20), b.At(1))

	clone := b.Clone()
	assert.False(t, clone.SharesStorage(b))
	clone.Data().([]int64)[0] = 100
	assert.Equal(t, int64(1), b.At(0))
	assert.Panics(t, func() { b.Slice(3, 5) })
}

func TestGather(t *testing.T) {
	b, _ := Wrap([]float32{10, 20, 30})
	got := b.Gather([]int{2, -1, 0}, float32(-1))
	assert.Equal(t, []float32{30, -1, 10}, got.Data())
	assert.False(t, got.SharesStorage(b))
}

func TestCastAndLanes(t *testing.T) {
	b, _ := Wrap([]int16{-1, 0, 3})

	f := Cast(b, dtype.Float32)
	assert.Equal(t, []float32{-1, 0, 3}, f.Data())

	bools := Cast(b, dtype.Bool)
	assert.Equal(t, []bool{true, false, true}, bools.Data())

	same := Cast(b, dtype.Int16)
	assert.False(t, same.SharesStorage(b))
	assert.True(t, same.Equal(b))

	l := b.Lane(kernel.Int)
	assert.Equal(t, []int64{-1, 0, 3}, l.I)

	back := FromLane(kernel.BoolLane([]bool{true, false}), dtype.Uint8)
	assert.Equal(t, []uint8{1, 0}, back.Data())
}

func TestFill(t *testing.T) {
	b, err := Fill(dtype.Float64, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4, 4}, b.Data())

	_, err = Fill(dtype.Int8, 1, nan)
	assert.ErrorIs(t, err, dtype.ErrNotRepresentable)
}

func TestEqual(t *testing.T) {
	a, _ := Wrap([]float64{1, nan})
	b, _ := Wrap([]float64{1, nan})
	c, _ := Wrap([]float32{1, float32(nan)})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestValues(t *testing.T) {
	b := Make(dtype.Uint16, 2)
	got, ok := Values[uint16](b)
	require.True(t, ok)
	assert.Equal(t, []uint16{0, 0}, got)

	_, ok = Values[int16](b)
	assert.False(t, ok)
}
