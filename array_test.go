package sparse

import (
	"math"
	"slices"
	"testing"

	"github.com/hupe1980/sparse/dtype"
	"github.com/hupe1980/sparse/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

// assertFloats compares float slices treating NaN as equal to NaN.
func assertFloats(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.Truef(t, math.IsNaN(got[i]), "position %d: want NaN, got %v", i, got[i])
			continue
		}
		assert.Equalf(t, want[i], got[i], "position %d", i)
	}
}

func assertNaN(t *testing.T, v any) {
	t.Helper()
	assert.True(t, dtype.IsNaN(v), "want NaN, got %v", v)
}

func TestNew_Float(t *testing.T) {
	arr, err := New([]float64{nan, nan, 1, 2, nan, 3, 4})
	require.NoError(t, err)

	assert.Equal(t, 7, arr.Len())
	assert.Equal(t, 4, arr.NPoints())
	assert.InDelta(t, 4.0/7.0, arr.Density(), 1e-12)
	assert.Equal(t, dtype.Float64, arr.DType())
	assertNaN(t, arr.FillValue())
	assert.Equal(t, []float64{1, 2, 3, 4}, arr.SpValues())
	assert.Equal(t, []int{2, 3, 5, 6}, arr.SpIndex().Indices())
	assert.Equal(t, index.KindBlock, arr.SpIndex().Kind())
	assertFloats(t, []float64{nan, nan, 1, 2, nan, 3, 4}, arr.Values().([]float64))
}

func TestNew_FillValue(t *testing.T) {
	t.Run("zero", func(t *testing.T) {
		arr, err := New([]float64{0, 0, 1, 2, 0, 3}, WithFillValue(0.0))
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, arr.SpValues())
		assert.Equal(t, 0.0, arr.FillValue())
	})

	t.Run("NaN stays stored with a non-NaN fill", func(t *testing.T) {
		arr, err := New([]float64{nan, 0, 3, 3}, WithFillValue(3.0))
		require.NoError(t, err)
		assert.Equal(t, 2, arr.NPoints())
		assertFloats(t, []float64{nan, 0}, arr.SpValues().([]float64))
	})

	t.Run("integer fill is cast", func(t *testing.T) {
		arr, err := New([]float64{0, 1}, WithFillValue(0))
		require.NoError(t, err)
		assert.Equal(t, dtype.Float64, arr.DType())
		assert.Equal(t, 0.0, arr.FillValue())
		assert.Equal(t, 1, arr.NPoints())
	})

	t.Run("NaN fill widens integers", func(t *testing.T) {
		arr, err := New([]int{0, 1, 0}, WithFillValue(nan))
		require.NoError(t, err)
		assert.Equal(t, dtype.Float64, arr.DType())
		assert.Equal(t, 3, arr.NPoints())
		assert.Equal(t, []float64{0, 1, 0}, arr.SpValues())
	})
}

func TestNew_Integer(t *testing.T) {
	arr, err := New([]int{0, 0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, dtype.Int64, arr.DType())
	assert.Equal(t, int64(0), arr.FillValue())
	assert.Equal(t, []int64{1, 2}, arr.SpValues())

	arr, err = New([]uint16{7, 7, 9}, WithFillValue(7))
	require.NoError(t, err)
	assert.Equal(t, dtype.Uint16, arr.DType())
	assert.Equal(t, uint16(7), arr.FillValue())
	assert.Equal(t, []uint16{9}, arr.SpValues())
}

func TestNew_Float32(t *testing.T) {
	nan32 := float32(math.NaN())
	arr, err := New([]float32{nan32, 1, nan32, 2.5})
	require.NoError(t, err)
	assert.Equal(t, dtype.Float32, arr.DType())
	assertNaN(t, arr.FillValue())
	assert.Equal(t, []float32{1, 2.5}, arr.SpValues())

	dense := arr.Values().([]float32)
	require.Len(t, dense, 4)
	assert.True(t, math.IsNaN(float64(dense[0])))
	assert.Equal(t, float32(2.5), dense[3])
}

func TestNew_Bool(t *testing.T) {
	arr, err := New([]bool{false, false, true, true, false, false}, WithFillValue(false))
	require.NoError(t, err)
	assert.Equal(t, dtype.Bool, arr.DType())
	assert.Equal(t, []bool{true, true}, arr.SpValues())
	assert.Equal(t, []int{2, 3}, arr.SpIndex().Indices())
	assert.Equal(t, []bool{false, false, true, true, false, false}, arr.Values())
}

func TestNew_Options(t *testing.T) {
	t.Run("index kind", func(t *testing.T) {
		arr, err := New([]float64{1, 2, 3, nan}, WithIndexKind(index.KindInt))
		require.NoError(t, err)
		assert.Equal(t, index.KindInt, arr.SpIndex().Kind())

		arr, err = New([]float64{1, nan, 2, nan}, WithIndexKind(index.KindBlock))
		require.NoError(t, err)
		assert.Equal(t, index.KindBlock, arr.SpIndex().Kind())
	})

	t.Run("scattered points choose integer encoding", func(t *testing.T) {
		arr, err := New([]float64{1, nan, 2, nan, 3, nan})
		require.NoError(t, err)
		assert.Equal(t, index.KindInt, arr.SpIndex().Kind())
	})

	t.Run("dtype", func(t *testing.T) {
		arr, err := New([]int{0, 1, 2}, WithDType(dtype.Float32))
		require.NoError(t, err)
		assert.Equal(t, dtype.Float32, arr.DType())
		assertNaN(t, arr.FillValue())
		assert.Equal(t, []float32{0, 1, 2}, arr.SpValues())
	})

	t.Run("float to integer dtype", func(t *testing.T) {
		_, err := New([]float64{1, 2}, WithDType(dtype.Int64))
		require.ErrorIs(t, err, ErrInvalidCast)
		assert.Contains(t, err.Error(), "floating point")
	})

	t.Run("unrepresentable fill", func(t *testing.T) {
		_, err := New([]int{1, 2}, WithDType(dtype.Int64), WithFillValue(nan))
		assert.ErrorIs(t, err, ErrInvalidCast)
	})

	t.Run("unsupported data", func(t *testing.T) {
		_, err := New([]string{"a"})
		assert.ErrorIs(t, err, ErrInvalidOperand)

		_, err = New((*Array)(nil))
		assert.ErrorIs(t, err, ErrInvalidOperand)
	})
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNew([]string{"x"}) })
	assert.NotPanics(t, func() { MustNew([]float64{1}) })
}

func TestNew_FromArray(t *testing.T) {
	src := MustNew([]float64{nan, 1, 2, nan, 3})

	t.Run("shares values by default", func(t *testing.T) {
		arr, err := New(src)
		require.NoError(t, err)
		assert.True(t, arr.SharesMemory(src))
		assert.True(t, arr.Identical(src))

		arr.SpValues().([]float64)[0] = 10
		got, err := src.Get(1)
		require.NoError(t, err)
		assert.Equal(t, 10.0, got)
		src.SpValues().([]float64)[0] = 1
	})

	t.Run("copy", func(t *testing.T) {
		arr, err := New(src, WithCopy(true))
		require.NoError(t, err)
		assert.False(t, arr.SharesMemory(src))
		assert.True(t, arr.Identical(src))

		arr.SpValues().([]float64)[0] = 10
		got, err := src.Get(1)
		require.NoError(t, err)
		assert.Equal(t, 1.0, got)
	})

	t.Run("new fill rebuilds", func(t *testing.T) {
		arr, err := New(src, WithFillValue(0.0))
		require.NoError(t, err)
		assert.False(t, arr.SharesMemory(src))
		assert.Equal(t, 0.0, arr.FillValue())
		assert.Equal(t, 5, arr.NPoints())
		assertFloats(t, src.Values().([]float64), arr.Values().([]float64))
	})

	t.Run("same fill spelled differently", func(t *testing.T) {
		ints := MustNew([]int{0, 3, 0})
		arr, err := New(ints, WithFillValue(0))
		require.NoError(t, err)
		assert.True(t, arr.SharesMemory(ints))
	})

	t.Run("new dtype", func(t *testing.T) {
		arr, err := New(src, WithDType(dtype.Float32))
		require.NoError(t, err)
		assert.Equal(t, dtype.Float32, arr.DType())
		assert.Equal(t, []float32{1, 2, 3}, arr.SpValues())

		_, err = New(src, WithDType(dtype.Int32))
		assert.ErrorIs(t, err, ErrInvalidCast)
	})
}

func TestFromIndex(t *testing.T) {
	idx, err := index.NewIntIndex(5, []int{1, 3})
	require.NoError(t, err)

	arr, err := FromIndex([]float64{1, 2}, idx)
	require.NoError(t, err)
	assertFloats(t, []float64{nan, 1, nan, 2, nan}, arr.Values().([]float64))

	arr, err = FromIndex([]int32{4, 5}, idx, WithFillValue(-1), WithIndexKind(index.KindBlock))
	require.NoError(t, err)
	assert.Equal(t, int32(-1), arr.FillValue())
	assert.Equal(t, index.KindBlock, arr.SpIndex().Kind())
	assert.Equal(t, []int32{-1, 4, -1, 5, -1}, arr.Values())

	_, err = FromIndex([]float64{1}, idx)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = FromIndex([]float64{1, 2}, nil)
	assert.ErrorIs(t, err, ErrInvalidOperand)

	_, err = FromIndex([]float64{1, 2}, idx, WithDType(dtype.Int8))
	assert.ErrorIs(t, err, ErrInvalidCast)
}

func TestToSlice(t *testing.T) {
	arr := MustNew([]int{0, 5, 0})

	got, err := ToSlice[int64](arr)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 5, 0}, got)

	_, err = ToSlice[float64](arr)
	assert.ErrorIs(t, err, ErrInvalidOperand)
}

func TestDenseRoundTrip(t *testing.T) {
	cases := map[string]*Array{
		"nan fill":  MustNew([]float64{nan, nan, 1, 2, nan, 3, 4, 5, nan, 6}),
		"zero fill": MustNew([]float64{0, 0, 1, 2, 0, 3, 4, 5, 0, 6}, WithFillValue(0.0)),
		"int":       MustNew([]int64{1, 0, 0, 3}),
		"bool":      MustNew([]bool{true, false, true}),
		"empty":     MustNew([]float64{}),
	}
	for name, arr := range cases {
		t.Run(name, func(t *testing.T) {
			back, err := New(arr.Values(), WithFillValue(arr.FillValue()))
			require.NoError(t, err)
			assert.True(t, back.Identical(arr))
			assert.True(t, back.Equal(arr))
		})
	}
}

func TestCopy(t *testing.T) {
	arr := MustNew([]float64{nan, 1, 2})

	deep := arr.Copy(true)
	deep.SpValues().([]float64)[0] = 100
	assert.Equal(t, []float64{1, 2}, arr.SpValues())
	assert.False(t, deep.SharesMemory(arr))

	shallow := arr.Copy(false)
	shallow.SpValues().([]float64)[0] = 100
	assert.Equal(t, []float64{100, 2}, arr.SpValues())
	assert.True(t, shallow.SharesMemory(arr))
}

func TestIter(t *testing.T) {
	arr := MustNew([]int{1, 2, 3})

	var got []any
	for v := range arr.Iter() {
		got = append(got, v)
	}
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, got)

	sparse := MustNew([]float64{0, 7, 0, 0, 8}, WithFillValue(0.0))
	var positions []int
	var values []float64
	for i, v := range sparse.All() {
		positions = append(positions, i)
		values = append(values, v.(float64))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, positions)
	assert.Equal(t, []float64{0, 7, 0, 0, 8}, values)

	// Early exit
	n := 0
	for range sparse.Iter() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, 5, len(slices.Collect(sparse.Iter())))
}

func TestEqual(t *testing.T) {
	a := MustNew([]float64{nan, 1, 2})
	b := MustNew([]float64{nan, 1, 2}, WithIndexKind(index.KindInt))
	assert.True(t, a.Equal(b))
	assert.True(t, a.Identical(b))

	c := MustNew([]float64{nan, 1, 2}, WithFillValue(0.0))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Identical(c))

	d := MustNew([]float32{float32(nan), 1, 2})
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))
	assert.True(t, a.Equal(a))
}

func TestString(t *testing.T) {
	arr := MustNew([]float64{nan, 1})
	s := arr.String()
	assert.Contains(t, s, "float64")
	assert.Contains(t, s, "length=2")
	assert.Contains(t, s, "npoints=1")
}
