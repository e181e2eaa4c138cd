package dtype

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want DType
	}{
		{"float64", Float64},
		{"f8", Float64},
		{"F4", Float32},
		{"i8", Int64},
		{"int", Int64},
		{"u1", Uint8},
		{"bool", Bool},
		{" int16 ", Int16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := Parse("complex128")
		assert.ErrorIs(t, err, ErrUnknown)
	})
}

func TestDType_Predicates(t *testing.T) {
	assert.True(t, Float32.IsFloat())
	assert.False(t, Int64.IsFloat())
	assert.True(t, Uint16.IsUnsigned())
	assert.True(t, Int8.IsSigned())
	assert.True(t, Uint64.IsInteger())
	assert.False(t, Bool.IsInteger())
	assert.False(t, Invalid.Valid())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 0, Invalid.Size())
	assert.Equal(t, "uint32", Uint32.String())
}

func TestDefaultFill(t *testing.T) {
	assert.True(t, math.IsNaN(Float64.DefaultFill().(float64)))
	f32 := Float32.DefaultFill().(float32)
	assert.True(t, f32 != f32)
	assert.Equal(t, false, Bool.DefaultFill())
	assert.Equal(t, int8(0), Int8.DefaultFill())
	assert.Equal(t, uint64(0), Uint64.DefaultFill())
}

func TestPromote(t *testing.T) {
	tests := []struct {
		a, b, want DType
	}{
		{Float64, Float64, Float64},
		{Bool, Int8, Int8},
		{Int16, Bool, Int16},
		{Int8, Int32, Int32},
		{Uint8, Uint64, Uint64},
		{Int8, Uint8, Int16},
		{Uint16, Int64, Int64},
		{Uint32, Int32, Int64},
		{Uint64, Int8, Float64},
		{Float32, Int16, Float32},
		{Float32, Int32, Float64},
		{Uint8, Float32, Float32},
		{Float32, Float64, Float64},
	}
	for _, tt := range tests {
		t.Run(tt.a.String()+"+"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Promote(tt.a, tt.b))
			assert.Equal(t, tt.want, Promote(tt.b, tt.a))
		})
	}
}

func TestPromoteScalar(t *testing.T) {
	assert.Equal(t, Float32, PromoteScalar(Float32, Int64))
	assert.Equal(t, Int8, PromoteScalar(Int8, Int64))
	assert.Equal(t, Float64, PromoteScalar(Int8, Float64))
	assert.Equal(t, Int64, PromoteScalar(Bool, Int64))
	assert.Equal(t, Float64, PromoteScalar(Int64, Float32))
}

func TestCast(t *testing.T) {
	t.Run("int to float32", func(t *testing.T) {
		v, err := Cast(4, Float32)
		require.NoError(t, err)
		assert.Equal(t, float32(4), v)
	})

	t.Run("float to int truncates", func(t *testing.T) {
		v, err := Cast(3.9, Int64)
		require.NoError(t, err)
		assert.Equal(t, int64(3), v)
	})

	t.Run("bool to uint8", func(t *testing.T) {
		v, err := Cast(true, Uint8)
		require.NoError(t, err)
		assert.Equal(t, uint8(1), v)
	})

	t.Run("number to bool", func(t *testing.T) {
		v, err := Cast(0.0, Bool)
		require.NoError(t, err)
		assert.Equal(t, false, v)
	})

	t.Run("nan to int", func(t *testing.T) {
		_, err := Cast(math.NaN(), Int32)
		assert.ErrorIs(t, err, ErrNotRepresentable)
	})

	t.Run("nan survives float32", func(t *testing.T) {
		v, err := Cast(math.NaN(), Float32)
		require.NoError(t, err)
		assert.True(t, IsNaN(v))
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := Cast("1", Int64)
		assert.ErrorIs(t, err, ErrUnknown)
	})
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(math.NaN(), math.NaN()))
	assert.True(t, Equal(float32(1), float32(1)))
	assert.False(t, Equal(math.NaN(), 1.0))
	assert.False(t, Equal(int64(1), int32(1)))
}

func TestOf(t *testing.T) {
	dt, err := Of(4)
	require.NoError(t, err)
	assert.Equal(t, Int64, dt)

	dt, err = OfSlice([]float32{1})
	require.NoError(t, err)
	assert.Equal(t, Float32, dt)

	_, err = OfSlice([]string{"a"})
	assert.ErrorIs(t, err, ErrUnknown)
}
