package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	a, b := NewRNG(4711), NewRNG(4711)
	assert.Equal(t, a.Floats(64, a.Mask(64, 0.5), 0), b.Floats(64, b.Mask(64, 0.5), 0))

	a.Reset()
	first := a.Intn(1000)
	a.Reset()
	assert.Equal(t, first, a.Intn(1000))
	assert.Equal(t, int64(4711), a.Seed())
}

func TestRNG_Mask(t *testing.T) {
	rng := NewRNG(1)

	assert.Zero(t, rng.Mask(100, 0).Count())
	assert.Equal(t, uint(100), rng.Mask(100, 1).Count())

	m := rng.Mask(10_000, 0.3)
	assert.InDelta(t, 3000, float64(m.Count()), 300)
}

func TestRNG_RunMask(t *testing.T) {
	rng := NewRNG(2)
	m := rng.RunMask(10_000, 0.3, 5)
	positions := Positions(m, 10_000)
	require.NotEmpty(t, positions)

	runs := 1
	for i := 1; i < len(positions); i++ {
		if positions[i] != positions[i-1]+1 {
			runs++
		}
	}
	assert.GreaterOrEqual(t, float64(len(positions))/float64(runs), 2.0)
	assert.Less(t, positions[len(positions)-1], 10_000)
}

func TestRNG_Floats(t *testing.T) {
	rng := NewRNG(3)
	mask := rng.Mask(200, 0.4)

	for _, fill := range []float64{math.NaN(), 0, 3} {
		data := rng.Floats(200, mask, fill)
		for i, v := range data {
			if !mask.Test(uint(i)) {
				if math.IsNaN(fill) {
					assert.True(t, math.IsNaN(v))
				} else {
					assert.Equal(t, fill, v)
				}
				continue
			}
			assert.NotEqual(t, fill, v)
			assert.NotZero(t, v)
			assert.Equal(t, math.Trunc(v), v)
			assert.LessOrEqual(t, math.Abs(v), 8.0)
		}
	}
}

func TestRNG_Ints(t *testing.T) {
	rng := NewRNG(4)
	mask := rng.Mask(50, 0.5)
	data := rng.Ints(50, mask, 0)

	assert.Equal(t, Positions(mask, 50), nonzero(data))
}

func nonzero(data []int64) []int {
	var out []int
	for i, v := range data {
		if v != 0 {
			out = append(out, i)
		}
	}
	return out
}
