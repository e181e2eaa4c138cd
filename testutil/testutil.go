package testutil

import (
	"math/rand"
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Mask returns a mask of length n where each bit is set with probability
// density.
func (r *RNG) Mask(n int, density float64) *bitset.BitSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	mask := bitset.New(uint(n))
	for i := range n {
		if r.rand.Float64() < density {
			mask.Set(uint(i))
		}
	}
	return mask
}

// RunMask returns a mask of length n made of runs. Runs start with
// probability density/avgRun and last 1 to 2*avgRun-1 positions, so the
// mask favors the block encoding.
func (r *RNG) RunMask(n int, density float64, avgRun int) *bitset.BitSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	avgRun = max(avgRun, 1)
	mask := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		if r.rand.Float64() >= density/float64(avgRun) {
			continue
		}
		run := 1 + r.rand.Intn(2*avgRun-1)
		for j := i; j < min(i+run, n); j++ {
			mask.Set(uint(j))
		}
		i += run
	}
	return mask
}

// Floats returns a dense slice holding fill outside mask and small
// nonzero integral values in [-8, 8] inside it. Integral values keep
// arithmetic results exact across float64 and integer dtypes.
func (r *RNG) Floats(n int, mask *bitset.BitSet, fill float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, n)
	for i := range out {
		if !mask.Test(uint(i)) {
			out[i] = fill
			continue
		}
		out[i] = r.valueLocked(fill)
	}
	return out
}

// Ints is Floats for int64 data.
func (r *RNG) Ints(n int, mask *bitset.BitSet, fill int64) []int64 {
	floats := r.Floats(n, mask, float64(fill))
	out := make([]int64, n)
	for i, v := range floats {
		out[i] = int64(v)
	}
	return out
}

// valueLocked draws a nonzero value in [-8, 8] different from fill.
func (r *RNG) valueLocked(fill float64) float64 {
	for {
		v := float64(r.rand.Intn(17) - 8)
		if v != 0 && v != fill {
			return v
		}
	}
}

// Positions returns the set bits of mask below n.
func Positions(mask *bitset.BitSet, n int) []int {
	var out []int
	for i, ok := mask.NextSet(0); ok && int(i) < n; i, ok = mask.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}
