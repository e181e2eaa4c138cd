// Package testutil provides deterministic random sparse data for tests.
//
// This package is intended for use in tests and benchmarks only.
//
//	rng := testutil.NewRNG(4711)
//	mask := rng.RunMask(1000, 0.2, 4) // clustered, block-friendly
//	data := rng.Floats(1000, mask, math.NaN())
package testutil
