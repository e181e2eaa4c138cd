package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("conv: integer overflow")

// ToUint64 converts a non-negative int to uint64.
func ToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d does not fit uint64", ErrOverflow, v)
	}
	return uint64(v), nil
}

// ToInt converts a uint64 to int.
func ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d does not fit int", ErrOverflow, v)
	}
	return int(v), nil
}

// Uint64s converts positions to uint64, failing on the first negative value.
func Uint64s(v []int) ([]uint64, error) {
	out := make([]uint64, len(v))
	for i, x := range v {
		u, err := ToUint64(x)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}

// Ints narrows uint64 positions to int, failing on the first value above
// math.MaxInt.
func Ints(v []uint64) ([]int, error) {
	out := make([]int, len(v))
	for i, x := range v {
		n, err := ToInt(x)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
