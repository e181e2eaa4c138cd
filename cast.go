package sparse

import (
	"fmt"

	"github.com/hupe1980/sparse/dtype"
	"github.com/hupe1980/sparse/internal/buffer"
)

// AsType returns a copy of a converted to dt. The index is kept and the fill
// value is converted along with the values. Floating arrays cannot be cast
// to non-floating dtypes.
func (a *Array) AsType(dt dtype.DType) (*Array, error) {
	if !dt.Valid() {
		return nil, fmt.Errorf("%w: %w: %d", ErrInvalidOperand, dtype.ErrUnknown, dt)
	}
	if err := checkCast(a.DType(), dt); err != nil {
		return nil, err
	}
	fill, err := castFill(a.fill, dt)
	if err != nil {
		return nil, err
	}
	return &Array{idx: a.idx, values: buffer.Cast(a.values, dt), fill: fill}, nil
}

// AsTypeName is AsType with a dtype name such as "float64", "f8" or "bool".
func (a *Array) AsTypeName(name string) (*Array, error) {
	dt, err := dtype.Parse(name)
	if err != nil {
		return nil, translateError(err)
	}
	return a.AsType(dt)
}
