package sparse

import (
	"fmt"

	"github.com/hupe1980/sparse/dtype"
	"github.com/hupe1980/sparse/index"
	"github.com/hupe1980/sparse/internal/buffer"
	"github.com/hupe1980/sparse/internal/kernel"
)

// Op is an elementwise binary operator.
type Op = kernel.Op

const (
	OpAdd      = kernel.Add
	OpSub      = kernel.Sub
	OpMul      = kernel.Mul
	OpTrueDiv  = kernel.TrueDiv
	OpFloorDiv = kernel.FloorDiv
	OpMod      = kernel.Mod
	OpPow      = kernel.Pow
	OpEq       = kernel.Eq
	OpNe       = kernel.Ne
	OpLt       = kernel.Lt
	OpLe       = kernel.Le
	OpGt       = kernel.Gt
	OpGe       = kernel.Ge
	OpAnd      = kernel.And
	OpOr       = kernel.Or
	OpXor      = kernel.Xor
)

// side is one operand of a binary operation in sparse form.
type side struct {
	idx    index.SparseIndex
	values buffer.Buffer
	fill   any
	dt     dtype.DType
	scalar bool
}

// Apply computes op elementwise over left and right and returns a new array.
//
// Each operand is an *Array, a scalar (bool, int, float64, ...) or a typed
// dense slice; at least one must be an *Array. The result stores the union
// of the operands' stored positions and its fill value is op applied to the
// two fill values. A scalar acts as an array with no stored positions and
// itself as fill. A dense slice is compacted against the fill value of the
// array operand.
//
// Errors raised by the operator itself, such as ErrZeroDivision for integer
// floor division by zero, are returned unchanged.
func Apply(op Op, left, right any) (*Array, error) {
	ref, err := reference(left, right)
	if err != nil {
		return nil, err
	}
	l, err := newSide(left, ref)
	if err != nil {
		return nil, err
	}
	r, err := newSide(right, ref)
	if err != nil {
		return nil, err
	}

	compute, result, err := resultDTypes(op, l, r)
	if err != nil {
		return nil, err
	}

	union, lo, ro, err := index.Align(l.idx, r.idx)
	if err != nil {
		return nil, translateError(err)
	}

	kind := buffer.LaneKind(compute)
	out, err := kernel.Apply(op,
		l.values.Gather(lo, l.fill).Lane(kind),
		r.values.Gather(ro, r.fill).Lane(kind),
	)
	if err != nil {
		return nil, translateError(err)
	}

	fill, err := applyFill(op, l.fill, r.fill, kind, result)
	if err != nil {
		return nil, translateError(err)
	}

	return &Array{idx: union, values: buffer.FromLane(out, result), fill: fill}, nil
}

// reference returns the array operand that fixes length and virtual fill.
func reference(left, right any) (*Array, error) {
	if a, ok := left.(*Array); ok && a != nil {
		return a, nil
	}
	if a, ok := right.(*Array); ok && a != nil {
		return a, nil
	}
	return nil, fmt.Errorf("%w: one operand must be a sparse array, got %T and %T", ErrInvalidOperand, left, right)
}

func newSide(v any, ref *Array) (side, error) {
	if a, ok := v.(*Array); ok {
		if a == nil {
			return side{}, fmt.Errorf("%w: nil array", ErrInvalidOperand)
		}
		return side{idx: a.idx, values: a.values, fill: a.fill, dt: a.DType()}, nil
	}

	if dt, err := dtype.Of(v); err == nil {
		return side{
			idx:    index.Empty(ref.Len()),
			values: buffer.Make(dt, 0),
			fill:   v,
			dt:     dt,
			scalar: true,
		}, nil
	}

	dense, err := buffer.Wrap(v)
	if err != nil {
		return side{}, fmt.Errorf("%w: %T", ErrInvalidOperand, v)
	}
	if dense.Len() != ref.Len() {
		return side{}, fmt.Errorf("%w: dense operand of length %d against %d", ErrLengthMismatch, dense.Len(), ref.Len())
	}

	s := side{dt: dense.DType(), fill: ref.fill}
	if f, ok := representable(ref.fill, s.dt); ok {
		values, mask := dense.Compact(f)
		s.idx = index.FromMask(dense.Len(), mask, index.KindAuto)
		s.values = values
		return s, nil
	}
	s.idx = index.Full(dense.Len())
	s.values = dense
	return s, nil
}

// representable converts v to dt when that loses nothing.
func representable(v any, dt dtype.DType) (any, bool) {
	src, err := dtype.Of(v)
	if err != nil {
		return nil, false
	}
	c, err := dtype.Cast(v, dt)
	if err != nil {
		return nil, false
	}
	back, err := dtype.Cast(c, src)
	return c, err == nil && dtype.Equal(back, v)
}

// resultDTypes returns the dtype the operands are computed in and the dtype
// of the result.
func resultDTypes(op Op, l, r side) (compute, result dtype.DType, err error) {
	var dt dtype.DType
	switch {
	case l.scalar:
		dt = dtype.PromoteScalar(r.dt, l.dt)
	case r.scalar:
		dt = dtype.PromoteScalar(l.dt, r.dt)
	default:
		dt = dtype.Promote(l.dt, r.dt)
	}

	switch {
	case op.IsComparison():
		return dt, dtype.Bool, nil
	case op.IsLogical():
		if dt.IsFloat() {
			return dtype.Invalid, dtype.Invalid, fmt.Errorf("%w: %s is not defined for %s", ErrInvalidOperand, op, dt)
		}
		return dt, dt, nil
	case op == kernel.TrueDiv:
		if !dt.IsFloat() {
			dt = dtype.Float64
		}
		return dt, dt, nil
	case dt == dtype.Bool:
		return dtype.Int64, dtype.Int64, nil
	}
	return dt, dt, nil
}

func applyFill(op Op, lf, rf any, kind kernel.Kind, dt dtype.DType) (any, error) {
	l, err := scalarLane(lf, kind)
	if err != nil {
		return nil, err
	}
	r, err := scalarLane(rf, kind)
	if err != nil {
		return nil, err
	}
	out, err := kernel.Apply(op, l, r)
	if err != nil {
		return nil, err
	}
	return buffer.FromLane(out, dt).At(0), nil
}

func scalarLane(v any, kind kernel.Kind) (kernel.Lane, error) {
	b, err := buffer.Fill(laneDType(kind), 1, v)
	if err != nil {
		return kernel.Lane{}, err
	}
	return b.Lane(kind), nil
}

func laneDType(k kernel.Kind) dtype.DType {
	switch k {
	case kernel.Float:
		return dtype.Float64
	case kernel.Int:
		return dtype.Int64
	case kernel.Uint:
		return dtype.Uint64
	}
	return dtype.Bool
}

// ApplyInPlace always fails with ErrUnsupported: arrays cannot be modified
// in place. Use Apply or the operator methods instead.
func (a *Array) ApplyInPlace(op Op, other any) error {
	return &UnsupportedError{Op: "in-place " + op.String()}
}

// Add returns a + other.
func (a *Array) Add(other any) (*Array, error) { return Apply(OpAdd, a, other) }

// Sub returns a - other.
func (a *Array) Sub(other any) (*Array, error) { return Apply(OpSub, a, other) }

// Mul returns a * other.
func (a *Array) Mul(other any) (*Array, error) { return Apply(OpMul, a, other) }

// TrueDiv returns a / other as floating point.
func (a *Array) TrueDiv(other any) (*Array, error) { return Apply(OpTrueDiv, a, other) }

// FloorDiv returns the floor of a / other.
func (a *Array) FloorDiv(other any) (*Array, error) { return Apply(OpFloorDiv, a, other) }

// Mod returns a modulo other with the sign of other.
func (a *Array) Mod(other any) (*Array, error) { return Apply(OpMod, a, other) }

// Pow returns a raised to other.
func (a *Array) Pow(other any) (*Array, error) { return Apply(OpPow, a, other) }

// Eq returns the elementwise a == other as a bool array.
func (a *Array) Eq(other any) (*Array, error) { return Apply(OpEq, a, other) }

// Ne returns the elementwise a != other as a bool array.
func (a *Array) Ne(other any) (*Array, error) { return Apply(OpNe, a, other) }

// Lt returns the elementwise a < other as a bool array.
func (a *Array) Lt(other any) (*Array, error) { return Apply(OpLt, a, other) }

// Le returns the elementwise a <= other as a bool array.
func (a *Array) Le(other any) (*Array, error) { return Apply(OpLe, a, other) }

// Gt returns the elementwise a > other as a bool array.
func (a *Array) Gt(other any) (*Array, error) { return Apply(OpGt, a, other) }

// Ge returns the elementwise a >= other as a bool array.
func (a *Array) Ge(other any) (*Array, error) { return Apply(OpGe, a, other) }

// And returns the logical (bool) or bitwise (integer) and of a and other.
func (a *Array) And(other any) (*Array, error) { return Apply(OpAnd, a, other) }

// Or returns the logical (bool) or bitwise (integer) or of a and other.
func (a *Array) Or(other any) (*Array, error) { return Apply(OpOr, a, other) }

// Xor returns the logical (bool) or bitwise (integer) exclusive or of a and
// other.
func (a *Array) Xor(other any) (*Array, error) { return Apply(OpXor, a, other) }
