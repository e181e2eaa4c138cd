package sparse

import (
	"fmt"
	"iter"

	"github.com/hupe1980/sparse/dtype"
	"github.com/hupe1980/sparse/index"
	"github.com/hupe1980/sparse/internal/buffer"
)

// Array is an immutable one-dimensional array that stores only the values
// differing from its fill value.
//
// An Array is made of three parts: a SparseIndex describing which logical
// positions are stored, a compact values buffer holding one element per
// stored position in position order, and the fill value implied everywhere
// else. Indexes are never mutated and are shared freely between arrays.
// Value buffers may be shared too (see Copy and WithCopy); SharesMemory
// reports it.
type Array struct {
	idx    index.SparseIndex
	values buffer.Buffer
	fill   any
}

// New builds an array from a typed Go slice or from another *Array.
//
// Supported slices are []bool, []int, []int8..[]int64, []uint, []uint8..
// []uint64, []float32 and []float64. []int and []uint map to int64 and
// uint64. A position is left out of storage when its value equals the fill
// value or when both are NaN.
//
// When data is an *Array with the same dtype and fill value, the result
// shares its index and, unless WithCopy(true) is given, its values.
func New(data any, optFns ...Option) (*Array, error) {
	o := applyOptions(optFns)
	if src, ok := data.(*Array); ok {
		if src == nil {
			return nil, fmt.Errorf("%w: nil array", ErrInvalidOperand)
		}
		return fromArray(src, o)
	}
	dense, err := buffer.Wrap(data)
	if err != nil {
		return nil, translateError(err)
	}
	return fromDense(dense, o)
}

// MustNew is like New but panics on error.
func MustNew(data any, optFns ...Option) *Array {
	a, err := New(data, optFns...)
	if err != nil {
		panic(err)
	}
	return a
}

// FromIndex builds an array from compact values and the index that places
// them. values is adopted without copying unless WithCopy(true) is given or
// WithDType forces a conversion.
func FromIndex(values any, idx index.SparseIndex, optFns ...Option) (*Array, error) {
	if idx == nil {
		return nil, fmt.Errorf("%w: nil index", ErrInvalidOperand)
	}
	o := applyOptions(optFns)
	buf, err := buffer.Wrap(values)
	if err != nil {
		return nil, translateError(err)
	}
	if buf.Len() != idx.NPoints() {
		return nil, fmt.Errorf("%w: %d values for %d stored positions", ErrLengthMismatch, buf.Len(), idx.NPoints())
	}

	dt := buf.DType()
	switch {
	case o.dtype != dtype.Invalid && o.dtype != dt:
		if err := checkCast(dt, o.dtype); err != nil {
			return nil, err
		}
		dt = o.dtype
		buf = buffer.Cast(buf, dt)
	case o.copy:
		buf = buf.Clone()
	}

	fill := dt.DefaultFill()
	if o.hasFill {
		if fill, err = castFill(o.fill, dt); err != nil {
			return nil, err
		}
	}
	return &Array{idx: index.Convert(idx, o.kind), values: buf, fill: fill}, nil
}

func fromDense(dense buffer.Buffer, o options) (*Array, error) {
	dt, err := targetDType(dense.DType(), o)
	if err != nil {
		return nil, err
	}
	if dt != dense.DType() {
		dense = buffer.Cast(dense, dt)
	}

	fill := dt.DefaultFill()
	if o.hasFill {
		if fill, err = castFill(o.fill, dt); err != nil {
			return nil, err
		}
	}
	return compact(dense, fill, o.kind), nil
}

// compact sparsifies a dense buffer against fill.
func compact(dense buffer.Buffer, fill any, kind index.Kind) *Array {
	values, mask := dense.Compact(fill)
	return &Array{
		idx:    index.FromMask(dense.Len(), mask, kind),
		values: values,
		fill:   fill,
	}
}

// targetDType picks the dtype of a dense construction. An explicit dtype
// wins; otherwise a fill value of a higher category widens the input, so
// integers with a NaN fill become float64.
func targetDType(src dtype.DType, o options) (dtype.DType, error) {
	if o.dtype != dtype.Invalid {
		if !o.dtype.Valid() {
			return dtype.Invalid, fmt.Errorf("%w: %w: %d", ErrInvalidOperand, dtype.ErrUnknown, o.dtype)
		}
		if err := checkCast(src, o.dtype); err != nil {
			return dtype.Invalid, err
		}
		return o.dtype, nil
	}
	if !o.hasFill {
		return src, nil
	}
	fdt, err := dtype.Of(o.fill)
	if err != nil {
		return dtype.Invalid, fmt.Errorf("%w: fill value: %w", ErrInvalidOperand, err)
	}
	return dtype.PromoteScalar(src, fdt), nil
}

func fromArray(src *Array, o options) (*Array, error) {
	sameDType := o.dtype == dtype.Invalid || o.dtype == src.DType()
	if sameDType && (!o.hasFill || src.fillEquals(o.fill)) {
		values := src.values
		if o.copy {
			values = values.Clone()
		}
		return &Array{idx: index.Convert(src.idx, o.kind), values: values, fill: src.fill}, nil
	}

	if !o.hasFill {
		o.fill, o.hasFill = src.fill, true
	}
	return fromDense(src.dense(), o)
}

// checkCast rejects conversions from floating to non-floating dtypes.
func checkCast(from, to dtype.DType) error {
	if from.IsFloat() && !to.IsFloat() {
		return &CastError{From: from, To: to}
	}
	return nil
}

func castFill(v any, dt dtype.DType) (any, error) {
	f, err := dtype.Cast(v, dt)
	if err != nil {
		from, _ := dtype.Of(v)
		return nil, &CastError{From: from, To: dt, cause: err}
	}
	return f, nil
}

func (a *Array) fillEquals(v any) bool {
	f, err := dtype.Cast(v, a.DType())
	return err == nil && dtype.Equal(f, a.fill)
}

// dense materializes every logical position.
func (a *Array) dense() buffer.Buffer {
	return a.values.Gather(index.DenseOffsets(a.idx), a.fill)
}

// Len returns the logical length.
func (a *Array) Len() int { return a.idx.Length() }

// NPoints returns the number of stored positions.
func (a *Array) NPoints() int { return a.idx.NPoints() }

// Density returns NPoints / Len, or 0 for an empty array.
func (a *Array) Density() float64 {
	if a.Len() == 0 {
		return 0
	}
	return float64(a.NPoints()) / float64(a.Len())
}

// DType returns the element type of the stored values.
func (a *Array) DType() dtype.DType { return a.values.DType() }

// FillValue returns the value implied at unstored positions, boxed in the Go
// type of DType.
func (a *Array) FillValue() any { return a.fill }

// SpIndex returns the array's index.
func (a *Array) SpIndex() index.SparseIndex { return a.idx }

// SpValues returns the stored values as a typed slice ([]float64, []bool,
// ...). The slice aliases the array's storage: writes through it are visible
// in every array sharing the buffer.
func (a *Array) SpValues() any { return a.values.Data() }

// Values returns a freshly allocated dense typed slice.
func (a *Array) Values() any { return a.dense().Data() }

// ToDense is an alias for Values.
func (a *Array) ToDense() any { return a.Values() }

// ToSlice returns the dense values of a as []T. T must match a.DType().
func ToSlice[T dtype.Element](a *Array) ([]T, error) {
	out, ok := buffer.Values[T](a.dense())
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: array of dtype %s is not []%T", ErrInvalidOperand, a.DType(), zero)
	}
	return out, nil
}

// SharesMemory reports whether a and b use the same value storage.
func (a *Array) SharesMemory(b *Array) bool {
	return b != nil && a.values.SharesStorage(b.values)
}

// Copy returns an array with the same index and fill. A deep copy owns its
// values; a shallow copy shares them with a.
func (a *Array) Copy(deep bool) *Array {
	values := a.values
	if deep {
		values = values.Clone()
	}
	return &Array{idx: a.idx, values: values, fill: a.fill}
}

// All yields every (position, value) pair in order, substituting the fill
// value at unstored positions.
func (a *Array) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		next := 0
		for off, pos := range a.idx.All() {
			for ; next < pos; next++ {
				if !yield(next, a.fill) {
					return
				}
			}
			if !yield(pos, a.values.At(off)) {
				return
			}
			next = pos + 1
		}
		for ; next < a.Len(); next++ {
			if !yield(next, a.fill) {
				return
			}
		}
	}
}

// Iter yields every logical value in order.
func (a *Array) Iter() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range a.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Equal reports whether a and b hold the same logical values, dtype and fill
// value. NaN equals NaN. The index encodings may differ.
func (a *Array) Equal(b *Array) bool {
	if a == b {
		return true
	}
	if b == nil || a.Len() != b.Len() || a.DType() != b.DType() || !dtype.Equal(a.fill, b.fill) {
		return false
	}
	return a.dense().Equal(b.dense())
}

// Identical reports whether a and b store the same positions and values
// with the same dtype and fill value.
func (a *Array) Identical(b *Array) bool {
	if a == b {
		return true
	}
	return b != nil &&
		a.DType() == b.DType() &&
		dtype.Equal(a.fill, b.fill) &&
		a.idx.Equal(b.idx) &&
		a.values.Equal(b.values)
}

// String summarizes dtype, fill, length, stored points and index kind.
func (a *Array) String() string {
	return fmt.Sprintf("SparseArray(dtype=%s, fill=%v, length=%d, npoints=%d, index=%s)",
		a.DType(), a.fill, a.Len(), a.NPoints(), a.idx.Kind())
}
