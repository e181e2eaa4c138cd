package buffer

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/sparse/dtype"
	"github.com/hupe1980/sparse/internal/kernel"
)

// Buffer is a dtype-tagged sequence of values.
type Buffer interface {
	DType() dtype.DType
	Len() int

	// At returns element i boxed in the Go type of DType.
	At(i int) any

	// Data returns the typed slice ([]float64, []bool, ...) backing the
	// buffer. It aliases storage.
	Data() any

	// Slice returns a view of [lo, hi) sharing storage.
	Slice(lo, hi int) Buffer

	// Clone returns a copy with its own storage.
	Clone() Buffer

	// Gather returns a new buffer with element offsets[i] at position i, or
	// fill where offsets[i] is negative.
	Gather(offsets []int, fill any) Buffer

	// Compact drops every element matching fill and returns the remaining
	// values together with the mask of positions they came from.
	Compact(fill any) (Buffer, *bitset.BitSet)

	// Lane converts the elements into a kernel lane of kind k.
	Lane(k kernel.Kind) kernel.Lane

	SharesStorage(other Buffer) bool

	// Equal reports elementwise equality, treating NaN as equal to NaN.
	Equal(other Buffer) bool
}

// EqualsFill reports whether v equals the fill value exactly.
func EqualsFill[T comparable](v, fill T) bool { return v == fill }

// IsMissing reports whether v is NaN. It is false for non-float types.
func IsMissing[T comparable](v T) bool { return v != v }

type cell[T dtype.Element] struct {
	data []T
}

type typed[T dtype.Element] struct {
	dt  dtype.DType
	st  *cell[T]
	off int
	n   int
}

func newTyped[T dtype.Element](dt dtype.DType, data []T) Buffer {
	return &typed[T]{dt: dt, st: &cell[T]{data: data}, n: len(data)}
}

func (b *typed[T]) view() []T {
	return b.st.data[b.off : b.off+b.n : b.off+b.n]
}

func (b *typed[T]) DType() dtype.DType { return b.dt }
func (b *typed[T]) Len() int           { return b.n }
func (b *typed[T]) At(i int) any       { return b.view()[i] }
func (b *typed[T]) Data() any          { return b.view() }

func (b *typed[T]) Slice(lo, hi int) Buffer {
	if lo < 0 || hi < lo || hi > b.n {
		panic(fmt.Sprintf("buffer: slice [%d:%d] out of range for length %d", lo, hi, b.n))
	}
	return &typed[T]{dt: b.dt, st: b.st, off: b.off + lo, n: hi - lo}
}

func (b *typed[T]) Clone() Buffer {
	data := make([]T, b.n)
	copy(data, b.view())
	return newTyped(b.dt, data)
}

func (b *typed[T]) scalar(v any) T {
	if x, ok := v.(T); ok {
		return x
	}
	c, err := dtype.Cast(v, b.dt)
	if err != nil {
		var zero T
		return zero
	}
	return c.(T)
}

func (b *typed[T]) Gather(offsets []int, fill any) Buffer {
	f := b.scalar(fill)
	src := b.view()
	out := make([]T, len(offsets))
	for i, off := range offsets {
		if off < 0 {
			out[i] = f
			continue
		}
		out[i] = src[off]
	}
	return newTyped(b.dt, out)
}

func (b *typed[T]) Compact(fill any) (Buffer, *bitset.BitSet) {
	f := b.scalar(fill)
	missingFill := IsMissing(f)
	mask := bitset.New(uint(b.n))
	values := make([]T, 0)
	for i, v := range b.view() {
		if EqualsFill(v, f) || (missingFill && IsMissing(v)) {
			continue
		}
		mask.Set(uint(i))
		values = append(values, v)
	}
	return newTyped(b.dt, values), mask
}

func (b *typed[T]) Lane(k kernel.Kind) kernel.Lane {
	return toLane(any(b.view()), k)
}

func (b *typed[T]) SharesStorage(other Buffer) bool {
	o, ok := other.(*typed[T])
	return ok && o.st == b.st
}

func (b *typed[T]) Equal(other Buffer) bool {
	o, ok := other.(*typed[T])
	if !ok || o.dt != b.dt || o.n != b.n {
		return false
	}
	ov := o.view()
	for i, v := range b.view() {
		if v != ov[i] && !(IsMissing(v) && IsMissing(ov[i])) {
			return false
		}
	}
	return true
}

// Values returns the typed slice behind b when T matches its dtype.
func Values[T dtype.Element](b Buffer) ([]T, bool) {
	t, ok := b.(*typed[T])
	if !ok {
		return nil, false
	}
	return t.view(), true
}
