package sparse

import (
	"github.com/hupe1980/sparse/index"
)

// Omit stands for an omitted slice bound in SliceStep.
const Omit = index.Omit

// position resolves i against [-Len, Len).
func (a *Array) position(i int) (int, error) {
	n := a.Len()
	if i < -n || i >= n {
		return 0, &IndexError{Position: i, Length: n}
	}
	if i < 0 {
		i += n
	}
	return i, nil
}

// Get returns the value at position i. Negative positions count from the
// end. Positions outside [-Len, Len) fail with ErrOutOfBounds.
func (a *Array) Get(i int) (any, error) {
	pos, err := a.position(i)
	if err != nil {
		return nil, err
	}
	if off, ok := a.idx.Lookup(pos); ok {
		return a.values.At(off), nil
	}
	return a.fill, nil
}

// TakeScalar is Take for a single position. It behaves like Get.
func (a *Array) TakeScalar(i int) (any, error) { return a.Get(i) }

// Take returns a new array holding the values at positions, in request
// order. Every position is checked before any value is read, so a single
// out-of-range position fails the whole call. An empty request yields an
// empty array.
func (a *Array) Take(positions []int) (*Array, error) {
	resolved := make([]int, len(positions))
	for i, p := range positions {
		pos, err := a.position(p)
		if err != nil {
			return nil, err
		}
		resolved[i] = pos
	}
	dense := a.values.Gather(index.Offsets(a.idx, resolved), a.fill)
	return compact(dense, a.fill, index.KindAuto), nil
}

// Slice returns a[start:stop] with sequence clipping rules. Bounds never
// fail. Use Omit for an open bound. The result shares storage with a.
func (a *Array) Slice(start, stop int) (*Array, error) {
	return a.SliceStep(start, stop, 1)
}

// SliceStep returns a[start:stop:step]. A zero step fails with
// ErrInvalidOperand.
//
// A unit step restricts the index and reuses a's storage; any other step
// gathers the selected positions and compacts them into a new array.
func (a *Array) SliceStep(start, stop, step int) (*Array, error) {
	w, err := index.ResolveSlice(a.Len(), start, stop, step)
	if err != nil {
		return nil, translateError(err)
	}
	if step == 1 {
		sub, lo, hi := a.idx.Slice(w.Start, w.Stop)
		return &Array{idx: sub, values: a.values.Slice(lo, hi), fill: a.fill}, nil
	}
	dense := a.values.Gather(index.Offsets(a.idx, w.Positions()), a.fill)
	return compact(dense, a.fill, a.idx.Kind()), nil
}

// Assign always fails: arrays are immutable.
func (a *Array) Assign(i int, v any) error {
	return &UnsupportedError{Op: "item assignment"}
}

// AssignSlice always fails: arrays are immutable.
func (a *Array) AssignSlice(start, stop int, v any) error {
	return &UnsupportedError{Op: "item assignment"}
}
