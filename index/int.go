package index

import (
	"fmt"
	"iter"
	"slices"
	"sort"
)

// IntIndex lists occupied positions explicitly.
type IntIndex struct {
	length  int
	indices []int
}

// NewIntIndex validates and copies indices, which must be strictly
// increasing and inside [0, length).
func NewIntIndex(length int, indices []int) (*IntIndex, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalid, length)
	}
	for i, p := range indices {
		if p < 0 || p >= length {
			return nil, fmt.Errorf("%w: position %d outside [0, %d)", ErrInvalid, p, length)
		}
		if i > 0 && p <= indices[i-1] {
			return nil, fmt.Errorf("%w: positions not strictly increasing at %d", ErrInvalid, i)
		}
	}
	return &IntIndex{length: length, indices: slices.Clone(indices)}, nil
}

func (x *IntIndex) sealed() {}

func (x *IntIndex) Kind() Kind     { return KindInt }
func (x *IntIndex) Length() int    { return x.length }
func (x *IntIndex) NPoints() int   { return len(x.indices) }
func (x *IntIndex) Indices() []int { return slices.Clone(x.indices) }

func (x *IntIndex) Lookup(pos int) (int, bool) {
	off, found := slices.BinarySearch(x.indices, pos)
	return off, found
}

func (x *IntIndex) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for off, pos := range x.indices {
			if !yield(off, pos) {
				return
			}
		}
	}
}

func (x *IntIndex) ToInt() *IntIndex { return x }

func (x *IntIndex) ToBlock() *BlockIndex {
	b := &BlockIndex{length: x.length, npoints: len(x.indices)}
	for off, pos := range x.indices {
		last := len(b.starts) - 1
		if last >= 0 && b.starts[last]+b.lengths[last] == pos {
			b.lengths[last]++
			continue
		}
		b.starts = append(b.starts, pos)
		b.lengths = append(b.lengths, 1)
		b.locs = append(b.locs, off)
	}
	return b
}

func (x *IntIndex) Slice(start, stop int) (SparseIndex, int, int) {
	start, stop = clampRange(x.length, start, stop)
	lo := sort.SearchInts(x.indices, start)
	hi := sort.SearchInts(x.indices, stop)
	sub := make([]int, hi-lo)
	for i, p := range x.indices[lo:hi] {
		sub[i] = p - start
	}
	return &IntIndex{length: stop - start, indices: sub}, lo, hi
}

func (x *IntIndex) Equal(other SparseIndex) bool { return equalPositions(x, other) }

func (x *IntIndex) String() string {
	return fmt.Sprintf("IntIndex(length=%d, indices=%v)", x.length, x.indices)
}
