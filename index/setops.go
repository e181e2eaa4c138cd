package index

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/sparse/internal/conv"
)

// Union returns the positions occupied in a or b. When one side is empty
// the other is returned as is.
func Union(a, b SparseIndex) (SparseIndex, error) {
	if a.Length() != b.Length() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.Length(), b.Length())
	}
	switch {
	case b.NPoints() == 0:
		return a, nil
	case a.NPoints() == 0:
		return b, nil
	}
	if ab, ok := a.(*BlockIndex); ok {
		if bb, ok := b.(*BlockIndex); ok {
			return unionBlocks(ab, bb), nil
		}
	}
	return combineBitmaps(a, b, roaring64.Or)
}

// Intersect returns the positions occupied in both a and b.
func Intersect(a, b SparseIndex) (SparseIndex, error) {
	if a.Length() != b.Length() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.Length(), b.Length())
	}
	if a.NPoints() == 0 || b.NPoints() == 0 {
		return Empty(a.Length()), nil
	}
	if ab, ok := a.(*BlockIndex); ok {
		if bb, ok := b.(*BlockIndex); ok {
			return intersectBlocks(ab, bb), nil
		}
	}
	return combineBitmaps(a, b, roaring64.And)
}

// Align computes the union of a and b together with, for every union
// position, its compact offset in a and in b (-1 when the operand holds its
// fill value there).
func Align(a, b SparseIndex) (union SparseIndex, left, right []int, err error) {
	union, err = Union(a, b)
	if err != nil {
		return nil, nil, nil, err
	}
	positions := union.Indices()
	return union, mergeOffsets(a, positions), mergeOffsets(b, positions), nil
}

// Offsets returns the compact offset of each position in x, or -1 where the
// position is not occupied. Positions may come in any order.
func Offsets(x SparseIndex, positions []int) []int {
	out := make([]int, len(positions))
	for i, p := range positions {
		off, ok := x.Lookup(p)
		if !ok {
			off = -1
		}
		out[i] = off
	}
	return out
}

// DenseOffsets returns, for every logical position of x, its compact offset
// or -1.
func DenseOffsets(x SparseIndex) []int {
	out := make([]int, x.Length())
	for i := range out {
		out[i] = -1
	}
	for off, pos := range x.All() {
		out[pos] = off
	}
	return out
}

// mergeOffsets resolves sorted positions against x in one linear pass.
func mergeOffsets(x SparseIndex, positions []int) []int {
	out := make([]int, len(positions))
	occupied := x.Indices()
	j := 0
	for i, p := range positions {
		for j < len(occupied) && occupied[j] < p {
			j++
		}
		if j < len(occupied) && occupied[j] == p {
			out[i] = j
		} else {
			out[i] = -1
		}
	}
	return out
}

func unionBlocks(a, b *BlockIndex) *BlockIndex {
	out := &BlockIndex{length: a.length}
	i, j := 0, 0
	for i < len(a.starts) || j < len(b.starts) {
		if j >= len(b.starts) || (i < len(a.starts) && a.starts[i] <= b.starts[j]) {
			out.appendRun(a.starts[i], a.lengths[i])
			i++
		} else {
			out.appendRun(b.starts[j], b.lengths[j])
			j++
		}
	}
	return out
}

func intersectBlocks(a, b *BlockIndex) *BlockIndex {
	out := &BlockIndex{length: a.length}
	i, j := 0, 0
	for i < len(a.starts) && j < len(b.starts) {
		ae, be := a.starts[i]+a.lengths[i], b.starts[j]+b.lengths[j]
		lo, hi := max(a.starts[i], b.starts[j]), min(ae, be)
		if lo < hi {
			out.appendRun(lo, hi-lo)
		}
		if ae <= be {
			i++
		} else {
			j++
		}
	}
	return out
}

func toBitmap(x SparseIndex) (*roaring64.Bitmap, error) {
	rb := roaring64.New()
	if b, ok := x.(*BlockIndex); ok {
		for i, s := range b.starts {
			rb.AddRange(uint64(s), uint64(s)+uint64(b.lengths[i]))
		}
		return rb, nil
	}
	positions, err := conv.Uint64s(x.(*IntIndex).indices)
	if err != nil {
		return nil, err
	}
	rb.AddMany(positions)
	return rb, nil
}

func combineBitmaps(a, b SparseIndex, combine func(x1, x2 *roaring64.Bitmap) *roaring64.Bitmap) (SparseIndex, error) {
	ra, err := toBitmap(a)
	if err != nil {
		return nil, err
	}
	rb, err := toBitmap(b)
	if err != nil {
		return nil, err
	}
	indices, err := conv.Ints(combine(ra, rb).ToArray())
	if err != nil {
		return nil, err
	}
	return &IntIndex{length: a.Length(), indices: indices}, nil
}
