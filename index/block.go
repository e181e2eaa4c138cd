package index

import (
	"fmt"
	"iter"
	"slices"
	"sort"
)

// BlockIndex stores occupied positions as runs. Run i covers
// [starts[i], starts[i]+lengths[i]) and its values begin at compact offset
// locs[i].
type BlockIndex struct {
	length  int
	starts  []int
	lengths []int
	locs    []int
	npoints int
}

// NewBlockIndex validates and copies the runs. Runs must be non-empty,
// sorted, non-overlapping and inside [0, length).
func NewBlockIndex(length int, starts, lengths []int) (*BlockIndex, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalid, length)
	}
	if len(starts) != len(lengths) {
		return nil, fmt.Errorf("%w: %d starts vs %d lengths", ErrInvalid, len(starts), len(lengths))
	}
	b := &BlockIndex{
		length:  length,
		starts:  slices.Clone(starts),
		lengths: slices.Clone(lengths),
		locs:    make([]int, len(starts)),
	}
	end := 0
	for i, s := range starts {
		n := lengths[i]
		switch {
		case n <= 0:
			return nil, fmt.Errorf("%w: block %d has length %d", ErrInvalid, i, n)
		case s < end:
			return nil, fmt.Errorf("%w: block %d overlaps or is unsorted", ErrInvalid, i)
		case n > length-s:
			return nil, fmt.Errorf("%w: block %d ends past length %d", ErrInvalid, i, length)
		}
		b.locs[i] = b.npoints
		b.npoints += n
		end = s + n
	}
	return b, nil
}

func (b *BlockIndex) sealed() {}

func (b *BlockIndex) Kind() Kind   { return KindBlock }
func (b *BlockIndex) Length() int  { return b.length }
func (b *BlockIndex) NPoints() int { return b.npoints }

// Blocks returns copies of the run starts and lengths.
func (b *BlockIndex) Blocks() (starts, lengths []int) {
	return slices.Clone(b.starts), slices.Clone(b.lengths)
}

// NBlocks returns the number of runs.
func (b *BlockIndex) NBlocks() int { return len(b.starts) }

func (b *BlockIndex) Lookup(pos int) (int, bool) {
	i := sort.SearchInts(b.starts, pos+1) - 1
	if i < 0 || pos >= b.starts[i]+b.lengths[i] {
		return 0, false
	}
	return b.locs[i] + pos - b.starts[i], true
}

func (b *BlockIndex) Indices() []int {
	out := make([]int, 0, b.npoints)
	for i, s := range b.starts {
		for p := s; p < s+b.lengths[i]; p++ {
			out = append(out, p)
		}
	}
	return out
}

func (b *BlockIndex) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i, s := range b.starts {
			off := b.locs[i]
			for p := s; p < s+b.lengths[i]; p++ {
				if !yield(off, p) {
					return
				}
				off++
			}
		}
	}
}

func (b *BlockIndex) ToInt() *IntIndex {
	return &IntIndex{length: b.length, indices: b.Indices()}
}

func (b *BlockIndex) ToBlock() *BlockIndex { return b }

// pointsBefore counts occupied positions smaller than pos.
func (b *BlockIndex) pointsBefore(pos int) int {
	j := sort.SearchInts(b.starts, pos)
	if j == 0 {
		return 0
	}
	last := j - 1
	return b.locs[last] + min(b.lengths[last], pos-b.starts[last])
}

func (b *BlockIndex) Slice(start, stop int) (SparseIndex, int, int) {
	start, stop = clampRange(b.length, start, stop)
	sub := &BlockIndex{length: stop - start}
	for i, s := range b.starts {
		e := s + b.lengths[i]
		if e <= start {
			continue
		}
		if s >= stop {
			break
		}
		lo, hi := max(s, start), min(e, stop)
		sub.starts = append(sub.starts, lo-start)
		sub.lengths = append(sub.lengths, hi-lo)
		sub.locs = append(sub.locs, sub.npoints)
		sub.npoints += hi - lo
	}
	return sub, b.pointsBefore(start), b.pointsBefore(stop)
}

func (b *BlockIndex) Equal(other SparseIndex) bool { return equalPositions(b, other) }

func (b *BlockIndex) String() string {
	return fmt.Sprintf("BlockIndex(length=%d, starts=%v, lengths=%v)", b.length, b.starts, b.lengths)
}

// appendRun adds [start, start+n) to b, merging with the previous run when
// they touch. Runs must arrive in increasing order.
func (b *BlockIndex) appendRun(start, n int) {
	if n <= 0 {
		return
	}
	last := len(b.starts) - 1
	if last >= 0 && b.starts[last]+b.lengths[last] >= start {
		end := max(b.starts[last]+b.lengths[last], start+n)
		b.npoints += end - (b.starts[last] + b.lengths[last])
		b.lengths[last] = end - b.starts[last]
		return
	}
	b.starts = append(b.starts, start)
	b.lengths = append(b.lengths, n)
	b.locs = append(b.locs, b.npoints)
	b.npoints += n
}
