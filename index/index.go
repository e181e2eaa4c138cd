package index

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrInvalid is returned when index payloads violate the ordering or
	// bounds invariants.
	ErrInvalid = errors.New("index: invalid sparse index")

	// ErrLengthMismatch is returned when combining indexes of different
	// logical length.
	ErrLengthMismatch = errors.New("index: length mismatch")
)

// Kind selects an index encoding.
type Kind uint8

const (
	// KindAuto lets FromMask choose the encoding.
	KindAuto Kind = iota
	KindBlock
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindBlock:
		return "block"
	case KindInt:
		return "integer"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind resolves "block", "integer"/"int" or "auto".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "auto", "":
		return KindAuto, nil
	case "block":
		return KindBlock, nil
	case "integer", "int":
		return KindInt, nil
	}
	return KindAuto, fmt.Errorf("%w: unknown kind %q", ErrInvalid, s)
}

// SparseIndex is the immutable position map of a sparse array. It is
// implemented by *BlockIndex and *IntIndex only.
type SparseIndex interface {
	// Kind returns KindBlock or KindInt.
	Kind() Kind

	// Length returns the logical length.
	Length() int

	// NPoints returns the number of occupied positions.
	NPoints() int

	// Lookup returns the compact offset of pos, or false when pos holds the
	// fill value or lies outside [0, Length).
	Lookup(pos int) (int, bool)

	// Indices returns the occupied positions in increasing order. The slice
	// is freshly allocated.
	Indices() []int

	// All yields (offset, position) pairs in increasing order.
	All() iter.Seq2[int, int]

	ToInt() *IntIndex
	ToBlock() *BlockIndex

	// Slice restricts the index to [start, stop), renumbering positions to
	// start at 0. lo and hi delimit the matching range of the compact
	// buffer. Bounds are clamped to [0, Length).
	Slice(start, stop int) (sub SparseIndex, lo, hi int)

	// Equal reports whether both indexes occupy the same positions over the
	// same length, regardless of encoding.
	Equal(other SparseIndex) bool

	sealed()
}

// Empty returns an index of the given length with no occupied positions.
func Empty(length int) SparseIndex {
	return &BlockIndex{length: length}
}

// Full returns an index whose every position is occupied.
func Full(length int) SparseIndex {
	if length == 0 {
		return Empty(0)
	}
	return &BlockIndex{
		length:  length,
		starts:  []int{0},
		lengths: []int{length},
		locs:    []int{0},
		npoints: length,
	}
}

func clampRange(length, start, stop int) (int, int) {
	start = max(0, min(start, length))
	stop = max(start, min(stop, length))
	return start, stop
}

func equalPositions(a, b SparseIndex) bool {
	if a.Length() != b.Length() || a.NPoints() != b.NPoints() {
		return false
	}
	return slices.Equal(a.Indices(), b.Indices())
}
