package index

import "github.com/bits-and-blooms/bitset"

// FromMask builds an index from the set bits of mask below length.
func FromMask(length int, mask *bitset.BitSet, kind Kind) SparseIndex {
	var indices []int
	runs := 0
	if mask != nil {
		for i, ok := mask.NextSet(0); ok && int(i) < length; i, ok = mask.NextSet(i + 1) {
			p := int(i)
			if n := len(indices); n == 0 || indices[n-1] != p-1 {
				runs++
			}
			indices = append(indices, p)
		}
	}
	if kind == KindAuto {
		kind = chooseKind(len(indices), runs)
	}
	x := &IntIndex{length: length, indices: indices}
	if kind == KindBlock {
		return x.ToBlock()
	}
	return x
}

// chooseKind prefers blocks once runs average two or more positions.
func chooseKind(npoints, runs int) Kind {
	if runs*2 <= npoints {
		return KindBlock
	}
	return KindInt
}

// Convert re-encodes x. KindAuto returns x unchanged.
func Convert(x SparseIndex, kind Kind) SparseIndex {
	switch kind {
	case KindBlock:
		return x.ToBlock()
	case KindInt:
		return x.ToInt()
	}
	return x
}
