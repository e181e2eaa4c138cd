// Package index describes which logical positions of a sparse array hold
// explicit values.
//
// A SparseIndex maps a logical position in [0, Length) to an offset into the
// array's compact value buffer, or reports that the position holds the fill
// value. Two encodings implement the contract:
//
//   - BlockIndex stores runs of contiguous occupied positions as
//     (start, length) pairs.
//   - IntIndex stores the sorted list of occupied positions.
//
// Both are immutable after construction and may be shared freely between
// arrays. The encoding is an implementation detail: Lookup, Slice, Union and
// Indices behave identically for both, and conversions between them are
// lossless.
//
// # Choosing an encoding
//
// FromMask picks an encoding when KindAuto is requested. Masks whose occupied
// positions form runs averaging two or more elements become a BlockIndex,
// scattered masks become an IntIndex.
//
// # Set operations
//
// Union and Intersect of two block indexes merge runs directly. Any pair that
// involves an IntIndex is combined through 64-bit roaring bitmaps, and an
// empty operand short-circuits to the other side. Align extends Union with,
// for each union position, the offset of that position in each operand (-1
// when absent). The binary-operation engine uses it to pair
// values from two arrays without densifying either.
package index
