// Package buffer holds the compact, dtype-tagged value storage of sparse
// arrays.
//
// A Buffer is a typed window onto a shared storage cell. Slice returns a view
// onto the same cell and Clone allocates a new one, so ownership is explicit:
// two buffers alias exactly when SharesStorage reports true. Writes through
// Data() are visible to every buffer sharing the cell; no other method
// mutates storage.
//
// Compact turns a dense buffer into its sparse form. An element is dropped
// when EqualsFill(v, fill) holds, or when the fill value itself is missing
// (NaN) and IsMissing(v) holds.
package buffer
