// Package dtype defines the element types a sparse array can hold.
//
// The set is closed:
//
//   - Bool
//   - Int8, Int16, Int32, Int64
//   - Uint8, Uint16, Uint32, Uint64
//   - Float32, Float64
//
// A DType is resolved once when an array is built and travels with it as an
// explicit tag. Scalars cross the API boundary as `any` values of the
// matching Go type (float32 for Float32, bool for Bool, ...); Cast converts a
// scalar of any supported Go type to the Go type of a DType.
//
// # Missing values
//
// Floating dtypes use NaN as their default fill value. Integer dtypes default
// to 0 and Bool to false. Equal treats two NaNs as equal so fill values can be
// compared directly.
//
// # Promotion
//
// Promote follows the usual numeric promotion lattice:
//
//	bool < uint8 < uint16 < uint32 < uint64
//	bool < int8  < int16  < int32  < int64
//	mixed signedness widens to the next signed type (uint64 + signed -> float64)
//	float32 absorbs 8/16-bit integers, anything wider promotes to float64
package dtype
