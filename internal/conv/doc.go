// Package conv provides checked integer conversions.
//
// Roaring bitmaps address positions as uint64 while arrays use int, and
// decoders read lengths as uint64 from untrusted bytes. These helpers fail
// with ErrOverflow instead of silently wrapping.
package conv
