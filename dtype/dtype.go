package dtype

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknown is returned when a dtype name or Go type is not supported.
var ErrUnknown = errors.New("dtype: unknown dtype")

// DType identifies the element type of an array.
type DType uint8

const (
	// Invalid is the zero DType. No array carries it.
	Invalid DType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

// Category orders dtypes by kind for scalar promotion.
type Category uint8

const (
	CategoryBool Category = iota
	CategoryInteger
	CategoryFloat
)

// Number is the set of Go numeric types backing a numeric DType.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Element is the set of Go types backing any DType.
type Element interface {
	Number | ~bool
}

var names = [...]string{
	Invalid: "invalid",
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
}

var sizes = [...]int{
	Bool:    1,
	Int8:    1,
	Int16:   2,
	Int32:   4,
	Int64:   8,
	Uint8:   1,
	Uint16:  2,
	Uint32:  4,
	Uint64:  8,
	Float32: 4,
	Float64: 8,
}

// aliases maps short type codes to dtypes.
var aliases = map[string]DType{
	"?":      Bool,
	"b1":     Bool,
	"i1":     Int8,
	"i2":     Int16,
	"i4":     Int32,
	"i8":     Int64,
	"int":    Int64,
	"u1":     Uint8,
	"u2":     Uint16,
	"u4":     Uint32,
	"u8":     Uint64,
	"f4":     Float32,
	"f8":     Float64,
	"float":  Float64,
	"double": Float64,
}

// Parse resolves a dtype by name ("float64") or type code ("f8").
func Parse(name string) (DType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for dt := Bool; dt <= Float64; dt++ {
		if names[dt] == n {
			return dt, nil
		}
	}
	if dt, ok := aliases[n]; ok {
		return dt, nil
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// String returns the canonical dtype name.
func (d DType) String() string {
	if int(d) < len(names) {
		return names[d]
	}
	return fmt.Sprintf("dtype(%d)", uint8(d))
}

// Valid reports whether d is one of the supported dtypes.
func (d DType) Valid() bool { return d >= Bool && d <= Float64 }

// Size returns the width of one element in bytes.
func (d DType) Size() int {
	if !d.Valid() {
		return 0
	}
	return sizes[d]
}

func (d DType) IsBool() bool     { return d == Bool }
func (d DType) IsFloat() bool    { return d == Float32 || d == Float64 }
func (d DType) IsSigned() bool   { return d >= Int8 && d <= Int64 }
func (d DType) IsUnsigned() bool { return d >= Uint8 && d <= Uint64 }
func (d DType) IsInteger() bool  { return d.IsSigned() || d.IsUnsigned() }

// Category returns the coarse kind of d.
func (d DType) Category() Category {
	switch {
	case d.IsFloat():
		return CategoryFloat
	case d.IsInteger():
		return CategoryInteger
	default:
		return CategoryBool
	}
}

// DefaultFill returns the fill value used when none is given: NaN for
// floating dtypes, false for Bool and zero otherwise.
func (d DType) DefaultFill() any {
	switch d {
	case Float64:
		return math.NaN()
	case Float32:
		return float32(math.NaN())
	case Bool:
		return false
	}
	v, _ := Cast(int64(0), d)
	return v
}

// Default returns the dtype a bare scalar of category c assumes.
func (c Category) Default() DType {
	switch c {
	case CategoryFloat:
		return Float64
	case CategoryInteger:
		return Int64
	default:
		return Bool
	}
}

// Of returns the dtype of a scalar Go value. Plain int and uint map to their
// 64-bit dtypes.
func Of(v any) (DType, error) {
	switch v.(type) {
	case bool:
		return Bool, nil
	case int8:
		return Int8, nil
	case int16:
		return Int16, nil
	case int32:
		return Int32, nil
	case int64, int:
		return Int64, nil
	case uint8:
		return Uint8, nil
	case uint16:
		return Uint16, nil
	case uint32:
		return Uint32, nil
	case uint64, uint:
		return Uint64, nil
	case float32:
		return Float32, nil
	case float64:
		return Float64, nil
	}
	return Invalid, fmt.Errorf("%w: scalar of type %T", ErrUnknown, v)
}

// OfSlice returns the dtype of a typed Go slice.
func OfSlice(data any) (DType, error) {
	switch data.(type) {
	case []bool:
		return Bool, nil
	case []int8:
		return Int8, nil
	case []int16:
		return Int16, nil
	case []int32:
		return Int32, nil
	case []int64, []int:
		return Int64, nil
	case []uint8:
		return Uint8, nil
	case []uint16:
		return Uint16, nil
	case []uint32:
		return Uint32, nil
	case []uint64, []uint:
		return Uint64, nil
	case []float32:
		return Float32, nil
	case []float64:
		return Float64, nil
	}
	return Invalid, fmt.Errorf("%w: slice of type %T", ErrUnknown, data)
}
