package dtype

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotRepresentable is returned when a scalar has no value in the target
// dtype, such as NaN cast to an integer.
var ErrNotRepresentable = errors.New("dtype: value not representable")

// scalar is a value unpacked into the widest Go type of its category.
type scalar struct {
	cat Category
	f   float64
	i   int64
	u   uint64
	b   bool
	uns bool
}

func unpack(v any) (scalar, error) {
	switch x := v.(type) {
	case bool:
		return scalar{cat: CategoryBool, b: x}, nil
	case int:
		return scalar{cat: CategoryInteger, i: int64(x)}, nil
	case int8:
		return scalar{cat: CategoryInteger, i: int64(x)}, nil
	case int16:
		return scalar{cat: CategoryInteger, i: int64(x)}, nil
	case int32:
		return scalar{cat: CategoryInteger, i: int64(x)}, nil
	case int64:
		return scalar{cat: CategoryInteger, i: x}, nil
	case uint:
		return scalar{cat: CategoryInteger, u: uint64(x), uns: true}, nil
	case uint8:
		return scalar{cat: CategoryInteger, u: uint64(x), uns: true}, nil
	case uint16:
		return scalar{cat: CategoryInteger, u: uint64(x), uns: true}, nil
	case uint32:
		return scalar{cat: CategoryInteger, u: uint64(x), uns: true}, nil
	case uint64:
		return scalar{cat: CategoryInteger, u: x, uns: true}, nil
	case float32:
		return scalar{cat: CategoryFloat, f: float64(x)}, nil
	case float64:
		return scalar{cat: CategoryFloat, f: x}, nil
	}
	return scalar{}, fmt.Errorf("%w: scalar of type %T", ErrUnknown, v)
}

func (s scalar) float() float64 {
	switch {
	case s.cat == CategoryFloat:
		return s.f
	case s.cat == CategoryBool:
		if s.b {
			return 1
		}
		return 0
	case s.uns:
		return float64(s.u)
	default:
		return float64(s.i)
	}
}

func (s scalar) int() int64 {
	switch {
	case s.cat == CategoryFloat:
		return int64(s.f)
	case s.cat == CategoryBool:
		if s.b {
			return 1
		}
		return 0
	case s.uns:
		return int64(s.u)
	default:
		return s.i
	}
}

func (s scalar) uint() uint64 {
	switch {
	case s.cat == CategoryFloat:
		if s.f < 0 {
			return uint64(int64(s.f))
		}
		return uint64(s.f)
	case s.uns:
		return s.u
	default:
		return uint64(s.int())
	}
}

func (s scalar) bool() bool {
	switch {
	case s.cat == CategoryBool:
		return s.b
	case s.cat == CategoryFloat:
		return s.f != 0
	case s.uns:
		return s.u != 0
	default:
		return s.i != 0
	}
}

// Cast converts the scalar v to the Go type backing dt. Integer targets wrap
// on overflow. NaN and infinities cannot be cast to integer dtypes.
func Cast(v any, dt DType) (any, error) {
	s, err := unpack(v)
	if err != nil {
		return nil, err
	}
	if dt.IsInteger() && s.cat == CategoryFloat && (math.IsNaN(s.f) || math.IsInf(s.f, 0)) {
		return nil, fmt.Errorf("%w: %v as %s", ErrNotRepresentable, s.f, dt)
	}
	switch dt {
	case Bool:
		return s.bool(), nil
	case Int8:
		return int8(s.int()), nil
	case Int16:
		return int16(s.int()), nil
	case Int32:
		return int32(s.int()), nil
	case Int64:
		return s.int(), nil
	case Uint8:
		return uint8(s.uint()), nil
	case Uint16:
		return uint16(s.uint()), nil
	case Uint32:
		return uint32(s.uint()), nil
	case Uint64:
		return s.uint(), nil
	case Float32:
		return float32(s.float()), nil
	case Float64:
		return s.float(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknown, dt)
}

// IsNaN reports whether v is a floating point NaN.
func IsNaN(v any) bool {
	switch x := v.(type) {
	case float64:
		return math.IsNaN(x)
	case float32:
		return x != x
	}
	return false
}

// Equal compares two scalars of the same Go type, treating NaN as equal to
// NaN.
func Equal(a, b any) bool {
	if IsNaN(a) && IsNaN(b) {
		return true
	}
	return a == b
}
