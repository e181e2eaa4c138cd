package kernel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrZeroDivision is returned by integer floor division or modulo by zero.
	ErrZeroDivision = errors.New("integer division or modulo by zero")

	// ErrNegativePower is returned when an integer is raised to a negative
	// integer power.
	ErrNegativePower = errors.New("integers to negative integer powers are not allowed")

	// ErrUnsupportedOperand is returned when an operator is not defined for a
	// lane kind, e.g. bitwise and on floats.
	ErrUnsupportedOperand = errors.New("unsupported operand type")

	// ErrLaneMismatch is returned when two lanes differ in kind or length.
	ErrLaneMismatch = errors.New("kernel: lane mismatch")
)

// Op is an elementwise binary operator.
type Op uint8

const (
	Add Op = iota
	Sub
	Mul
	TrueDiv
	FloorDiv
	Mod
	Pow
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
	Xor
)

var opNames = [...]string{
	Add:      "add",
	Sub:      "sub",
	Mul:      "mul",
	TrueDiv:  "truediv",
	FloorDiv: "floordiv",
	Mod:      "mod",
	Pow:      "pow",
	Eq:       "eq",
	Ne:       "ne",
	Lt:       "lt",
	Le:       "le",
	Gt:       "gt",
	Ge:       "ge",
	And:      "and",
	Or:       "or",
	Xor:      "xor",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// IsComparison reports whether op yields a bool lane.
func (op Op) IsComparison() bool { return op >= Eq && op <= Ge }

// IsLogical reports whether op is a bitwise/logical operator.
func (op Op) IsLogical() bool { return op >= And && op <= Xor }

// IsArithmetic reports whether op is an arithmetic operator.
func (op Op) IsArithmetic() bool { return op <= Pow }

// Apply computes op(a[i], b[i]) for every i. Comparison operators return a
// Bool lane, everything else returns a lane of the operands' kind.
func Apply(op Op, a, b Lane) (Lane, error) {
	if a.Kind != b.Kind || a.Len() != b.Len() {
		return Lane{}, fmt.Errorf("%w: %s[%d] vs %s[%d]", ErrLaneMismatch, a.Kind, a.Len(), b.Kind, b.Len())
	}
	if op.IsComparison() {
		return BoolLane(compareLane(op, a, b)), nil
	}
	switch a.Kind {
	case Float:
		return applyFloat(op, a.F, b.F)
	case Int:
		return applyInt(op, a.I, b.I)
	case Uint:
		return applyUint(op, a.U, b.U)
	default:
		return applyBool(op, a.B, b.B)
	}
}

func unsupported(op Op, k Kind) error {
	return fmt.Errorf("%w: %s on %s", ErrUnsupportedOperand, op, k)
}

func applyFloat(op Op, a, b []float64) (Lane, error) {
	dst := make([]float64, len(a))
	switch op {
	case Add:
		floats.AddTo(dst, a, b)
	case Sub:
		floats.SubTo(dst, a, b)
	case Mul:
		floats.MulTo(dst, a, b)
	case TrueDiv:
		floats.DivTo(dst, a, b)
	case FloorDiv:
		floats.DivTo(dst, a, b)
		for i, v := range dst {
			dst[i] = math.Floor(v)
		}
	case Mod:
		for i := range dst {
			dst[i] = floorMod(a[i], b[i])
		}
	case Pow:
		for i := range dst {
			dst[i] = math.Pow(a[i], b[i])
		}
	default:
		return Lane{}, unsupported(op, Float)
	}
	return FloatLane(dst), nil
}

// floorMod returns a mod b with the sign of b.
func floorMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func applyInt(op Op, a, b []int64) (Lane, error) {
	if op.IsLogical() {
		return IntLane(bitwise(op, a, b)), nil
	}
	dst := make([]int64, len(a))
	switch op {
	case Add:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case Sub:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case Mul:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case FloorDiv, Mod:
		for i := range dst {
			if b[i] == 0 {
				return Lane{}, ErrZeroDivision
			}
			q, r := a[i]/b[i], a[i]%b[i]
			if r != 0 && (r < 0) != (b[i] < 0) {
				q--
				r += b[i]
			}
			if op == FloorDiv {
				dst[i] = q
			} else {
				dst[i] = r
			}
		}
	case Pow:
		for i := range dst {
			if b[i] < 0 {
				return Lane{}, ErrNegativePower
			}
			dst[i] = ipow(a[i], uint64(b[i]))
		}
	default:
		return Lane{}, unsupported(op, Int)
	}
	return IntLane(dst), nil
}

func applyUint(op Op, a, b []uint64) (Lane, error) {
	if op.IsLogical() {
		return UintLane(bitwise(op, a, b)), nil
	}
	dst := make([]uint64, len(a))
	switch op {
	case Add:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case Sub:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case Mul:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case FloorDiv, Mod:
		for i := range dst {
			if b[i] == 0 {
				return Lane{}, ErrZeroDivision
			}
			if op == FloorDiv {
				dst[i] = a[i] / b[i]
			} else {
				dst[i] = a[i] % b[i]
			}
		}
	case Pow:
		for i := range dst {
			dst[i] = ipow(a[i], b[i])
		}
	default:
		return Lane{}, unsupported(op, Uint)
	}
	return UintLane(dst), nil
}

func applyBool(op Op, a, b []bool) (Lane, error) {
	dst := make([]bool, len(a))
	switch op {
	case And:
		for i := range dst {
			dst[i] = a[i] && b[i]
		}
	case Or:
		for i := range dst {
			dst[i] = a[i] || b[i]
		}
	case Xor:
		for i := range dst {
			dst[i] = a[i] != b[i]
		}
	default:
		return Lane{}, unsupported(op, Bool)
	}
	return BoolLane(dst), nil
}

type integer interface{ ~int64 | ~uint64 }

func bitwise[T integer](op Op, a, b []T) []T {
	dst := make([]T, len(a))
	for i := range dst {
		switch op {
		case And:
			dst[i] = a[i] & b[i]
		case Or:
			dst[i] = a[i] | b[i]
		default:
			dst[i] = a[i] ^ b[i]
		}
	}
	return dst
}

// ipow computes base**exp by squaring, wrapping on overflow.
func ipow[T integer](base T, exp uint64) T {
	result := T(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

type ordered interface{ ~int64 | ~uint64 | ~float64 }

func compare[T ordered](op Op, a, b []T) []bool {
	dst := make([]bool, len(a))
	for i := range dst {
		switch op {
		case Eq:
			dst[i] = a[i] == b[i]
		case Ne:
			dst[i] = a[i] != b[i]
		case Lt:
			dst[i] = a[i] < b[i]
		case Le:
			dst[i] = a[i] <= b[i]
		case Gt:
			dst[i] = a[i] > b[i]
		default:
			dst[i] = a[i] >= b[i]
		}
	}
	return dst
}

func compareLane(op Op, a, b Lane) []bool {
	switch a.Kind {
	case Float:
		return compare(op, a.F, b.F)
	case Int:
		return compare(op, a.I, b.I)
	case Uint:
		return compare(op, a.U, b.U)
	}
	dst := make([]bool, len(a.B))
	for i := range dst {
		x, y := a.B[i], b.B[i]
		switch op {
		case Eq:
			dst[i] = x == y
		case Ne:
			dst[i] = x != y
		case Lt:
			dst[i] = !x && y
		case Le:
			dst[i] = !x || y
		case Gt:
			dst[i] = x && !y
		default:
			dst[i] = x || !y
		}
	}
	return dst
}
