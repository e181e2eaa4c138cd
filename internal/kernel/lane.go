package kernel

import "fmt"

// Kind is the compute representation of a lane.
type Kind uint8

const (
	Float Kind = iota
	Int
	Uint
	Bool
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Lane is a dense buffer. Exactly one slice, selected by Kind, is populated.
type Lane struct {
	Kind Kind
	F    []float64
	I    []int64
	U    []uint64
	B    []bool
}

// FloatLane wraps a float64 slice.
func FloatLane(v []float64) Lane { return Lane{Kind: Float, F: v} }

// IntLane wraps an int64 slice.
func IntLane(v []int64) Lane { return Lane{Kind: Int, I: v} }

// UintLane wraps a uint64 slice.
func UintLane(v []uint64) Lane { return Lane{Kind: Uint, U: v} }

// BoolLane wraps a bool slice.
func BoolLane(v []bool) Lane { return Lane{Kind: Bool, B: v} }

// MakeLane allocates a zeroed lane of kind k.
func MakeLane(k Kind, n int) Lane {
	switch k {
	case Float:
		return FloatLane(make([]float64, n))
	case Int:
		return IntLane(make([]int64, n))
	case Uint:
		return UintLane(make([]uint64, n))
	default:
		return BoolLane(make([]bool, n))
	}
}

// Len returns the number of elements in the lane.
func (l Lane) Len() int {
	switch l.Kind {
	case Float:
		return len(l.F)
	case Int:
		return len(l.I)
	case Uint:
		return len(l.U)
	default:
		return len(l.B)
	}
}
