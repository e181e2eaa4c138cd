package buffer

import (
	"fmt"

	"github.com/hupe1980/sparse/dtype"
	"github.com/hupe1980/sparse/internal/kernel"
)

// Wrap adopts a typed slice as a buffer without copying it. []int and []uint
// are converted to their 64-bit counterparts.
func Wrap(data any) (Buffer, error) {
	switch s := data.(type) {
	case []bool:
		return newTyped(dtype.Bool, s), nil
	case []int8:
		return newTyped(dtype.Int8, s), nil
	case []int16:
		return newTyped(dtype.Int16, s), nil
	case []int32:
		return newTyped(dtype.Int32, s), nil
	case []int64:
		return newTyped(dtype.Int64, s), nil
	case []int:
		out := make([]int64, len(s))
		for i, v := range s {
			out[i] = int64(v)
		}
		return newTyped(dtype.Int64, out), nil
	case []uint8:
		return newTyped(dtype.Uint8, s), nil
	case []uint16:
		return newTyped(dtype.Uint16, s), nil
	case []uint32:
		return newTyped(dtype.Uint32, s), nil
	case []uint64:
		return newTyped(dtype.Uint64, s), nil
	case []uint:
		out := make([]uint64, len(s))
		for i, v := range s {
			out[i] = uint64(v)
		}
		return newTyped(dtype.Uint64, out), nil
	case []float32:
		return newTyped(dtype.Float32, s), nil
	case []float64:
		return newTyped(dtype.Float64, s), nil
	}
	return nil, fmt.Errorf("%w: slice of type %T", dtype.ErrUnknown, data)
}

// Make allocates a zeroed buffer of n elements.
func Make(dt dtype.DType, n int) Buffer {
	return FromLane(kernel.MakeLane(LaneKind(dt), n), dt)
}

// Fill returns a buffer of n copies of v cast to dt.
func Fill(dt dtype.DType, n int, v any) (Buffer, error) {
	c, err := dtype.Cast(v, dt)
	if err != nil {
		return nil, err
	}
	offsets := make([]int, n)
	for i := range offsets {
		offsets[i] = -1
	}
	return Make(dt, 0).Gather(offsets, c), nil
}

// LaneKind returns the compute lane that represents dt without loss.
func LaneKind(dt dtype.DType) kernel.Kind {
	switch {
	case dt.IsFloat():
		return kernel.Float
	case dt.IsSigned():
		return kernel.Int
	case dt.IsUnsigned():
		return kernel.Uint
	default:
		return kernel.Bool
	}
}

// Cast converts b to dt. The result never shares storage with b.
func Cast(b Buffer, dt dtype.DType) Buffer {
	if b.DType() == dt {
		return b.Clone()
	}
	return FromLane(b.Lane(LaneKind(dt)), dt)
}

// FromLane converts a lane into a buffer of dtype dt.
func FromLane(l kernel.Lane, dt dtype.DType) Buffer {
	switch dt {
	case dtype.Bool:
		return newTyped(dt, laneToBool(l))
	case dtype.Int8:
		return newTyped(dt, laneTo[int8](l))
	case dtype.Int16:
		return newTyped(dt, laneTo[int16](l))
	case dtype.Int32:
		return newTyped(dt, laneTo[int32](l))
	case dtype.Int64:
		return newTyped(dt, laneTo[int64](l))
	case dtype.Uint8:
		return newTyped(dt, laneTo[uint8](l))
	case dtype.Uint16:
		return newTyped(dt, laneTo[uint16](l))
	case dtype.Uint32:
		return newTyped(dt, laneTo[uint32](l))
	case dtype.Uint64:
		return newTyped(dt, laneTo[uint64](l))
	case dtype.Float32:
		return newTyped(dt, laneTo[float32](l))
	case dtype.Float64:
		return newTyped(dt, laneTo[float64](l))
	}
	panic(fmt.Sprintf("buffer: invalid dtype %s", dt))
}

func laneTo[T dtype.Number](l kernel.Lane) []T {
	out := make([]T, l.Len())
	switch l.Kind {
	case kernel.Float:
		for i, v := range l.F {
			out[i] = T(v)
		}
	case kernel.Int:
		for i, v := range l.I {
			out[i] = T(v)
		}
	case kernel.Uint:
		for i, v := range l.U {
			out[i] = T(v)
		}
	default:
		for i, v := range l.B {
			if v {
				out[i] = 1
			}
		}
	}
	return out
}

func laneToBool(l kernel.Lane) []bool {
	if l.Kind == kernel.Bool {
		out := make([]bool, len(l.B))
		copy(out, l.B)
		return out
	}
	out := make([]bool, l.Len())
	for i := range out {
		switch l.Kind {
		case kernel.Float:
			out[i] = l.F[i] != 0
		case kernel.Int:
			out[i] = l.I[i] != 0
		default:
			out[i] = l.U[i] != 0
		}
	}
	return out
}

func toLane(data any, k kernel.Kind) kernel.Lane {
	switch s := data.(type) {
	case []bool:
		return boolsToLane(s, k)
	case []int8:
		return numToLane(s, k)
	case []int16:
		return numToLane(s, k)
	case []int32:
		return numToLane(s, k)
	case []int64:
		return numToLane(s, k)
	case []uint8:
		return numToLane(s, k)
	case []uint16:
		return numToLane(s, k)
	case []uint32:
		return numToLane(s, k)
	case []uint64:
		return numToLane(s, k)
	case []float32:
		return numToLane(s, k)
	case []float64:
		return numToLane(s, k)
	}
	panic(fmt.Sprintf("buffer: unsupported storage %T", data))
}

func numToLane[T dtype.Number](s []T, k kernel.Kind) kernel.Lane {
	l := kernel.MakeLane(k, len(s))
	for i, v := range s {
		switch k {
		case kernel.Float:
			l.F[i] = float64(v)
		case kernel.Int:
			l.I[i] = int64(v)
		case kernel.Uint:
			l.U[i] = uint64(v)
		default:
			l.B[i] = v != 0
		}
	}
	return l
}

func boolsToLane(s []bool, k kernel.Kind) kernel.Lane {
	l := kernel.MakeLane(k, len(s))
	for i, v := range s {
		if !v {
			continue
		}
		switch k {
		case kernel.Float:
			l.F[i] = 1
		case kernel.Int:
			l.I[i] = 1
		case kernel.Uint:
			l.U[i] = 1
		default:
			l.B[i] = true
		}
	}
	return l
}
