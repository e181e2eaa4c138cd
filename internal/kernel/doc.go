// Package kernel implements elementwise binary operations over dense lanes.
//
// A Lane is a dense buffer in one of four compute representations: float64,
// int64, uint64 or bool. Callers convert their typed storage into the lane
// matching the promoted dtype, run Apply, and convert the result back.
//
// Float lanes delegate arithmetic to gonum's floats package. Integer lanes
// follow floor-division semantics (Python style) and report domain errors
// such as division by zero or negative powers instead of producing garbage.
package kernel
