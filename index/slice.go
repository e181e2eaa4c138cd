package index

import (
	"errors"
	"math"
)

// Omit marks an omitted slice bound, like leaving out start or stop in
// arr[:stop] or arr[start:].
const Omit = math.MinInt

// ErrZeroStep is returned for a slice step of zero.
var ErrZeroStep = errors.New("index: slice step cannot be zero")

// Window is a slice resolved against a concrete length. Positions are
// Start, Start+Step, ... for Len elements.
type Window struct {
	Start int
	Stop  int
	Step  int
	Len   int
}

// ResolveSlice applies sequence slicing rules: negative bounds count from
// the end, out-of-range bounds are clipped, and bounds never raise.
func ResolveSlice(length, start, stop, step int) (Window, error) {
	if step == 0 {
		return Window{}, ErrZeroStep
	}
	start = adjustBound(length, start, step, true)
	stop = adjustBound(length, stop, step, false)
	if stop == Omit {
		stop = -1
	}

	w := Window{Start: start, Stop: stop, Step: step}
	switch {
	case step > 0 && start < stop:
		w.Len = (stop-start-1)/step + 1
	case step < 0 && stop < start:
		w.Len = (start-stop-1)/(-step) + 1
	}
	return w, nil
}

func adjustBound(length, bound, step int, isStart bool) int {
	if bound == Omit {
		switch {
		case step > 0 && isStart:
			return 0
		case step > 0:
			return length
		case isStart:
			return length - 1
		default:
			return Omit
		}
	}
	if bound < 0 {
		bound += length
		if bound < 0 {
			if step < 0 {
				return -1
			}
			return 0
		}
		return bound
	}
	if bound >= length {
		if step < 0 {
			return length - 1
		}
		return length
	}
	return bound
}

// Positions lists the logical positions covered by w.
func (w Window) Positions() []int {
	out := make([]int, w.Len)
	for i := range out {
		out[i] = w.Start + i*w.Step
	}
	return out
}
