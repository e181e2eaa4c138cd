package sparse

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sparse/dtype"
	"github.com/hupe1980/sparse/index"
	"github.com/hupe1980/sparse/internal/conv"
	"github.com/hupe1980/sparse/internal/kernel"
)

var (
	// ErrOutOfBounds is returned when a position lies outside [-length, length).
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrUnsupported is returned for every attempt to mutate an array.
	ErrUnsupported = errors.New("operation not supported")

	// ErrInvalidCast is returned when values cannot be converted to the
	// requested dtype.
	ErrInvalidCast = errors.New("invalid cast")

	// ErrLengthMismatch is returned when operands differ in logical length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrInvalidOperand is returned for inputs the array cannot be built from
	// or combined with.
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrCorrupt is returned when persisted bytes fail validation.
	ErrCorrupt = errors.New("corrupt data")

	// ErrNotFound is returned when an archive has no array under a name.
	ErrNotFound = errors.New("not found")

	// ErrZeroDivision is returned by integer floor division or modulo by zero.
	ErrZeroDivision = kernel.ErrZeroDivision

	// ErrNegativePower is returned when an integer is raised to a negative
	// integer power.
	ErrNegativePower = kernel.ErrNegativePower
)

// IndexError reports a position outside [-Length, Length).
//
// It matches ErrOutOfBounds with errors.Is.
type IndexError struct {
	Position int
	Length   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d is out of bounds for length %d", e.Position, e.Length)
}

func (e *IndexError) Is(target error) bool { return target == ErrOutOfBounds }

// UnsupportedError reports an attempted mutation of an immutable array.
//
// It matches ErrUnsupported with errors.Is.
type UnsupportedError struct {
	Op string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("sparse array does not support %s", e.Op)
}

func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }

// CastError reports a dtype conversion that cannot preserve values.
//
// It matches ErrInvalidCast with errors.Is. The original underlying error (if
// any) can be accessed via errors.Unwrap.
type CastError struct {
	From  dtype.DType
	To    dtype.DType
	cause error
}

func (e *CastError) Error() string {
	var msg string
	if e.From.IsFloat() && !e.To.IsFloat() {
		msg = fmt.Sprintf("cannot cast floating point sparse array (%s) to non-floating %s", e.From, e.To)
	} else {
		msg = fmt.Sprintf("cannot cast %s to %s", e.From, e.To)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *CastError) Is(target error) bool { return target == ErrInvalidCast }

func (e *CastError) Unwrap() error { return e.cause }

// translateError maps errors of the internal layers onto the package
// sentinels. Kernel domain errors pass through untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, kernel.ErrZeroDivision), errors.Is(err, kernel.ErrNegativePower):
		return err
	case errors.Is(err, index.ErrLengthMismatch):
		return fmt.Errorf("%w: %w", ErrLengthMismatch, err)
	case errors.Is(err, index.ErrInvalid):
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	case errors.Is(err, dtype.ErrNotRepresentable):
		return fmt.Errorf("%w: %w", ErrInvalidCast, err)
	case errors.Is(err, index.ErrZeroStep),
		errors.Is(err, dtype.ErrUnknown),
		errors.Is(err, kernel.ErrUnsupportedOperand),
		errors.Is(err, conv.ErrOverflow):
		return fmt.Errorf("%w: %w", ErrInvalidOperand, err)
	}

	return err
}
