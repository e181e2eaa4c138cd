package codec

import (
	"encoding"
	"errors"
	"fmt"
)

// ErrNotBinary is returned by Binary for values without a binary form.
var ErrNotBinary = errors.New("codec: value does not implement binary marshaling")

// Binary encodes values through encoding.BinaryMarshaler and decodes them
// through encoding.BinaryUnmarshaler. It is the most compact codec for
// arrays.
type Binary struct{}

// Marshal calls v.MarshalBinary.
func (Binary) Marshal(v any) ([]byte, error) {
	m, ok := v.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotBinary, v)
	}
	return m.MarshalBinary()
}

// Unmarshal calls v.UnmarshalBinary.
func (Binary) Unmarshal(data []byte, v any) error {
	u, ok := v.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotBinary, v)
	}
	return u.UnmarshalBinary(data)
}

// Name returns the unique name of the codec ("binary").
func (Binary) Name() string { return "binary" }
