package race

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWeight indicates the weight vector is empty or holds a
	// non-positive or non-finite weight.
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrIndexOutOfRange indicates a runner index outside the weight vector.
	ErrIndexOutOfRange = errors.New("runner index out of range")

	// ErrTooManyRunners indicates a field larger than MaxRunners.
	ErrTooManyRunners = errors.New("too many runners")
)

// InvalidWeightError describes which weight was rejected and why.
// Index is -1 when the vector itself is empty.
type InvalidWeightError struct {
	Index  int
	Value  float64
	Reason string
}

func (e *InvalidWeightError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidWeight, e.Reason)
	}
	return fmt.Sprintf("%s at index %d (%v): %s", ErrInvalidWeight, e.Index, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidWeight.
func (e *InvalidWeightError) Unwrap() error {
	return ErrInvalidWeight
}
