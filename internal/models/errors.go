package models

import "errors"

// Custom errors
var (
	ErrFieldFull        = errors.New("field is at maximum size")
	ErrFieldAtMinimum   = errors.New("field is at minimum size")
	ErrRunnerNotFound   = errors.New("runner not found")
	ErrWeightNotNumeric = errors.New("weight is not a number")
)
