package models

import "fmt"

// Field is an ordered list of runners. Order defines the index
// correspondence with evaluation results.
type Field struct {
	Runners []Runner `json:"runners" yaml:"runners"`
}

// NewField builds a field of runners labelled "Runner 1", "Runner 2", ...
// from weights.
func NewField(weights []float64) *Field {
	runners := make([]Runner, len(weights))
	for i, w := range weights {
		runners[i] = NewRunner(DefaultLabel(i+1), w)
	}
	return &Field{Runners: runners}
}

// DefaultLabel is the label given to the n-th runner added without one.
func DefaultLabel(n int) string {
	return fmt.Sprintf("Runner %d", n)
}

// Len returns the number of runners in the field.
func (f *Field) Len() int {
	return len(f.Runners)
}

// Weights returns a copy of the runner weights in field order.
func (f *Field) Weights() []float64 {
	weights := make([]float64, len(f.Runners))
	for i, r := range f.Runners {
		weights[i] = r.Weight
	}
	return weights
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	runners := make([]Runner, len(f.Runners))
	copy(runners, f.Runners)
	return &Field{Runners: runners}
}

// Runner returns the runner at index.
func (f *Field) Runner(index int) (Runner, error) {
	if index < 0 || index >= len(f.Runners) {
		return Runner{}, ErrRunnerNotFound
	}
	return f.Runners[index], nil
}
