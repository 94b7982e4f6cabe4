package models

import (
	"github.com/google/uuid"
)

// Runner is one entrant in an exponential race. Weight is its finishing
// rate: the higher the weight, the sooner it is expected to finish.
type Runner struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	Label  string    `json:"label" yaml:"label"`
	Weight float64   `json:"weight" yaml:"weight"`
}

// NewRunner creates a runner with a fresh id.
func NewRunner(label string, weight float64) Runner {
	return Runner{
		ID:     uuid.New(),
		Label:  label,
		Weight: weight,
	}
}
