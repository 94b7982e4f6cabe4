package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunnerResult pairs a runner with its probability of finishing last.
// FairOdds is the decimal price 1/Probability.
type RunnerResult struct {
	Runner      Runner          `json:"runner" yaml:"runner"`
	Probability float64         `json:"probability" yaml:"probability"`
	FairOdds    decimal.Decimal `json:"fair_odds" yaml:"fair_odds"`
}

// Evaluation is the outcome of computing last-place probabilities for a
// whole field.
type Evaluation struct {
	Results     []RunnerResult `json:"results" yaml:"results"`
	Runners     int            `json:"runners" yaml:"runners"`
	Subsets     int            `json:"subsets" yaml:"subsets"`
	CacheHit    bool           `json:"cache_hit" yaml:"cache_hit"`
	EvaluatedAt time.Time      `json:"evaluated_at" yaml:"evaluated_at"`
}

// Probabilities returns the probabilities in field order.
func (e *Evaluation) Probabilities() []float64 {
	probabilities := make([]float64, len(e.Results))
	for i, r := range e.Results {
		probabilities[i] = r.Probability
	}
	return probabilities
}

// Total returns the sum of all probabilities.
func (e *Evaluation) Total() float64 {
	total := 0.0
	for _, r := range e.Results {
		total += r.Probability
	}
	return total
}
