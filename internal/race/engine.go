// Package race computes exact finishing-order probabilities for an
// exponential race: every runner finishes after an independent exponential
// time whose rate is the runner's weight.
package race

import (
	"fmt"
	"math"
	"math/bits"
)

const (
	// PracticalMaxRunners is the field size the exact algorithm is sized
	// for: 12 runners means 2048 subsets per runner. Callers that manage the
	// weight list enforce it; the engine does not.
	PracticalMaxRunners = 12

	// ExactLimit is roughly where n*2^(n-1) enumeration stops being
	// interactive. Callers should refuse larger fields; the engine still
	// computes them, just slowly.
	ExactLimit = 20

	// MaxRunners is the largest field whose subsets fit in a 64-bit mask.
	// Larger fields are rejected with ErrTooManyRunners.
	MaxRunners = 64
)

// sumTableBits caps the subset-sum table at 2^sumTableBits entries. Fields
// with more opponents add each subset up directly instead.
var sumTableBits = 20

// ValidateWeights checks that weights is non-empty and every weight is a
// finite positive number.
func ValidateWeights(weights []float64) error {
	if len(weights) == 0 {
		return &InvalidWeightError{Index: -1, Reason: "weight vector is empty"}
	}
	for i, w := range weights {
		switch {
		case math.IsNaN(w) || math.IsInf(w, 0):
			return &InvalidWeightError{Index: i, Value: w, Reason: "weight must be finite"}
		case w <= 0:
			return &InvalidWeightError{Index: i, Value: w, Reason: "weight must be positive"}
		}
	}
	return nil
}

// ComputeLastProbabilities returns, for every runner, the probability that
// it finishes last. The result is freshly allocated, index-aligned with
// weights and sums to 1 up to rounding. weights is never modified.
//
// Each value is clamped to [0, 1]. A runner whose true probability is below
// the cancellation noise of the alternating sum (around 1e-15) can
// therefore come back as exactly 0.
func ComputeLastProbabilities(weights []float64) ([]float64, error) {
	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}
	if err := checkFieldSize(len(weights)); err != nil {
		return nil, err
	}

	n := len(weights)
	others := make([]float64, n-1)
	sums := sumTable(n - 1)
	probabilities := make([]float64, n)
	for i := range weights {
		probabilities[i] = lastProbability(weights, i, others, sums)
	}
	return probabilities, nil
}

// ComputeLastProbability returns the probability that runner i finishes
// last among all runners in weights. The value is clamped like those of
// ComputeLastProbabilities.
func ComputeLastProbability(weights []float64, i int) (float64, error) {
	if err := ValidateWeights(weights); err != nil {
		return 0, err
	}
	if err := checkFieldSize(len(weights)); err != nil {
		return 0, err
	}
	if i < 0 || i >= len(weights) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(weights))
	}

	n := len(weights)
	return lastProbability(weights, i, make([]float64, n-1), sumTable(n-1)), nil
}

// SubsetCount is the number of inclusion-exclusion terms evaluated for a
// field of n runners: n * 2^(n-1). It saturates at math.MaxInt.
func SubsetCount(n int) int {
	if n <= 0 {
		return 0
	}
	if n-1 > bits.UintSize-2-bits.Len(uint(n)) {
		return math.MaxInt
	}
	return n << (n - 1)
}

func checkFieldSize(n int) error {
	if n > MaxRunners {
		return fmt.Errorf("%w: %d runners, at most %d", ErrTooManyRunners, n, MaxRunners)
	}
	return nil
}

// sumTable returns scratch space for the subset sums of m opponents, or nil
// when the table would exceed 2^sumTableBits entries.
func sumTable(m int) []float64 {
	if m > sumTableBits {
		return nil
	}
	return make([]float64, 1<<m)
}

// lastProbability evaluates
//
//	sum over S ⊆ others of (-1)^|S| * w_i / (w_i + sum(S))
//
// in ascending bitmask order. Bit j of a mask selects others[j]. others is
// scratch space of length n-1. sums is either a table of 2^(n-1) entries or
// nil, in which case each subset sum is added up from scratch. Both ways
// add the members in ascending index order and round identically.
func lastProbability(weights []float64, i int, others, sums []float64) float64 {
	others = others[:0]
	for j, w := range weights {
		if j != i {
			others = append(others, w)
		}
	}

	wi := weights[i]
	// A uint64 mask covers up to 63 opponents; checkFieldSize keeps
	// len(others) below 64.
	last := uint64(1)<<len(others) - 1

	if sums != nil {
		// Empty subset.
		sums[0] = 0
	}
	total := 1.0

	for mask := uint64(1); mask <= last; mask++ {
		var sum float64
		if sums != nil {
			// Extend the subset without its highest bit, so each sum is
			// added up in ascending index order.
			high := bits.Len64(mask) - 1
			sum = sums[mask&^(1<<high)] + others[high]
			sums[mask] = sum
		} else {
			for rest := mask; rest != 0; rest &= rest - 1 {
				sum += others[bits.TrailingZeros64(rest)]
			}
		}

		term := wi / (wi + sum)
		if bits.OnesCount64(mask)%2 == 1 {
			total -= term
		} else {
			total += term
		}
	}

	// Cancellation can leave a residue just outside [0, 1] for a runner
	// that is almost never (or almost always) last.
	return math.Max(0, math.Min(1, total))
}
