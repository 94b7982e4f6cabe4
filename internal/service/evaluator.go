// Package service provides field evaluation and management.
package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-odds/internal/cache"
	"github.com/yourusername/race-odds/internal/logger"
	"github.com/yourusername/race-odds/internal/metrics"
	"github.com/yourusername/race-odds/internal/models"
	"github.com/yourusername/race-odds/internal/race"
)

// ComputeFunc turns a weight vector into last-place probabilities.
type ComputeFunc func(weights []float64) ([]float64, error)

// oddsPlaces is the number of decimal places kept on fair odds.
const oddsPlaces = 2

// Evaluator computes last-place probabilities for a field, memoizing
// results and recording metrics. The engine itself stays pure.
type Evaluator struct {
	compute ComputeFunc
	cache   *cache.ResultCache
	logger  *logger.FieldLogger
	now     func() time.Time
}

// NewEvaluator creates an evaluator backed by the exact engine. A nil
// resultCache disables caching.
func NewEvaluator(resultCache *cache.ResultCache, log *logrus.Logger) *Evaluator {
	return &Evaluator{
		compute: race.ComputeLastProbabilities,
		cache:   resultCache,
		logger:  logger.NewFieldLogger(log),
		now:     time.Now,
	}
}

// Logger returns the field logger used for evaluation events.
func (e *Evaluator) Logger() *logger.FieldLogger {
	return e.logger
}

// Evaluate computes the last-place probability of every runner in field.
// Invalid weights fail with an error wrapping race.ErrInvalidWeight.
func (e *Evaluator) Evaluate(field *models.Field) (*models.Evaluation, error) {
	weights := field.Weights()

	start := time.Now()
	probabilities, cacheHit, err := e.probabilities(weights)
	if err != nil {
		if errors.Is(err, race.ErrInvalidWeight) {
			metrics.RecordInvalidWeight()
		}
		e.logger.LogRejected("evaluate", err)
		return nil, err
	}
	elapsed := time.Since(start)

	subsets := 0
	if !cacheHit {
		subsets = race.SubsetCount(len(weights))
	}
	metrics.RecordEvaluation(len(weights), subsets, elapsed.Seconds())
	e.logger.LogEvaluation(len(weights), subsets, cacheHit, float64(elapsed.Microseconds())/1000)

	results := make([]models.RunnerResult, len(field.Runners))
	for i, r := range field.Runners {
		results[i] = models.RunnerResult{
			Runner:      r,
			Probability: probabilities[i],
			FairOdds:    FairOdds(probabilities[i]),
		}
	}

	return &models.Evaluation{
		Results:     results,
		Runners:     len(weights),
		Subsets:     subsets,
		CacheHit:    cacheHit,
		EvaluatedAt: e.now().UTC(),
	}, nil
}

func (e *Evaluator) probabilities(weights []float64) ([]float64, bool, error) {
	// Validate first so a bad vector is never looked up or stored.
	if err := race.ValidateWeights(weights); err != nil {
		return nil, false, err
	}

	if e.cache != nil {
		if cached, found := e.cache.Get(weights); found {
			return cached, true, nil
		}
	}

	probabilities, err := e.compute(weights)
	if err != nil {
		return nil, false, err
	}

	if e.cache != nil {
		e.cache.Set(weights, probabilities)
	}
	return probabilities, false, nil
}

// FairOdds returns the decimal price implied by probability p, rounded to
// two places. A runner that can never be last has no price and returns zero.
func FairOdds(p float64) decimal.Decimal {
	if p <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).DivRound(decimal.NewFromFloat(p), oddsPlaces)
}
