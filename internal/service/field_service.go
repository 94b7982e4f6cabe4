// Package service provides field evaluation and management.
package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/race-odds/internal/config"
	"github.com/yourusername/race-odds/internal/logger"
	"github.com/yourusername/race-odds/internal/metrics"
	"github.com/yourusername/race-odds/internal/models"
)

// FieldService owns a mutable runner field within configured bounds and
// re-evaluates it after every successful change. It is meant to be driven
// by a single caller and is not safe for concurrent use.
type FieldService struct {
	cfg        config.FieldConfig
	field      *models.Field
	evaluator  *Evaluator
	logger     *logger.FieldLogger
	evaluation *models.Evaluation
	added      int
}

// NewFieldService seeds a field from cfg.InitialWeights and evaluates it.
func NewFieldService(cfg config.FieldConfig, evaluator *Evaluator, log *logger.FieldLogger) (*FieldService, error) {
	if len(cfg.InitialWeights) < cfg.MinRunners || len(cfg.InitialWeights) > cfg.MaxRunners {
		return nil, fmt.Errorf("initial field of %d runners outside [%d, %d]", len(cfg.InitialWeights), cfg.MinRunners, cfg.MaxRunners)
	}
	if log == nil {
		log = evaluator.Logger()
	}

	s := &FieldService{
		cfg:       cfg,
		evaluator: evaluator,
		logger:    log,
	}

	field := &models.Field{}
	for _, w := range cfg.InitialWeights {
		applied, err := s.ClampWeight(w)
		if err != nil {
			return nil, fmt.Errorf("initial weight %v: %w", w, err)
		}
		field.Runners = append(field.Runners, models.NewRunner(s.nextLabel(), applied))
	}

	if err := s.commit(field); err != nil {
		return nil, fmt.Errorf("failed to evaluate initial field: %w", err)
	}
	return s, nil
}

// AddRunner appends a runner with the default weight. An empty label gets
// the next "Runner N" label.
func (s *FieldService) AddRunner(label string) (models.Runner, error) {
	if s.field.Len() >= s.cfg.MaxRunners {
		return s.reject("add", models.ErrFieldFull)
	}
	if label == "" {
		label = s.nextLabel()
	}

	runner := models.NewRunner(label, s.cfg.DefaultWeight)
	next := s.field.Clone()
	next.Runners = append(next.Runners, runner)
	if err := s.commit(next); err != nil {
		return s.reject("add", err)
	}

	metrics.RecordFieldMutation("add", nil)
	s.logger.LogRunnerAdded(runner.ID.String(), runner.Label, next.Len()-1, runner.Weight, next.Len())
	return runner, nil
}

// RemoveRunner deletes the runner at index.
func (s *FieldService) RemoveRunner(index int) (models.Runner, error) {
	runner, err := s.field.Runner(index)
	if err != nil {
		return s.reject("remove", fmt.Errorf("%w: index %d", err, index))
	}
	if s.field.Len() <= s.cfg.MinRunners {
		return s.reject("remove", models.ErrFieldAtMinimum)
	}

	next := s.field.Clone()
	next.Runners = append(next.Runners[:index], next.Runners[index+1:]...)
	if err := s.commit(next); err != nil {
		return s.reject("remove", err)
	}

	metrics.RecordFieldMutation("remove", nil)
	s.logger.LogRunnerRemoved(runner.ID.String(), runner.Label, index, next.Len())
	return runner, nil
}

// SetWeight changes the weight of the runner at index. The value is
// clamped into the configured range and snapped to the weight step; the
// applied weight is returned.
func (s *FieldService) SetWeight(index int, value float64) (float64, error) {
	runner, err := s.field.Runner(index)
	if err != nil {
		_, err = s.reject("set", fmt.Errorf("%w: index %d", err, index))
		return 0, err
	}

	applied, err := s.ClampWeight(value)
	if err != nil {
		_, err = s.reject("set", err)
		return 0, err
	}

	next := s.field.Clone()
	next.Runners[index].Weight = applied
	if err := s.commit(next); err != nil {
		_, err = s.reject("set", err)
		return 0, err
	}

	metrics.RecordFieldMutation("set", nil)
	s.logger.LogWeightChanged(runner.ID.String(), index, runner.Weight, value, applied)
	return applied, nil
}

// ClampWeight maps any numeric value onto the configured weight grid:
// min_weight + k*weight_step, capped at max_weight.
func (s *FieldService) ClampWeight(value float64) (float64, error) {
	switch {
	case math.IsNaN(value):
		return 0, models.ErrWeightNotNumeric
	case value <= s.cfg.MinWeight:
		return s.cfg.MinWeight, nil
	case value >= s.cfg.MaxWeight:
		return s.cfg.MaxWeight, nil
	}

	lo := decimal.NewFromFloat(s.cfg.MinWeight)
	hi := decimal.NewFromFloat(s.cfg.MaxWeight)
	step := decimal.NewFromFloat(s.cfg.WeightStep)

	steps := decimal.NewFromFloat(value).Sub(lo).Div(step).Round(0)
	snapped := lo.Add(steps.Mul(step))
	if snapped.GreaterThan(hi) {
		snapped = hi
	}

	applied, _ := snapped.Float64()
	return applied, nil
}

// Runners returns a copy of the runners in field order.
func (s *FieldService) Runners() []models.Runner {
	return s.field.Clone().Runners
}

// Weights returns a copy of the current weights.
func (s *FieldService) Weights() []float64 {
	return s.field.Weights()
}

// Len returns the number of runners.
func (s *FieldService) Len() int {
	return s.field.Len()
}

// CanAdd reports whether another runner fits in the field.
func (s *FieldService) CanAdd() bool {
	return s.field.Len() < s.cfg.MaxRunners
}

// CanRemove reports whether a runner may be removed.
func (s *FieldService) CanRemove() bool {
	return s.field.Len() > s.cfg.MinRunners
}

// Evaluation returns the evaluation of the current field.
func (s *FieldService) Evaluation() *models.Evaluation {
	return s.evaluation
}

// commit evaluates next and, only if that succeeds, makes it current.
func (s *FieldService) commit(next *models.Field) error {
	evaluation, err := s.evaluator.Evaluate(next)
	if err != nil {
		return err
	}
	s.field = next
	s.evaluation = evaluation
	return nil
}

func (s *FieldService) reject(operation string, err error) (models.Runner, error) {
	metrics.RecordFieldMutation(operation, err)
	s.logger.LogRejected(operation, err)
	return models.Runner{}, err
}

func (s *FieldService) nextLabel() string {
	s.added++
	return models.DefaultLabel(s.added)
}
