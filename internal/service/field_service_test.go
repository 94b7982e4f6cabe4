package service

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-odds/internal/cache"
	"github.com/yourusername/race-odds/internal/config"
	"github.com/yourusername/race-odds/internal/models"
)

func newTestFieldService(t *testing.T, mutate func(cfg *config.FieldConfig)) *FieldService {
	t.Helper()
	cfg := config.Default().Field
	if mutate != nil {
		mutate(&cfg)
	}
	evaluator := NewEvaluator(cache.NewResultCache(time.Hour, 64), newTestLogger())
	service, err := NewFieldService(cfg, evaluator, nil)
	require.NoError(t, err)
	return service
}

func TestNewFieldServiceSeedsInitialWeights(t *testing.T) {
	service := newTestFieldService(t, nil)

	assert.Equal(t, []float64{1, 1}, service.Weights())
	require.NotNil(t, service.Evaluation())
	assert.Equal(t, []float64{0.5, 0.5}, service.Evaluation().Probabilities())

	runners := service.Runners()
	assert.Equal(t, "Runner 1", runners[0].Label)
	assert.Equal(t, "Runner 2", runners[1].Label)
}

func TestNewFieldServiceRejectsBadInitialSize(t *testing.T) {
	cfg := config.Default().Field
	cfg.InitialWeights = []float64{1}

	_, err := NewFieldService(cfg, NewEvaluator(nil, newTestLogger()), nil)
	assert.Error(t, err)
}

func TestNewFieldServiceClampsInitialWeights(t *testing.T) {
	service := newTestFieldService(t, func(cfg *config.FieldConfig) {
		cfg.InitialWeights = []float64{0.01, 55, 2.04}
	})

	assert.Equal(t, []float64{0.1, 10, 2}, service.Weights())
}

func TestAddRunnerRecomputes(t *testing.T) {
	service := newTestFieldService(t, nil)

	runner, err := service.AddRunner("")
	require.NoError(t, err)
	assert.Equal(t, "Runner 3", runner.Label)
	assert.Equal(t, 1.0, runner.Weight)

	probabilities := service.Evaluation().Probabilities()
	require.Len(t, probabilities, 3)
	for _, p := range probabilities {
		assert.InDelta(t, 1.0/3, p, 1e-12)
	}

	named, err := service.AddRunner("Outsider")
	require.NoError(t, err)
	assert.Equal(t, "Outsider", named.Label)
	assert.Equal(t, 4, service.Len())
}

func TestAddRunnerAtMaximum(t *testing.T) {
	service := newTestFieldService(t, nil)

	for service.CanAdd() {
		_, err := service.AddRunner("")
		require.NoError(t, err)
	}
	assert.Equal(t, 12, service.Len())

	before := service.Evaluation()
	_, err := service.AddRunner("")
	assert.ErrorIs(t, err, models.ErrFieldFull)
	assert.Equal(t, 12, service.Len())
	assert.Same(t, before, service.Evaluation())
	assert.InDelta(t, 1.0, service.Evaluation().Total(), 1e-9)
}

func TestRemoveRunner(t *testing.T) {
	service := newTestFieldService(t, func(cfg *config.FieldConfig) {
		cfg.InitialWeights = []float64{1, 2, 3}
	})

	removed, err := service.RemoveRunner(1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, removed.Weight)
	assert.Equal(t, []float64{1, 3}, service.Weights())

	probabilities := service.Evaluation().Probabilities()
	assert.InDelta(t, 0.75, probabilities[0], 1e-12)
	assert.InDelta(t, 0.25, probabilities[1], 1e-12)
}

func TestRemoveRunnerAtMinimum(t *testing.T) {
	service := newTestFieldService(t, nil)

	assert.False(t, service.CanRemove())
	_, err := service.RemoveRunner(0)
	assert.ErrorIs(t, err, models.ErrFieldAtMinimum)
	assert.Equal(t, 2, service.Len())
}

func TestRemoveRunnerBadIndex(t *testing.T) {
	service := newTestFieldService(t, func(cfg *config.FieldConfig) {
		cfg.InitialWeights = []float64{1, 1, 1}
	})

	for _, index := range []int{-1, 3} {
		_, err := service.RemoveRunner(index)
		assert.ErrorIs(t, err, models.ErrRunnerNotFound)
	}
	assert.Equal(t, 3, service.Len())
}

func TestSetWeight(t *testing.T) {
	service := newTestFieldService(t, nil)

	applied, err := service.SetWeight(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, applied)
	assert.Equal(t, []float64{2, 1}, service.Weights())

	probabilities := service.Evaluation().Probabilities()
	assert.InDelta(t, 1.0/3, probabilities[0], 1e-12)
	assert.InDelta(t, 2.0/3, probabilities[1], 1e-12)
}

func TestSetWeightBadIndex(t *testing.T) {
	service := newTestFieldService(t, nil)

	_, err := service.SetWeight(5, 2)
	assert.ErrorIs(t, err, models.ErrRunnerNotFound)
	assert.Equal(t, []float64{1, 1}, service.Weights())
}

func TestSetWeightNotNumeric(t *testing.T) {
	service := newTestFieldService(t, nil)

	_, err := service.SetWeight(0, math.NaN())
	assert.ErrorIs(t, err, models.ErrWeightNotNumeric)
	assert.Equal(t, []float64{1, 1}, service.Weights())
}

func TestClampWeight(t *testing.T) {
	service := newTestFieldService(t, nil)

	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{name: "on grid", value: 2.5, expected: 2.5},
		{name: "rounds down to step", value: 2.54, expected: 2.5},
		{name: "rounds half up to step", value: 2.55, expected: 2.6},
		{name: "below minimum", value: 0.03, expected: 0.1},
		{name: "zero", value: 0, expected: 0.1},
		{name: "negative", value: -4, expected: 0.1},
		{name: "above maximum", value: 12, expected: 10},
		{name: "just under maximum", value: 9.99, expected: 10},
		{name: "positive infinity", value: math.Inf(1), expected: 10},
		{name: "negative infinity", value: math.Inf(-1), expected: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, err := service.ClampWeight(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, applied)
		})
	}
}

func TestClampWeightCustomGrid(t *testing.T) {
	service := newTestFieldService(t, func(cfg *config.FieldConfig) {
		cfg.MinWeight = 0.5
		cfg.MaxWeight = 3
		cfg.WeightStep = 0.25
		cfg.DefaultWeight = 1
	})

	applied, err := service.ClampWeight(1.3)
	require.NoError(t, err)
	assert.Equal(t, 1.25, applied)

	applied, err = service.ClampWeight(2.9)
	require.NoError(t, err)
	assert.Equal(t, 3.0, applied)
}

func TestMutationsKeepProbabilitiesNormalised(t *testing.T) {
	service := newTestFieldService(t, nil)

	steps := []func() error{
		func() error { _, err := service.AddRunner(""); return err },
		func() error { _, err := service.SetWeight(2, 7.3); return err },
		func() error { _, err := service.AddRunner(""); return err },
		func() error { _, err := service.SetWeight(0, 0.2); return err },
		func() error { _, err := service.RemoveRunner(1); return err },
		func() error { _, err := service.SetWeight(2, 100); return err },
	}

	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		evaluation := service.Evaluation()
		assert.Len(t, evaluation.Results, service.Len())
		assert.InDelta(t, 1.0, evaluation.Total(), 1e-9, "step %d", i)
	}
	assert.Equal(t, []float64{0.2, 7.3, 10}, service.Weights())
}

func TestRunnersReturnsCopy(t *testing.T) {
	service := newTestFieldService(t, nil)

	runners := service.Runners()
	runners[0].Weight = 9

	assert.Equal(t, []float64{1, 1}, service.Weights())
}
