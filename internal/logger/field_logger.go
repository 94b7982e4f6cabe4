// Package logger provides field-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// FieldLogger records mutations and evaluations of a runner field.
type FieldLogger struct {
	*logrus.Entry
}

// NewFieldLogger creates a new field logger.
func NewFieldLogger(baseLogger *logrus.Logger) *FieldLogger {
	return &FieldLogger{
		Entry: baseLogger.WithField("component", "field"),
	}
}

// WithSession tags every subsequent entry with a session id.
func (fl *FieldLogger) WithSession(sessionID string) *FieldLogger {
	return &FieldLogger{Entry: fl.WithField("session_id", sessionID)}
}

// LogRunnerAdded logs a runner joining the field.
func (fl *FieldLogger) LogRunnerAdded(runnerID, label string, index int, weight float64, fieldSize int) {
	fl.WithFields(logrus.Fields{
		"event_type": "runner_added",
		"runner_id":  runnerID,
		"label":      label,
		"index":      index,
		"weight":     weight,
		"field_size": fieldSize,
	}).Info("Runner added")
}

// LogRunnerRemoved logs a runner leaving the field.
func (fl *FieldLogger) LogRunnerRemoved(runnerID, label string, index, fieldSize int) {
	fl.WithFields(logrus.Fields{
		"event_type": "runner_removed",
		"runner_id":  runnerID,
		"label":      label,
		"index":      index,
		"field_size": fieldSize,
	}).Info("Runner removed")
}

// LogWeightChanged logs a weight update. requested is what the caller asked
// for, applied is the value after clamping and snapping.
func (fl *FieldLogger) LogWeightChanged(runnerID string, index int, oldWeight, requested, applied float64) {
	entry := fl.WithFields(logrus.Fields{
		"event_type": "weight_changed",
		"runner_id":  runnerID,
		"index":      index,
		"old_weight": oldWeight,
		"requested":  requested,
		"applied":    applied,
	})
	if requested != applied {
		entry.Debug("Weight adjusted into allowed range")
	}
	entry.Info("Weight changed")
}

// LogEvaluation logs a completed probability evaluation.
func (fl *FieldLogger) LogEvaluation(runners, subsets int, cacheHit bool, durationMs float64) {
	fl.WithFields(logrus.Fields{
		"event_type":             "evaluation",
		"runners":                runners,
		"subsets_enumerated":     subsets,
		"cache_hit":              cacheHit,
		"evaluation_duration_ms": durationMs,
	}).Debug("Field evaluated")
}

// LogRejected logs a mutation or evaluation that was refused.
func (fl *FieldLogger) LogRejected(operation string, err error) {
	fl.WithFields(logrus.Fields{
		"event_type": "rejected",
		"operation":  operation,
	}).WithError(err).Warn("Field operation rejected")
}
