package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yourusername/race-odds/internal/models"
	"github.com/yourusername/race-odds/internal/race"
	"github.com/yourusername/race-odds/internal/report"
)

var computeCmd = &cobra.Command{
	Use:   "compute <weight> [weight...]",
	Short: "Compute last-place probabilities for a list of weights",
	Long: `Compute prints, for each weight, the probability that its runner finishes
last. Weights are used as given: they must be finite and positive, and at
most 20 runners are accepted.

Put -- before the weights when one of them starts with '-', otherwise it
is read as a flag.`,
	Example: "  race-odds compute 2 1\n  race-odds compute -o json 1 1 1\n  race-odds compute -- -1 2",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		weights, err := parseWeights(args)
		if err != nil {
			return err
		}
		if len(weights) > race.ExactLimit {
			return fmt.Errorf("cannot compute probabilities: %d runners, at most %d: %w",
				len(weights), race.ExactLimit, race.ErrTooManyRunners)
		}

		evaluation, err := evaluator.Evaluate(models.NewField(weights))
		if err != nil {
			if errors.Is(err, race.ErrInvalidWeight) {
				return fmt.Errorf("cannot compute probabilities: %w", err)
			}
			return err
		}
		return report.Render(cmd.OutOrStdout(), evaluation, format, cfg.Output.Precision)
	},
}

func init() {
	// A negative weight such as -1 is parsed as a shorthand flag.
	computeCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w (use -- before weights that start with '-')", err)
	})
}

func parseWeights(args []string) ([]float64, error) {
	weights := make([]float64, len(args))
	for i, arg := range args {
		w, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("weight %d (%q): %w", i, arg, models.ErrWeightNotNumeric)
		}
		weights[i] = w
	}
	return weights, nil
}
