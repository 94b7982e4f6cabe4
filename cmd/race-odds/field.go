package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/race-odds/internal/service"
	"github.com/yourusername/race-odds/internal/session"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Edit a field of runners interactively",
	Long: `Field starts from the configured initial weights and reads commands from
standard input (add, remove, set, show, help, quit). Probabilities are
recomputed and printed after every change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, fieldLogger := session.NewLogger(log)
		svc, err := service.NewFieldService(cfg.Field, evaluator, fieldLogger)
		if err != nil {
			return err
		}

		s := session.New(id, svc, fieldLogger, cmd.OutOrStdout(), format, cfg.Output.Precision)
		return s.Run(cmd.Context(), cmd.InOrStdin())
	},
}
