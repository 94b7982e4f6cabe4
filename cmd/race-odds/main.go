// Package main provides the race-odds command line tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/race-odds/internal/cache"
	"github.com/yourusername/race-odds/internal/config"
	"github.com/yourusername/race-odds/internal/logger"
	"github.com/yourusername/race-odds/internal/metrics"
	"github.com/yourusername/race-odds/internal/report"
	"github.com/yourusername/race-odds/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	logLevel     string
	outputFormat string
	precision    int

	cfg       *config.Config
	log       *logrus.Logger
	evaluator *service.Evaluator
	format    report.Format
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().IntVarP(&precision, "precision", "p", -1, "Decimal places for probabilities")

	rootCmd.AddCommand(computeCmd, fieldCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "race-odds",
	Short: "Exact last-place probabilities for exponential races",
	Long: `race-odds computes, for runners whose finishing times are independent
exponential variables with the given rates (weights), the exact probability
that each runner finishes last.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() || cfg == nil || !cfg.Metrics.Enabled || cfg.Metrics.TextfilePath == "" {
			return nil
		}
		if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			log.WithError(err).Warn("Failed to export metrics")
		}
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if logLevel != "" {
		loaded.App.LogLevel = logLevel
	}
	if outputFormat != "" {
		loaded.Output.Format = outputFormat
	}
	if precision >= 0 {
		loaded.Output.Precision = precision
	}

	if err := config.Validate(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func setupDependencies() error {
	// Logs go to stderr so reports on stdout stay machine readable.
	log = logger.NewLoggerWithOutput(os.Stderr, cfg.App.LogLevel)

	var err error
	format, err = report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	var resultCache *cache.ResultCache
	if cfg.Cache.Enabled {
		resultCache = cache.NewResultCache(cfg.CacheTTL(), cfg.Cache.MaxSize)
	}
	evaluator = service.NewEvaluator(resultCache, log)

	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
		"max_runners": cfg.Field.MaxRunners,
		"cache":       cfg.Cache.Enabled,
	}).Debug("Configuration loaded")
	return nil
}
