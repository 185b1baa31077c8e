package commands

// Root command for Cobra CLI
// Loads configuration and logging before any subcommand runs
// Registers all subcommands (serve, render, stats)

import (
	"context"
	"fmt"

	"survival-dashboard/internal/dataset"
	"survival-dashboard/internal/infra/config"
	logging "survival-dashboard/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cfg is populated by the root PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "survival-dashboard",
	Short: "Titanic survival dashboard - seven fixed figures over the passenger dataset",
	Long: `Survival Dashboard loads the Titanic passenger CSV once and serves seven fixed
statistical figures as embedded PNG images over HTTP. Figures can also be rendered
to files and the embarkation/class chi-square test printed from the command line.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { logging.Sync() },
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statsCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Setup(logging.Options{Dir: loaded.Log.Dir, Level: loaded.Log.Level}); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	cfg = loaded
	return nil
}

// loadDataset reads the configured dataset once for the command.
func loadDataset(ctx context.Context) (*dataset.Table, error) {
	fetcher := dataset.NewFetcher(dataset.FetcherConfig{
		Timeout:    cfg.Dataset.Timeout(),
		MaxRetries: cfg.Dataset.MaxRetries,
	})
	table, err := dataset.Load(ctx, cfg.Dataset.Path, dataset.Options{
		DropFamilySources: cfg.Dataset.DropFamilySources,
		Fetcher:           fetcher,
	})
	if err != nil {
		logging.LogError("Failed to load dataset", zap.String("path", cfg.Dataset.Path), zap.Error(err))
		return nil, err
	}
	return table, nil
}
