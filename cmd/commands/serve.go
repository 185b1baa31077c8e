package commands

// Command to run the dashboard web server
// Loads the dataset once, wires figure metrics and serves until SIGINT/SIGTERM
// Implements graceful shutdown for proper termination

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"survival-dashboard/internal/features/charts"
	logging "survival-dashboard/internal/infra/log"
	"survival-dashboard/internal/infra/metrics"
	"survival-dashboard/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	Long:  `Load the dataset and serve the index page, the seven figure pages, /healthz and /metrics.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	table, err := loadDataset(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	collector := metrics.NewCollector("survival")
	renderer := charts.NewRenderer(table, charts.WithObserver(
		func(k charts.Kind, outcome charts.Outcome, elapsed time.Duration) {
			collector.ObserveRender(k.String(), string(outcome), elapsed)
		}))

	srv, err := server.New(server.Config{
		Addr:      cfg.Server.Addr(),
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	}, renderer, collector)
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		logging.LogError("Failed to start server", zap.Error(err))
		return err
	}
	logging.LogSuccess("Dashboard is running",
		zap.String("url", fmt.Sprintf("http://%s", srv.Addr())),
		zap.Int("passengers", table.Len()))

	<-ctx.Done()
	logging.LogInfo("Shutdown signal received, gracefully stopping server...")

	if err := srv.Wait(); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	logging.LogSuccess("Dashboard stopped gracefully")
	return nil
}
