package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/TamilarasanG17/VT-Wallet/internal/core/events"
	"github.com/TamilarasanG17/VT-Wallet/internal/expense"
	expensePostgres "github.com/TamilarasanG17/VT-Wallet/internal/expense/postgres"
	"github.com/TamilarasanG17/VT-Wallet/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers like the retention sweeper.`,
}

// Retention worker command
var retentionWorkerCmd = &cobra.Command{
	Use:   "retention",
	Short: "Start the retention sweeper",
	Long:  `Periodically remove expenses whose date has fallen outside the daily reporting window.`,
	Run: func(cmd *cobra.Command, args []string) {
		startRetentionWorker()
	},
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus `,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var sweepInterval time.Duration

func startRetentionWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	gormDB, err := initGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize ORM: %v\n", err)
		os.Exit(1)
	}

	interval := config.Retention.SweepInterval
	if sweepInterval > 0 {
		interval = sweepInterval
	}

	repo := expensePostgres.NewExpenseRepository(gormDB)
	service := expense.NewService(repo, lg, config.Retention.DailyWindow)

	lg.Info("starting retention worker",
		"daily_window", config.Retention.DailyWindow,
		"sweep_interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			removed, err := service.SweepExpired(time.Now())
			if err != nil {
				lg.Error("retention sweep failed", "error", err)
				continue
			}
			lg.Info("retention sweep completed", "removed", removed)
		case sig := <-sigChan:
			lg.Info("received signal, shutting down retention worker", "signal", sig)
			if err := db.Close(); err != nil {
				lg.Error("database close error", "error", err)
			}
			return
		}
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)

	eventBus.Subscribe("test.event", func(ctx context.Context, event events.Event) error {
		lg.Info("received test event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	lg.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down event bus", "signal", sig)
	lg.Info("event bus shutdown complete")
}

func init() {
	retentionWorkerCmd.Flags().DurationVar(&sweepInterval, "interval", 0, "Sweep interval (overrides config)")

	workerCmd.AddCommand(retentionWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
