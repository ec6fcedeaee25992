package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budgeteer/internal/amqp"
	"budgeteer/internal/config"
	applog "budgeteer/internal/log"
	"budgeteer/internal/services"
	"budgeteer/internal/storage"
)

// budgeteer-worker consumes ledger events and re-checks every budget after
// each mutation, warning when one has gone into the red. It is the place to
// hang notification side effects without slowing the API down.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel)

	logger.Info("Starting budgeteer-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	budgets := services.NewBudgetService(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := func(event *amqp.LedgerEvent) error {
		logger.Info("Ledger event received",
			"kind", event.Kind,
			"budget_id", event.BudgetID,
			"account", event.Account,
			"count", event.Count)

		summaries, err := budgets.Summaries(ctx)
		if err != nil {
			return err
		}
		for _, s := range summaries {
			if s.Remaining.Cents < 0 {
				logger.Warn("Budget overspent",
					"budget_id", s.BudgetID,
					"remaining_cents", s.Remaining.Cents,
					"percent_used", s.PercentUsed)
			}
		}
		return nil
	}

	go func() {
		if err := amqpClient.ConsumeLedgerEvents(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Event consumption failed", "error", err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Worker stopped")
}
