package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgeteer/internal/config"
	"budgeteer/internal/ingest"
	applog "budgeteer/internal/log"
	"budgeteer/internal/services"
	"budgeteer/internal/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		format  = flag.String("format", "", "CSV format: chase, paypal or credit-union")
		account = flag.String("account", "", "account label to stamp on imported transactions (optional)")
		dbPath  = flag.String("db", "", "SQLite database path (defaults to SQLITE_DB_PATH)")
	)
	flag.Parse()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel)

	if *format == "" {
		fmt.Fprintln(os.Stderr, "usage: budgeteer-import -format <chase|paypal|credit-union> [-account label] [-db path] file.csv [file.csv ...]")
		os.Exit(2)
	}
	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no input files given")
		os.Exit(2)
	}
	if *dbPath == "" {
		*dbPath = cfg.SQLiteDBPath
	}

	repo, err := storage.NewSQLiteRepository(*dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer repo.Close()

	imports := services.NewImportService(repo, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Read all files concurrently, then import sequentially so each file's
	// deduplication sees the transactions persisted by the previous one.
	contents := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			contents[i] = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Failed to read input files", "error", err)
		os.Exit(1)
	}

	exitCode := 0
	for i, path := range files {
		outcome, err := imports.ImportCSV(ctx, ingest.Format(*format), contents[i], *account)
		if err != nil {
			logger.Error("Import failed", "file", path, "error", err)
			exitCode = 1
			continue
		}
		for _, rowErr := range outcome.Result.Errors {
			logger.Warn("Row error", "file", path, "error", rowErr)
		}
		if !outcome.Result.Success {
			logger.Error("File rejected", "file", path)
			exitCode = 1
			continue
		}
		logger.Info("File imported",
			"file", path,
			"parsed", len(outcome.Result.Transactions),
			"imported", len(outcome.Imported),
			"duplicates", len(outcome.Duplicates),
			"skipped", outcome.Result.Skipped)
	}

	os.Exit(exitCode)
}
