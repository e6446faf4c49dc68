// Package cli provides the initialization shared by cmd/ledger and
// cmd/ledger-worker.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ledger/internal/amqp"
	"ledger/internal/config"
	"ledger/internal/journal"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// SetupLogger builds the process logger from cfg and makes it the slog
// default. Logs go to stderr so they never interleave with console output.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and exits
// the process if it is invalid.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// InitJournal opens the journal selected by cfg.JournalBackend.
func InitJournal(logger *log.Logger, cfg *config.Config) (journal.Writer, error) {
	logger = logger.WithComponent(log.ComponentJournal)

	switch cfg.JournalBackend {
	case config.JournalSQLite:
		j, err := storage.NewSQLiteJournal(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		logger.Info("Journaling to SQLite", "path", cfg.SQLiteDBPath)
		return j, nil

	case config.JournalAMQP:
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("connect AMQP journal: %w", err)
		}
		logger.WithComponent(log.ComponentAMQP).Info("Publishing postings to AMQP",
			"exchange", cfg.AMQPExchange,
			"queue", cfg.AMQPQueue)
		return client, nil

	default:
		logger.Info("Journal disabled")
		return journal.Discard{}, nil
	}
}

// InitSQLite opens the SQLite journal at dbPath or exits the process.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteJournal {
	j, err := storage.NewSQLiteJournal(dbPath)
	if err != nil {
		logger.WithComponent(log.ComponentStorage).Error("Failed to initialize SQLite journal",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeDatabase,
			"path", dbPath)
		os.Exit(1)
	}
	return j
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM, or when
// the returned cancel func is called. cleanup runs once after cancellation
// and is given at most timeout to finish; done closes when it has.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, context.CancelFunc, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received",
				log.FieldOperation, log.OpShutdown,
				"signal", sig.String())
			cancel()
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		}
	}()

	return ctx, cancel, done
}

// CloseAll closes each resource in order and logs the ones that fail. Exit
// paths that call os.Exit use it since deferred calls do not run there.
func CloseAll(logger *log.Logger, closers ...io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close resource", log.FieldError, err.Error(), "resource", fmt.Sprintf("%T", c))
		}
	}
}
