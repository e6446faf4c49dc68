package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/log"
	"ledger/internal/worker"
)

const progressInterval = time.Minute

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(log.ComponentWorker)

	logger.Info("Starting ledger-worker",
		log.FieldOperation, log.OpStartup,
		"queue", cfg.AMQPQueue,
		"sqlite_path", cfg.SQLiteDBPath)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to run the journal worker",
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	store := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeNetwork)
		cli.CloseAll(logger, store)
		os.Exit(1)
	}

	ctx, cancel, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		cli.CloseAll(logger, client, store)
	})
	defer cancel()

	journalWorker := worker.NewJournalWorker(store)
	if err := journalWorker.StartupCheck(ctx); err != nil {
		logger.Error("Journal startup check failed",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeDatabase)
		cancel()
		<-done
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumePosted(gctx, journalWorker.HandlePostedMessage)
	})
	g.Go(func() error {
		journalWorker.Report(gctx, progressInterval)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err.Error())
	}

	cancel()
	<-done

	processed, failed := journalWorker.Stats()
	logger.Info("Worker stopped", "processed", processed, "failed", failed)
}

