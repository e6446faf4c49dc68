package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/console"
	"ledger/internal/directory"
	"ledger/internal/log"
	"ledger/internal/metrics"
	"ledger/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	logger.Info("Starting ledger",
		log.FieldOperation, log.OpStartup,
		"agency", cfg.AgencyCode,
		"withdrawal_limit", cfg.WithdrawalLimit.StringFixed(2),
		"max_withdrawals", cfg.MaxWithdrawals,
		"journal", cfg.JournalBackend)

	w, err := cli.InitJournal(logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize journal",
			log.FieldError, err.Error(),
			log.FieldErrorType, journalErrorType(cfg.JournalBackend),
			"backend", cfg.JournalBackend)
		os.Exit(1)
	}

	collector := metrics.NewCollector(logger)
	ledger := services.NewLedger(directory.New(cfg.AccountOptions()...), w, collector, logger)

	ctx, cancel, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		cli.CloseAll(logger, ledger)
	})
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return collector.Serve(gctx, cfg.MetricsAddr)
		})
	}

	// The session blocks on stdin, so it runs outside the group: a signal
	// must be able to end the process while a prompt is pending.
	sessionDone := make(chan error, 1)
	go func() {
		sessionDone <- console.NewSession(ledger, os.Stdin, os.Stdout, logger).Run(gctx)
	}()

	select {
	case err := <-sessionDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Console session failed", log.FieldError, err.Error())
		}
	case <-gctx.Done():
	}

	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Metrics server failed", log.FieldError, err.Error())
	}
	<-done
}

func journalErrorType(backend string) string {
	if backend == config.JournalAMQP {
		return log.ErrorTypeNetwork
	}
	return log.ErrorTypeDatabase
}
