// Package metrics exposes ledger activity as Prometheus metrics on a private
// registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledger/internal/core"
	"ledger/internal/log"
)

type Collector struct {
	registry         *prometheus.Registry
	postedTotal      *prometheus.CounterVec
	rejectedTotal    *prometheus.CounterVec
	postedAmount     *prometheus.CounterVec
	journalFailures  prometheus.Counter
	accountBalance   *prometheus.GaugeVec
	accountsOpened   prometheus.Counter
	operationSeconds *prometheus.HistogramVec
	logger           *log.Logger
}

func NewCollector(logger *log.Logger) *Collector {
	if logger == nil {
		logger = log.Discard()
	}
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		postedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_posted_total",
			Help: "Transactions posted to an account, by kind",
		}, []string{"kind"}),
		rejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_rejected_total",
			Help: "Transactions rejected by validation or account policy",
		}, []string{"kind", "reason"}),
		postedAmount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_posted_amount_total",
			Help: "Sum of posted amounts, by kind",
		}, []string{"kind"}),
		journalFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_journal_write_failures_total",
			Help: "Journal writes that failed after a transaction was posted",
		}),
		accountBalance: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ledger_account_balance",
			Help: "Balance of an account after its last posting",
		}, []string{"agency", "account_number"}),
		accountsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_opened_total",
			Help: "Accounts opened",
		}),
		operationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Time taken by ledger operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		logger: logger.WithComponent(log.ComponentMetrics),
	}
}

func (c *Collector) RecordPosted(acc *core.Account, rec core.Record, balance core.Money) {
	kind := string(rec.Kind)
	c.postedTotal.WithLabelValues(kind).Inc()
	c.postedAmount.WithLabelValues(kind).Add(rec.Amount.Float())
	c.accountBalance.WithLabelValues(acc.Agency(), strconv.Itoa(acc.Number())).Set(balance.Float())
}

// RecordRejected counts a refused transaction under a reason derived from err.
func (c *Collector) RecordRejected(kind core.TransactionKind, err error) {
	c.rejectedTotal.WithLabelValues(string(kind), Reason(err)).Inc()
}

func (c *Collector) RecordJournalFailure() { c.journalFailures.Inc() }

func (c *Collector) RecordAccountOpened() { c.accountsOpened.Inc() }

func (c *Collector) ObserveOperation(operation string, d time.Duration) {
	c.operationSeconds.WithLabelValues(operation).Observe(d.Seconds())
}

// Reason maps ledger errors to a bounded label set.
func Reason(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, core.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, core.ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, core.ErrWithdrawalCountExceeded):
		return "withdrawal_count_exceeded"
	case errors.Is(err, core.ErrAccountNotOwned):
		return "account_not_owned"
	default:
		return "other"
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("Starting metrics server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			c.logger.Error("Metrics server failed", log.FieldError, err.Error())
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	c.logger.Info("Metrics server stopped")
	return nil
}
