package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/journal"
	"ledger/internal/log"
)

// EntryStore is the durable side of the journal the worker writes into.
type EntryStore interface {
	journal.Writer
	Count(ctx context.Context) (int64, error)
}

// JournalWorker copies posted-transaction events from the broker into the
// durable journal. Appends are idempotent, so redelivered messages are safe.
type JournalWorker struct {
	store     EntryStore
	processed atomic.Int64
	failed    atomic.Int64
}

func NewJournalWorker(store EntryStore) *JournalWorker {
	return &JournalWorker{store: store}
}

// HandlePostedMessage stores one posted-transaction event. A returned error
// makes the consumer requeue the message.
func (w *JournalWorker) HandlePostedMessage(ctx context.Context, msg *amqp.PostedMessage) error {
	entry, err := msg.Entry()
	if err != nil {
		// Decoding already validated the message; this only guards direct callers.
		return fmt.Errorf("convert message: %w", err)
	}

	if err := w.store.Append(ctx, entry); err != nil {
		w.failed.Add(1)
		return fmt.Errorf("append journal entry: %w", err)
	}
	w.processed.Add(1)

	slog.InfoContext(ctx, "Journaled posted transaction",
		log.FieldComponent, log.ComponentWorker,
		log.FieldOperation, log.OpConsume,
		log.FieldRecordID, entry.RecordID,
		log.FieldAgency, entry.Agency,
		log.FieldAccountNumber, entry.AccountNumber,
		log.FieldKind, entry.Kind,
		log.FieldAmount, entry.Amount.String(),
		"lag_ms", time.Since(msg.PublishedAt).Milliseconds())
	return nil
}

// StartupCheck logs the size of the journal before consumption begins.
func (w *JournalWorker) StartupCheck(ctx context.Context) error {
	n, err := w.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count journal entries: %w", err)
	}
	slog.InfoContext(ctx, "Journal ready", "entries", n)
	return nil
}

// Report logs processing totals every interval until ctx is done.
func (w *JournalWorker) Report(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processed, failed := w.Stats()
			slog.InfoContext(ctx, "Journal worker progress",
				"processed", processed,
				"failed", failed)
		}
	}
}

// Stats returns how many messages were stored and how many failed.
func (w *JournalWorker) Stats() (processed, failed int64) {
	return w.processed.Load(), w.failed.Load()
}
