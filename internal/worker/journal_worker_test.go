package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/journal"
	"ledger/internal/storage"
)

func postedMessage(t *testing.T) *amqp.PostedMessage {
	t.Helper()
	c := core.NewIndividual(core.Individual{Name: "Caio", NationalID: "987"}, "Av. Brasil, 5")
	acc := core.NewCheckingAccount(3, c)
	if err := c.AddAccount(acc); err != nil {
		t.Fatal(err)
	}
	rec, err := c.PerformTransaction(acc, core.NewDeposit(core.MoneyFromUnits(80)))
	if err != nil {
		t.Fatal(err)
	}
	return amqp.NewPostedMessage(journal.NewEntry(acc, rec, acc.Balance()))
}

func TestJournalWorker_StoresMessagesOnce(t *testing.T) {
	store, err := storage.NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer store.Close()

	w := NewJournalWorker(store)
	ctx := context.Background()
	msg := postedMessage(t)

	// redelivery of the same message
	for i := 0; i < 2; i++ {
		if err := w.HandlePostedMessage(ctx, msg); err != nil {
			t.Fatalf("handle %d: %v", i, err)
		}
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("stored entries = %d, want 1", n)
	}

	if err := w.StartupCheck(ctx); err != nil {
		t.Errorf("StartupCheck() = %v", err)
	}
	if processed, failed := w.Stats(); processed != 2 || failed != 0 {
		t.Errorf("stats = %d/%d, want 2/0", processed, failed)
	}
}

type failingStore struct{}

func (failingStore) Append(context.Context, journal.Entry) error { return errors.New("database is locked") }

func (failingStore) Count(context.Context) (int64, error) { return 0, errors.New("database is locked") }

func TestJournalWorker_StoreFailure(t *testing.T) {
	w := NewJournalWorker(failingStore{})
	ctx := context.Background()

	if err := w.HandlePostedMessage(ctx, postedMessage(t)); err == nil {
		t.Fatal("expected error so the message is requeued")
	}
	if _, failed := w.Stats(); failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if err := w.StartupCheck(ctx); err == nil {
		t.Error("StartupCheck should surface store errors")
	}
}

func TestJournalWorker_InvalidMessage(t *testing.T) {
	w := NewJournalWorker(failingStore{})
	msg := postedMessage(t)
	msg.Kind = "transfer"

	if err := w.HandlePostedMessage(context.Background(), msg); !errors.Is(err, amqp.ErrInvalidMessage) {
		t.Fatalf("err = %v, want ErrInvalidMessage", err)
	}
}

func TestJournalWorker_ReportStops(t *testing.T) {
	w := NewJournalWorker(failingStore{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Report(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Report did not stop after cancel")
	}
}
