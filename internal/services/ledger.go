package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ledger/internal/core"
	"ledger/internal/directory"
	"ledger/internal/journal"
	"ledger/internal/log"
	"ledger/internal/metrics"
)

// Posting is the outcome of a successful deposit or withdrawal.
type Posting struct {
	Account *core.Account
	Record  core.Record
	Balance core.Money
}

// Ledger orchestrates customer operations over the in-memory directory.
// Accounts are the source of truth; the journal and metrics only observe
// postings and never undo one.
type Ledger struct {
	dir     *directory.Directory
	journal journal.Writer
	metrics *metrics.Collector
	events  *log.StructuredLogger
	logger  *log.Logger
}

// NewLedger wires a ledger. journal and collector may be nil.
func NewLedger(dir *directory.Directory, w journal.Writer, collector *metrics.Collector, logger *log.Logger) *Ledger {
	if w == nil {
		w = journal.Discard{}
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentLedger)
	return &Ledger{
		dir:     dir,
		journal: w,
		metrics: collector,
		events:  log.NewStructuredLogger(logger),
		logger:  logger,
	}
}

func (l *Ledger) AddCustomer(ctx context.Context, person core.Individual, address string) (*core.Customer, error) {
	c, err := l.dir.AddCustomer(person, address)
	if err != nil {
		return nil, err
	}
	l.logger.Scoped(ctx).InfoContext(ctx, "Customer registered",
		log.FieldNationalID, c.NationalID(),
		log.FieldOperation, log.OpNewCustomer,
		"customers", l.dir.CustomerCount())
	return c, nil
}

func (l *Ledger) OpenAccount(ctx context.Context, nationalID string) (*core.Account, error) {
	acc, err := l.dir.OpenAccount(nationalID)
	if err != nil {
		return nil, err
	}
	if l.metrics != nil {
		l.metrics.RecordAccountOpened()
	}
	l.logger.Scoped(ctx).InfoContext(ctx, "Account opened",
		log.NewFields().
			WithAccount(acc.Agency(), acc.Number()).
			WithCustomer(nationalID).
			WithOperation(log.OpOpenAccount).
			ToSlice()...)
	return acc, nil
}

// Deposit credits the customer's primary account.
func (l *Ledger) Deposit(ctx context.Context, nationalID string, amount core.Money) (Posting, error) {
	return l.Post(ctx, nationalID, core.Deposit, amount)
}

// Withdraw debits the customer's primary account under its withdrawal policy.
func (l *Ledger) Withdraw(ctx context.Context, nationalID string, amount core.Money) (Posting, error) {
	return l.Post(ctx, nationalID, core.Withdrawal, amount)
}

// Post applies a transaction of kind to the customer's primary account.
func (l *Ledger) Post(ctx context.Context, nationalID string, kind core.TransactionKind, amount core.Money) (Posting, error) {
	tx, err := core.NewTransaction(kind, amount)
	if err != nil {
		return Posting{}, err
	}
	return l.perform(ctx, nationalID, tx)
}

func (l *Ledger) perform(ctx context.Context, nationalID string, tx core.Transaction) (Posting, error) {
	start := time.Now()
	defer func() {
		if l.metrics != nil {
			l.metrics.ObserveOperation(string(tx.Kind()), time.Since(start))
		}
	}()

	c, acc, err := l.dir.PrimaryAccount(nationalID)
	if err != nil {
		return Posting{}, err
	}

	rec, err := c.PerformTransaction(acc, tx)
	if err != nil {
		l.events.LogTransactionRejected(ctx, acc, tx, err)
		if l.metrics != nil {
			l.metrics.RecordRejected(tx.Kind(), err)
		}
		return Posting{}, err
	}

	p := Posting{Account: acc, Record: rec, Balance: acc.Balance()}
	l.events.LogTransactionPosted(ctx, acc, rec, p.Balance)
	if l.metrics != nil {
		l.metrics.RecordPosted(acc, rec, p.Balance)
	}

	if err := l.journal.Append(ctx, journal.NewEntry(acc, rec, p.Balance)); err != nil {
		if l.metrics != nil {
			l.metrics.RecordJournalFailure()
		}
		l.events.LogError(ctx, "Failed to journal posted transaction", err, log.OpAppend,
			log.NewFields().
				WithAccount(acc.Agency(), acc.Number()).
				WithRecord(rec))
	}
	return p, nil
}

// Statement returns the primary account's statement.
func (l *Ledger) Statement(ctx context.Context, nationalID string) (core.Statement, error) {
	_, acc, err := l.dir.PrimaryAccount(nationalID)
	if err != nil {
		return core.Statement{}, err
	}
	st := core.BuildStatement(acc)
	l.logger.Scoped(ctx).DebugContext(ctx, "Statement issued",
		log.FieldAccountNumber, acc.Number(),
		log.FieldOperation, log.OpStatement,
		"entries", len(st.Entries),
		"deposited", st.TotalByKind(core.Deposit).String(),
		"withdrawn", st.TotalByKind(core.Withdrawal).String())
	return st, nil
}

func (l *Ledger) HasCustomer(nationalID string) bool {
	_, err := l.dir.Customer(nationalID)
	return err == nil
}

func (l *Ledger) Accounts() []*core.Account {
	return l.dir.Accounts()
}

// Close releases the journal if it holds resources.
func (l *Ledger) Close() error {
	c, ok := l.journal.(io.Closer)
	if !ok {
		return nil
	}
	if err := c.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}

// IsBusinessError reports whether err is an expected refusal the user can act
// on, as opposed to an infrastructure failure.
func IsBusinessError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrMalformedAmount,
		core.ErrInsufficientFunds,
		core.ErrLimitExceeded,
		core.ErrWithdrawalCountExceeded,
		core.ErrAccountNotOwned,
		core.ErrEmptyName,
		core.ErrEmptyNationalID,
		directory.ErrCustomerNotFound,
		directory.ErrDuplicateCustomer,
		directory.ErrNoAccount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
