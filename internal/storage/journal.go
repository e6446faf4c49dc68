package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ledger/internal/journal"
	"ledger/internal/log"

	_ "modernc.org/sqlite"
)

var _ journal.Writer = (*SQLiteJournal)(nil)

const timeLayout = time.RFC3339Nano

// SQLiteJournal is an append-only audit export of posted transactions.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Append stores e. Appending the same record twice is a no-op, so redelivered
// events do not duplicate entries.
func (j *SQLiteJournal) Append(ctx context.Context, e journal.Entry) error {
	res, err := j.db.ExecContext(ctx, `
		INSERT INTO journal_entries
			(record_id, agency, account_number, national_id, kind, amount, balance_after, posted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(record_id) DO NOTHING`,
		e.RecordID.String(),
		e.Agency,
		e.AccountNumber,
		e.NationalID,
		string(e.Kind),
		e.Amount.String(),
		e.BalanceAfter.String(),
		e.PostedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		slog.DebugContext(ctx, "Journal entry already recorded",
			log.FieldComponent, log.ComponentStorage,
			log.FieldRecordID, e.RecordID)
		return nil
	}

	slog.DebugContext(ctx, "Journal entry saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpAppend,
		log.FieldRecordID, e.RecordID,
		log.FieldAccountNumber, e.AccountNumber,
		log.FieldKind, e.Kind,
		log.FieldAmount, e.Amount.String())

	return nil
}

// Count returns the number of entries in the journal.
func (j *SQLiteJournal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return n, nil
}
