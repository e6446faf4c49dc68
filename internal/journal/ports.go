// Package journal defines the audit trail of posted transactions that the
// ledger exports to outbound adapters. The journal is write-only from the
// ledger's point of view: it is never read back to rebuild account state.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
)

// Entry is one posted record together with the account it was posted to.
type Entry struct {
	RecordID      uuid.UUID
	Agency        string
	AccountNumber int
	NationalID    string
	Kind          core.TransactionKind
	Amount        core.Money
	BalanceAfter  core.Money
	PostedAt      time.Time
}

// NewEntry describes rec as posted to acc, leaving acc with balanceAfter.
func NewEntry(acc *core.Account, rec core.Record, balanceAfter core.Money) Entry {
	nationalID := ""
	if owner := acc.Owner(); owner != nil {
		nationalID = owner.NationalID()
	}
	return Entry{
		RecordID:      rec.ID,
		Agency:        acc.Agency(),
		AccountNumber: acc.Number(),
		NationalID:    nationalID,
		Kind:          rec.Kind,
		Amount:        rec.Amount,
		BalanceAfter:  balanceAfter,
		PostedAt:      rec.Timestamp,
	}
}

// Writer is the outbound port postings are exported through.
type Writer interface {
	Append(ctx context.Context, e Entry) error
}

// Discard is a Writer that drops every entry.
type Discard struct{}

func (Discard) Append(context.Context, Entry) error { return nil }
