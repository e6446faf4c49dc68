package core

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Record is one posted deposit or withdrawal. Records are values: once
// appended to a History they are never changed or removed.
type Record struct {
	ID        uuid.UUID
	Kind      TransactionKind
	Amount    Money
	Timestamp time.Time
}

func newRecord(kind TransactionKind, amount Money, at time.Time) Record {
	return Record{
		ID:        uuid.New(),
		Kind:      kind,
		Amount:    amount,
		Timestamp: at,
	}
}

// History is the append-only, chronologically ordered log of an account's
// records. The zero value is an empty history.
type History struct {
	records     []Record
	deposits    int
	withdrawals int
}

// Add appends r at the end of the history. The per-kind counters move only here.
func (h *History) Add(r Record) {
	h.records = append(h.records, r)
	switch r.Kind {
	case Deposit:
		h.deposits++
	case Withdrawal:
		h.withdrawals++
	}
}

// Transactions returns the records in insertion order. The slice is a copy.
func (h History) Transactions() []Record {
	return slices.Clone(h.records)
}

// Count returns how many records of kind the history holds.
func (h History) Count(kind TransactionKind) int {
	switch kind {
	case Deposit:
		return h.deposits
	case Withdrawal:
		return h.withdrawals
	default:
		return 0
	}
}

func (h History) Len() int {
	return len(h.records)
}

// Replay folds the records into the balance they produce from zero.
func (h History) Replay() Money {
	var total Money
	for _, r := range h.records {
		switch r.Kind {
		case Deposit:
			total = total.Add(r.Amount)
		case Withdrawal:
			total = total.Sub(r.Amount)
		}
	}
	return total
}

func (h History) clone() History {
	h.records = slices.Clone(h.records)
	return h
}
