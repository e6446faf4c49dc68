package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
	"ledger/internal/journal"
)

var ErrInvalidMessage = errors.New("invalid posted transaction message")

// PostedMessage announces a transaction that was posted to an account.
// Amounts travel as decimal strings so consumers never round through floats.
type PostedMessage struct {
	MessageID     uuid.UUID `json:"message_id"`
	RecordID      uuid.UUID `json:"record_id"`
	Agency        string    `json:"agency"`
	AccountNumber int       `json:"account_number"`
	NationalID    string    `json:"national_id"`
	Kind          string    `json:"kind"`
	Amount        string    `json:"amount"`
	BalanceAfter  string    `json:"balance_after"`
	PostedAt      time.Time `json:"posted_at"`
	PublishedAt   time.Time `json:"published_at"`
}

func NewPostedMessage(e journal.Entry) *PostedMessage {
	return &PostedMessage{
		MessageID:     uuid.New(),
		RecordID:      e.RecordID,
		Agency:        e.Agency,
		AccountNumber: e.AccountNumber,
		NationalID:    e.NationalID,
		Kind:          string(e.Kind),
		Amount:        e.Amount.String(),
		BalanceAfter:  e.BalanceAfter.String(),
		PostedAt:      e.PostedAt,
		PublishedAt:   time.Now(),
	}
}

func (m *PostedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PostedMessageFromJSON decodes and validates a message body.
func PostedMessageFromJSON(data []byte) (*PostedMessage, error) {
	var msg PostedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := msg.Entry(); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Entry converts the message back into the journal entry it was built from.
func (m *PostedMessage) Entry() (journal.Entry, error) {
	if m.RecordID == uuid.Nil {
		return journal.Entry{}, fmt.Errorf("%w: missing record id", ErrInvalidMessage)
	}
	if m.AccountNumber <= 0 {
		return journal.Entry{}, fmt.Errorf("%w: account number %d", ErrInvalidMessage, m.AccountNumber)
	}
	kind := core.TransactionKind(m.Kind)
	if !kind.Valid() {
		return journal.Entry{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidMessage, m.Kind)
	}
	amount, err := core.ParseAmount(m.Amount)
	if err != nil {
		return journal.Entry{}, fmt.Errorf("%w: amount: %v", ErrInvalidMessage, err)
	}
	if err := amount.Validate(); err != nil {
		return journal.Entry{}, fmt.Errorf("%w: amount %s is not positive", ErrInvalidMessage, m.Amount)
	}
	balance, err := core.ParseAmount(m.BalanceAfter)
	if err != nil {
		return journal.Entry{}, fmt.Errorf("%w: balance: %v", ErrInvalidMessage, err)
	}

	return journal.Entry{
		RecordID:      m.RecordID,
		Agency:        m.Agency,
		AccountNumber: m.AccountNumber,
		NationalID:    m.NationalID,
		Kind:          kind,
		Amount:        amount,
		BalanceAfter:  balance,
		PostedAt:      m.PostedAt,
	}, nil
}
