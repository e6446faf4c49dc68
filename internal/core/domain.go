package core

import (
	"errors"
)

const (
	Deposit    TransactionKind = "deposit"
	Withdrawal TransactionKind = "withdrawal"
)

const (
	BasicAccount    AccountKind = "basic"
	CheckingAccount AccountKind = "checking"
)

const (
	DefaultAgency = "0001"
	// DefaultWithdrawalLimit is the per-withdrawal ceiling of the simple variant.
	DefaultWithdrawalLimit = 500
	// ExtendedWithdrawalLimit is the per-withdrawal ceiling of the extended variant.
	ExtendedWithdrawalLimit = 100000
	DefaultMaxWithdrawals   = 3
)

type (
	TransactionKind string

	AccountKind string
)

var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrLimitExceeded           = errors.New("amount exceeds the withdrawal limit")
	ErrWithdrawalCountExceeded = errors.New("maximum number of withdrawals exceeded")
	ErrAccountNotOwned         = errors.New("account is not owned by customer")
	ErrUnknownKind             = errors.New("unknown transaction kind")
)

// Label returns the display name used on statements.
func (k TransactionKind) Label() string {
	switch k {
	case Deposit:
		return "Deposit"
	case Withdrawal:
		return "Withdrawal"
	default:
		return string(k)
	}
}

func (k TransactionKind) Valid() bool {
	return k == Deposit || k == Withdrawal
}
