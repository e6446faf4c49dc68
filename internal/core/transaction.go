package core

import "fmt"

// Transaction is a deposit or withdrawal waiting to be applied to an account.
// The set of implementations is closed: DepositTx and WithdrawalTx.
type Transaction interface {
	Kind() TransactionKind
	Amount() Money
	// Register applies the transaction to a. The record is appended to the
	// account history if and only if the account operation succeeds.
	Register(a *Account) (Record, error)

	sealed()
}

type (
	DepositTx struct {
		amount Money
	}

	WithdrawalTx struct {
		amount Money
	}
)

func NewDeposit(amount Money) DepositTx { return DepositTx{amount: amount} }

func NewWithdrawal(amount Money) WithdrawalTx { return WithdrawalTx{amount: amount} }

// NewTransaction builds the variant for kind.
func NewTransaction(kind TransactionKind, amount Money) (Transaction, error) {
	switch kind {
	case Deposit:
		return NewDeposit(amount), nil
	case Withdrawal:
		return NewWithdrawal(amount), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (t DepositTx) Kind() TransactionKind { return Deposit }

func (t DepositTx) Amount() Money { return t.amount }

func (t DepositTx) Register(a *Account) (Record, error) {
	return a.post(Deposit, t.amount, a.deposit)
}

func (DepositTx) sealed() {}

func (t WithdrawalTx) Kind() TransactionKind { return Withdrawal }

func (t WithdrawalTx) Amount() Money { return t.amount }

func (t WithdrawalTx) Register(a *Account) (Record, error) {
	return a.post(Withdrawal, t.amount, a.withdraw)
}

func (WithdrawalTx) sealed() {}
