package core

import (
	"sync"
	"time"
)

// Account holds a balance and the history of postings that produced it.
//
// The balance only moves through Deposit, Withdraw and Transaction.Register.
// Each account has its own lock so the withdrawal count check, the balance
// change and the record append of a single Register happen atomically.
type Account struct {
	mu sync.Mutex

	number  int
	agency  string
	kind    AccountKind
	owner   *Customer
	balance Money
	history History

	limit          Money
	maxWithdrawals int

	clock func() time.Time
}

// Option configures an account at construction time.
type Option func(*Account)

// WithLimit sets the per-withdrawal ceiling of a checking account.
// Non-positive limits are ignored.
func WithLimit(limit Money) Option {
	return func(a *Account) {
		if limit.Validate() == nil {
			a.limit = limit
		}
	}
}

// WithMaxWithdrawals sets how many withdrawals a checking account accepts.
// Non-positive counts are ignored.
func WithMaxWithdrawals(n int) Option {
	return func(a *Account) {
		if n > 0 {
			a.maxWithdrawals = n
		}
	}
}

func WithAgency(code string) Option {
	return func(a *Account) {
		if code != "" {
			a.agency = code
		}
	}
}

// WithClock replaces time.Now as the source of record timestamps.
func WithClock(clock func() time.Time) Option {
	return func(a *Account) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// NewAccount opens a basic account for owner. The account is not added to
// the owner's list; use Customer.AddAccount for that.
func NewAccount(number int, owner *Customer, opts ...Option) *Account {
	return newAccount(BasicAccount, number, owner, opts)
}

// NewCheckingAccount opens a checking account with the default limit of
// DefaultWithdrawalLimit and DefaultMaxWithdrawals withdrawals.
func NewCheckingAccount(number int, owner *Customer, opts ...Option) *Account {
	return newAccount(CheckingAccount, number, owner, opts)
}

func newAccount(kind AccountKind, number int, owner *Customer, opts []Option) *Account {
	a := &Account{
		number:         number,
		agency:         DefaultAgency,
		kind:           kind,
		owner:          owner,
		limit:          MoneyFromUnits(DefaultWithdrawalLimit),
		maxWithdrawals: DefaultMaxWithdrawals,
		clock:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Account) Number() int { return a.number }

func (a *Account) Agency() string { return a.agency }

func (a *Account) Kind() AccountKind { return a.kind }

// Owner returns the customer the account was opened for.
func (a *Account) Owner() *Customer { return a.owner }

// Limit returns the per-withdrawal ceiling. It only applies to checking accounts.
func (a *Account) Limit() Money { return a.limit }

// MaxWithdrawals returns the withdrawal count cap. It only applies to checking accounts.
func (a *Account) MaxWithdrawals() int { return a.maxWithdrawals }

func (a *Account) Balance() Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// History returns a snapshot of the account's records.
func (a *Account) History() History {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history.clone()
}

// Deposit increases the balance by amount. It does not record anything;
// recording is done by Transaction.Register.
func (a *Account) Deposit(amount Money) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deposit(amount)
}

// Withdraw decreases the balance by amount after the account's policy checks.
// Like Deposit it never touches the history.
func (a *Account) Withdraw(amount Money) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdraw(amount)
}

func (a *Account) deposit(amount Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// withdraw dispatches on the account kind. For checking accounts the limit
// check runs before the count check, and both run before amount and funds
// validation; the first failing check decides the error.
func (a *Account) withdraw(amount Money) error {
	switch a.kind {
	case CheckingAccount:
		if amount.GreaterThan(a.limit) {
			return ErrLimitExceeded
		}
		if a.history.Count(Withdrawal) >= a.maxWithdrawals {
			return ErrWithdrawalCountExceeded
		}
	case BasicAccount:
	}
	return a.withdrawFunds(amount)
}

func (a *Account) withdrawFunds(amount Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

// post runs op and, only if it succeeds, appends a record of kind to the
// history, all under the account lock.
func (a *Account) post(kind TransactionKind, amount Money, op func(Money) error) (Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := op(amount); err != nil {
		return Record{}, err
	}
	rec := newRecord(kind, amount, a.clock())
	a.history.Add(rec)
	return rec, nil
}
