// Package directory keeps the in-memory registry of customers and accounts:
// lookup by national id, account number allocation and the account listing.
package directory

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"ledger/internal/core"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrDuplicateCustomer = errors.New("a customer with this national id already exists")
	ErrNoAccount         = errors.New("customer does not have an account")
)

// Directory is safe for concurrent use. Accounts are numbered 1, 2, 3... in
// opening order across all customers.
type Directory struct {
	mu          sync.RWMutex
	customers   map[string]*core.Customer
	accounts    []*core.Account
	accountOpts []core.Option
}

// New returns an empty directory. opts are applied to every account it opens.
func New(opts ...core.Option) *Directory {
	return &Directory{
		customers:   make(map[string]*core.Customer),
		accountOpts: opts,
	}
}

// AddCustomer registers a new individual customer keyed by national id.
func (d *Directory) AddCustomer(person core.Individual, address string) (*core.Customer, error) {
	person.NationalID = normalizeID(person.NationalID)
	if err := person.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.customers[person.NationalID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCustomer, person.NationalID)
	}
	c := core.NewIndividual(person, address)
	d.customers[person.NationalID] = c
	return c, nil
}

// Customer looks a customer up by national id.
func (d *Directory) Customer(nationalID string) (*core.Customer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.customers[normalizeID(nationalID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, nationalID)
	}
	return c, nil
}

// OpenAccount opens a checking account for the customer with the given
// national id, numbered after every account opened so far.
func (d *Directory) OpenAccount(nationalID string) (*core.Account, error) {
	c, err := d.Customer(nationalID)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	acc := core.NewCheckingAccount(len(d.accounts)+1, c, d.accountOpts...)
	if err := c.AddAccount(acc); err != nil {
		return nil, fmt.Errorf("add account: %w", err)
	}
	d.accounts = append(d.accounts, acc)
	return acc, nil
}

// PrimaryAccount resolves a customer and returns the first account they opened.
func (d *Directory) PrimaryAccount(nationalID string) (*core.Customer, *core.Account, error) {
	c, err := d.Customer(nationalID)
	if err != nil {
		return nil, nil, err
	}
	acc, ok := c.PrimaryAccount()
	if !ok {
		return c, nil, fmt.Errorf("%w: %s", ErrNoAccount, c.NationalID())
	}
	return c, acc, nil
}

// Accounts lists every account in opening order.
func (d *Directory) Accounts() []*core.Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.accounts)
}

func (d *Directory) CustomerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.customers)
}

func normalizeID(id string) string {
	return strings.TrimSpace(id)
}
