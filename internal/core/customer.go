package core

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

var (
	ErrEmptyNationalID = errors.New("empty national id")
	ErrEmptyName       = errors.New("empty name")
)

// Individual holds the personal details of a customer who is a person.
type Individual struct {
	Name       string
	BirthDate  string // dd-mm-yyyy as typed by the user
	NationalID string
}

func (i Individual) Validate() error {
	if strings.TrimSpace(i.NationalID) == "" {
		return ErrEmptyNationalID
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Customer owns accounts and is the entry point for applying transactions to them.
// A customer created with NewIndividual also carries personal details.
type Customer struct {
	mu       sync.Mutex
	address  string
	accounts []*Account
	person   *Individual
}

func NewCustomer(address string) *Customer {
	return &Customer{address: address}
}

func NewIndividual(person Individual, address string) *Customer {
	return &Customer{address: address, person: &person}
}

func (c *Customer) Address() string { return c.address }

// Individual returns the personal details, if c is a person.
func (c *Customer) Individual() (Individual, bool) {
	if c.person == nil {
		return Individual{}, false
	}
	return *c.person, true
}

// NationalID is the customer's unique key; it is empty for non-individuals.
func (c *Customer) NationalID() string {
	if c.person == nil {
		return ""
	}
	return c.person.NationalID
}

// Name returns the holder name shown on account listings.
func (c *Customer) Name() string {
	if c.person == nil {
		return ""
	}
	return c.person.Name
}

// AddAccount appends a to the customer's accounts. The account must have been
// opened for c. Accounts are never removed.
func (c *Customer) AddAccount(a *Account) error {
	if a.owner != c {
		return ErrAccountNotOwned
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts = append(c.accounts, a)
	return nil
}

// Accounts returns the customer's accounts in opening order.
func (c *Customer) Accounts() []*Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.accounts)
}

// Account returns the owned account with the given number.
func (c *Customer) Account(number int) (*Account, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.accounts {
		if a.number == number {
			return a, true
		}
	}
	return nil, false
}

// PrimaryAccount returns the first account the customer opened.
func (c *Customer) PrimaryAccount() (*Account, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.accounts) == 0 {
		return nil, false
	}
	return c.accounts[0], true
}

// PerformTransaction registers tx against one of the customer's own accounts.
func (c *Customer) PerformTransaction(a *Account, tx Transaction) (Record, error) {
	if a == nil || a.owner != c {
		return Record{}, ErrAccountNotOwned
	}
	return tx.Register(a)
}
