package directory

import (
	"errors"
	"sync"
	"testing"

	"ledger/internal/core"
)

func ana() core.Individual {
	return core.Individual{Name: "Ana Souza", BirthDate: "01-02-1990", NationalID: "12345678900"}
}

func TestAddCustomer(t *testing.T) {
	d := New()
	c, err := d.AddCustomer(ana(), "Rua A, 1 - Centro - Recife/PE")
	if err != nil {
		t.Fatalf("add customer: %v", err)
	}
	if c.NationalID() != "12345678900" || c.Name() != "Ana Souza" {
		t.Fatalf("unexpected customer %q %q", c.NationalID(), c.Name())
	}

	if _, err := d.AddCustomer(ana(), "elsewhere"); !errors.Is(err, ErrDuplicateCustomer) {
		t.Fatalf("duplicate: got %v, want ErrDuplicateCustomer", err)
	}

	dup := ana()
	dup.NationalID = " 12345678900 "
	if _, err := d.AddCustomer(dup, ""); !errors.Is(err, ErrDuplicateCustomer) {
		t.Fatalf("padded duplicate: got %v, want ErrDuplicateCustomer", err)
	}

	if _, err := d.AddCustomer(core.Individual{Name: "x"}, ""); !errors.Is(err, core.ErrEmptyNationalID) {
		t.Fatalf("empty id: got %v, want ErrEmptyNationalID", err)
	}
	if d.CustomerCount() != 1 {
		t.Fatalf("customer count = %d, want 1", d.CustomerCount())
	}
}

func TestCustomerLookup(t *testing.T) {
	d := New()
	want, _ := d.AddCustomer(ana(), "")

	got, err := d.Customer("12345678900")
	if err != nil || got != want {
		t.Fatalf("lookup: got %v, %v", got, err)
	}
	if _, err := d.Customer("000"); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("missing: got %v, want ErrCustomerNotFound", err)
	}
}

func TestOpenAccountNumbersSequentially(t *testing.T) {
	d := New(core.WithAgency("0007"), core.WithMaxWithdrawals(5))
	_, _ = d.AddCustomer(ana(), "")
	_, _ = d.AddCustomer(core.Individual{Name: "Bia", NationalID: "2"}, "")

	first, err := d.OpenAccount("12345678900")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	second, _ := d.OpenAccount("2")
	third, _ := d.OpenAccount("12345678900")

	for i, acc := range []*core.Account{first, second, third} {
		if acc.Number() != i+1 {
			t.Errorf("account %d numbered %d", i, acc.Number())
		}
		if acc.Agency() != "0007" || acc.MaxWithdrawals() != 5 || acc.Kind() != core.CheckingAccount {
			t.Errorf("account %d options not applied", acc.Number())
		}
	}

	if len(d.Accounts()) != 3 {
		t.Fatalf("accounts = %d, want 3", len(d.Accounts()))
	}
	if _, err := d.OpenAccount("404"); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("open for unknown customer: got %v", err)
	}
}

func TestPrimaryAccount(t *testing.T) {
	d := New()
	_, _ = d.AddCustomer(ana(), "")

	if _, _, err := d.PrimaryAccount("12345678900"); !errors.Is(err, ErrNoAccount) {
		t.Fatalf("no account: got %v, want ErrNoAccount", err)
	}

	first, _ := d.OpenAccount("12345678900")
	_, _ = d.OpenAccount("12345678900")

	c, acc, err := d.PrimaryAccount("12345678900")
	if err != nil || acc != first || acc.Owner() != c {
		t.Fatalf("primary account: acc=%v err=%v", acc, err)
	}
}

func TestOpenAccountConcurrently(t *testing.T) {
	d := New()
	_, _ = d.AddCustomer(ana(), "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.OpenAccount("12345678900")
		}()
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, acc := range d.Accounts() {
		if seen[acc.Number()] {
			t.Fatalf("duplicate account number %d", acc.Number())
		}
		seen[acc.Number()] = true
	}
	if len(seen) != 50 {
		t.Fatalf("accounts = %d, want 50", len(seen))
	}
}
