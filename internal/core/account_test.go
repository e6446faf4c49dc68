package core

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"
)

func units(n int64) Money { return MoneyFromUnits(n) }

func newChecking(t *testing.T, opts ...Option) (*Customer, *Account) {
	t.Helper()
	c := NewIndividual(Individual{Name: "Ana", NationalID: "123"}, "Rua A, 1")
	a := NewCheckingAccount(1, c, opts...)
	if err := c.AddAccount(a); err != nil {
		t.Fatalf("add account: %v", err)
	}
	return c, a
}

func mustRegister(t *testing.T, a *Account, tx Transaction) Record {
	t.Helper()
	rec, err := tx.Register(a)
	if err != nil {
		t.Fatalf("register %s %s: %v", tx.Kind(), tx.Amount(), err)
	}
	return rec
}

func TestCheckingAccountDefaults(t *testing.T) {
	_, a := newChecking(t)
	if a.Agency() != "0001" {
		t.Errorf("agency = %q, want 0001", a.Agency())
	}
	if !a.Limit().Equal(units(500)) {
		t.Errorf("limit = %s, want 500.00", a.Limit())
	}
	if a.MaxWithdrawals() != 3 {
		t.Errorf("max withdrawals = %d, want 3", a.MaxWithdrawals())
	}
	if !a.Balance().IsZero() || a.History().Len() != 0 {
		t.Errorf("new account not empty: balance=%s records=%d", a.Balance(), a.History().Len())
	}
}

func TestAccountOptions(t *testing.T) {
	_, a := newChecking(t, WithLimit(units(ExtendedWithdrawalLimit)), WithMaxWithdrawals(5), WithAgency("0042"))
	if !a.Limit().Equal(units(100000)) || a.MaxWithdrawals() != 5 || a.Agency() != "0042" {
		t.Fatalf("options not applied: limit=%s max=%d agency=%s", a.Limit(), a.MaxWithdrawals(), a.Agency())
	}

	_, b := newChecking(t, WithLimit(units(-1)), WithMaxWithdrawals(0), WithAgency(""))
	if !b.Limit().Equal(units(500)) || b.MaxWithdrawals() != 3 || b.Agency() != "0001" {
		t.Fatalf("invalid options should keep defaults: limit=%s max=%d agency=%s", b.Limit(), b.MaxWithdrawals(), b.Agency())
	}
}

func TestScenarioWithdrawalCountCap(t *testing.T) {
	_, a := newChecking(t)

	mustRegister(t, a, NewDeposit(units(1000)))
	if !a.Balance().Equal(units(1000)) {
		t.Fatalf("balance = %s, want 1000.00", a.Balance())
	}
	recs := a.History().Transactions()
	if len(recs) != 1 || recs[0].Kind != Deposit || !recs[0].Amount.Equal(units(1000)) {
		t.Fatalf("unexpected history after deposit: %+v", recs)
	}

	for i := 0; i < 3; i++ {
		mustRegister(t, a, NewWithdrawal(units(200)))
	}
	if !a.Balance().Equal(units(400)) {
		t.Fatalf("balance = %s, want 400.00", a.Balance())
	}
	h := a.History()
	if h.Len() != 4 || h.Count(Withdrawal) != 3 || h.Count(Deposit) != 1 {
		t.Fatalf("history len=%d withdrawals=%d deposits=%d", h.Len(), h.Count(Withdrawal), h.Count(Deposit))
	}

	_, err := NewWithdrawal(units(100)).Register(a)
	if !errors.Is(err, ErrWithdrawalCountExceeded) {
		t.Fatalf("fourth withdrawal: got %v, want ErrWithdrawalCountExceeded", err)
	}
	if !a.Balance().Equal(units(400)) || a.History().Len() != 4 {
		t.Fatalf("rejected withdrawal changed state: balance=%s records=%d", a.Balance(), a.History().Len())
	}
}

func TestScenarioInsufficientFundsOnFreshAccount(t *testing.T) {
	_, a := newChecking(t)
	_, err := NewWithdrawal(units(50)).Register(a)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	if a.History().Len() != 0 {
		t.Fatalf("history should stay empty, got %d records", a.History().Len())
	}
}

func TestScenarioLimitBeatsInsufficientFunds(t *testing.T) {
	_, a := newChecking(t)
	mustRegister(t, a, NewDeposit(units(100)))
	_, err := NewWithdrawal(units(600)).Register(a)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("got %v, want ErrLimitExceeded", err)
	}
	if !a.Balance().Equal(units(100)) {
		t.Fatalf("balance = %s, want 100.00", a.Balance())
	}
}

func TestLimitBeatsCountCap(t *testing.T) {
	_, a := newChecking(t, WithLimit(units(500)), WithMaxWithdrawals(3))
	mustRegister(t, a, NewDeposit(units(1000)))
	for i := 0; i < 3; i++ {
		mustRegister(t, a, NewWithdrawal(units(10)))
	}
	_, err := NewWithdrawal(units(600)).Register(a)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("got %v, want ErrLimitExceeded", err)
	}
}

func TestNonPositiveAmountsAreInvalid(t *testing.T) {
	for _, amt := range []Money{units(0), units(-1), {}} {
		c := NewIndividual(Individual{Name: "B", NationalID: "9"}, "")
		a := NewAccount(7, c)
		if err := a.Deposit(units(10)); err != nil {
			t.Fatalf("seed deposit: %v", err)
		}

		if err := a.Deposit(amt); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("deposit %s: got %v, want ErrInvalidAmount", amt, err)
		}
		if err := a.Withdraw(amt); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("withdraw %s: got %v, want ErrInvalidAmount", amt, err)
		}
		for _, tx := range []Transaction{NewDeposit(amt), NewWithdrawal(amt)} {
			if _, err := tx.Register(a); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("register %s %s: got %v, want ErrInvalidAmount", tx.Kind(), amt, err)
			}
		}
		if a.History().Len() != 0 || !a.Balance().Equal(units(10)) {
			t.Errorf("invalid amount changed state: balance=%s records=%d", a.Balance(), a.History().Len())
		}
	}
}

func TestRejectionIsIdempotent(t *testing.T) {
	_, a := newChecking(t)
	mustRegister(t, a, NewDeposit(units(100)))
	before := a.History().Transactions()

	for i := 0; i < 3; i++ {
		_, err := NewWithdrawal(units(150)).Register(a)
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("attempt %d: got %v, want ErrInsufficientFunds", i, err)
		}
	}
	after := a.History().Transactions()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("history changed by rejections: before=%+v after=%+v", before, after)
	}
	if !a.Balance().Equal(units(100)) {
		t.Fatalf("balance = %s, want 100.00", a.Balance())
	}
}

func TestAccountOperationsDoNotRecord(t *testing.T) {
	c := NewCustomer("")
	a := NewAccount(1, c)
	if err := a.Deposit(units(50)); err != nil {
		t.Fatal(err)
	}
	if err := a.Withdraw(units(20)); err != nil {
		t.Fatal(err)
	}
	if a.History().Len() != 0 {
		t.Fatalf("direct account operations must not record, got %d records", a.History().Len())
	}
	if !a.Balance().Equal(units(30)) {
		t.Fatalf("balance = %s, want 30.00", a.Balance())
	}
}

func TestBasicAccountHasNoWithdrawalPolicy(t *testing.T) {
	a := NewAccount(1, NewCustomer(""))
	mustRegister(t, a, NewDeposit(units(10000)))
	for i := 0; i < 5; i++ {
		mustRegister(t, a, NewWithdrawal(units(1000)))
	}
	if !a.Balance().Equal(units(5000)) {
		t.Fatalf("balance = %s, want 5000.00", a.Balance())
	}
}

func TestRecordTimestampComesFromClock(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	_, a := newChecking(t, WithClock(func() time.Time { return at }))
	rec := mustRegister(t, a, NewDeposit(units(1)))
	if !rec.Timestamp.Equal(at) {
		t.Fatalf("timestamp = %v, want %v", rec.Timestamp, at)
	}
}

func TestBalanceEqualsReplayOfHistory(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	_, a := newChecking(t, WithMaxWithdrawals(20), WithLimit(units(300)))

	var want Money
	for i := 0; i < 200; i++ {
		amt := NewMoney(units(int64(rng.Intn(700) - 100)).Value.Div(units(7).Value))
		var tx Transaction = NewDeposit(amt)
		if rng.Intn(2) == 0 {
			tx = NewWithdrawal(amt)
		}
		if _, err := tx.Register(a); err == nil {
			if tx.Kind() == Deposit {
				want = want.Add(amt)
			} else {
				want = want.Sub(amt)
			}
		}
	}

	h := a.History()
	if !a.Balance().Equal(want) {
		t.Fatalf("balance = %s, want %s", a.Balance(), want)
	}
	if !h.Replay().Equal(a.Balance()) {
		t.Fatalf("replay = %s, balance = %s", h.Replay(), a.Balance())
	}
	if a.Balance().Value.IsNegative() {
		t.Fatalf("balance went negative: %s", a.Balance())
	}
}

func TestConcurrentWithdrawalsRespectCountCap(t *testing.T) {
	_, a := newChecking(t)
	mustRegister(t, a, NewDeposit(units(1000)))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = NewWithdrawal(units(10)).Register(a)
		}()
	}
	wg.Wait()

	if n := a.History().Count(Withdrawal); n != 3 {
		t.Fatalf("withdrawals = %d, want 3", n)
	}
	if !a.Balance().Equal(units(970)) {
		t.Fatalf("balance = %s, want 970.00", a.Balance())
	}
}
