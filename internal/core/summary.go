package core

// Statement is a point-in-time view of an account: its records and balance.
type Statement struct {
	Agency  string
	Number  int
	Holder  string
	Entries []Record
	Balance Money
}

// TotalByKind sums the statement entries of one kind.
func (s Statement) TotalByKind(kind TransactionKind) Money {
	var total Money
	for _, r := range s.Entries {
		if r.Kind == kind {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// BuildStatement captures balance and records under one lock acquisition so
// the two always agree.
func BuildStatement(a *Account) Statement {
	a.mu.Lock()
	defer a.mu.Unlock()

	holder := ""
	if a.owner != nil {
		holder = a.owner.Name()
	}
	return Statement{
		Agency:  a.agency,
		Number:  a.number,
		Holder:  holder,
		Entries: a.history.Transactions(),
		Balance: a.balance,
	}
}
