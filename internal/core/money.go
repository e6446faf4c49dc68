// Package core provides money parsing and handling utilities.
//
// This file contains the Money value used for balances, limits and posted
// amounts, and the functions that turn user input into Money.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for every amount.
const MoneyPlaces = 2

// ErrMalformedAmount is returned by ParseAmount when the input is not a number.
var ErrMalformedAmount = errors.New("malformed amount")

// Money is an exact decimal amount in the ledger's single currency.
type Money struct {
	Value decimal.Decimal
}

// NewMoney wraps d rounded half-up to MoneyPlaces.
func NewMoney(d decimal.Decimal) Money {
	return Money{Value: d.Round(MoneyPlaces)}
}

// MoneyFromUnits returns a whole amount of currency units.
func MoneyFromUnits(units int64) Money {
	return Money{Value: decimal.NewFromInt(units)}
}

// ParseAmount converts user input to Money with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Zero and negative values parse
// successfully: rejecting them is the account's job, so the caller gets
// ErrInvalidAmount from the ledger rather than a parse error.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil (rounds up)
//	ParseAmount("-3")     -> -3.00, nil
//	ParseAmount("abc")    -> 0, ErrMalformedAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrMalformedAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		return Money{}, ErrMalformedAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrMalformedAmount
	}
	return NewMoney(d), nil
}

// Validate reports ErrInvalidAmount unless m is strictly positive.
func (m Money) Validate() error {
	if !m.Value.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{Value: m.Value.Add(o.Value)} }

func (m Money) Sub(o Money) Money { return Money{Value: m.Value.Sub(o.Value)} }

func (m Money) GreaterThan(o Money) bool { return m.Value.GreaterThan(o.Value) }

func (m Money) Equal(o Money) bool { return m.Value.Equal(o.Value) }

func (m Money) IsZero() bool { return m.Value.IsZero() }

// String renders the amount with exactly two decimals, e.g. "1000.00".
func (m Money) String() string {
	return m.Value.StringFixed(MoneyPlaces)
}

// Float returns the amount as a float64 for metrics and display purposes.
// Use Money arithmetic for calculations.
func (m Money) Float() float64 {
	f, _ := m.Value.Float64()
	return f
}
