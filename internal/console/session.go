// Package console runs the interactive teller menu on top of the ledger
// service.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
	"ledger/internal/directory"
	"ledger/internal/log"
	"ledger/internal/services"
)

// Session reads menu commands from in and writes prompts and results to out.
type Session struct {
	ledger *services.Ledger
	p      *prompter
	out    io.Writer
	logger *log.Logger
	now    func() time.Time
}

func NewSession(ledger *services.Ledger, in io.Reader, out io.Writer, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Discard()
	}
	return &Session{
		ledger: ledger,
		p:      newPrompter(in, out),
		out:    out,
		logger: logger.WithComponent(log.ComponentConsole).With(log.FieldSessionID, uuid.NewString()),
		now:    time.Now,
	}
}

// Run serves commands until the user quits, input ends or ctx is cancelled.
// Running out of input is a normal way to end a session.
func (s *Session) Run(ctx context.Context) error {
	ctx = log.WithContext(ctx, s.logger)
	s.logger.InfoContext(ctx, "Console session started")
	defer s.logger.InfoContext(ctx, "Console session ended")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		option, err := s.p.ask(menuText)
		if err != nil {
			return endOfInput(err)
		}

		switch option {
		case "d":
			err = s.deposit(ctx)
		case "w":
			err = s.withdraw(ctx)
		case "s":
			err = s.statement(ctx)
		case "nu":
			err = s.newCustomer(ctx)
		case "nc":
			err = s.newAccount(ctx)
		case "lc":
			err = RenderAccounts(s.out, s.ledger.Accounts())
		case "q":
			return nil
		default:
			s.fail("Invalid operation, please select again.")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Session) deposit(ctx context.Context) error {
	id, err := s.p.ask("Enter customer national id: ")
	if err != nil {
		return err
	}
	if !s.ledger.HasCustomer(id) {
		s.fail("Customer not found!")
		return nil
	}
	amount, err := s.p.askAmount("Enter deposit amount: ")
	if err != nil {
		return err
	}
	if _, err := s.ledger.Deposit(ctx, id, amount); err != nil {
		s.report(ctx, err)
		return nil
	}
	s.ok("Deposit successful!")
	return nil
}

func (s *Session) withdraw(ctx context.Context) error {
	id, err := s.p.ask("Enter customer national id: ")
	if err != nil {
		return err
	}
	if !s.ledger.HasCustomer(id) {
		s.fail("Customer not found!")
		return nil
	}
	amount, err := s.p.askAmount("Enter withdrawal amount: ")
	if err != nil {
		return err
	}
	if _, err := s.ledger.Withdraw(ctx, id, amount); err != nil {
		s.report(ctx, err)
		return nil
	}
	s.ok("Withdrawal successful!")
	return nil
}

func (s *Session) statement(ctx context.Context) error {
	id, err := s.p.ask("Enter customer national id: ")
	if err != nil {
		return err
	}
	st, err := s.ledger.Statement(ctx, id)
	if err != nil {
		s.report(ctx, err)
		return nil
	}
	return RenderStatement(s.out, st)
}

func (s *Session) newCustomer(ctx context.Context) error {
	id, err := s.p.ask("Enter national id (numbers only): ")
	if err != nil {
		return err
	}
	if s.ledger.HasCustomer(id) {
		s.fail("A customer with this national id already exists!")
		return nil
	}
	name, err := s.p.ask("Enter full name: ")
	if err != nil {
		return err
	}
	birth, err := s.p.askBirthDate("Enter birth date (dd-mm-yyyy): ", s.now())
	if err != nil {
		return err
	}
	address, err := s.p.ask("Enter address (street, number - neighborhood - city/state abbreviation): ")
	if err != nil {
		return err
	}

	person := core.Individual{Name: name, BirthDate: birth, NationalID: id}
	if _, err := s.ledger.AddCustomer(ctx, person, address); err != nil {
		s.report(ctx, err)
		return nil
	}
	s.ok("User created successfully!")
	return nil
}

func (s *Session) newAccount(ctx context.Context) error {
	id, err := s.p.ask("Enter customer national id: ")
	if err != nil {
		return err
	}
	acc, err := s.ledger.OpenAccount(ctx, id)
	if errors.Is(err, directory.ErrCustomerNotFound) {
		s.fail("Customer not found, account creation aborted!")
		return nil
	}
	if err != nil {
		s.report(ctx, err)
		return nil
	}
	s.ok(fmt.Sprintf("Account %s/%d created successfully!", acc.Agency(), acc.Number()))
	return nil
}

// report tells the user why an operation was refused. Unexpected errors are
// also logged.
func (s *Session) report(ctx context.Context, err error) {
	if !services.IsBusinessError(err) {
		s.logger.ErrorContext(ctx, "Operation failed", log.FieldError, err.Error())
		s.fail("Operation failed! Unexpected error.")
		return
	}
	s.fail(Message(err))
}

// Message is the user-facing text for a refused operation.
func Message(err error) string {
	switch {
	case errors.Is(err, directory.ErrCustomerNotFound):
		return "Customer not found!"
	case errors.Is(err, directory.ErrNoAccount):
		return "Customer does not have an account!"
	case errors.Is(err, directory.ErrDuplicateCustomer):
		return "A customer with this national id already exists!"
	case errors.Is(err, core.ErrInsufficientFunds):
		return "Operation failed! Insufficient funds!"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Operation failed! Invalid amount!"
	case errors.Is(err, core.ErrLimitExceeded):
		return "Operation failed! Amount exceeds the limit!"
	case errors.Is(err, core.ErrWithdrawalCountExceeded):
		return "Operation failed! Withdrawal limit exceeded!"
	case errors.Is(err, core.ErrEmptyName):
		return "Operation failed! Name is required!"
	case errors.Is(err, core.ErrEmptyNationalID):
		return "Operation failed! National id is required!"
	default:
		return "Operation failed! " + err.Error()
	}
}

func (s *Session) ok(msg string) {
	fmt.Fprintf(s.out, "\n=== %s ===\n", msg)
}

func (s *Session) fail(msg string) {
	fmt.Fprintf(s.out, "\n@@@ %s @@@\n", msg)
}
