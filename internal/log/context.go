package log

import (
	"context"
	"errors"
	"log/slog"

	"ledger/internal/core"
	"ledger/internal/directory"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	// Return default logger if not found
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// FromContextOr returns the logger carried by ctx, or fallback when ctx has
// none.
func FromContextOr(ctx context.Context, fallback *Logger) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return fallback
}

// Scoped returns a logger for ctx that keeps l's component but carries the
// attributes of the logger stored in ctx, such as the session id.
func (l *Logger) Scoped(ctx context.Context) *Logger {
	return FromContextOr(ctx, l).WithComponent(l.component)
}

// StructuredLogger provides structured logging methods for ledger events
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogTransactionPosted logs a successfully registered transaction
func (sl *StructuredLogger) LogTransactionPosted(ctx context.Context, acc *core.Account, rec core.Record, balance core.Money) {
	fields := NewFields().
		WithAccount(acc.Agency(), acc.Number()).
		WithRecord(rec).
		WithBalance(balance).
		WithOperation(operationFor(rec.Kind))

	sl.logger.Scoped(ctx).InfoContext(ctx, "Transaction posted", fields.ToSlice()...)
}

// LogTransactionRejected logs a transaction the account refused. Business
// rejections are expected outcomes and log at Warn.
func (sl *StructuredLogger) LogTransactionRejected(ctx context.Context, acc *core.Account, tx core.Transaction, err error) {
	fields := NewFields().
		WithAccount(acc.Agency(), acc.Number()).
		WithTransaction(tx.Kind(), tx.Amount()).
		WithOperation(operationFor(tx.Kind())).
		WithErrorType(ClassifyError(err)).
		WithError(err)

	sl.logger.Scoped(ctx).WarnContext(ctx, "Transaction rejected", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation)

	sl.logger.Scoped(ctx).ErrorContext(ctx, msg, allFields.ToSlice()...)
}

// ClassifyError maps ledger errors onto the error type categories.
func ClassifyError(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrMalformedAmount):
		return ErrorTypeValidation
	case errors.Is(err, core.ErrInsufficientFunds),
		errors.Is(err, core.ErrLimitExceeded),
		errors.Is(err, core.ErrWithdrawalCountExceeded):
		return ErrorTypePolicy
	case errors.Is(err, core.ErrAccountNotOwned), errors.Is(err, directory.ErrDuplicateCustomer):
		return ErrorTypeConflict
	case errors.Is(err, directory.ErrCustomerNotFound), errors.Is(err, directory.ErrNoAccount):
		return ErrorTypeNotFound
	default:
		return ErrorTypeInternal
	}
}

func operationFor(kind core.TransactionKind) string {
	if kind == core.Withdrawal {
		return OpWithdraw
	}
	return OpDeposit
}
