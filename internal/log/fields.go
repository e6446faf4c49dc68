package log

import "ledger/internal/core"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldSessionID     = "session_id"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldOperation     = "operation"
	FieldNationalID    = "national_id"
	FieldAccountNumber = "account_number"
	FieldAgency        = "agency"
	FieldKind          = "kind"
	FieldAmount        = "amount"
	FieldBalance       = "balance"
	FieldRecordID      = "record_id"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentConsole = "console"
	ComponentJournal = "journal"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentMetrics = "metrics"
)

// Operations defines standard operation names
const (
	OpDeposit     = "deposit"
	OpWithdraw    = "withdraw"
	OpStatement   = "statement"
	OpOpenAccount = "open_account"
	OpNewCustomer = "new_customer"
	OpAppend      = "append"
	OpPublish     = "publish"
	OpConsume     = "consume"
	OpShutdown    = "shutdown"
	OpStartup     = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypePolicy        = "policy_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeConflict      = "conflict_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds error type field
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithAccount adds account identification fields
func (f LogFields) WithAccount(agency string, number int) LogFields {
	f[FieldAgency] = agency
	f[FieldAccountNumber] = number
	return f
}

// WithCustomer adds the customer's national id
func (f LogFields) WithCustomer(nationalID string) LogFields {
	f[FieldNationalID] = nationalID
	return f
}

// WithRecord adds posted record fields
func (f LogFields) WithRecord(rec core.Record) LogFields {
	f[FieldRecordID] = rec.ID.String()
	f[FieldKind] = string(rec.Kind)
	f[FieldAmount] = rec.Amount.String()
	return f
}

// WithTransaction adds fields of a transaction that has not been posted
func (f LogFields) WithTransaction(kind core.TransactionKind, amount core.Money) LogFields {
	f[FieldKind] = string(kind)
	f[FieldAmount] = amount.String()
	return f
}

// WithBalance adds balance field
func (f LogFields) WithBalance(balance core.Money) LogFields {
	f[FieldBalance] = balance.String()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
