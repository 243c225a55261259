package log

import "budget/internal/core"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldTransactionID = "transaction_id"
	FieldAccount       = "account"
	FieldType          = "type"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldDate          = "date"
	FieldStorageKey    = "storage_key"
	FieldBackend       = "backend"
	FieldCount         = "count"
	FieldIndex         = "index"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentServices = "services"
	ComponentReport   = "report"
	ComponentCache    = "cache"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpPersist  = "persist"
	OpRestore  = "restore"
	OpReset    = "reset"
	OpStage    = "stage"
	OpConfirm  = "confirm"
	OpCancel   = "cancel"
	OpValidate = "validate"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation  = "validation_error"
	ErrorTypeNotFound    = "not_found_error"
	ErrorTypeIndex       = "index_error"
	ErrorTypePersistence = "persistence_error"
)

// Fields provides a builder for structured log attributes. Order is kept so
// the text handler prints fields the same way every time.
type Fields []any

// NewFields creates an empty field list
func NewFields() Fields {
	return Fields{}
}

func (f Fields) With(key string, value any) Fields {
	return append(f, key, value)
}

// WithOperation adds operation field
func (f Fields) WithOperation(op string) Fields {
	return f.With(FieldOperation, op)
}

// WithError adds error field
func (f Fields) WithError(err error) Fields {
	if err == nil {
		return f
	}
	return f.With(FieldError, err.Error())
}

// WithErrorType adds the error category
func (f Fields) WithErrorType(errorType string) Fields {
	return f.With(FieldErrorType, errorType)
}

// WithTransaction adds the fields describing one ledger entry
func (f Fields) WithTransaction(t core.Transaction) Fields {
	return f.
		With(FieldTransactionID, t.ID).
		With(FieldType, t.Type.String()).
		With(FieldAccount, t.Account.String()).
		With(FieldAmount, t.Amount.String()).
		With(FieldCategory, t.Category).
		With(FieldDate, t.Date.String())
}

// ToSlice returns the key/value pairs for slog
func (f Fields) ToSlice() []any {
	return []any(f)
}
