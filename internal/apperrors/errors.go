package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a write was based on a stale version of the record.
var ErrConflict = errors.New("concurrency conflict")

// ErrInvalidTransfer indicates a malformed transfer (same account, non-positive amount).
var ErrInvalidTransfer = errors.New("invalid transfer")

// ErrInactiveAccount indicates that a transfer leg refers to a frozen account.
var ErrInactiveAccount = errors.New("account is inactive")

// ErrInsufficientBalance indicates that the source account lacks funds.
var ErrInsufficientBalance = errors.New("insufficient balance")

// NotFoundError names the kind and id of the missing resource.
type NotFoundError struct {
	Kind string
	ID   string
}

func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError carries a field name to message mapping.
type ValidationError struct {
	Fields map[string]string
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvalidTransferError describes why a transfer request is malformed.
type InvalidTransferError struct {
	Reason string
}

func NewInvalidTransfer(reason string) *InvalidTransferError {
	return &InvalidTransferError{Reason: reason}
}

func (e *InvalidTransferError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidTransfer.Error(), e.Reason)
}

func (e *InvalidTransferError) Unwrap() error { return ErrInvalidTransfer }

// InactiveAccountError names the frozen account.
type InactiveAccountError struct {
	ID string
}

func NewInactiveAccount(id string) *InactiveAccountError {
	return &InactiveAccountError{ID: id}
}

func (e *InactiveAccountError) Error() string {
	return fmt.Sprintf("account %s is inactive", e.ID)
}

func (e *InactiveAccountError) Unwrap() error { return ErrInactiveAccount }

// InsufficientBalanceError reports the current balance and the requested amount.
type InsufficientBalanceError struct {
	ID        string
	Current   decimal.Decimal
	Requested decimal.Decimal
}

func NewInsufficientBalance(id string, current, requested decimal.Decimal) *InsufficientBalanceError {
	return &InsufficientBalanceError{ID: id, Current: current, Requested: requested}
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance in account %s: current balance %s, requested %s",
		e.ID, e.Current.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// ConflictError is returned when a version-checked write loses against a concurrent writer.
type ConflictError struct {
	ID string
}

func NewConflict(id string) *ConflictError {
	return &ConflictError{ID: id}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("account %s was modified concurrently, reload and try again", e.ID)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
