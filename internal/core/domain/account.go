package domain

import (
	"github.com/shopspring/decimal"
)

// InitialVersion is the version assigned to a freshly created account.
const InitialVersion int64 = 1

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 255
)

// Account represents a benefit account within the core domain.
// Version is the optimistic-concurrency token: the store increments it on every
// successful write and rejects writes that carry a stale value.
type Account struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`
	Version     int64           `json:"version"`
	AuditFields
}

// AccountDraft is the input for creating an account.
// A nil IsActive means the account starts active.
type AccountDraft struct {
	Name        string
	Description string
	Balance     decimal.Decimal
	IsActive    *bool
}

// Active resolves the draft's active flag.
func (d AccountDraft) Active() bool {
	return d.IsActive == nil || *d.IsActive
}

// AccountPatch describes a partial update. Nil fields are left untouched.
// Version, when set, is the version the caller last observed.
type AccountPatch struct {
	Name        *string
	Description *string
	Balance     *decimal.Decimal
	IsActive    *bool
	Version     *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p AccountPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Balance == nil && p.IsActive == nil
}

// Apply returns a copy of the account with the patch fields applied.
func (p AccountPatch) Apply(acc Account) Account {
	if p.Name != nil {
		acc.Name = *p.Name
	}
	if p.Description != nil {
		acc.Description = *p.Description
	}
	if p.Balance != nil {
		acc.Balance = *p.Balance
	}
	if p.IsActive != nil {
		acc.IsActive = *p.IsActive
	}
	return acc
}
