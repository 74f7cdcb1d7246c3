package dto

import (
	"time"

	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"` // Optional
	Balance     *decimal.Decimal `json:"balance" binding:"required"`
	IsActive    *bool            `json:"isActive"` // Optional, nil means active
}

// ToDraft converts the request to the core create input.
func (r CreateAccountRequest) ToDraft() domain.AccountDraft {
	draft := domain.AccountDraft{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
	if r.Balance != nil {
		draft.Balance = *r.Balance
	}
	return draft
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Balance     *decimal.Decimal `json:"balance"`
	IsActive    *bool            `json:"isActive"`
	Version     *int64           `json:"version"` // Optional: the version the client last saw
}

// ToPatch converts the request to the core partial update.
func (r UpdateAccountRequest) ToPatch() domain.AccountPatch {
	return domain.AccountPatch{
		Name:        r.Name,
		Description: r.Description,
		Balance:     r.Balance,
		IsActive:    r.IsActive,
		Version:     r.Version,
	}
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID   string          `json:"accountId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   acc.AccountID,
		Name:        acc.Name,
		Description: acc.Description,
		Balance:     acc.Balance,
		IsActive:    acc.IsActive,
		Version:     acc.Version,
		CreatedAt:   acc.CreatedAt,
		UpdatedAt:   acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
