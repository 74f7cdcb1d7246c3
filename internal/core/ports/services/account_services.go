package services

import (
	"context"

	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves every account.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListActiveAccounts retrieves the accounts that are not soft deleted.
	ListActiveAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount validates and persists a new account.
	CreateAccount(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error)

	// UpdateAccount applies a partial update guarded by the account version.
	UpdateAccount(ctx context.Context, accountID string, patch domain.AccountPatch) (*domain.Account, error)

	// DeactivateAccount soft deletes an account. Deactivating twice is a no-op.
	DeactivateAccount(ctx context.Context, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

// TransferSvc moves value between two accounts.
type TransferSvc interface {
	Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
}
