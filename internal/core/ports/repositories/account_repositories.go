package repositories

import (
	"context"

	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	// Returns *apperrors.NotFoundError when the account does not exist.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves every account in creation order.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListActiveAccounts retrieves every active account in creation order.
	ListActiveAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
//
// Every Save* method is a compare-and-set on Account.Version: the write only
// applies when the supplied version equals the stored one, in which case the
// store increments the version and stamps UpdatedAt. On mismatch it returns an
// *apperrors.ConflictError and leaves the stored record untouched.
type AccountWriter interface {
	// CreateAccount assigns id, initial version and timestamps and persists the draft.
	CreateAccount(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error)

	// SaveAccount persists the mutable fields of a single account.
	SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error)

	// SaveAccounts persists several accounts atomically: either every version
	// check succeeds and every write applies, or nothing is written.
	SaveAccounts(ctx context.Context, accounts ...domain.Account) ([]domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
