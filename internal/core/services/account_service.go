package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/benefit_accounts_app/internal/apperrors"
	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
	portsrepo "github.com/SscSPs/benefit_accounts_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/benefit_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/benefit_accounts_app/internal/core/validation"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service backed by repo.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error) {
	if err := validation.ValidateAccountDraft(draft.Name, draft.Description, draft.Balance); err != nil {
		s.LogWarn(ctx, err, "Rejected account draft", slog.String("account_name", draft.Name))
		return nil, err
	}

	account, err := s.accountRepo.CreateAccount(ctx, draft)
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("account_name", draft.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("account_name", account.Name))
	return account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		// NotFound is an expected outcome, don't log it as an error
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.LogDebug(ctx, "Account retrieved successfully", slog.String("account_id", account.AccountID))
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}

	s.LogDebug(ctx, "Accounts listed successfully", slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) ListActiveAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListActiveAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active accounts")
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}

	s.LogDebug(ctx, "Active accounts listed successfully", slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, patch domain.AccountPatch) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// The caller edited a version it had read earlier; refuse to overwrite a newer one.
	if patch.Version != nil && *patch.Version != account.Version {
		err := apperrors.NewConflict(accountID)
		s.LogWarn(ctx, err, "Stale version supplied for account update",
			slog.String("account_id", accountID),
			slog.Int64("supplied_version", *patch.Version),
			slog.Int64("current_version", account.Version))
		return nil, err
	}

	if patch.IsEmpty() {
		s.LogDebug(ctx, "No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	updated := patch.Apply(*account)
	if err := validation.ValidateAccount(updated); err != nil {
		s.LogWarn(ctx, err, "Rejected account update", slog.String("account_id", accountID))
		return nil, err
	}

	saved, err := s.accountRepo.SaveAccount(ctx, updated)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.LogWarn(ctx, err, "Account modified concurrently during update", slog.String("account_id", accountID))
		} else {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", saved.AccountID),
		slog.Int64("version", saved.Version))
	return saved, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string) error {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !account.IsActive {
		s.LogDebug(ctx, "Account already inactive", slog.String("account_id", accountID))
		return nil
	}

	account.IsActive = false
	if _, err := s.accountRepo.SaveAccount(ctx, *account); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.LogWarn(ctx, err, "Account modified concurrently during deactivation", slog.String("account_id", accountID))
		} else {
			s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		}
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully", slog.String("account_id", accountID))
	return nil
}
