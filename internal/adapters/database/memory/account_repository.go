// Package memory is an in-process account store. It honours the same
// compare-and-set contract as the PostgreSQL adapter and backs tests and
// database-less deployments.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/benefit_accounts_app/internal/apperrors"
	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
	portsrepo "github.com/SscSPs/benefit_accounts_app/internal/core/ports/repositories"
	"github.com/SscSPs/benefit_accounts_app/internal/core/validation"
	"github.com/google/uuid"
)

// AccountRepository keeps accounts in a map guarded by a mutex.
// The mutex only covers the version check and the write itself, never a
// caller's read-modify-write cycle.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	order    []string
	now      func() time.Time
}

// NewAccountRepository creates an empty in-memory account store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]domain.Account),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) CreateAccount(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validation.ValidateAccountDraft(draft.Name, draft.Description, draft.Balance); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account id: %w", err)
	}

	now := r.now()
	account := domain.Account{
		AccountID:   id.String(),
		Name:        draft.Name,
		Description: draft.Description,
		Balance:     draft.Balance,
		IsActive:    draft.Active(),
		Version:     domain.InitialVersion,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.AccountID]; exists {
		return nil, fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	r.accounts[account.AccountID] = account
	r.order = append(r.order, account.AccountID)

	return &account, nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFound("account", accountID)
	}
	return &account, nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.list(ctx, func(domain.Account) bool { return true })
}

func (r *AccountRepository) ListActiveAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.list(ctx, func(a domain.Account) bool { return a.IsActive })
}

func (r *AccountRepository) list(ctx context.Context, keep func(domain.Account) bool) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(r.order))
	for _, id := range r.order {
		if acc := r.accounts[id]; keep(acc) {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	saved, err := r.SaveAccounts(ctx, account)
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

// SaveAccounts checks every version before writing anything, so a batch either
// applies completely or not at all.
func (r *AccountRepository) SaveAccounts(ctx context.Context, accounts ...domain.Account) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return []domain.Account{}, nil
	}

	seen := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		if _, dup := seen[acc.AccountID]; dup {
			return nil, fmt.Errorf("account %s appears more than once in a single save", acc.AccountID)
		}
		seen[acc.AccountID] = struct{}{}
		if err := validation.ValidateAccount(acc); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, acc := range accounts {
		stored, ok := r.accounts[acc.AccountID]
		if !ok {
			return nil, apperrors.NewNotFound("account", acc.AccountID)
		}
		if stored.Version != acc.Version {
			return nil, apperrors.NewConflict(acc.AccountID)
		}
	}

	now := r.now()
	saved := make([]domain.Account, len(accounts))
	for i, acc := range accounts {
		stored := r.accounts[acc.AccountID]
		next := acc
		next.Version = stored.Version + 1
		next.CreatedAt = stored.CreatedAt
		next.UpdatedAt = now
		r.accounts[acc.AccountID] = next
		saved[i] = next
	}
	return saved, nil
}
