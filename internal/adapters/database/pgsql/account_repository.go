package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/benefit_accounts_app/internal/apperrors"
	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
	portsrepo "github.com/SscSPs/benefit_accounts_app/internal/core/ports/repositories"
	"github.com/SscSPs/benefit_accounts_app/internal/core/validation"
	"github.com/SscSPs/benefit_accounts_app/internal/models"
	"github.com/SscSPs/benefit_accounts_app/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, name, description, balance, is_active, version, created_at, updated_at`

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// PgxAccountRepository stores accounts in PostgreSQL. Writes are conditional
// on the version column, which makes them compare-and-set operations.
type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	modelAccs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(modelAccs), nil
}

// CreateAccount inserts a new account with a fresh UUIDv7 id and the initial version.
func (r *PgxAccountRepository) CreateAccount(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error) {
	if err := validation.ValidateAccountDraft(draft.Name, draft.Description, draft.Balance); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account id: %w", err)
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + accountColumns + `;
	`
	rows, err := r.Pool.Query(ctx, query,
		id.String(),
		draft.Name,
		draft.Description,
		draft.Balance,
		draft.Active(),
		domain.InitialVersion,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save account %s: %w", id, err)
	}

	modelAcc, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapWriteError(err, id.String())
	}
	account := mapping.ToDomainAccount(modelAcc)
	return &account, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return findAccount(ctx, r.Pool, accountID)
}

// ListAccounts retrieves every account ordered by creation.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, account_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan account rows: %w", err)
	}
	return accounts, nil
}

// ListActiveAccounts retrieves every active account ordered by creation.
func (r *PgxAccountRepository) ListActiveAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE is_active = TRUE ORDER BY created_at, account_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active accounts: %w", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan active account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount persists a single account if its version is still current.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	saved, err := r.SaveAccounts(ctx, account)
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

// SaveAccounts persists every account in one transaction. Each row is updated
// only if its version still matches; the first mismatch rolls everything back.
// Rows are touched in id order so two batches over the same accounts cannot
// deadlock on row locks.
func (r *PgxAccountRepository) SaveAccounts(ctx context.Context, accounts ...domain.Account) ([]domain.Account, error) {
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

	order := make([]int, len(accounts))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return accounts[order[a]].AccountID < accounts[order[b]].AccountID
	})

	query := `
		UPDATE accounts
		SET name = $3, description = $4, balance = $5, is_active = $6, version = version + 1, updated_at = $7
		WHERE account_id = $1 AND version = $2
		RETURNING ` + accountColumns + `;
	`

	saved := make([]domain.Account, len(accounts))
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		for _, idx := range order {
			m := mapping.ToModelAccount(accounts[idx])
			rows, err := tx.Query(ctx, query, m.AccountID, m.Version, m.Name, m.Description, m.Balance, m.IsActive, now)
			if err != nil {
				return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
			}
			updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
			if errors.Is(err, pgx.ErrNoRows) {
				return classifyMissedUpdate(ctx, tx, m.AccountID)
			}
			if err != nil {
				return mapWriteError(err, m.AccountID)
			}
			saved[idx] = mapping.ToDomainAccount(updated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// classifyMissedUpdate tells a stale version apart from a missing row.
func classifyMissedUpdate(ctx context.Context, tx pgx.Tx, accountID string) error {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check account %s after rejected update: %w", accountID, err)
	}
	if !exists {
		return apperrors.NewNotFound("account", accountID)
	}
	return apperrors.NewConflict(accountID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func findAccount(ctx context.Context, q querier, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	rows, err := q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	modelAcc, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	account := mapping.ToDomainAccount(modelAcc)
	return &account, nil
}

func mapWriteError(err error, accountID string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, accountID)
		case pgCheckViolation:
			field := "account"
			switch pgErr.ConstraintName {
			case "accounts_balance_non_negative":
				field = "balance"
			case "accounts_name_not_blank":
				field = "name"
			}
			return apperrors.NewValidation(field, "violates constraint "+pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("failed to write account %s: %w", accountID, err)
}
