package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/SscSPs/benefit_accounts_app/internal/apperrors"
	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func mustCreate(t *testing.T, r *AccountRepository, name, balance string) *domain.Account {
	t.Helper()
	acc, err := r.CreateAccount(context.Background(), domain.AccountDraft{
		Name:    name,
		Balance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return acc
}

func TestCreateAccount_AssignsIdentityAndVersion(t *testing.T) {
	r := NewAccountRepository()

	acc := mustCreate(t, r, "Meal", "1000.00")

	assert.NotEmpty(t, acc.AccountID)
	assert.Equal(t, domain.InitialVersion, acc.Version)
	assert.True(t, acc.IsActive)
	assert.False(t, acc.CreatedAt.IsZero())
	assert.Equal(t, acc.CreatedAt, acc.UpdatedAt)

	inactive, err := r.CreateAccount(context.Background(), domain.AccountDraft{Name: "Frozen", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)
}

func TestCreateAccount_RejectsInvalidDraft(t *testing.T) {
	r := NewAccountRepository()

	_, err := r.CreateAccount(context.Background(), domain.AccountDraft{Name: " ", Balance: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	all, err := r.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFindAccountByID_NotFound(t *testing.T) {
	r := NewAccountRepository()

	_, err := r.FindAccountByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFindAccountByID_ReturnsCopy(t *testing.T) {
	r := NewAccountRepository()
	acc := mustCreate(t, r, "Meal", "10.00")

	found, err := r.FindAccountByID(context.Background(), acc.AccountID)
	require.NoError(t, err)
	found.Balance = decimal.NewFromInt(999)

	again, err := r.FindAccountByID(context.Background(), acc.AccountID)
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.RequireFromString("10.00")))
}

func TestListAccounts_CreationOrderAndActiveFilter(t *testing.T) {
	r := NewAccountRepository()
	a := mustCreate(t, r, "A", "1")
	b := mustCreate(t, r, "B", "2")
	c := mustCreate(t, r, "C", "3")

	b.IsActive = false
	_, err := r.SaveAccount(context.Background(), *b)
	require.NoError(t, err)

	all, err := r.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{a.AccountID, b.AccountID, c.AccountID},
		[]string{all[0].AccountID, all[1].AccountID, all[2].AccountID})

	active, err := r.ListActiveAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, a.AccountID, active[0].AccountID)
	assert.Equal(t, c.AccountID, active[1].AccountID)
}

func TestSaveAccount_IncrementsVersion(t *testing.T) {
	r := NewAccountRepository()
	acc := mustCreate(t, r, "Meal", "100.00")

	acc.Name = "Meal voucher"
	saved, err := r.SaveAccount(context.Background(), *acc)
	require.NoError(t, err)
	assert.Equal(t, acc.Version+1, saved.Version)
	assert.Equal(t, "Meal voucher", saved.Name)
	assert.Equal(t, acc.CreatedAt, saved.CreatedAt)

	saved.Description = "monthly"
	again, err := r.SaveAccount(context.Background(), *saved)
	require.NoError(t, err)
	assert.Equal(t, saved.Version+1, again.Version)
}

func TestSaveAccount_StaleVersionIsRejectedWithoutMutation(t *testing.T) {
	r := NewAccountRepository()
	acc := mustCreate(t, r, "Meal", "100.00")

	fresh := *acc
	fresh.Balance = decimal.RequireFromString("50.00")
	_, err := r.SaveAccount(context.Background(), fresh)
	require.NoError(t, err)

	stale := *acc
	stale.Balance = decimal.RequireFromString("0.00")
	_, err = r.SaveAccount(context.Background(), stale)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := r.FindAccountByID(context.Background(), acc.AccountID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, acc.Version+1, stored.Version)
}

func TestSaveAccount_RejectsNegativeBalance(t *testing.T) {
	r := NewAccountRepository()
	acc := mustCreate(t, r, "Meal", "1.00")

	acc.Balance = decimal.RequireFromString("-0.01")
	_, err := r.SaveAccount(context.Background(), *acc)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSaveAccounts_AllOrNothing(t *testing.T) {
	r := NewAccountRepository()
	a := mustCreate(t, r, "A", "100.00")
	b := mustCreate(t, r, "B", "100.00")

	// Someone else bumps B.
	_, err := r.SaveAccount(context.Background(), *b)
	require.NoError(t, err)

	a.Balance = decimal.RequireFromString("0.00")
	b.Balance = decimal.RequireFromString("200.00")
	_, err = r.SaveAccounts(context.Background(), *a, *b)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	storedA, err := r.FindAccountByID(context.Background(), a.AccountID)
	require.NoError(t, err)
	assert.Equal(t, a.Version, storedA.Version, "first leg must not be applied when the second conflicts")
	assert.True(t, storedA.Balance.Equal(decimal.RequireFromString("100.00")))
}

func TestSaveAccounts_RejectsDuplicatesAndUnknown(t *testing.T) {
	r := NewAccountRepository()
	a := mustCreate(t, r, "A", "1")

	_, err := r.SaveAccounts(context.Background(), *a, *a)
	assert.ErrorContains(t, err, "more than once")

	ghost := *a
	ghost.AccountID = "ghost"
	_, err = r.SaveAccounts(context.Background(), *a, ghost)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	stored, err := r.FindAccountByID(context.Background(), a.AccountID)
	require.NoError(t, err)
	assert.Equal(t, a.Version, stored.Version)
}

func TestSaveAccount_ConcurrentWritersOnSameVersion(t *testing.T) {
	r := NewAccountRepository()
	acc := mustCreate(t, r, "Meal", "100.00")

	const writers = 32
	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			attempt := *acc
			attempt.Balance = decimal.NewFromInt(int64(i))
			_, err := r.SaveAccount(context.Background(), attempt)
			switch {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, apperrors.ErrConflict):
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(writers-1), conflicts.Load())

	stored, err := r.FindAccountByID(context.Background(), acc.AccountID)
	require.NoError(t, err)
	assert.Equal(t, acc.Version+1, stored.Version)
}

func TestCancelledContext(t *testing.T) {
	r := NewAccountRepository()
	acc := mustCreate(t, r, "Meal", "1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.SaveAccount(ctx, *acc)
	assert.ErrorIs(t, err, context.Canceled)

	stored, err := r.FindAccountByID(context.Background(), acc.AccountID)
	require.NoError(t, err)
	assert.Equal(t, acc.Version, stored.Version)
}
