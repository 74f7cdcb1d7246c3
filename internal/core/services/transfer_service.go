package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/benefit_accounts_app/internal/apperrors"
	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
	portsrepo "github.com/SscSPs/benefit_accounts_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/benefit_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/benefit_accounts_app/internal/core/validation"
	"github.com/SscSPs/benefit_accounts_app/internal/utils/retry"
)

const (
	DefaultTransferMaxAttempts    = 3
	DefaultTransferRetryBaseDelay = 10 * time.Millisecond
)

// transferService moves value between two accounts using optimistic concurrency.
// No lock is held between reading the accounts and committing them; a concurrent
// writer is detected by the store's version check and the whole transfer is redone.
type transferService struct {
	BaseService
	accountRepo    portsrepo.AccountRepositoryFacade
	maxAttempts    int
	retryBaseDelay time.Duration
}

// TransferOption is a functional option for configuring the transfer service
type TransferOption func(*transferService)

// WithMaxAttempts bounds how many times a conflicting transfer is attempted.
func WithMaxAttempts(n int) TransferOption {
	return func(s *transferService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRetryBaseDelay sets the base of the jittered exponential wait between attempts.
// Zero retries immediately.
func WithRetryBaseDelay(d time.Duration) TransferOption {
	return func(s *transferService) {
		if d >= 0 {
			s.retryBaseDelay = d
		}
	}
}

// NewTransferService creates a new transfer service with the provided options
func NewTransferService(repo portsrepo.AccountRepositoryFacade, options ...TransferOption) portssvc.TransferSvc {
	svc := &transferService{
		accountRepo:    repo,
		maxAttempts:    DefaultTransferMaxAttempts,
		retryBaseDelay: DefaultTransferRetryBaseDelay,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransferSvc = (*transferService)(nil)

// Transfer validates req and commits it, retrying from a fresh read when a
// concurrent write invalidated the versions it read. Only conflicts are retried.
func (s *transferService) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	logAttrs := []any{
		slog.String("from_account_id", req.FromID),
		slog.String("to_account_id", req.ToID),
		slog.String("amount", req.Amount.String()),
	}

	if err := validation.ValidateTransfer(req.FromID, req.ToID, req.Amount); err != nil {
		s.LogWarn(ctx, err, "Rejected transfer request", logAttrs...)
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := s.attempt(ctx, req)
		if err == nil {
			result.Attempts = attempt
			s.LogInfo(ctx, "Transfer completed", append(logAttrs,
				slog.Int("attempts", attempt),
				slog.Int64("from_version", result.From.Version),
				slog.Int64("to_version", result.To.Version))...)
			return result, nil
		}

		if !errors.Is(err, apperrors.ErrConflict) {
			if isBusinessRule(err) {
				s.LogWarn(ctx, err, "Transfer rejected", logAttrs...)
			} else {
				s.LogError(ctx, err, "Transfer failed", logAttrs...)
			}
			return nil, err
		}

		lastErr = err
		s.LogWarn(ctx, err, "Transfer hit a concurrent modification", append(logAttrs, slog.Int("attempt", attempt))...)

		if attempt < s.maxAttempts {
			if err := retry.Sleep(ctx, retry.Delay(s.retryBaseDelay, attempt-1)); err != nil {
				return nil, err
			}
		}
	}

	s.LogWarn(ctx, lastErr, "Transfer retries exhausted", append(logAttrs, slog.Int("attempts", s.maxAttempts))...)
	return nil, fmt.Errorf("transfer not committed after %d attempts: %w", s.maxAttempts, lastErr)
}

// attempt runs one load, check, mutate and commit cycle.
// All mutation happens on local copies until SaveAccounts commits both legs together.
func (s *transferService) attempt(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	from, err := s.load(ctx, req.FromID, "source account")
	if err != nil {
		return nil, err
	}
	to, err := s.load(ctx, req.ToID, "destination account")
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateTransferable(from); err != nil {
		return nil, err
	}
	if err := validation.ValidateTransferable(to); err != nil {
		return nil, err
	}
	if err := validation.ValidateSufficientFunds(from, req.Amount); err != nil {
		return nil, err
	}

	from.Balance = from.Balance.Sub(req.Amount)
	to.Balance = to.Balance.Add(req.Amount)

	// Last point where cancellation leaves nothing behind.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saved, err := s.accountRepo.SaveAccounts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(saved) != 2 {
		return nil, fmt.Errorf("store returned %d accounts for a two-leg transfer", len(saved))
	}

	return &domain.TransferResult{
		From:   saved[0],
		To:     saved[1],
		Amount: req.Amount,
	}, nil
}

func (s *transferService) load(ctx context.Context, accountID, side string) (domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Account{}, apperrors.NewNotFound(side, accountID)
		}
		return domain.Account{}, fmt.Errorf("failed to load %s %s: %w", side, accountID, err)
	}
	return *acc, nil
}

func isBusinessRule(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrInactiveAccount) ||
		errors.Is(err, apperrors.ErrInsufficientBalance) ||
		errors.Is(err, apperrors.ErrInvalidTransfer) ||
		errors.Is(err, apperrors.ErrValidation)
}
