package services

import (
	portsrepo "github.com/SscSPs/benefit_accounts_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/benefit_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/benefit_accounts_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo),
		Transfer: NewTransferService(
			repos.AccountRepo,
			WithMaxAttempts(cfg.TransferMaxAttempts),
			WithRetryBaseDelay(cfg.TransferRetryBaseDelay),
		),
	}
}
