package memory

import portsrepo "github.com/SscSPs/benefit_accounts_app/internal/core/ports/repositories"

// NewRepositoryProvider wires every in-memory repository.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: NewAccountRepository(),
	}
}
