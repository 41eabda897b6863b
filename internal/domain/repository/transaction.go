package repository

import "context"

// TransactionManager runs a unit of work atomically. Repositories obtained from
// the factory see and write only the transaction's state; anything else bypasses it.
type TransactionManager interface {
	// Execute commits when fn returns nil and rolls back otherwise, including on panic.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to one transaction.
type RepositoryFactory interface {
	UserRepo() UserRepository
	DocumentRepo() DocumentRepository
}
