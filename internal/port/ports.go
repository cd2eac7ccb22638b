// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/query"
)

// TransactionStore is the data-store surface the ledger core needs:
// insert, point lookup, filtered count and filtered range select. The
// count and select operations of one request always carry the same
// predicate (built once by the query planner).
type TransactionStore interface {
	Insert(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	CountWhere(ctx context.Context, op query.Operation) (int, error)
	SelectWhere(ctx context.Context, op query.Operation) ([]domain.Transaction, error)
}

// AuthStore persists user accounts for the authentication gate.
type AuthStore interface {
	InsertUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
