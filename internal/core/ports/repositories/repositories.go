package repositories

import (
	"context"
	"time"

	"github.com/acmebank/account_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TxManager begins database transactions for callers that need to compose
// multiple repository writes atomically.
type TxManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// AccountRepository persists accounts. Balance writes only happen inside a
// transaction that also records the corresponding ledger operation.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// FindAccountByIDForUpdate locks the account row for the duration of the
	// transaction, serializing concurrent mutations on the same account.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)
	UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalance decimal.Decimal, now time.Time) error
	ListAccountsByOwner(ctx context.Context, ownerID string, limit int, offset int) ([]domain.Account, error)
}

// OperationRepository is the append-only operation ledger: the source of
// truth for deduplication and audit. There are no update or delete methods.
type OperationRepository interface {
	FindOperation(ctx context.Context, operationID string, accountID string) (*domain.AccountOperation, error)
	// InsertOperationInTx returns apperrors.ErrDuplicate when the composite
	// key (operationID, accountID) is already present. That conflict is the
	// concurrency-safety backstop when two submissions race past the dedup
	// lookup.
	InsertOperationInTx(ctx context.Context, tx pgx.Tx, op domain.AccountOperation) error
	ListOperationsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.AccountOperation, error)
}

// UserRepository persists end users and their granted roles.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
