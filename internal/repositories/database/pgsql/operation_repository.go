package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/acmebank/account_ledger_app/internal/apperrors"
	"github.com/acmebank/account_ledger_app/internal/core/domain"
	portsrepo "github.com/acmebank/account_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOperationRepository struct {
	BaseRepository
}

// NewOperationRepository creates a new repository for the operation ledger.
func NewOperationRepository(pool *pgxpool.Pool) *PgxOperationRepository {
	return &PgxOperationRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxOperationRepository implements portsrepo.OperationRepository.
var _ portsrepo.OperationRepository = (*PgxOperationRepository)(nil)

// FindOperation looks up a ledger row by its composite identity. This is the
// primary deduplication path for retried submissions.
func (r *PgxOperationRepository) FindOperation(ctx context.Context, operationID string, accountID string) (*domain.AccountOperation, error) {
	query := `
		SELECT operation_id, account_id, delta, transaction_id, reason, applied_at
		FROM account_operations
		WHERE operation_id = $1 AND account_id = $2;
	`
	var op domain.AccountOperation
	err := r.Pool.QueryRow(ctx, query, operationID, accountID).Scan(
		&op.OperationID,
		&op.AccountID,
		&op.Delta,
		&op.TransactionID,
		&op.Reason,
		&op.AppliedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find operation %s for account %s: %w", operationID, accountID, err)
	}
	return &op, nil
}

// InsertOperationInTx appends a ledger row within the caller's transaction.
// The (operation_id, account_id) primary key makes the insert the race
// backstop: when two submissions of the same operation both pass the dedup
// lookup, exactly one insert succeeds and the other gets ErrDuplicate.
func (r *PgxOperationRepository) InsertOperationInTx(ctx context.Context, tx pgx.Tx, op domain.AccountOperation) error {
	query := `
		INSERT INTO account_operations (operation_id, account_id, delta, transaction_id, reason, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := tx.Exec(ctx, query,
		op.OperationID,
		op.AccountID,
		op.Delta,
		op.TransactionID,
		op.Reason,
		op.AppliedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: operation %s already applied to account %s", apperrors.ErrDuplicate, op.OperationID, op.AccountID)
		}
		return fmt.Errorf("failed to insert operation %s for account %s: %w", op.OperationID, op.AccountID, err)
	}
	return nil
}

// ListOperationsByAccount retrieves a page of the append-only ledger for an
// account, ordered by when each operation was applied. Paging by offset keeps
// the sequence restartable for audit consumers.
func (r *PgxOperationRepository) ListOperationsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.AccountOperation, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT operation_id, account_id, delta, transaction_id, reason, applied_at
		FROM account_operations
		WHERE account_id = $1
		ORDER BY applied_at, operation_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations for account %s: %w", accountID, err)
	}
	defer rows.Close()

	ops := []domain.AccountOperation{}
	for rows.Next() {
		var op domain.AccountOperation
		if err := rows.Scan(
			&op.OperationID,
			&op.AccountID,
			&op.Delta,
			&op.TransactionID,
			&op.Reason,
			&op.AppliedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan operation row for account %s: %w", accountID, err)
		}
		ops = append(ops, op)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating operation rows for account %s: %w", accountID, rows.Err())
	}
	return ops, nil
}
