package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/acmebank/account_ledger_app/internal/apperrors"
	"github.com/acmebank/account_ledger_app/internal/core/domain"
	portsrepo "github.com/acmebank/account_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/acmebank/account_ledger_app/internal/core/ports/services"
	"github.com/acmebank/account_ledger_app/internal/dto"
	"github.com/acmebank/account_ledger_app/internal/middleware"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	maxOperationIDLen   = 100
	maxTransactionIDLen = 100
	maxReasonLen        = 255
)

// mutationService is the balance mutation engine. It is the sole writer of
// account balances and the sole creator of ledger rows. Each apply either
// commits the new balance together with its ledger row, or changes nothing.
type mutationService struct {
	txManager     portsrepo.TxManager
	accountRepo   portsrepo.AccountRepository
	operationRepo portsrepo.OperationRepository
	maxAttempts   int
}

// NewMutationService creates the mutation engine. maxAttempts caps retries
// on transient database conflicts before giving up with
// apperrors.ErrConcurrencyExhausted.
func NewMutationService(txManager portsrepo.TxManager, accountRepo portsrepo.AccountRepository, operationRepo portsrepo.OperationRepository, maxAttempts int) portssvc.MutationSvc {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &mutationService{
		txManager:     txManager,
		accountRepo:   accountRepo,
		operationRepo: operationRepo,
		maxAttempts:   maxAttempts,
	}
}

// Ensure mutationService implements the MutationSvc interface.
var _ portssvc.MutationSvc = (*mutationService)(nil)

func validateApplyRequest(req dto.ApplyOperationRequest) error {
	if req.OperationID == "" || len(req.OperationID) > maxOperationIDLen {
		return fmt.Errorf("%w: operationID is required and must be at most %d characters", apperrors.ErrValidation, maxOperationIDLen)
	}
	if req.TransactionID == "" || len(req.TransactionID) > maxTransactionIDLen {
		return fmt.Errorf("%w: transactionID is required and must be at most %d characters", apperrors.ErrValidation, maxTransactionIDLen)
	}
	if len(req.Reason) > maxReasonLen {
		return fmt.Errorf("%w: reason must be at most %d characters", apperrors.ErrValidation, maxReasonLen)
	}
	return nil
}

// Apply applies a signed delta to a single account's balance, exactly once
// per (operationID, accountID). Duplicate submissions are not errors: they
// return the current balance with applied=false, so a retried request after
// a transport timeout is always safe.
func (s *mutationService) Apply(ctx context.Context, accountID string, req dto.ApplyOperationRequest) (*dto.MutationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateApplyRequest(req); err != nil {
		return nil, err
	}

	// Dedup lookup first: a recorded operation means a previous attempt
	// already committed, whatever the caller observed at the transport layer.
	_, err := s.operationRepo.FindOperation(ctx, req.OperationID, accountID)
	if err == nil {
		return s.duplicateResult(ctx, accountID, req.OperationID)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("dedup lookup failed: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result, err := s.applyOnce(ctx, accountID, req)
		if err == nil {
			return result, nil
		}
		if !isRetryableConflict(err) {
			return nil, err
		}
		lastErr = err
		logger.Warn("Retrying contended mutation",
			slog.String("account_id", accountID),
			slog.String("operation_id", req.OperationID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}

	logger.Error("Mutation retry budget exhausted",
		slog.String("account_id", accountID),
		slog.String("operation_id", req.OperationID),
		slog.String("last_error", lastErr.Error()))
	return nil, fmt.Errorf("%w: operation %s on account %s", apperrors.ErrConcurrencyExhausted, req.OperationID, accountID)
}

// applyOnce runs one transactional attempt: lock the account row, compute
// and validate the candidate balance, then write balance and ledger row
// atomically. The composite-key insert conflict is mapped back to the
// duplicate-submission result instead of an error.
func (s *mutationService) applyOnce(ctx context.Context, accountID string, req dto.ApplyOperationRequest) (*dto.MutationResult, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	finished := false
	defer func() {
		if !finished {
			_ = s.txManager.Rollback(ctx, tx)
		}
	}()

	account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	candidate := account.Balance.Add(req.Delta)
	if candidate.IsNegative() && !req.AllowNegative {
		return nil, fmt.Errorf("%w: balance %s cannot absorb delta %s on account %s",
			apperrors.ErrInsufficientFunds, account.Balance.String(), req.Delta.String(), accountID)
	}

	now := time.Now().UTC()
	op := domain.AccountOperation{
		OperationID:   req.OperationID,
		AccountID:     accountID,
		Delta:         req.Delta,
		TransactionID: req.TransactionID,
		Reason:        req.Reason,
		AppliedAt:     now,
	}

	if err := s.operationRepo.InsertOperationInTx(ctx, tx, op); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the race: a concurrent submission of the same operation
			// committed between our dedup lookup and our row lock. Treat it
			// as a duplicate, not a failure.
			_ = s.txManager.Rollback(ctx, tx)
			finished = true
			return s.duplicateResult(ctx, accountID, req.OperationID)
		}
		return nil, err
	}

	if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, accountID, candidate, now); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, err
	}
	finished = true

	return &dto.MutationResult{NewBalance: candidate, Applied: true}, nil
}

// duplicateResult re-reads the current balance for a submission whose
// operation id was already recorded. The winner holds no lock anymore at
// this point, so a plain read is consistent.
func (s *mutationService) duplicateResult(ctx context.Context, accountID string, operationID string) (*dto.MutationResult, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance for duplicate operation %s: %w", operationID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Duplicate operation submission",
		slog.String("account_id", accountID),
		slog.String("operation_id", operationID))
	return &dto.MutationResult{NewBalance: account.Balance, Applied: false}, nil
}

// ListOperations returns a page of the account's ledger for audit use.
func (s *mutationService) ListOperations(ctx context.Context, accountID string, limit int, offset int) ([]domain.AccountOperation, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.operationRepo.ListOperationsByAccount(ctx, accountID, limit, offset)
}

// isRetryableConflict reports whether the error is a transient database
// conflict worth another attempt: serialization failure or deadlock.
func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
