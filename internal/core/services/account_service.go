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
	"github.com/google/uuid"
)

// accountService provides account lifecycle operations.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvc {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the AccountSvc interface.
var _ portssvc.AccountSvc = (*accountService)(nil)

// CreateAccount constructs and persists a new account of the requested
// variant. User principals own the accounts they create; internal services
// must name the owner explicitly.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creator domain.Principal) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ownerID := req.OwnerID
	if ownerID == "" {
		if creator.Kind != domain.UserPrincipal {
			return nil, fmt.Errorf("%w: ownerID is required for service callers", apperrors.ErrValidation)
		}
		ownerID = creator.Subject
	}

	now := time.Now().UTC()
	account, err := domain.NewAccount(domain.NewAccountParams{
		AccountID:    uuid.NewString(),
		OwnerID:      ownerID,
		Variant:      req.Variant,
		Balance:      req.Balance,
		InterestRate: req.InterestRate,
		CreditLimit:  req.CreditLimit,
		DueDate:      req.DueDate,
	}, now)
	if err != nil {
		logger.Warn("Account construction failed validation", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.accountRepo.SaveAccount(ctx, *account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("variant", string(account.Variant)))
	return account, nil
}

// GetAccountByID retrieves an account by its ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return account, nil
}

// ListAccountsByOwner retrieves a page of an owner's accounts.
func (s *accountService) ListAccountsByOwner(ctx context.Context, ownerID string, limit int, offset int) ([]domain.Account, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: ownerID must not be empty", apperrors.ErrValidation)
	}
	return s.accountRepo.ListAccountsByOwner(ctx, ownerID, limit, offset)
}
