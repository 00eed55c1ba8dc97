package services

import (
	"context"
	"time"

	"github.com/acmebank/account_ledger_app/internal/core/domain"
	"github.com/acmebank/account_ledger_app/internal/dto"
)

// AccountSvc exposes account lifecycle operations.
type AccountSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creator domain.Principal) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccountsByOwner(ctx context.Context, ownerID string, limit int, offset int) ([]domain.Account, error)
}

// MutationSvc is the balance mutation engine: it applies a signed delta to a
// single account exactly once per (operationID, accountID) pair.
type MutationSvc interface {
	Apply(ctx context.Context, accountID string, req dto.ApplyOperationRequest) (*dto.MutationResult, error)
	ListOperations(ctx context.Context, accountID string, limit int, offset int) ([]domain.AccountOperation, error)
}

// AuthSvc authenticates bearer credentials and issues user tokens.
type AuthSvc interface {
	// Authenticate resolves a bearer token to a principal, trying the
	// internal-service encoding first and the end-user encoding second.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	Login(ctx context.Context, username string, password string) (string, time.Time, *domain.User, error)
}

// ServiceContainer bundles the service facades for route registration.
type ServiceContainer struct {
	Account  AccountSvc
	Mutation MutationSvc
	Auth     AuthSvc
}
