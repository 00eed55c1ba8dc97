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
	"github.com/acmebank/account_ledger_app/internal/middleware"
	"github.com/acmebank/account_ledger_app/internal/platform/config"
	"github.com/acmebank/account_ledger_app/internal/utils"
)

// authService resolves bearer credentials to principals and issues user
// tokens. Two token encodings are recognized: internal-service tokens carry
// their role set in claims; end-user tokens carry only a subject whose roles
// are loaded from the user record.
type authService struct {
	cfg      *config.Config
	userRepo portsrepo.UserRepository
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepository) portssvc.AuthSvc {
	return &authService{cfg: cfg, userRepo: userRepo}
}

// Ensure authService implements the AuthSvc interface.
var _ portssvc.AuthSvc = (*authService)(nil)

// Authenticate validates a bearer token. The service encoding is tried
// first: internal services are first-class callers and must not impersonate
// a human principal. When neither encoding validates, the credential is
// rejected.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	if svcClaims, err := utils.ParseServiceJWT(token, s.cfg.ServiceTokenSecret, s.cfg.ServiceTokenIssuer); err == nil {
		roles := make([]domain.Role, len(svcClaims.Roles))
		for i, r := range svcClaims.Roles {
			roles[i] = domain.Role(r)
		}
		return &domain.Principal{
			Kind:    domain.ServicePrincipal,
			Subject: svcClaims.Subject,
			Roles:   roles,
		}, nil
	}

	userClaims, err := utils.ParseUserJWT(token, s.cfg.JWTSecret, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}
	if userClaims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByID(ctx, userClaims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Warn("Valid token for unknown user", slog.String("subject", userClaims.Subject))
			return nil, fmt.Errorf("%w: subject %s", apperrors.ErrNotFound, userClaims.Subject)
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	return &domain.Principal{
		Kind:    domain.UserPrincipal,
		Subject: user.UserID,
		Roles:   user.Roles,
	}, nil
}

// Login verifies end-user credentials and issues a user token.
func (s *authService) Login(ctx context.Context, username string, password string) (string, time.Time, *domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a bad password: do not reveal which usernames exist.
			return "", time.Time{}, nil, apperrors.ErrUnauthorized
		}
		logger.Error("Failed to look up user for login", slog.String("error", err.Error()))
		return "", time.Time{}, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Password mismatch on login", slog.String("username", username))
		return "", time.Time{}, nil, apperrors.ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateUserJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		return "", time.Time{}, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, expiresAt, user, nil
}
