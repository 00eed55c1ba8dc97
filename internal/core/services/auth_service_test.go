package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/acmebank/account_ledger_app/internal/apperrors"
	"github.com/acmebank/account_ledger_app/internal/core/domain"
	portssvc "github.com/acmebank/account_ledger_app/internal/core/ports/services"
	"github.com/acmebank/account_ledger_app/internal/core/services"
	"github.com/acmebank/account_ledger_app/internal/platform/config"
	"github.com/acmebank/account_ledger_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	cfg      *config.Config
	mockRepo *MockUserRepository
	service  portssvc.AuthSvc
	ctx      context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.cfg = &config.Config{
		JWTSecret:          "user-token-test-secret",
		JWTExpiryDuration:  time.Hour,
		JWTIssuer:          "account-ledger-app",
		ServiceTokenSecret: "service-token-test-secret",
		ServiceTokenIssuer: "account-ledger-internal",
	}
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewAuthService(suite.cfg, suite.mockRepo)
	suite.ctx = context.Background()
}

func (suite *AuthServiceTestSuite) userToken(userID string) string {
	token, err := utils.GenerateUserJWT(userID, suite.cfg.JWTSecret, suite.cfg.JWTExpiryDuration, suite.cfg.JWTIssuer)
	require.NoError(suite.T(), err)
	return token
}

func (suite *AuthServiceTestSuite) serviceToken(serviceID string, roles []string) string {
	token, err := utils.GenerateServiceJWT(serviceID, roles, suite.cfg.ServiceTokenSecret, time.Hour, suite.cfg.ServiceTokenIssuer)
	require.NoError(suite.T(), err)
	return token
}

func (suite *AuthServiceTestSuite) TestAuthenticate_ServiceToken() {
	token := suite.serviceToken("billing-svc", []string{"ledger:write", "ledger:read"})

	principal, err := suite.service.Authenticate(suite.ctx, token)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.ServicePrincipal, principal.Kind)
	assert.Equal(suite.T(), "billing-svc", principal.Subject)
	assert.True(suite.T(), principal.HasRole(domain.RoleLedgerWrite))
	assert.True(suite.T(), principal.HasRole(domain.RoleLedgerRead))
	assert.False(suite.T(), principal.HasRole(domain.RoleAccountManage))
	// Service principals are never resolved against the user store.
	suite.mockRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_UserToken() {
	token := suite.userToken("user-1")
	user := &domain.User{
		UserID:   "user-1",
		Username: "alice",
		Roles:    []domain.Role{domain.RoleLedgerRead, domain.RoleAccountManage},
	}

	suite.mockRepo.On("FindUserByID", suite.ctx, "user-1").Return(user, nil).Once()

	principal, err := suite.service.Authenticate(suite.ctx, token)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.UserPrincipal, principal.Kind)
	assert.Equal(suite.T(), "user-1", principal.Subject)
	assert.True(suite.T(), principal.HasRole(domain.RoleLedgerRead))
	assert.False(suite.T(), principal.HasRole(domain.RoleLedgerWrite))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestAuthenticate_UnknownSubject() {
	token := suite.userToken("ghost")

	suite.mockRepo.On("FindUserByID", suite.ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	principal, err := suite.service.Authenticate(suite.ctx, token)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	assert.Nil(suite.T(), principal)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_GarbageToken() {
	principal, err := suite.service.Authenticate(suite.ctx, "not-a-jwt")

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	assert.Nil(suite.T(), principal)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_UserTokenWrongIssuer() {
	token, err := utils.GenerateUserJWT("user-1", suite.cfg.JWTSecret, time.Hour, "some-other-issuer")
	require.NoError(suite.T(), err)

	principal, err := suite.service.Authenticate(suite.ctx, token)

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	assert.Nil(suite.T(), principal)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_ServiceSecretDoesNotValidateUserToken() {
	// A token signed with the user secret must not be accepted as a service
	// token even if it parses; it falls through to the user path.
	token := suite.userToken("user-1")
	user := &domain.User{UserID: "user-1", Roles: []domain.Role{domain.RoleLedgerRead}}

	suite.mockRepo.On("FindUserByID", suite.ctx, "user-1").Return(user, nil).Once()

	principal, err := suite.service.Authenticate(suite.ctx, token)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.UserPrincipal, principal.Kind)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	hash, err := utils.HashPassword("s3cret-pw")
	require.NoError(suite.T(), err)
	user := &domain.User{
		UserID:       "user-1",
		Username:     "alice",
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleLedgerRead},
	}

	suite.mockRepo.On("FindUserByUsername", suite.ctx, "alice").Return(user, nil).Once()

	token, expiresAt, gotUser, err := suite.service.Login(suite.ctx, "alice", "s3cret-pw")

	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), token)
	assert.True(suite.T(), expiresAt.After(time.Now()))
	assert.Equal(suite.T(), user, gotUser)

	// The issued token round-trips through Authenticate.
	claims, err := utils.ParseUserJWT(token, suite.cfg.JWTSecret, suite.cfg.JWTIssuer)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user-1", claims.Subject)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	hash, err := utils.HashPassword("s3cret-pw")
	require.NoError(suite.T(), err)
	user := &domain.User{UserID: "user-1", Username: "alice", PasswordHash: hash}

	suite.mockRepo.On("FindUserByUsername", suite.ctx, "alice").Return(user, nil).Once()

	token, _, gotUser, err := suite.service.Login(suite.ctx, "alice", "wrong")

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	assert.Empty(suite.T(), token)
	assert.Nil(suite.T(), gotUser)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUsername() {
	suite.mockRepo.On("FindUserByUsername", suite.ctx, "nobody").Return(nil, apperrors.ErrNotFound).Once()

	token, _, gotUser, err := suite.service.Login(suite.ctx, "nobody", "whatever")

	// Indistinguishable from a bad password.
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	assert.NotErrorIs(suite.T(), err, apperrors.ErrNotFound)
	assert.Empty(suite.T(), token)
	assert.Nil(suite.T(), gotUser)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
