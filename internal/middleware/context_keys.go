package middleware

import (
	"context"

	"github.com/acmebank/account_ledger_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const principalCtxKey = contextKey("principal")

// GetPrincipalFromContext retrieves the authenticated principal resolved by
// the auth middleware. Returns false when the request is unauthenticated.
func GetPrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	return GetPrincipalFromCtx(c.Request.Context())
}

// GetPrincipalFromCtx is the standard-context variant for use in services.
func GetPrincipalFromCtx(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(domain.Principal)
	return p, ok
}
