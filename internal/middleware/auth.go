package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/acmebank/account_ledger_app/internal/apperrors"
	"github.com/acmebank/account_ledger_app/internal/core/domain"
	portssvc "github.com/acmebank/account_ledger_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware is the authentication half of the gate: it extracts the
// bearer credential, resolves it to a principal (user or internal service)
// via the auth service, and stores the principal in the request context.
// Requests without a valid credential never reach the handlers behind it.
func AuthMiddleware(authSvc portssvc.AuthSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		principal, err := authSvc.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("Token rejected", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, apperrors.ErrNotFound) {
				msg = "Unknown subject"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		// Store the principal and a principal-enriched logger in the
		// request context for downstream handlers and services.
		ctx := context.WithValue(c.Request.Context(), principalCtxKey, *principal)
		enriched := logger.With(
			slog.String("principal_kind", string(principal.Kind)),
			slog.String("principal_subject", principal.Subject),
		)
		c.Request = c.Request.WithContext(CtxWithLogger(ctx, enriched))

		c.Next()
	}
}

// RequireRole is the authorization half of the gate: route registration
// attaches it per group with the role that group's operations demand.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		principal, ok := GetPrincipalFromContext(c)
		if !ok {
			logger.Error("No principal in context on protected route")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if !principal.HasRole(role) {
			logger.Warn("Principal lacks required role", slog.String("required_role", string(role)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this operation"})
			return
		}

		c.Next()
	}
}
