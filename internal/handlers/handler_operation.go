package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/acmebank/account_ledger_app/internal/apperrors"
	"github.com/acmebank/account_ledger_app/internal/core/domain"
	portssvc "github.com/acmebank/account_ledger_app/internal/core/ports/services"
	"github.com/acmebank/account_ledger_app/internal/dto"
	"github.com/acmebank/account_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// operationHandler handles balance mutations and ledger queries.
type operationHandler struct {
	mutationService portssvc.MutationSvc
}

func newOperationHandler(ms portssvc.MutationSvc) *operationHandler {
	return &operationHandler{mutationService: ms}
}

// registerOperationRoutes registers the ledger routes with their required
// roles: mutations demand ledger:write, queries ledger:read.
func registerOperationRoutes(rg *gin.RouterGroup, mutationService portssvc.MutationSvc) {
	h := newOperationHandler(mutationService)

	ops := rg.Group("/accounts/:accountID/operations")
	{
		ops.POST("", middleware.RequireRole(domain.RoleLedgerWrite), h.applyOperation)
		ops.GET("", middleware.RequireRole(domain.RoleLedgerRead), h.listOperations)
	}
}

// applyOperation godoc
// @Summary Apply a balance mutation to an account
// @Description Applies a signed delta exactly once per operationID. A duplicate submission returns the current balance with applied=false.
// @Tags operations
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param operation body dto.ApplyOperationRequest true "Mutation details"
// @Success 200 {object} dto.MutationResult
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 403 {object} map[string]string "Missing ledger:write role"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 503 {object} map[string]string "Contention retry budget exhausted; safe to retry"
// @Security BearerAuth
// @Router /accounts/{accountID}/operations [post]
func (h *operationHandler) applyOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.ApplyOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for applyOperation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.mutationService.Apply(c.Request.Context(), accountID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConcurrencyExhausted):
			// Retrying the identical request is safe: the idempotency key
			// guarantees at-most-once application.
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Operation contended, please retry"})
		default:
			logger.Error("Failed to apply operation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply operation"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// listOperations godoc
// @Summary List applied operations for an account
// @Description Returns the append-only ledger for an account ordered by application time
// @Tags operations
// @Produce json
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListOperationsResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/operations [get]
func (h *operationHandler) listOperations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListOperationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	operations, err := h.mutationService.ListOperations(c.Request.Context(), accountID, params.Limit, params.Offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to list operations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list operations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListOperationsResponse(operations))
}
