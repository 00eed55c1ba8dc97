package dto

import (
	"time"

	"github.com/acmebank/account_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyOperationRequest is an inbound balance mutation. OperationID is the
// caller-supplied idempotency key, scoped per account. TransactionID is a
// correlation identifier for cross-service tracing.
type ApplyOperationRequest struct {
	OperationID   string          `json:"operationID" binding:"required,max=100"`
	Delta         decimal.Decimal `json:"delta"`
	TransactionID string          `json:"transactionID" binding:"required,max=100"`
	Reason        string          `json:"reason" binding:"max=255"`
	AllowNegative bool            `json:"allowNegative"`
}

// MutationResult is the outcome of an apply call. Applied is false when the
// operation id had already been recorded for the account; the balance is then
// the current balance, unchanged by this submission.
type MutationResult struct {
	NewBalance decimal.Decimal `json:"newBalance"`
	Applied    bool            `json:"applied"`
}

// OperationResponse mirrors domain.AccountOperation for audit consumers.
type OperationResponse struct {
	OperationID   string          `json:"operationID"`
	AccountID     string          `json:"accountID"`
	Delta         decimal.Decimal `json:"delta"`
	TransactionID string          `json:"transactionID"`
	Reason        string          `json:"reason,omitempty"`
	AppliedAt     time.Time       `json:"appliedAt"`
}

// ToOperationResponse converts a domain operation to its DTO.
func ToOperationResponse(op domain.AccountOperation) OperationResponse {
	return OperationResponse{
		OperationID:   op.OperationID,
		AccountID:     op.AccountID,
		Delta:         op.Delta,
		TransactionID: op.TransactionID,
		Reason:        op.Reason,
		AppliedAt:     op.AppliedAt,
	}
}

// ListOperationsParams defines query parameters for the ledger listing.
type ListOperationsParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

// ListOperationsResponse wraps the ordered ledger page for an account.
type ListOperationsResponse struct {
	Operations []OperationResponse `json:"operations"`
}

// ToListOperationsResponse converts domain operations to the list DTO.
func ToListOperationsResponse(ops []domain.AccountOperation) ListOperationsResponse {
	res := make([]OperationResponse, len(ops))
	for i, op := range ops {
		res[i] = ToOperationResponse(op)
	}
	return ListOperationsResponse{Operations: res}
}
