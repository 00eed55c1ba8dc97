package dto

import (
	"time"

	"github.com/acmebank/account_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// Variant-specific fields use pointers so absence can be distinguished from
// zero values. DueDate is validated by the custom "futuredate" binding rule.
type CreateAccountRequest struct {
	Variant      domain.AccountVariant `json:"variant" binding:"required,oneof=CHECKING SAVINGS CREDIT"`
	OwnerID      string                `json:"ownerID"` // defaults to the caller for user principals
	Balance      decimal.Decimal       `json:"balance"`
	InterestRate *decimal.Decimal      `json:"interestRate"` // SAVINGS only
	CreditLimit  *decimal.Decimal      `json:"creditLimit"`  // CREDIT only, optional
	DueDate      *time.Time            `json:"dueDate" binding:"omitempty,futuredate"`
}

// AccountResponse mirrors domain.Account. The variant tag is always present
// so consumers can reconstruct the correct variant without external context.
type AccountResponse struct {
	AccountID    string                `json:"accountID"`
	OwnerID      string                `json:"ownerID"`
	Variant      domain.AccountVariant `json:"variant"`
	Balance      decimal.Decimal       `json:"balance"`
	CreatedAt    time.Time             `json:"createdAt"`
	InterestRate *decimal.Decimal      `json:"interestRate,omitempty"`
	CreditLimit  *decimal.Decimal      `json:"creditLimit,omitempty"`
	DueDate      *time.Time            `json:"dueDate,omitempty"`
}

// ToAccountResponse converts a domain.Account to an AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		OwnerID:      acc.OwnerID,
		Variant:      acc.Variant,
		Balance:      acc.Balance,
		CreatedAt:    acc.CreatedAt,
		InterestRate: acc.InterestRate,
		CreditLimit:  acc.CreditLimit,
		DueDate:      acc.DueDate,
	}
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	OwnerID string `form:"ownerID"`
	Limit   int    `form:"limit,default=20"`
	Offset  int    `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountsResponse converts a slice of domain accounts to the list DTO.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}
