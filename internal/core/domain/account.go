package domain

import (
	"fmt"
	"time"

	"github.com/acmebank/account_ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountVariant discriminates the three account kinds. It is set once at
// construction and never changes for the lifetime of the account.
type AccountVariant string

const (
	Checking AccountVariant = "CHECKING"
	Savings  AccountVariant = "SAVINGS"
	Credit   AccountVariant = "CREDIT"
)

// Account represents a financial account within the core domain.
// It is a tagged union over the three variants: the Variant field determines
// which of the variant-specific pointer fields are meaningful. All variants
// share the common fields; Balance is mutated only by the mutation service.
type Account struct {
	AccountID string          `json:"accountID"`
	OwnerID   string          `json:"ownerID"`
	Variant   AccountVariant  `json:"variant"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`

	// Savings only.
	InterestRate *decimal.Decimal `json:"interestRate,omitempty"`

	// Credit only. CreditLimit and DueDate are both optional.
	CreditLimit *decimal.Decimal `json:"creditLimit,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
}

// NewAccountParams carries the construction inputs for an account.
// Variant-specific fields are ignored for variants they do not apply to.
type NewAccountParams struct {
	AccountID    string
	OwnerID      string
	Variant      AccountVariant
	Balance      decimal.Decimal
	InterestRate *decimal.Decimal
	CreditLimit  *decimal.Decimal
	DueDate      *time.Time
}

// NewAccount constructs an account, enforcing the per-variant invariants:
// non-empty owner, non-negative initial balance, non-negative rates/limits and
// a strictly future due date for credit accounts.
func NewAccount(p NewAccountParams, now time.Time) (*Account, error) {
	if p.OwnerID == "" {
		return nil, fmt.Errorf("%w: ownerID must not be empty", apperrors.ErrValidation)
	}
	if p.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", apperrors.ErrValidation)
	}

	acc := &Account{
		AccountID: p.AccountID,
		OwnerID:   p.OwnerID,
		Variant:   p.Variant,
		Balance:   p.Balance,
		CreatedAt: now,
	}

	switch p.Variant {
	case Checking:
		// No extra fields.
	case Savings:
		if p.InterestRate == nil {
			return nil, fmt.Errorf("%w: interestRate is required for savings accounts", apperrors.ErrValidation)
		}
		if p.InterestRate.IsNegative() {
			return nil, fmt.Errorf("%w: interestRate must not be negative", apperrors.ErrValidation)
		}
		acc.InterestRate = p.InterestRate
	case Credit:
		if p.CreditLimit != nil && p.CreditLimit.IsNegative() {
			return nil, fmt.Errorf("%w: creditLimit must not be negative", apperrors.ErrValidation)
		}
		if p.DueDate != nil && !p.DueDate.After(now) {
			return nil, fmt.Errorf("%w: dueDate must be strictly in the future", apperrors.ErrValidation)
		}
		acc.CreditLimit = p.CreditLimit
		acc.DueDate = p.DueDate
	default:
		return nil, fmt.Errorf("%w: unknown account variant %q", apperrors.ErrValidation, p.Variant)
	}

	return acc, nil
}
