package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/acmebank/account_ledger_app/internal/apperrors"
	"github.com/acmebank/account_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewAccount_Validation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tomorrow := now.Add(24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		params  domain.NewAccountParams
		wantErr bool
	}{
		{
			name: "checking account",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: domain.Checking,
				Balance: decimal.RequireFromString("100.00"),
			},
		},
		{
			name: "empty owner rejected",
			params: domain.NewAccountParams{
				AccountID: "a1", Variant: domain.Checking,
				Balance: decimal.RequireFromString("100.00"),
			},
			wantErr: true,
		},
		{
			name: "negative initial balance rejected",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: domain.Checking,
				Balance: decimal.RequireFromString("-0.01"),
			},
			wantErr: true,
		},
		{
			name: "savings with interest rate",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: domain.Savings,
				Balance: decimal.Zero, InterestRate: decPtr("0.035"),
			},
		},
		{
			name: "savings without interest rate rejected",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: domain.Savings,
				Balance: decimal.Zero,
			},
			wantErr: true,
		},
		{
			name: "savings with negative interest rate rejected",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: domain.Savings,
				Balance: decimal.Zero, InterestRate: decPtr("-0.01"),
			},
			wantErr: true,
		},
		{
			name: "credit with future due date",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: domain.Credit,
				Balance: decimal.Zero, CreditLimit: decPtr("5000"), DueDate: &tomorrow,
			},
		},
		{
			name: "credit without optional fields",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: domain.Credit,
				Balance: decimal.Zero,
			},
		},
		{
			name: "credit with past due date rejected",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: domain.Credit,
				Balance: decimal.Zero, DueDate: &yesterday,
			},
			wantErr: true,
		},
		{
			name: "credit with due date equal to now rejected",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: domain.Credit,
				Balance: decimal.Zero, DueDate: &now,
			},
			wantErr: true,
		},
		{
			name: "credit with negative limit rejected",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: domain.Credit,
				Balance: decimal.Zero, CreditLimit: decPtr("-1"),
			},
			wantErr: true,
		},
		{
			name: "unknown variant rejected",
			params: domain.NewAccountParams{
				AccountID: "a1", OwnerID: "u1", Variant: "MONEY_MARKET",
				Balance: decimal.Zero,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := domain.NewAccount(tt.params, now)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Nil(t, acc)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, acc)
			assert.Equal(t, tt.params.Variant, acc.Variant)
			assert.Equal(t, now, acc.CreatedAt)
		})
	}
}

func TestNewAccount_VariantFieldsScoped(t *testing.T) {
	now := time.Now()

	acc, err := domain.NewAccount(domain.NewAccountParams{
		AccountID: "a1", OwnerID: "u1", Variant: domain.Checking,
		Balance: decimal.RequireFromString("10"),
		// Variant-specific inputs for other variants are ignored.
		InterestRate: decPtr("0.05"),
	}, now)
	require.NoError(t, err)
	assert.Nil(t, acc.InterestRate)
	assert.Nil(t, acc.CreditLimit)
	assert.Nil(t, acc.DueDate)
}

func TestAccount_SerializationCarriesVariantTag(t *testing.T) {
	now := time.Now().UTC()
	acc, err := domain.NewAccount(domain.NewAccountParams{
		AccountID: "a1", OwnerID: "u1", Variant: domain.Savings,
		Balance: decimal.RequireFromString("250.50"), InterestRate: decPtr("0.02"),
	}, now)
	require.NoError(t, err)

	raw, err := json.Marshal(acc)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "SAVINGS", got["variant"])
	assert.Contains(t, got, "interestRate")
	assert.NotContains(t, got, "creditLimit")
	assert.NotContains(t, got, "dueDate")
}
