package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountOperation is a single applied balance mutation. Rows are written
// exactly once per applied mutation and never updated or deleted; together
// they form the append-only audit ledger and the deduplication source of
// truth. Identity is the composite (OperationID, AccountID): the same
// operation id against a different account is a distinct logical operation.
type AccountOperation struct {
	OperationID   string          `json:"operationID"`
	AccountID     string          `json:"accountID"`
	Delta         decimal.Decimal `json:"delta"`
	TransactionID string          `json:"transactionID"`
	Reason        string          `json:"reason,omitempty"`
	AppliedAt     time.Time       `json:"appliedAt"`
}
