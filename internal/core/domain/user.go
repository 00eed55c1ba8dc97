package domain

import "time"

// Role names a capability a principal may hold. The route registration maps
// each protected endpoint to the role it requires.
type Role string

const (
	// RoleLedgerWrite permits invoking balance-mutating operations.
	RoleLedgerWrite Role = "ledger:write"
	// RoleLedgerRead permits reading accounts and their operation ledger.
	RoleLedgerRead Role = "ledger:read"
	// RoleAccountManage permits creating accounts.
	RoleAccountManage Role = "accounts:write"
)

// User represents an end user of the service.
type User struct {
	UserID       string     `json:"userID"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Roles        []Role     `json:"roles"`
	CreatedAt    time.Time  `json:"createdAt"`
	DeletedAt    *time.Time `json:"-"`
}
