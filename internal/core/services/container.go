package services

import (
	portssvc "github.com/acmebank/account_ledger_app/internal/core/ports/services"
	"github.com/acmebank/account_ledger_app/internal/platform/config"
	"github.com/acmebank/account_ledger_app/internal/repositories/database/pgsql"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewServiceContainer wires the pgx repositories into the service facades.
// Explicit construction, no framework: collaborators are passed as
// constructor arguments.
func NewServiceContainer(cfg *config.Config, pool *pgxpool.Pool) *portssvc.ServiceContainer {
	accountRepo := pgsql.NewAccountRepository(pool)
	operationRepo := pgsql.NewOperationRepository(pool)
	userRepo := pgsql.NewUserRepository(pool)

	return &portssvc.ServiceContainer{
		Account:  NewAccountService(accountRepo),
		Mutation: NewMutationService(accountRepo, accountRepo, operationRepo, cfg.MutationMaxRetries),
		Auth:     NewAuthService(cfg, userRepo),
	}
}
