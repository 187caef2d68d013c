package repositories

import (
	"context"
	"time"

	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for cash-box accounts.
type AccountReader interface {
	// FindAccountByID retrieves a specific account with its per-currency aggregates.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByKind retrieves a singleton account (MASTER or ADMIN).
	FindAccountByKind(ctx context.Context, kind domain.AccountKind) (*domain.Account, error)

	// FindAccountByProjectID retrieves the cash-box account of a project.
	FindAccountByProjectID(ctx context.Context, projectID string) (*domain.Account, error)

	// ListAccounts retrieves every account, active and archived.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for cash-box accounts.
type AccountWriter interface {
	// SaveAccount persists a new account together with zeroed balance rows
	// for every supported currency.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountAggregates overwrites the per-currency aggregates of an
	// account, rederiving balance = income - expenses. Used only by the opt-in
	// reconciliation correction path.
	UpdateAccountAggregates(ctx context.Context, accountID string, income, expenses domain.CurrencyAmounts, userID string, now time.Time) error
}

// AccountTransactionSupport defines the balance mutations other repositories
// perform inside their own database transactions.
type AccountTransactionSupport interface {
	// LockAccountBalancesForUpdate locks the balance rows of the given accounts
	// for the movement currency and returns their current aggregates.
	LockAccountBalancesForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string, currency domain.Currency) (map[string]domain.Account, error)

	// ApplyMovementInTx applies a movement's effect to the balance rows of the
	// accounts it touches: income and balance up on the destination, expenses
	// up and balance down on the source. Also bumps last_movement_at.
	ApplyMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.Movement) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities.
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
