package repositories

import (
	"context"

	"github.com/obralink/cashbox-backend/internal/core/domain"
)

// MovementReader defines read operations for the movement ledger.
type MovementReader interface {
	// FindMovementByID retrieves a single ledger entry.
	FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error)

	// ListMovementsByAccount retrieves a paginated list of movements touching
	// an account, newest first, using token-based pagination.
	ListMovementsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Movement, *string, error)

	// SumMovementsByAccount replays the ledger for one account and returns the
	// per-currency income (money received) and expense (money paid) totals.
	SumMovementsByAccount(ctx context.Context, accountID string) (income, expenses domain.CurrencyAmounts, err error)
}

// MovementWriter defines the atomic multi-row writes of the payment engine.
// Every method executes as a single database transaction: the movement insert,
// the target update and the account aggregate updates all succeed or none do.
type MovementWriter interface {
	// RecordInstallmentPayment appends an income movement and persists the
	// updated installment (paid amount, status, paid date).
	RecordInstallmentPayment(ctx context.Context, movement domain.Movement, installment domain.Installment) error

	// RecordContractorPayment appends an expense movement and persists the
	// updated contractor payment.
	RecordContractorPayment(ctx context.Context, movement domain.Movement, payment domain.ContractorPayment) error

	// RecordDistribution appends the two linked movements of a fee split
	// (project share and admin share) and persists the updated installment.
	// Both account updates happen in the same transaction.
	RecordDistribution(ctx context.Context, projectMovement, adminMovement domain.Movement, installment domain.Installment) error

	// RecordLoanRepayment appends a loan repayment movement, persists the
	// updated loan installment and, when the whole schedule is settled,
	// the loan's new status.
	RecordLoanRepayment(ctx context.Context, movement domain.Movement, installment domain.LoanInstallment, loanStatus *domain.LoanStatus) error
}

// MovementRepositoryFacade combines all ledger repository interfaces.
type MovementRepositoryFacade interface {
	MovementReader
	MovementWriter
}

// MovementRepositoryWithTx extends MovementRepositoryFacade with transaction capabilities.
type MovementRepositoryWithTx interface {
	MovementRepositoryFacade
	TransactionManager
}
