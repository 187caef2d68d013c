package repositories

import (
	"context"

	"github.com/obralink/cashbox-backend/internal/core/domain"
)

// LoanReader defines read operations for loans.
type LoanReader interface {
	// FindLoanByID retrieves a single loan.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// FindLoanInstallmentByID retrieves a single loan installment.
	FindLoanInstallmentByID(ctx context.Context, loanInstallmentID string) (*domain.LoanInstallment, error)

	// ListLoanInstallments retrieves a loan's repayment schedule ordered by number.
	ListLoanInstallments(ctx context.Context, loanID string) ([]domain.LoanInstallment, error)

	// ListLoans retrieves every loan, newest first.
	ListLoans(ctx context.Context) ([]domain.Loan, error)
}

// LoanWriter defines write operations for loans.
type LoanWriter interface {
	// SaveLoanWithSchedule persists the loan, its repayment schedule and the
	// disbursement movement in one transaction, updating the disbursing
	// account's aggregates.
	SaveLoanWithSchedule(ctx context.Context, loan domain.Loan, schedule []domain.LoanInstallment, disbursement domain.Movement) error
}

// LoanRepositoryFacade combines all loan repository interfaces.
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
