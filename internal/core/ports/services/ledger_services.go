package services

import (
	"context"

	"github.com/obralink/cashbox-backend/internal/core/domain"
	"github.com/obralink/cashbox-backend/internal/dto"
	"github.com/shopspring/decimal"
)

// ScheduleSvcFacade generates installment schedules.
type ScheduleSvcFacade interface {
	// GenerateSchedule derives and persists a project's payment schedule
	// (down payment plus N monthly installments) as one atomic batch.
	GenerateSchedule(ctx context.Context, project domain.Project, creatorUserID string) ([]domain.Installment, error)
}

// PaymentSvcFacade applies incoming payments to their targets and writes the ledger.
type PaymentSvcFacade interface {
	// ApplyInstallmentPayment applies a full or partial payment to an
	// installment, appending an income movement on the project account.
	ApplyInstallmentPayment(ctx context.Context, installmentID string, req dto.ApplyPaymentRequest, userID string) (*domain.Installment, *domain.Movement, error)

	// SettleContractorPayment marks a contractor payment paid, appending an
	// expense movement on the project account.
	SettleContractorPayment(ctx context.Context, contractorPaymentID string, req dto.ApplyPaymentRequest, userID string) (*domain.ContractorPayment, *domain.Movement, error)

	// DistributeInstallmentPayment applies a payment to an installment and
	// splits it between the project account and the admin account by the
	// project's admin fee percentage. Returns the project movement first.
	DistributeInstallmentPayment(ctx context.Context, installmentID string, req dto.ApplyPaymentRequest, userID string) (*domain.Installment, []domain.Movement, error)
}

// AccountSvcFacade exposes cash-box reads and system account bootstrap.
type AccountSvcFacade interface {
	// GetAccountByID retrieves an account with its per-currency aggregates.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves every cash-box account.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// GetBalance returns the stored balance of an account in one currency.
	GetBalance(ctx context.Context, accountID string, currency domain.Currency) (decimal.Decimal, error)

	// ListMovements retrieves a paginated ledger listing for an account.
	ListMovements(ctx context.Context, accountID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)

	// GetMovementByID retrieves a single ledger entry.
	GetMovementByID(ctx context.Context, movementID string) (*domain.Movement, error)

	// GetProjectAccount retrieves the cash-box account of a project.
	GetProjectAccount(ctx context.Context, projectID string) (*domain.Account, error)

	// EnsureSystemAccounts creates the MASTER and ADMIN accounts when missing.
	EnsureSystemAccounts(ctx context.Context, userID string) error
}

// ReconciliationSvcFacade verifies account aggregates against the movement ledger.
type ReconciliationSvcFacade interface {
	// ReconcileAccount recomputes the expected per-currency balances of an
	// account from the ledger and reports discrepancies beyond the epsilon.
	// When applyCorrections is true the stored aggregates are rederived from
	// the ledger; the ledger itself is never touched.
	ReconcileAccount(ctx context.Context, accountID string, applyCorrections bool) (*domain.ReconciliationReport, error)

	// ReconcileAll reconciles every account, report-only.
	ReconcileAll(ctx context.Context) ([]domain.ReconciliationReport, error)
}

// ProjectSvcFacade manages projects, their accounts and contractor obligations.
type ProjectSvcFacade interface {
	// CreateProject persists a project with its cash-box account and generates
	// its installment schedule.
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, []domain.Installment, error)

	// GetProjectByID retrieves a single project.
	GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects retrieves a paginated list of projects, newest first.
	ListProjects(ctx context.Context, limit int, nextToken *string) ([]domain.Project, *string, error)

	// ListContractorPayments retrieves a project's contractor payments.
	ListContractorPayments(ctx context.Context, projectID string) ([]domain.ContractorPayment, error)

	// CancelInstallment marks a pending, unpaid installment as cancelled.
	CancelInstallment(ctx context.Context, installmentID string, userID string) error

	// ListProjectInstallments retrieves a project's schedule with statuses
	// rederived against the current date.
	ListProjectInstallments(ctx context.Context, projectID string) ([]domain.Installment, error)

	// CreateContractorPayment registers a pending obligation towards a contractor.
	CreateContractorPayment(ctx context.Context, projectID string, req dto.CreateContractorPaymentRequest, userID string) (*domain.ContractorPayment, error)

	// ArchiveProject soft-archives a project and its account.
	ArchiveProject(ctx context.Context, projectID string, userID string) error
}

// LoanSvcFacade manages master-level loans.
type LoanSvcFacade interface {
	// CreateLoan disburses a loan from the master cash box and generates its
	// repayment schedule.
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.Loan, []domain.LoanInstallment, error)

	// GetLoanByID retrieves a loan with its repayment schedule.
	GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, []domain.LoanInstallment, error)

	// ListLoans retrieves every loan, newest first.
	ListLoans(ctx context.Context) ([]domain.Loan, error)

	// RepayLoanInstallment applies a repayment to a loan installment,
	// appending a loan repayment movement on the master account.
	RepayLoanInstallment(ctx context.Context, loanInstallmentID string, req dto.ApplyPaymentRequest, userID string) (*domain.LoanInstallment, *domain.Movement, error)
}

// MovementNotifier receives a notification after each successfully recorded
// movement, for cache invalidation by read layers.
type MovementNotifier interface {
	MovementRecorded(ctx context.Context, movement domain.Movement)
}
