package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/obralink/cashbox-backend/internal/core/domain"
	portsrepo "github.com/obralink/cashbox-backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByKind(ctx context.Context, kind domain.AccountKind) (*domain.Account, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByProjectID(ctx context.Context, projectID string) (*domain.Account, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountAggregates(ctx context.Context, accountID string, income, expenses domain.CurrencyAmounts, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, income, expenses, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) LockAccountBalancesForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string, currency domain.Currency) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.Movement) error {
	args := m.Called(ctx, tx, movement)
	return args.Error(0)
}

// --- Mock MovementRepository ---

type MockMovementRepository struct {
	mock.Mock
}

var _ portsrepo.MovementRepositoryFacade = (*MockMovementRepository)(nil)

func (m *MockMovementRepository) FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	args := m.Called(ctx, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) ListMovementsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Movement, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Movement), returnedNextToken, args.Error(2)
}

func (m *MockMovementRepository) SumMovementsByAccount(ctx context.Context, accountID string) (domain.CurrencyAmounts, domain.CurrencyAmounts, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(domain.CurrencyAmounts), args.Get(1).(domain.CurrencyAmounts), args.Error(2)
}

func (m *MockMovementRepository) RecordInstallmentPayment(ctx context.Context, movement domain.Movement, installment domain.Installment) error {
	args := m.Called(ctx, movement, installment)
	return args.Error(0)
}

func (m *MockMovementRepository) RecordContractorPayment(ctx context.Context, movement domain.Movement, payment domain.ContractorPayment) error {
	args := m.Called(ctx, movement, payment)
	return args.Error(0)
}

func (m *MockMovementRepository) RecordDistribution(ctx context.Context, projectMovement, adminMovement domain.Movement, installment domain.Installment) error {
	args := m.Called(ctx, projectMovement, adminMovement, installment)
	return args.Error(0)
}

func (m *MockMovementRepository) RecordLoanRepayment(ctx context.Context, movement domain.Movement, installment domain.LoanInstallment, loanStatus *domain.LoanStatus) error {
	args := m.Called(ctx, movement, installment, loanStatus)
	return args.Error(0)
}

// --- Mock InstallmentRepository ---

type MockInstallmentRepository struct {
	mock.Mock
}

var _ portsrepo.InstallmentRepositoryFacade = (*MockInstallmentRepository)(nil)

func (m *MockInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) ListInstallmentsByProject(ctx context.Context, projectID string) ([]domain.Installment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) SaveInstallments(ctx context.Context, installments []domain.Installment) error {
	args := m.Called(ctx, installments)
	return args.Error(0)
}

func (m *MockInstallmentRepository) CancelInstallment(ctx context.Context, installmentID string, userID string) error {
	args := m.Called(ctx, installmentID, userID)
	return args.Error(0)
}

// --- Mock ContractorPaymentRepository ---

type MockContractorPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.ContractorPaymentRepositoryFacade = (*MockContractorPaymentRepository)(nil)

func (m *MockContractorPaymentRepository) FindContractorPaymentByID(ctx context.Context, contractorPaymentID string) (*domain.ContractorPayment, error) {
	args := m.Called(ctx, contractorPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContractorPayment), args.Error(1)
}

func (m *MockContractorPaymentRepository) ListContractorPaymentsByProject(ctx context.Context, projectID string) ([]domain.ContractorPayment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContractorPayment), args.Error(1)
}

func (m *MockContractorPaymentRepository) SaveContractorPayment(ctx context.Context, payment domain.ContractorPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// --- Mock ProjectRepository ---

type MockProjectRepository struct {
	mock.Mock
}

var _ portsrepo.ProjectRepositoryFacade = (*MockProjectRepository)(nil)

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, limit int, nextToken *string) ([]domain.Project, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Project), returnedNextToken, args.Error(2)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project, account domain.Account) error {
	args := m.Called(ctx, project, account)
	return args.Error(0)
}

func (m *MockProjectRepository) ArchiveProject(ctx context.Context, projectID string, userID string, now time.Time) error {
	args := m.Called(ctx, projectID, userID, now)
	return args.Error(0)
}

// --- Mock LoanRepository ---

type MockLoanRepository struct {
	mock.Mock
}

var _ portsrepo.LoanRepositoryFacade = (*MockLoanRepository)(nil)

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindLoanInstallmentByID(ctx context.Context, loanInstallmentID string) (*domain.LoanInstallment, error) {
	args := m.Called(ctx, loanInstallmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanInstallment), args.Error(1)
}

func (m *MockLoanRepository) ListLoanInstallments(ctx context.Context, loanID string) ([]domain.LoanInstallment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanInstallment), args.Error(1)
}

func (m *MockLoanRepository) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) SaveLoanWithSchedule(ctx context.Context, loan domain.Loan, schedule []domain.LoanInstallment, disbursement domain.Movement) error {
	args := m.Called(ctx, loan, schedule, disbursement)
	return args.Error(0)
}

// --- Mock MovementNotifier ---

type MockMovementNotifier struct {
	mock.Mock
}

var _ portssvc.MovementNotifier = (*MockMovementNotifier)(nil)

func (m *MockMovementNotifier) MovementRecorded(ctx context.Context, movement domain.Movement) {
	m.Called(ctx, movement)
}

// --- Mock ScheduleService ---

type MockScheduleService struct {
	mock.Mock
}

var _ portssvc.ScheduleSvcFacade = (*MockScheduleService)(nil)

func (m *MockScheduleService) GenerateSchedule(ctx context.Context, project domain.Project, creatorUserID string) ([]domain.Installment, error) {
	args := m.Called(ctx, project, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}
