package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/obralink/cashbox-backend/internal/apperrors"
	"github.com/obralink/cashbox-backend/internal/core/domain"
	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
	"github.com/obralink/cashbox-backend/internal/core/services"
	"github.com/obralink/cashbox-backend/internal/dto"
)

type LoanServiceTestSuite struct {
	suite.Suite
	mockLoanRepo     *MockLoanRepository
	mockAccountRepo  *MockAccountRepository
	mockMovementRepo *MockMovementRepository
	mockNotifier     *MockMovementNotifier
	service          portssvc.LoanSvcFacade

	ctx         context.Context
	userID      string
	master      domain.Account
	loan        domain.Loan
	installment domain.LoanInstallment
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.mockNotifier = new(MockMovementNotifier)
	suite.service = services.NewLoanService(suite.mockLoanRepo, suite.mockAccountRepo, suite.mockMovementRepo, suite.mockNotifier)

	suite.ctx = context.Background()
	suite.userID = "user-1"
	suite.master = domain.Account{
		AccountID: "acc-master",
		Kind:      domain.MasterAccount,
		Name:      "Master cash box",
		Balance:   domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(1000000)},
		IsActive:  true,
	}
	suite.loan = domain.Loan{
		LoanID:            "loan-1",
		Borrower:          "Constructora Sur",
		Principal:         decimal.NewFromInt(300000),
		Currency:          domain.ARS,
		InstallmentsCount: 3,
		StartDate:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:            domain.LoanActive,
	}
	suite.installment = domain.LoanInstallment{
		LoanInstallmentID: "li-1",
		LoanID:            "loan-1",
		Number:            1,
		Amount:            decimal.NewFromInt(100000),
		Currency:          domain.ARS,
		DueDate:           time.Now().UTC().AddDate(0, 1, 0),
		Status:            domain.InstallmentPending,
		PaidAmount:        decimal.Zero,
	}
}

func (suite *LoanServiceTestSuite) createLoanRequest() dto.CreateLoanRequest {
	return dto.CreateLoanRequest{
		Borrower:          "Constructora Sur",
		Principal:         decimal.NewFromInt(300000),
		Currency:          "ARS",
		InstallmentsCount: 3,
		StartDate:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *LoanServiceTestSuite) repayRequest(amount int64) dto.ApplyPaymentRequest {
	return dto.ApplyPaymentRequest{
		Amount:   decimal.NewFromInt(amount),
		Currency: "ARS",
	}
}

func (suite *LoanServiceTestSuite) TestCreateLoan_Success() {
	suite.mockAccountRepo.On("FindAccountByKind", suite.ctx, domain.MasterAccount).Return(&suite.master, nil).Once()
	suite.mockLoanRepo.On("SaveLoanWithSchedule", suite.ctx, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("[]domain.LoanInstallment"), mock.AnythingOfType("domain.Movement")).Return(nil).Once()
	suite.mockNotifier.On("MovementRecorded", suite.ctx, mock.AnythingOfType("domain.Movement")).Once()

	loan, schedule, err := suite.service.CreateLoan(suite.ctx, suite.createLoanRequest(), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.LoanActive, loan.Status)
	suite.Require().Len(schedule, 3)

	total := decimal.Zero
	for i, li := range schedule {
		suite.Equal(i+1, li.Number)
		suite.Equal(loan.LoanID, li.LoanID)
		suite.True(li.Amount.Equal(decimal.NewFromInt(100000)), "installment %d amount: %s", i+1, li.Amount)
		suite.Equal(loan.StartDate.AddDate(0, i+1, 0), li.DueDate)
		total = total.Add(li.Amount)
	}
	suite.True(total.Equal(loan.Principal))

	suite.mockLoanRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_InsufficientMasterBalance() {
	suite.master.Balance = domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(200000)}
	suite.mockAccountRepo.On("FindAccountByKind", suite.ctx, domain.MasterAccount).Return(&suite.master, nil).Once()

	_, _, err := suite.service.CreateLoan(suite.ctx, suite.createLoanRequest(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoanWithSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_DisbursementLosesBalanceRace() {
	// The pre-check passed, but by the time the repository held the balance
	// row lock another disbursement had drained the master account.
	suite.mockAccountRepo.On("FindAccountByKind", suite.ctx, domain.MasterAccount).Return(&suite.master, nil).Once()
	suite.mockLoanRepo.On("SaveLoanWithSchedule", suite.ctx, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("[]domain.LoanInstallment"), mock.AnythingOfType("domain.Movement")).
		Return(fmt.Errorf("%w: balance 50000 ARS on account acc-master is below loan principal 300000", apperrors.ErrConflict)).Once()

	_, _, err := suite.service.CreateLoan(suite.ctx, suite.createLoanRequest(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockNotifier.AssertNotCalled(suite.T(), "MovementRecorded", mock.Anything, mock.Anything)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_NonPositivePrincipal() {
	req := suite.createLoanRequest()
	req.Principal = decimal.Zero

	_, _, err := suite.service.CreateLoan(suite.ctx, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByKind", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_NoInstallments() {
	req := suite.createLoanRequest()
	req.InstallmentsCount = 0

	_, _, err := suite.service.CreateLoan(suite.ctx, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidSchedule)
}

func (suite *LoanServiceTestSuite) TestRepayLoanInstallment_PartialPayment() {
	suite.mockLoanRepo.On("FindLoanInstallmentByID", suite.ctx, "li-1").Return(&suite.installment, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", suite.ctx, "loan-1").Return(&suite.loan, nil).Once()
	suite.mockAccountRepo.On("FindAccountByKind", suite.ctx, domain.MasterAccount).Return(&suite.master, nil).Once()
	suite.mockMovementRepo.On("RecordLoanRepayment", suite.ctx, mock.AnythingOfType("domain.Movement"), mock.AnythingOfType("domain.LoanInstallment"), (*domain.LoanStatus)(nil)).Return(nil).Once()
	suite.mockNotifier.On("MovementRecorded", suite.ctx, mock.AnythingOfType("domain.Movement")).Once()

	updated, movement, err := suite.service.RepayLoanInstallment(suite.ctx, "li-1", suite.repayRequest(40000), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InstallmentPartial, updated.Status)
	suite.True(updated.PaidAmount.Equal(decimal.NewFromInt(40000)))
	suite.Equal(domain.MovementLoanRepayment, movement.Type)
	suite.Require().NotNil(movement.DestinationAccountID)
	suite.Equal("acc-master", *movement.DestinationAccountID)

	suite.mockMovementRepo.AssertExpectations(suite.T())
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "ListLoanInstallments", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestRepayLoanInstallment_FinalPaymentSettlesLoan() {
	paidAt := time.Now().UTC()
	others := []domain.LoanInstallment{
		{LoanInstallmentID: "li-0", LoanID: "loan-1", Number: 1, Status: domain.InstallmentPaid, PaidDate: &paidAt},
		suite.installment,
	}
	suite.installment.Number = 2
	suite.mockLoanRepo.On("FindLoanInstallmentByID", suite.ctx, "li-1").Return(&suite.installment, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", suite.ctx, "loan-1").Return(&suite.loan, nil).Once()
	suite.mockAccountRepo.On("FindAccountByKind", suite.ctx, domain.MasterAccount).Return(&suite.master, nil).Once()
	suite.mockLoanRepo.On("ListLoanInstallments", suite.ctx, "loan-1").Return(others, nil).Once()

	repaid := domain.LoanRepaid
	suite.mockMovementRepo.On("RecordLoanRepayment", suite.ctx, mock.AnythingOfType("domain.Movement"), mock.AnythingOfType("domain.LoanInstallment"), &repaid).Return(nil).Once()
	suite.mockNotifier.On("MovementRecorded", suite.ctx, mock.AnythingOfType("domain.Movement")).Once()

	updated, _, err := suite.service.RepayLoanInstallment(suite.ctx, "li-1", suite.repayRequest(100000), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InstallmentPaid, updated.Status)
	suite.NotNil(updated.PaidDate)
	suite.mockMovementRepo.AssertExpectations(suite.T())
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRepayLoanInstallment_OtherInstallmentsOutstanding() {
	others := []domain.LoanInstallment{
		suite.installment,
		{LoanInstallmentID: "li-2", LoanID: "loan-1", Number: 2, Status: domain.InstallmentPending},
	}
	suite.mockLoanRepo.On("FindLoanInstallmentByID", suite.ctx, "li-1").Return(&suite.installment, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", suite.ctx, "loan-1").Return(&suite.loan, nil).Once()
	suite.mockAccountRepo.On("FindAccountByKind", suite.ctx, domain.MasterAccount).Return(&suite.master, nil).Once()
	suite.mockLoanRepo.On("ListLoanInstallments", suite.ctx, "loan-1").Return(others, nil).Once()
	suite.mockMovementRepo.On("RecordLoanRepayment", suite.ctx, mock.AnythingOfType("domain.Movement"), mock.AnythingOfType("domain.LoanInstallment"), (*domain.LoanStatus)(nil)).Return(nil).Once()
	suite.mockNotifier.On("MovementRecorded", suite.ctx, mock.AnythingOfType("domain.Movement")).Once()

	updated, _, err := suite.service.RepayLoanInstallment(suite.ctx, "li-1", suite.repayRequest(100000), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InstallmentPaid, updated.Status)
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRepayLoanInstallment_Overpayment() {
	suite.installment.PaidAmount = decimal.NewFromInt(80000)
	suite.installment.Status = domain.InstallmentPartial
	suite.mockLoanRepo.On("FindLoanInstallmentByID", suite.ctx, "li-1").Return(&suite.installment, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", suite.ctx, "loan-1").Return(&suite.loan, nil).Once()

	_, _, err := suite.service.RepayLoanInstallment(suite.ctx, "li-1", suite.repayRequest(30000), suite.userID)

	suite.ErrorIs(err, apperrors.ErrOverpayment)
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "RecordLoanRepayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestRepayLoanInstallment_LoanNotActive() {
	suite.loan.Status = domain.LoanRepaid
	suite.mockLoanRepo.On("FindLoanInstallmentByID", suite.ctx, "li-1").Return(&suite.installment, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", suite.ctx, "loan-1").Return(&suite.loan, nil).Once()

	_, _, err := suite.service.RepayLoanInstallment(suite.ctx, "li-1", suite.repayRequest(100000), suite.userID)

	suite.ErrorIs(err, apperrors.ErrAlreadySettled)
}

func (suite *LoanServiceTestSuite) TestGetLoanByID_RederivesOverdueStatus() {
	overdue := suite.installment
	overdue.DueDate = time.Now().UTC().AddDate(0, 0, -5)
	suite.mockLoanRepo.On("FindLoanByID", suite.ctx, "loan-1").Return(&suite.loan, nil).Once()
	suite.mockLoanRepo.On("ListLoanInstallments", suite.ctx, "loan-1").Return([]domain.LoanInstallment{overdue}, nil).Once()

	_, schedule, err := suite.service.GetLoanByID(suite.ctx, "loan-1")

	suite.Require().NoError(err)
	suite.Require().Len(schedule, 1)
	suite.Equal(domain.InstallmentOverdue, schedule[0].Status)
}

func TestLoanService(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
