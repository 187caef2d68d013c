package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/obralink/cashbox-backend/internal/apperrors"
	"github.com/obralink/cashbox-backend/internal/core/domain"
	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
	"github.com/obralink/cashbox-backend/internal/core/services"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockMovementRepo *MockMovementRepository
	service          portssvc.ReconciliationSvcFacade

	ctx     context.Context
	account domain.Account
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.service = services.NewReconciliationService(suite.mockAccountRepo, suite.mockMovementRepo)

	suite.ctx = context.Background()
	suite.account = domain.Account{
		AccountID: "acc-1",
		Kind:      domain.ProjectAccount,
		Name:      "Casa Belgrano",
		Balance: domain.CurrencyAmounts{
			domain.ARS: decimal.NewFromInt(100000),
			domain.USD: decimal.Zero,
		},
		TotalIncome: domain.CurrencyAmounts{
			domain.ARS: decimal.NewFromInt(150000),
			domain.USD: decimal.Zero,
		},
		TotalExpenses: domain.CurrencyAmounts{
			domain.ARS: decimal.NewFromInt(50000),
			domain.USD: decimal.Zero,
		},
		IsActive: true,
	}
}

func (suite *ReconciliationServiceTestSuite) TestReconcileAccount_Consistent() {
	income := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(150000)}
	expenses := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(50000)}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(&suite.account, nil).Once()
	suite.mockMovementRepo.On("SumMovementsByAccount", suite.ctx, "acc-1").Return(income, expenses, nil).Once()

	report, err := suite.service.ReconcileAccount(suite.ctx, "acc-1", false)

	suite.Require().NoError(err)
	suite.True(report.Consistent())
	suite.False(report.Corrected)
	suite.Empty(report.Discrepancies)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountAggregates", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcileAccount_RepeatedRunsReportTheSame() {
	// Report-only reconciliation never mutates state, so running it twice
	// against the same ledger yields the same findings.
	income := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(140000)}
	expenses := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(50000)}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(&suite.account, nil).Twice()
	suite.mockMovementRepo.On("SumMovementsByAccount", suite.ctx, "acc-1").Return(income, expenses, nil).Twice()

	first, err := suite.service.ReconcileAccount(suite.ctx, "acc-1", false)
	suite.Require().NoError(err)
	second, err := suite.service.ReconcileAccount(suite.ctx, "acc-1", false)
	suite.Require().NoError(err)

	suite.Equal(first.AccountID, second.AccountID)
	suite.Equal(first.Corrected, second.Corrected)
	suite.Equal(first.Discrepancies, second.Discrepancies)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountAggregates", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcileAccount_DriftDetected() {
	// The ledger implies 90000 ARS but the account stores 100000.
	income := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(140000)}
	expenses := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(50000)}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(&suite.account, nil).Once()
	suite.mockMovementRepo.On("SumMovementsByAccount", suite.ctx, "acc-1").Return(income, expenses, nil).Once()

	report, err := suite.service.ReconcileAccount(suite.ctx, "acc-1", false)

	suite.Require().NoError(err)
	suite.False(report.Consistent())
	suite.False(report.Corrected)
	suite.Require().Len(report.Discrepancies, 1)

	d := report.Discrepancies[0]
	suite.Equal(domain.ARS, d.Currency)
	suite.True(d.Stored.Equal(decimal.NewFromInt(100000)))
	suite.True(d.Expected.Equal(decimal.NewFromInt(90000)))
	suite.True(d.Delta.Equal(decimal.NewFromInt(10000)))

	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountAggregates", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcileAccount_DriftWithinEpsilonIgnored() {
	income := domain.CurrencyAmounts{domain.ARS: decimal.RequireFromString("150000.01")}
	expenses := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(50000)}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(&suite.account, nil).Once()
	suite.mockMovementRepo.On("SumMovementsByAccount", suite.ctx, "acc-1").Return(income, expenses, nil).Once()

	report, err := suite.service.ReconcileAccount(suite.ctx, "acc-1", false)

	suite.Require().NoError(err)
	suite.True(report.Consistent())
}

func (suite *ReconciliationServiceTestSuite) TestReconcileAccount_ApplyCorrections() {
	income := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(140000)}
	expenses := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(50000)}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(&suite.account, nil).Once()
	suite.mockMovementRepo.On("SumMovementsByAccount", suite.ctx, "acc-1").Return(income, expenses, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountAggregates", suite.ctx, "acc-1", income, expenses, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	report, err := suite.service.ReconcileAccount(suite.ctx, "acc-1", true)

	suite.Require().NoError(err)
	suite.True(report.Corrected)
	suite.Require().Len(report.Discrepancies, 1)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestReconcileAccount_CorrectionFails() {
	income := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(140000)}
	expenses := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(50000)}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(&suite.account, nil).Once()
	suite.mockMovementRepo.On("SumMovementsByAccount", suite.ctx, "acc-1").Return(income, expenses, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountAggregates", suite.ctx, "acc-1", income, expenses, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(errors.New("db down")).Once()

	_, err := suite.service.ReconcileAccount(suite.ctx, "acc-1", true)

	suite.Require().Error(err)
}

func (suite *ReconciliationServiceTestSuite) TestReconcileAccount_NotFound() {
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ReconcileAccount(suite.ctx, "acc-missing", false)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "SumMovementsByAccount", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcileAll_ContinuesPastFailures() {
	broken := domain.Account{AccountID: "acc-broken", Kind: domain.ProjectAccount, IsActive: true}
	accounts := []domain.Account{suite.account, broken}
	income := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(150000)}
	expenses := domain.CurrencyAmounts{domain.ARS: decimal.NewFromInt(50000)}

	suite.mockAccountRepo.On("ListAccounts", suite.ctx).Return(accounts, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(&suite.account, nil).Once()
	suite.mockMovementRepo.On("SumMovementsByAccount", suite.ctx, "acc-1").Return(income, expenses, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-broken").Return(nil, errors.New("db down")).Once()

	reports, err := suite.service.ReconcileAll(suite.ctx)

	suite.Require().NoError(err)
	suite.Require().Len(reports, 1)
	suite.Equal("acc-1", reports[0].AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
