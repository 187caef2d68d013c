package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/obralink/cashbox-backend/internal/apperrors"
	"github.com/obralink/cashbox-backend/internal/core/domain"
	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
	"github.com/obralink/cashbox-backend/internal/core/services"
)

type ScheduleServiceTestSuite struct {
	suite.Suite
	mockInstallmentRepo *MockInstallmentRepository
	service             portssvc.ScheduleSvcFacade

	ctx     context.Context
	userID  string
	project domain.Project
}

func (suite *ScheduleServiceTestSuite) SetupTest() {
	suite.mockInstallmentRepo = new(MockInstallmentRepository)
	suite.service = services.NewScheduleService(suite.mockInstallmentRepo)

	suite.ctx = context.Background()
	suite.userID = "user-1"
	suite.project = domain.Project{
		ProjectID:         "proj-1",
		AccountID:         "acc-proj-1",
		Name:              "Casa Belgrano",
		Currency:          domain.ARS,
		TotalAmount:       decimal.NewFromInt(5000000),
		DownPaymentAmount: decimal.NewFromInt(1500000),
		InstallmentsCount: 10,
		StartDate:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *ScheduleServiceTestSuite) TestGenerateSchedule_Success() {
	suite.mockInstallmentRepo.On("SaveInstallments", suite.ctx, mock.AnythingOfType("[]domain.Installment")).Return(nil).Once()

	installments, err := suite.service.GenerateSchedule(suite.ctx, suite.project, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(installments, 11)

	down := installments[0]
	suite.Equal(0, down.Number)
	suite.True(down.Amount.Equal(decimal.NewFromInt(1500000)), "down payment amount, got %s", down.Amount)
	suite.Equal(suite.project.StartDate, down.DueDate)
	suite.Equal(domain.InstallmentPending, down.Status)

	total := decimal.Zero
	for i, inst := range installments {
		suite.Equal(i, inst.Number)
		suite.Equal(suite.project.ProjectID, inst.ProjectID)
		suite.Equal(domain.ARS, inst.Currency)
		suite.True(inst.PaidAmount.IsZero())
		total = total.Add(inst.Amount)
		if i > 0 {
			suite.True(inst.Amount.Equal(decimal.NewFromInt(350000)), "installment %d amount, got %s", i, inst.Amount)
			suite.Equal(suite.project.StartDate.AddDate(0, i, 0), inst.DueDate)
		}
	}
	suite.True(total.Equal(suite.project.TotalAmount), "schedule must sum to project total, got %s", total)

	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func (suite *ScheduleServiceTestSuite) TestGenerateSchedule_LastInstallmentAbsorbsRemainder() {
	suite.project.TotalAmount = decimal.NewFromInt(1000)
	suite.project.DownPaymentAmount = decimal.Zero
	suite.project.InstallmentsCount = 3
	suite.mockInstallmentRepo.On("SaveInstallments", suite.ctx, mock.AnythingOfType("[]domain.Installment")).Return(nil).Once()

	installments, err := suite.service.GenerateSchedule(suite.ctx, suite.project, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(installments, 3)
	suite.True(installments[0].Amount.Equal(decimal.RequireFromString("333.33")))
	suite.True(installments[1].Amount.Equal(decimal.RequireFromString("333.33")))
	suite.True(installments[2].Amount.Equal(decimal.RequireFromString("333.34")))

	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func (suite *ScheduleServiceTestSuite) TestGenerateSchedule_NoDownPaymentOmitsEntryZero() {
	suite.project.DownPaymentAmount = decimal.Zero
	suite.project.InstallmentsCount = 5
	suite.mockInstallmentRepo.On("SaveInstallments", suite.ctx, mock.AnythingOfType("[]domain.Installment")).Return(nil).Once()

	installments, err := suite.service.GenerateSchedule(suite.ctx, suite.project, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(installments, 5)
	suite.Equal(1, installments[0].Number)

	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func (suite *ScheduleServiceTestSuite) TestGenerateSchedule_EmptySchedule() {
	suite.project.TotalAmount = decimal.Zero
	suite.project.DownPaymentAmount = decimal.Zero
	suite.project.InstallmentsCount = 0

	installments, err := suite.service.GenerateSchedule(suite.ctx, suite.project, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(installments)
	suite.mockInstallmentRepo.AssertNotCalled(suite.T(), "SaveInstallments", mock.Anything, mock.Anything)
}

func (suite *ScheduleServiceTestSuite) TestGenerateSchedule_DownPaymentExceedsTotal() {
	suite.project.DownPaymentAmount = decimal.NewFromInt(6000000)

	_, err := suite.service.GenerateSchedule(suite.ctx, suite.project, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidSchedule)
	suite.mockInstallmentRepo.AssertNotCalled(suite.T(), "SaveInstallments", mock.Anything, mock.Anything)
}

func (suite *ScheduleServiceTestSuite) TestGenerateSchedule_NegativeTotal() {
	suite.project.TotalAmount = decimal.NewFromInt(-1)

	_, err := suite.service.GenerateSchedule(suite.ctx, suite.project, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidSchedule)
}

func (suite *ScheduleServiceTestSuite) TestGenerateSchedule_ZeroInstallmentsWithRemainder() {
	suite.project.InstallmentsCount = 0

	_, err := suite.service.GenerateSchedule(suite.ctx, suite.project, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidSchedule)
	suite.mockInstallmentRepo.AssertNotCalled(suite.T(), "SaveInstallments", mock.Anything, mock.Anything)
}

func (suite *ScheduleServiceTestSuite) TestGenerateSchedule_UnsupportedCurrency() {
	suite.project.Currency = domain.Currency("EUR")

	_, err := suite.service.GenerateSchedule(suite.ctx, suite.project, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidSchedule)
}

func (suite *ScheduleServiceTestSuite) TestGenerateSchedule_SaveError() {
	suite.mockInstallmentRepo.On("SaveInstallments", suite.ctx, mock.AnythingOfType("[]domain.Installment")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.GenerateSchedule(suite.ctx, suite.project, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func TestScheduleService(t *testing.T) {
	suite.Run(t, new(ScheduleServiceTestSuite))
}
