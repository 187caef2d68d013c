package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/obralink/cashbox-backend/internal/apperrors"
	"github.com/obralink/cashbox-backend/internal/core/domain"
	portsrepo "github.com/obralink/cashbox-backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
	"github.com/obralink/cashbox-backend/internal/middleware"
	"github.com/obralink/cashbox-backend/internal/utils/accounting"
)

// scheduleService derives and persists project payment schedules.
type scheduleService struct {
	installmentRepo portsrepo.InstallmentRepositoryFacade
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(installmentRepo portsrepo.InstallmentRepositoryFacade) portssvc.ScheduleSvcFacade {
	return &scheduleService{installmentRepo: installmentRepo}
}

var _ portssvc.ScheduleSvcFacade = (*scheduleService)(nil)

// validateScheduleParams rejects inconsistent schedule inputs before anything
// is generated.
func validateScheduleParams(p domain.Project) error {
	if p.TotalAmount.IsNegative() {
		return fmt.Errorf("%w: total amount must not be negative, got %s", apperrors.ErrInvalidSchedule, p.TotalAmount)
	}
	if p.DownPaymentAmount.IsNegative() {
		return fmt.Errorf("%w: down payment must not be negative, got %s", apperrors.ErrInvalidSchedule, p.DownPaymentAmount)
	}
	if p.DownPaymentAmount.GreaterThan(p.TotalAmount) {
		return fmt.Errorf("%w: down payment %s exceeds total amount %s", apperrors.ErrInvalidSchedule, p.DownPaymentAmount, p.TotalAmount)
	}
	if p.InstallmentsCount < 0 {
		return fmt.Errorf("%w: installments count must not be negative, got %d", apperrors.ErrInvalidSchedule, p.InstallmentsCount)
	}
	remaining := p.TotalAmount.Sub(p.DownPaymentAmount)
	if p.InstallmentsCount == 0 && remaining.IsPositive() {
		// Otherwise the schedule could never sum to the project total.
		return fmt.Errorf("%w: %s remains after down payment but no installments were requested", apperrors.ErrInvalidSchedule, remaining)
	}
	if !p.Currency.IsSupported() {
		return fmt.Errorf("%w: unsupported currency %s", apperrors.ErrInvalidSchedule, p.Currency)
	}
	return nil
}

// GenerateSchedule builds the down payment plus N monthly installments and
// persists them as one atomic batch. The amounts always sum to the project
// total exactly: the installment split rounds to two decimal places and the
// last installment absorbs the remainder.
func (s *scheduleService) GenerateSchedule(ctx context.Context, project domain.Project, creatorUserID string) ([]domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateScheduleParams(project); err != nil {
		logger.Warn("Rejected installment schedule", slog.String("project_id", project.ProjectID), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	installments := make([]domain.Installment, 0, project.InstallmentsCount+1)

	if project.DownPaymentAmount.IsPositive() {
		installments = append(installments, domain.Installment{
			InstallmentID: uuid.NewString(),
			ProjectID:     project.ProjectID,
			Number:        0,
			Amount:        project.DownPaymentAmount,
			Currency:      project.Currency,
			DueDate:       project.StartDate,
			Status:        domain.InstallmentPending,
			PaidAmount:    decimal.Zero,
			AuditFields:   audit,
		})
	}

	remaining := project.TotalAmount.Sub(project.DownPaymentAmount)
	if project.InstallmentsCount > 0 {
		parts, err := accounting.SplitEvenWithRemainder(remaining, project.InstallmentsCount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidSchedule, err)
		}
		for i, amount := range parts {
			installments = append(installments, domain.Installment{
				InstallmentID: uuid.NewString(),
				ProjectID:     project.ProjectID,
				Number:        i + 1,
				Amount:        amount,
				Currency:      project.Currency,
				// Calendar month arithmetic, not fixed 30 day steps.
				DueDate:     project.StartDate.AddDate(0, i+1, 0),
				Status:      domain.InstallmentPending,
				PaidAmount:  decimal.Zero,
				AuditFields: audit,
			})
		}
	}

	if len(installments) == 0 {
		logger.Info("Project has an empty schedule", slog.String("project_id", project.ProjectID))
		return installments, nil
	}

	// All-or-nothing: the repository persists the batch inside one transaction.
	if err := s.installmentRepo.SaveInstallments(ctx, installments); err != nil {
		logger.Error("Failed to save installment schedule", slog.String("project_id", project.ProjectID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save installment schedule: %w", err)
	}

	logger.Info("Installment schedule generated",
		slog.String("project_id", project.ProjectID),
		slog.Int("installments", len(installments)))
	return installments, nil
}
