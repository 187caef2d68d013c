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
	"github.com/obralink/cashbox-backend/internal/dto"
	"github.com/obralink/cashbox-backend/internal/middleware"
)

const defaultProjectPageSize = 20

// projectService manages projects, their cash-box accounts and contractor
// obligations.
type projectService struct {
	projectRepo     portsrepo.ProjectRepositoryFacade
	installmentRepo portsrepo.InstallmentRepositoryFacade
	contractorRepo  portsrepo.ContractorPaymentRepositoryFacade
	scheduleSvc     portssvc.ScheduleSvcFacade
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projectRepo portsrepo.ProjectRepositoryFacade,
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	contractorRepo portsrepo.ContractorPaymentRepositoryFacade,
	scheduleSvc portssvc.ScheduleSvcFacade,
) portssvc.ProjectSvcFacade {
	return &projectService{
		projectRepo:     projectRepo,
		installmentRepo: installmentRepo,
		contractorRepo:  contractorRepo,
		scheduleSvc:     scheduleSvc,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// CreateProject persists a project with its cash-box account, then generates
// its installment schedule. The project and account are written in one
// transaction; the schedule is a second atomic batch.
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, []domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	currency := domain.Currency(req.Currency)
	if !currency.IsSupported() {
		return nil, nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, req.Currency)
	}
	if req.AdminFeePercent.IsNegative() || req.AdminFeePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, nil, fmt.Errorf("%w: admin fee percent must be between 0 and 100, got %s", apperrors.ErrValidation, req.AdminFeePercent)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	project := domain.Project{
		ProjectID:         uuid.NewString(),
		Name:              req.Name,
		ClientName:        req.ClientName,
		Currency:          currency,
		TotalAmount:       req.TotalAmount,
		DownPaymentAmount: req.DownPaymentAmount,
		InstallmentsCount: req.InstallmentsCount,
		AdminFeePercent:   req.AdminFeePercent,
		StartDate:         req.StartDate,
		Status:            domain.ProjectActive,
		AccountID:         uuid.NewString(),
		AuditFields:       audit,
	}

	// Validate the schedule before anything is persisted so a bad request
	// leaves no project behind.
	if err := validateScheduleParams(project); err != nil {
		return nil, nil, err
	}

	account := domain.Account{
		AccountID:     project.AccountID,
		Kind:          domain.ProjectAccount,
		ProjectID:     &project.ProjectID,
		Name:          project.Name,
		Balance:       domain.CurrencyAmounts{},
		TotalIncome:   domain.CurrencyAmounts{},
		TotalExpenses: domain.CurrencyAmounts{},
		IsActive:      true,
		AuditFields:   audit,
	}

	if err := s.projectRepo.SaveProject(ctx, project, account); err != nil {
		logger.Error("Failed to save project", slog.String("project_name", req.Name), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to save project: %w", err)
	}

	installments, err := s.scheduleSvc.GenerateSchedule(ctx, project, creatorUserID)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Project created",
		slog.String("project_id", project.ProjectID),
		slog.String("account_id", project.AccountID),
		slog.Int("installments", len(installments)))
	return &project, installments, nil
}

// GetProjectByID retrieves a single project.
func (s *projectService) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	return project, nil
}

// ListProjects retrieves a paginated list of projects, newest first.
func (s *projectService) ListProjects(ctx context.Context, limit int, nextToken *string) ([]domain.Project, *string, error) {
	if limit <= 0 {
		limit = defaultProjectPageSize
	}
	projects, next, err := s.projectRepo.ListProjects(ctx, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, next, nil
}

// ListContractorPayments retrieves a project's contractor payments.
func (s *projectService) ListContractorPayments(ctx context.Context, projectID string) ([]domain.ContractorPayment, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	payments, err := s.contractorRepo.ListContractorPaymentsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contractor payments for project %s: %w", projectID, err)
	}
	return payments, nil
}

// CancelInstallment marks a pending, unpaid installment as cancelled.
// Cancellation is terminal: the installment never rederives another status
// and accepts no further payments.
func (s *projectService) CancelInstallment(ctx context.Context, installmentID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.installmentRepo.CancelInstallment(ctx, installmentID, userID); err != nil {
		logger.Warn("Installment cancellation rejected", slog.String("installment_id", installmentID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to cancel installment %s: %w", installmentID, err)
	}

	logger.Info("Installment cancelled", slog.String("installment_id", installmentID))
	return nil
}

// ListProjectInstallments retrieves a project's schedule with each status
// rederived against the current date, so installments past due read OVERDUE
// without a background writer.
func (s *projectService) ListProjectInstallments(ctx context.Context, projectID string) ([]domain.Installment, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}

	installments, err := s.installmentRepo.ListInstallmentsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments for project %s: %w", projectID, err)
	}

	now := time.Now().UTC()
	for i := range installments {
		inst := &installments[i]
		inst.Status = domain.DeriveInstallmentStatus(inst.Status, inst.Amount, inst.PaidAmount, inst.DueDate, now)
	}
	return installments, nil
}

// CreateContractorPayment registers a pending obligation towards a contractor.
func (s *projectService) CreateContractorPayment(ctx context.Context, projectID string, req dto.CreateContractorPaymentRequest, userID string) (*domain.ContractorPayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	currency := domain.Currency(req.Currency)
	if !currency.IsSupported() {
		return nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, req.Currency)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, req.Amount)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	if project.Status == domain.ProjectArchived {
		return nil, fmt.Errorf("%w: project %s is archived", apperrors.ErrConflict, projectID)
	}

	now := time.Now().UTC()
	payment := domain.ContractorPayment{
		ContractorPaymentID: uuid.NewString(),
		ProjectID:           projectID,
		ProjectContractorID: req.ProjectContractorID,
		Amount:              req.Amount,
		Currency:            currency,
		Status:              domain.ContractorPaymentPending,
		PaymentType:         domain.ContractorPaymentType(req.PaymentType),
		Description:         req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.contractorRepo.SaveContractorPayment(ctx, payment); err != nil {
		logger.Error("Failed to save contractor payment", slog.String("project_id", projectID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save contractor payment: %w", err)
	}

	logger.Info("Contractor payment registered",
		slog.String("contractor_payment_id", payment.ContractorPaymentID),
		slog.String("project_id", projectID))
	return &payment, nil
}

// ArchiveProject soft-archives a project and deactivates its account. The
// ledger and schedule are kept.
func (s *projectService) ArchiveProject(ctx context.Context, projectID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	if project.Status == domain.ProjectArchived {
		return fmt.Errorf("%w: project %s is already archived", apperrors.ErrConflict, projectID)
	}

	if err := s.projectRepo.ArchiveProject(ctx, projectID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to archive project", slog.String("project_id", projectID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to archive project %s: %w", projectID, err)
	}

	logger.Info("Project archived", slog.String("project_id", projectID))
	return nil
}
