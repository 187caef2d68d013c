package services

import (
	"context"
	"errors"
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
	"github.com/obralink/cashbox-backend/internal/utils/accounting"
)

// paymentService applies incoming payments to installments, contractor
// payments and loan repayments, writing the ledger and account aggregates
// through the repository's atomic record operations.
type paymentService struct {
	installmentRepo portsrepo.InstallmentRepositoryFacade
	contractorRepo  portsrepo.ContractorPaymentRepositoryFacade
	projectRepo     portsrepo.ProjectRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	movementRepo    portsrepo.MovementRepositoryFacade
	notifier        portssvc.MovementNotifier
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	contractorRepo portsrepo.ContractorPaymentRepositoryFacade,
	projectRepo portsrepo.ProjectRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	movementRepo portsrepo.MovementRepositoryFacade,
	notifier portssvc.MovementNotifier,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		installmentRepo: installmentRepo,
		contractorRepo:  contractorRepo,
		projectRepo:     projectRepo,
		accountRepo:     accountRepo,
		movementRepo:    movementRepo,
		notifier:        notifier,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// validatePaymentRequest checks shape and range of an incoming payment.
func validatePaymentRequest(req dto.ApplyPaymentRequest) error {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: payment amount must be positive, got %s", apperrors.ErrValidation, req.Amount)
	}
	if !domain.Currency(req.Currency).IsSupported() {
		return fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, req.Currency)
	}
	return nil
}

// applyToInstallment computes the installment's post-payment state without
// persisting anything. Overpayment is rejected outright, never capped.
func applyToInstallment(installment domain.Installment, amount decimal.Decimal, currency domain.Currency, userID string, now time.Time) (domain.Installment, error) {
	if installment.Status.IsTerminal() {
		return installment, fmt.Errorf("%w: installment %s is %s", apperrors.ErrAlreadySettled, installment.InstallmentID, installment.Status)
	}
	if installment.Currency != currency {
		return installment, fmt.Errorf("%w: payment currency %s does not match installment currency %s", apperrors.ErrValidation, currency, installment.Currency)
	}

	newPaid := installment.PaidAmount.Add(amount)
	if newPaid.GreaterThan(installment.Amount) {
		return installment, fmt.Errorf("%w: %s paid plus %s exceeds installment amount %s",
			apperrors.ErrOverpayment, installment.PaidAmount, amount, installment.Amount)
	}

	installment.PaidAmount = newPaid
	installment.Status = domain.DeriveInstallmentStatus(installment.Status, installment.Amount, newPaid, installment.DueDate, now)
	if installment.Status == domain.InstallmentPaid {
		installment.PaidDate = &now
	}
	installment.LastUpdatedAt = now
	installment.LastUpdatedBy = userID
	return installment, nil
}

// ApplyInstallmentPayment applies a payment to an installment. The updated
// installment, the income movement and the project account aggregates are
// written in one repository transaction.
func (s *paymentService) ApplyInstallmentPayment(ctx context.Context, installmentID string, req dto.ApplyPaymentRequest, userID string) (*domain.Installment, *domain.Movement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePaymentRequest(req); err != nil {
		return nil, nil, err
	}

	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to load installment for payment", slog.String("installment_id", installmentID), slog.String("error", err.Error()))
		}
		return nil, nil, fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, installment.ProjectID)
	if err != nil {
		logger.Error("Failed to load project for payment", slog.String("project_id", installment.ProjectID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to find project %s: %w", installment.ProjectID, err)
	}

	now := time.Now().UTC()
	updated, err := applyToInstallment(*installment, req.Amount, domain.Currency(req.Currency), userID, now)
	if err != nil {
		logger.Warn("Payment rejected", slog.String("installment_id", installmentID), slog.String("error", err.Error()))
		return nil, nil, err
	}

	movement := s.buildMovement(domain.MovementIncome, req, userID, now)
	movement.DestinationAccountID = &project.AccountID
	movement.InstallmentID = &updated.InstallmentID
	if movement.Description == "" {
		movement.Description = fmt.Sprintf("Payment of installment #%d, project %s", updated.Number, project.Name)
	}

	if err := s.movementRepo.RecordInstallmentPayment(ctx, movement, updated); err != nil {
		logger.Error("Failed to record installment payment", slog.String("installment_id", installmentID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to record installment payment: %w", err)
	}

	s.notify(ctx, movement)
	logger.Info("Installment payment applied",
		slog.String("installment_id", updated.InstallmentID),
		slog.String("movement_id", movement.MovementID),
		slog.String("status", string(updated.Status)))
	return &updated, &movement, nil
}

// SettleContractorPayment marks a contractor payment paid. Contractor
// payments have no partial state so the amount must match the obligation
// exactly; anything above is an overpayment, anything below a validation error.
func (s *paymentService) SettleContractorPayment(ctx context.Context, contractorPaymentID string, req dto.ApplyPaymentRequest, userID string) (*domain.ContractorPayment, *domain.Movement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePaymentRequest(req); err != nil {
		return nil, nil, err
	}

	payment, err := s.contractorRepo.FindContractorPaymentByID(ctx, contractorPaymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to load contractor payment", slog.String("contractor_payment_id", contractorPaymentID), slog.String("error", err.Error()))
		}
		return nil, nil, fmt.Errorf("failed to find contractor payment %s: %w", contractorPaymentID, err)
	}

	if payment.Status.IsTerminal() {
		return nil, nil, fmt.Errorf("%w: contractor payment %s is %s", apperrors.ErrAlreadySettled, contractorPaymentID, payment.Status)
	}
	if payment.Currency != domain.Currency(req.Currency) {
		return nil, nil, fmt.Errorf("%w: payment currency %s does not match obligation currency %s", apperrors.ErrValidation, req.Currency, payment.Currency)
	}
	if req.Amount.GreaterThan(payment.Amount) {
		return nil, nil, fmt.Errorf("%w: %s exceeds obligation amount %s", apperrors.ErrOverpayment, req.Amount, payment.Amount)
	}
	if req.Amount.LessThan(payment.Amount) {
		return nil, nil, fmt.Errorf("%w: contractor payments settle in full, got %s of %s", apperrors.ErrValidation, req.Amount, payment.Amount)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, payment.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find project %s: %w", payment.ProjectID, err)
	}

	now := time.Now().UTC()
	updated := *payment
	updated.Status = domain.ContractorPaymentPaid
	updated.PaymentDate = &now
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	movement := s.buildMovement(domain.MovementExpense, req, userID, now)
	movement.SourceAccountID = &project.AccountID
	movement.ContractorPaymentID = &updated.ContractorPaymentID
	if movement.Description == "" {
		movement.Description = fmt.Sprintf("Contractor payment (%s), project %s", updated.PaymentType, project.Name)
	}

	if err := s.movementRepo.RecordContractorPayment(ctx, movement, updated); err != nil {
		logger.Error("Failed to record contractor payment", slog.String("contractor_payment_id", contractorPaymentID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to record contractor payment: %w", err)
	}

	s.notify(ctx, movement)
	logger.Info("Contractor payment settled",
		slog.String("contractor_payment_id", updated.ContractorPaymentID),
		slog.String("movement_id", movement.MovementID))
	return &updated, &movement, nil
}

// DistributeInstallmentPayment applies a payment to an installment and splits
// the money between the project account and the admin account by the
// project's admin fee percentage. Both movements and both account updates
// happen in one repository transaction; there is no state where only one side
// is recorded.
func (s *paymentService) DistributeInstallmentPayment(ctx context.Context, installmentID string, req dto.ApplyPaymentRequest, userID string) (*domain.Installment, []domain.Movement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePaymentRequest(req); err != nil {
		return nil, nil, err
	}

	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, installment.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find project %s: %w", installment.ProjectID, err)
	}

	now := time.Now().UTC()
	updated, err := applyToInstallment(*installment, req.Amount, domain.Currency(req.Currency), userID, now)
	if err != nil {
		logger.Warn("Distribution rejected", slog.String("installment_id", installmentID), slog.String("error", err.Error()))
		return nil, nil, err
	}

	adminShare, projectShare, err := accounting.FeeSplit(req.Amount, project.AdminFeePercent)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	// Both movements reference the same source payment so the split stays traceable.
	sourcePaymentID := req.Reference
	if sourcePaymentID == "" {
		sourcePaymentID = uuid.NewString()
	}

	projectMovement := s.buildMovement(domain.MovementIncome, req, userID, now)
	projectMovement.Amount = projectShare
	projectMovement.DestinationAccountID = &project.AccountID
	projectMovement.InstallmentID = &updated.InstallmentID
	projectMovement.SourcePaymentID = &sourcePaymentID
	if projectMovement.Description == "" {
		projectMovement.Description = fmt.Sprintf("Project share of installment #%d payment, project %s", updated.Number, project.Name)
	}

	if adminShare.IsZero() {
		// No fee configured: record the whole payment on the project account.
		projectMovement.Amount = req.Amount
		if err := s.movementRepo.RecordInstallmentPayment(ctx, projectMovement, updated); err != nil {
			return nil, nil, fmt.Errorf("failed to record installment payment: %w", err)
		}
		s.notify(ctx, projectMovement)
		return &updated, []domain.Movement{projectMovement}, nil
	}

	adminAccount, err := s.accountRepo.FindAccountByKind(ctx, domain.AdminAccount)
	if err != nil {
		logger.Error("Failed to load admin account for distribution", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to find admin account: %w", err)
	}

	adminMovement := s.buildMovement(domain.MovementIncome, req, userID, now)
	adminMovement.MovementID = uuid.NewString()
	adminMovement.Amount = adminShare
	adminMovement.DestinationAccountID = &adminAccount.AccountID
	adminMovement.InstallmentID = &updated.InstallmentID
	adminMovement.SourcePaymentID = &sourcePaymentID
	adminMovement.Description = fmt.Sprintf("Admin fee (%s%%) of installment #%d payment, project %s", project.AdminFeePercent, updated.Number, project.Name)

	if err := s.movementRepo.RecordDistribution(ctx, projectMovement, adminMovement, updated); err != nil {
		logger.Error("Failed to record distribution", slog.String("installment_id", installmentID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to record distribution: %w", err)
	}

	s.notify(ctx, projectMovement)
	s.notify(ctx, adminMovement)
	logger.Info("Installment payment distributed",
		slog.String("installment_id", updated.InstallmentID),
		slog.String("source_payment_id", sourcePaymentID),
		slog.String("admin_share", adminShare.String()),
		slog.String("project_share", projectShare.String()))
	return &updated, []domain.Movement{projectMovement, adminMovement}, nil
}

// buildMovement assembles the common fields of a ledger entry.
func (s *paymentService) buildMovement(movementType domain.MovementType, req dto.ApplyPaymentRequest, userID string, now time.Time) domain.Movement {
	m := domain.Movement{
		MovementID:  uuid.NewString(),
		Type:        movementType,
		Amount:      req.Amount,
		Currency:    domain.Currency(req.Currency),
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.Reference != "" {
		ref := req.Reference
		m.SourcePaymentID = &ref
	}
	return m
}

func (s *paymentService) notify(ctx context.Context, movement domain.Movement) {
	if s.notifier != nil {
		s.notifier.MovementRecorded(ctx, movement)
	}
}
