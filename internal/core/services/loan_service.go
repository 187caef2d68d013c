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

// loanService manages master-level loans: disbursement out of the master cash
// box, repayment schedules and repayments flowing back in.
type loanService struct {
	loanRepo     portsrepo.LoanRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	movementRepo portsrepo.MovementWriter
	notifier     portssvc.MovementNotifier
}

// NewLoanService creates a new LoanService.
func NewLoanService(
	loanRepo portsrepo.LoanRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	movementRepo portsrepo.MovementWriter,
	notifier portssvc.MovementNotifier,
) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:     loanRepo,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		notifier:     notifier,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CreateLoan disburses a loan from the master cash box and generates its
// repayment schedule. Loan, schedule and disbursement movement are written in
// one repository transaction.
func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.Loan, []domain.LoanInstallment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	currency := domain.Currency(req.Currency)
	if !currency.IsSupported() {
		return nil, nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, req.Currency)
	}
	if !req.Principal.IsPositive() {
		return nil, nil, fmt.Errorf("%w: loan principal must be positive, got %s", apperrors.ErrValidation, req.Principal)
	}
	if req.InstallmentsCount < 1 {
		return nil, nil, fmt.Errorf("%w: loan needs at least one installment, got %d", apperrors.ErrInvalidSchedule, req.InstallmentsCount)
	}

	master, err := s.accountRepo.FindAccountByKind(ctx, domain.MasterAccount)
	if err != nil {
		logger.Error("Failed to load master account for loan", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to find master account: %w", err)
	}
	if master.Balance.Get(currency).LessThan(req.Principal) {
		return nil, nil, fmt.Errorf("%w: master balance %s %s is below loan principal %s",
			apperrors.ErrConflict, master.Balance.Get(currency), currency, req.Principal)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	loan := domain.Loan{
		LoanID:            uuid.NewString(),
		Borrower:          req.Borrower,
		Principal:         req.Principal,
		Currency:          currency,
		InstallmentsCount: req.InstallmentsCount,
		StartDate:         req.StartDate,
		Status:            domain.LoanActive,
		Description:       req.Description,
		AuditFields:       audit,
	}

	parts, err := accounting.SplitEvenWithRemainder(req.Principal, req.InstallmentsCount)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidSchedule, err)
	}
	schedule := make([]domain.LoanInstallment, 0, len(parts))
	for i, amount := range parts {
		schedule = append(schedule, domain.LoanInstallment{
			LoanInstallmentID: uuid.NewString(),
			LoanID:            loan.LoanID,
			Number:            i + 1,
			Amount:            amount,
			Currency:          currency,
			DueDate:           req.StartDate.AddDate(0, i+1, 0),
			Status:            domain.InstallmentPending,
			PaidAmount:        decimal.Zero,
			AuditFields:       audit,
		})
	}

	disbursement := domain.Movement{
		MovementID:      uuid.NewString(),
		Type:            domain.MovementLoanDisbursement,
		Amount:          req.Principal,
		Currency:        currency,
		SourceAccountID: &master.AccountID,
		Description:     fmt.Sprintf("Loan disbursement to %s", req.Borrower),
		AuditFields:     audit,
	}

	if err := s.loanRepo.SaveLoanWithSchedule(ctx, loan, schedule, disbursement); err != nil {
		logger.Error("Failed to save loan", slog.String("borrower", req.Borrower), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to save loan: %w", err)
	}

	s.notify(ctx, disbursement)
	logger.Info("Loan disbursed",
		slog.String("loan_id", loan.LoanID),
		slog.String("principal", req.Principal.String()),
		slog.Int("installments", len(schedule)))
	return &loan, schedule, nil
}

// GetLoanByID retrieves a loan with its repayment schedule, statuses
// rederived against the current date.
func (s *loanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, []domain.LoanInstallment, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}

	schedule, err := s.loanRepo.ListLoanInstallments(ctx, loanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list loan installments for %s: %w", loanID, err)
	}

	now := time.Now().UTC()
	for i := range schedule {
		li := &schedule[i]
		li.Status = domain.DeriveInstallmentStatus(li.Status, li.Amount, li.PaidAmount, li.DueDate, now)
	}
	return loan, schedule, nil
}

// ListLoans retrieves every loan, newest first.
func (s *loanService) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	loans, err := s.loanRepo.ListLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

// RepayLoanInstallment applies a repayment to a loan installment, appending a
// loan repayment movement on the master account. When the last installment of
// the schedule settles, the loan flips to REPAID in the same transaction.
func (s *loanService) RepayLoanInstallment(ctx context.Context, loanInstallmentID string, req dto.ApplyPaymentRequest, userID string) (*domain.LoanInstallment, *domain.Movement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePaymentRequest(req); err != nil {
		return nil, nil, err
	}

	installment, err := s.loanRepo.FindLoanInstallmentByID(ctx, loanInstallmentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to load loan installment", slog.String("loan_installment_id", loanInstallmentID), slog.String("error", err.Error()))
		}
		return nil, nil, fmt.Errorf("failed to find loan installment %s: %w", loanInstallmentID, err)
	}

	loan, err := s.loanRepo.FindLoanByID(ctx, installment.LoanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find loan %s: %w", installment.LoanID, err)
	}
	if loan.Status != domain.LoanActive {
		return nil, nil, fmt.Errorf("%w: loan %s is %s", apperrors.ErrAlreadySettled, loan.LoanID, loan.Status)
	}

	now := time.Now().UTC()
	updated, err := applyToLoanInstallment(*installment, req.Amount, domain.Currency(req.Currency), userID, now)
	if err != nil {
		logger.Warn("Loan repayment rejected", slog.String("loan_installment_id", loanInstallmentID), slog.String("error", err.Error()))
		return nil, nil, err
	}

	master, err := s.accountRepo.FindAccountByKind(ctx, domain.MasterAccount)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find master account: %w", err)
	}

	movement := domain.Movement{
		MovementID:           uuid.NewString(),
		Type:                 domain.MovementLoanRepayment,
		Amount:               req.Amount,
		Currency:             domain.Currency(req.Currency),
		DestinationAccountID: &master.AccountID,
		LoanInstallmentID:    &updated.LoanInstallmentID,
		Description:          req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if movement.Description == "" {
		movement.Description = fmt.Sprintf("Loan repayment #%d from %s", updated.Number, loan.Borrower)
	}
	if req.Reference != "" {
		ref := req.Reference
		movement.SourcePaymentID = &ref
	}

	var loanStatus *domain.LoanStatus
	if updated.Status == domain.InstallmentPaid {
		settled, err := s.scheduleSettled(ctx, loan.LoanID, updated)
		if err != nil {
			return nil, nil, err
		}
		if settled {
			repaid := domain.LoanRepaid
			loanStatus = &repaid
		}
	}

	if err := s.movementRepo.RecordLoanRepayment(ctx, movement, updated, loanStatus); err != nil {
		logger.Error("Failed to record loan repayment", slog.String("loan_installment_id", loanInstallmentID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to record loan repayment: %w", err)
	}

	s.notify(ctx, movement)
	logger.Info("Loan repayment applied",
		slog.String("loan_installment_id", updated.LoanInstallmentID),
		slog.String("movement_id", movement.MovementID),
		slog.Bool("loan_settled", loanStatus != nil))
	return &updated, &movement, nil
}

// applyToLoanInstallment mirrors applyToInstallment for loan schedules.
func applyToLoanInstallment(installment domain.LoanInstallment, amount decimal.Decimal, currency domain.Currency, userID string, now time.Time) (domain.LoanInstallment, error) {
	if installment.Status.IsTerminal() {
		return installment, fmt.Errorf("%w: loan installment %s is %s", apperrors.ErrAlreadySettled, installment.LoanInstallmentID, installment.Status)
	}
	if installment.Currency != currency {
		return installment, fmt.Errorf("%w: repayment currency %s does not match installment currency %s", apperrors.ErrValidation, currency, installment.Currency)
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

// scheduleSettled reports whether every installment of the loan is settled
// once justPaid is persisted.
func (s *loanService) scheduleSettled(ctx context.Context, loanID string, justPaid domain.LoanInstallment) (bool, error) {
	schedule, err := s.loanRepo.ListLoanInstallments(ctx, loanID)
	if err != nil {
		return false, fmt.Errorf("failed to list loan installments for %s: %w", loanID, err)
	}
	for _, li := range schedule {
		if li.LoanInstallmentID == justPaid.LoanInstallmentID {
			continue
		}
		if !li.Status.IsTerminal() {
			return false, nil
		}
	}
	return true, nil
}

func (s *loanService) notify(ctx context.Context, movement domain.Movement) {
	if s.notifier != nil {
		s.notifier.MovementRecorded(ctx, movement)
	}
}
