package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/obralink/cashbox-backend/internal/apperrors"
	"github.com/obralink/cashbox-backend/internal/core/domain"
	portsrepo "github.com/obralink/cashbox-backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
	"github.com/obralink/cashbox-backend/internal/middleware"
)

// reconciliationUser is the audit identity of aggregate corrections.
const reconciliationUser = "system:reconciliation"

// reconciliationService verifies that stored account aggregates match what
// the movement ledger implies. The ledger is the source of truth: corrections
// rederive the aggregates and never touch movements.
type reconciliationService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	movementRepo portsrepo.MovementReader
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(accountRepo portsrepo.AccountRepositoryFacade, movementRepo portsrepo.MovementReader) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// ReconcileAccount replays the ledger for one account and compares the
// expected per-currency balances against the stored aggregates. Corrections
// are opt-in and overwrite only the denormalized aggregate fields.
func (s *reconciliationService) ReconcileAccount(ctx context.Context, accountID string, applyCorrections bool) (*domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to load account for reconciliation", slog.String("account_id", accountID), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	income, expenses, err := s.movementRepo.SumMovementsByAccount(ctx, accountID)
	if err != nil {
		logger.Error("Failed to sum ledger for reconciliation", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to sum movements for account %s: %w", accountID, err)
	}

	now := time.Now().UTC()
	report := &domain.ReconciliationReport{
		AccountID: accountID,
		CheckedAt: now,
	}

	for _, currency := range domain.SupportedCurrencies {
		expected := income.Get(currency).Sub(expenses.Get(currency))
		stored := account.Balance.Get(currency)
		delta := stored.Sub(expected)
		if delta.Abs().GreaterThan(domain.ReconciliationEpsilon) {
			report.Discrepancies = append(report.Discrepancies, domain.ReconciliationDiscrepancy{
				AccountID: accountID,
				Currency:  currency,
				Stored:    stored,
				Expected:  expected,
				Delta:     delta,
			})
		}
	}

	if report.Consistent() {
		logger.Debug("Account reconciled, no drift", slog.String("account_id", accountID))
		return report, nil
	}

	for _, d := range report.Discrepancies {
		logger.Warn("Reconciliation discrepancy",
			slog.String("account_id", d.AccountID),
			slog.String("currency", string(d.Currency)),
			slog.String("stored", d.Stored.String()),
			slog.String("expected", d.Expected.String()),
			slog.String("delta", d.Delta.String()))
	}

	if applyCorrections {
		// Rederive every aggregate from the ledger sums in one write.
		if err := s.accountRepo.UpdateAccountAggregates(ctx, accountID, income, expenses, reconciliationUser, now); err != nil {
			logger.Error("Failed to correct account aggregates", slog.String("account_id", accountID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to correct aggregates for account %s: %w", accountID, err)
		}
		report.Corrected = true
		logger.Info("Account aggregates corrected from ledger", slog.String("account_id", accountID), slog.Int("discrepancies", len(report.Discrepancies)))
	}

	return report, nil
}

// ReconcileAll reconciles every account, report-only. Used by the scheduled
// consistency check; corrections always require an explicit operator action.
func (s *reconciliationService) ReconcileAll(ctx context.Context) ([]domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	reports := make([]domain.ReconciliationReport, 0, len(accounts))
	for _, account := range accounts {
		report, err := s.ReconcileAccount(ctx, account.AccountID, false)
		if err != nil {
			// Keep checking the remaining accounts.
			logger.Error("Reconciliation failed for account", slog.String("account_id", account.AccountID), slog.String("error", err.Error()))
			continue
		}
		reports = append(reports, *report)
	}
	return reports, nil
}
