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
)

const defaultMovementPageSize = 20

// accountService exposes cash-box reads and bootstraps the system accounts.
type accountService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	movementRepo portsrepo.MovementReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, movementRepo portsrepo.MovementReader) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID retrieves an account with its per-currency aggregates.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// ListAccounts retrieves every cash-box account.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// GetBalance returns the stored balance of an account in one currency.
func (s *accountService) GetBalance(ctx context.Context, accountID string, currency domain.Currency) (decimal.Decimal, error) {
	if !currency.IsSupported() {
		return decimal.Zero, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, currency)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account.Balance.Get(currency), nil
}

// ListMovements retrieves a paginated ledger listing for an account, newest first.
func (s *accountService) ListMovements(ctx context.Context, accountID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = defaultMovementPageSize
	}

	movements, nextToken, err := s.movementRepo.ListMovementsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list movements", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list movements for account %s: %w", accountID, err)
	}

	return &dto.ListMovementsResponse{
		Movements: dto.ToMovementResponses(movements),
		NextToken: nextToken,
	}, nil
}

// GetMovementByID retrieves a single ledger entry.
func (s *accountService) GetMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	movement, err := s.movementRepo.FindMovementByID(ctx, movementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find movement %s: %w", movementID, err)
	}
	return movement, nil
}

// GetProjectAccount retrieves the cash-box account of a project.
func (s *accountService) GetProjectAccount(ctx context.Context, projectID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account for project %s: %w", projectID, err)
	}
	return account, nil
}

// EnsureSystemAccounts creates the MASTER and ADMIN accounts when missing.
// Called once at startup; safe to call again.
func (s *accountService) EnsureSystemAccounts(ctx context.Context, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	for _, kind := range []domain.AccountKind{domain.MasterAccount, domain.AdminAccount} {
		_, err := s.accountRepo.FindAccountByKind(ctx, kind)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to look up %s account: %w", kind, err)
		}

		now := time.Now().UTC()
		account := domain.Account{
			AccountID:     uuid.NewString(),
			Kind:          kind,
			Name:          systemAccountName(kind),
			Balance:       domain.CurrencyAmounts{},
			TotalIncome:   domain.CurrencyAmounts{},
			TotalExpenses: domain.CurrencyAmounts{},
			IsActive:      true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to create %s account: %w", kind, err)
		}
		logger.Info("System account created", slog.String("kind", string(kind)), slog.String("account_id", account.AccountID))
	}
	return nil
}

func systemAccountName(kind domain.AccountKind) string {
	switch kind {
	case domain.MasterAccount:
		return "Master cash box"
	case domain.AdminAccount:
		return "Administration fees"
	default:
		return string(kind)
	}
}
