package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/obralink/cashbox-backend/internal/apperrors"
	"github.com/obralink/cashbox-backend/internal/core/domain"
	portsrepo "github.com/obralink/cashbox-backend/internal/core/ports/repositories"
	"github.com/obralink/cashbox-backend/internal/models"
	"github.com/obralink/cashbox-backend/internal/utils/mapping"
	"github.com/obralink/cashbox-backend/internal/utils/pagination"
)

type PgxMovementRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxMovementRepository creates a new repository for the movement ledger.
// The account repository performs the balance updates inside ledger transactions.
func newPgxMovementRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.MovementRepositoryWithTx {
	return &PgxMovementRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.MovementRepositoryWithTx = (*PgxMovementRepository)(nil)

const movementColumns = `movement_id, type, amount, currency, source_account_id, destination_account_id, installment_id, contractor_payment_id, loan_installment_id, source_payment_id, description, created_at, created_by, last_updated_at, last_updated_by`

func scanMovementRow(row pgx.Row) (models.Movement, error) {
	var m models.Movement
	err := row.Scan(
		&m.MovementID,
		&m.Type,
		&m.Amount,
		&m.Currency,
		&m.SourceAccountID,
		&m.DestinationAccountID,
		&m.InstallmentID,
		&m.ContractorPaymentID,
		&m.LoanInstallmentID,
		&m.SourcePaymentID,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindMovementByID retrieves a single ledger entry.
func (r *PgxMovementRepository) FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE movement_id = $1;`
	m, err := scanMovementRow(r.Pool.QueryRow(ctx, query, movementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find movement %s: %w", movementID, err)
	}
	d := mapping.ToDomainMovement(m)
	return &d, nil
}

// ListMovementsByAccount retrieves movements touching an account, newest
// first, using token-based pagination keyed on (created_at, movement_id).
func (r *PgxMovementRepository) ListMovementsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Movement, *string, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE (source_account_id = $1 OR destination_account_id = $1)
	`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		createdAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, movement_id) < ($2, $3)`
		args = append(args, createdAt, lastID)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, movement_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query movements for account %s: %w", accountID, err)
	}
	defer rows.Close()

	modelMovements := []models.Movement{}
	for rows.Next() {
		m, err := scanMovementRow(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		modelMovements = append(modelMovements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating movement rows: %w", err)
	}

	var newToken *string
	if len(modelMovements) > limit {
		modelMovements = modelMovements[:limit]
		last := modelMovements[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.MovementID)
		newToken = &token
	}

	return mapping.ToDomainMovementSlice(modelMovements), newToken, nil
}

// SumMovementsByAccount replays the ledger for one account and returns the
// per-currency income and expense totals.
func (r *PgxMovementRepository) SumMovementsByAccount(ctx context.Context, accountID string) (domain.CurrencyAmounts, domain.CurrencyAmounts, error) {
	query := `
		SELECT currency,
		       COALESCE(SUM(amount) FILTER (WHERE destination_account_id = $1), 0) AS income,
		       COALESCE(SUM(amount) FILTER (WHERE source_account_id = $1), 0) AS expenses
		FROM movements
		WHERE source_account_id = $1 OR destination_account_id = $1
		GROUP BY currency;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sum movements for account %s: %w", accountID, err)
	}
	defer rows.Close()

	income := domain.CurrencyAmounts{}
	expenses := domain.CurrencyAmounts{}
	for rows.Next() {
		var b models.AccountBalance
		if err := rows.Scan(&b.Currency, &b.TotalIncome, &b.TotalExpenses); err != nil {
			return nil, nil, fmt.Errorf("failed to scan movement sum row: %w", err)
		}
		c := domain.Currency(b.Currency)
		income[c] = b.TotalIncome
		expenses[c] = b.TotalExpenses
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating movement sum rows: %w", err)
	}
	return income, expenses, nil
}

// insertMovementInTx appends one ledger row using the given transaction.
func insertMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.Movement) error {
	m := mapping.ToModelMovement(movement)
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		m.MovementID,
		m.Type,
		m.Amount,
		m.Currency,
		m.SourceAccountID,
		m.DestinationAccountID,
		m.InstallmentID,
		m.ContractorPaymentID,
		m.LoanInstallmentID,
		m.SourcePaymentID,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: movement %s already exists", apperrors.ErrDuplicate, m.MovementID)
		}
		return fmt.Errorf("failed to insert movement %s: %w", m.MovementID, err)
	}
	return nil
}

// movementAccountIDs collects the accounts a movement touches, for locking.
func movementAccountIDs(movements ...domain.Movement) []string {
	seen := map[string]struct{}{}
	ids := []string{}
	for _, m := range movements {
		for _, accID := range []*string{m.SourceAccountID, m.DestinationAccountID} {
			if accID == nil {
				continue
			}
			if _, ok := seen[*accID]; ok {
				continue
			}
			seen[*accID] = struct{}{}
			ids = append(ids, *accID)
		}
	}
	return ids
}

// updateInstallmentInTx persists the post-payment state of an installment.
// The update only lands if the row still carries the paid_amount the payment
// was computed against and is not already terminal, so two concurrent
// payments cannot both apply against the same pre-payment state.
func updateInstallmentInTx(ctx context.Context, tx pgx.Tx, installment domain.Installment, prevPaid decimal.Decimal) error {
	m := mapping.ToModelInstallment(installment)
	query := `
		UPDATE installments
		SET status = $2, paid_amount = $3, paid_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE installment_id = $1 AND paid_amount = $7 AND status NOT IN ($8, $9);
	`
	ct, err := tx.Exec(ctx, query,
		m.InstallmentID,
		m.Status,
		m.PaidAmount,
		m.PaidDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		prevPaid,
		string(domain.InstallmentPaid),
		string(domain.InstallmentCancelled),
	)
	if err != nil {
		return fmt.Errorf("failed to update installment %s: %w", m.InstallmentID, err)
	}
	if ct.RowsAffected() == 0 {
		return staleRowError(ctx, tx, "installments", "installment_id", m.InstallmentID)
	}
	return nil
}

// staleRowError distinguishes a guarded zero-row UPDATE between a missing row
// and one that was concurrently modified past the state the write assumed.
func staleRowError(ctx context.Context, tx pgx.Tx, table, idColumn, id string) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE ` + idColumn + ` = $1);`
	if err := tx.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check %s row %s: %w", table, id, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, idColumn, id)
	}
	return fmt.Errorf("%w: %s %s was modified concurrently", apperrors.ErrConflict, idColumn, id)
}

// RecordInstallmentPayment appends the income movement, persists the updated
// installment and applies the balance change in one transaction.
func (r *PgxMovementRepository) RecordInstallmentPayment(ctx context.Context, movement domain.Movement, installment domain.Installment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.accountRepo.LockAccountBalancesForUpdate(ctx, tx, movementAccountIDs(movement), movement.Currency); err != nil {
		return err
	}
	if err := insertMovementInTx(ctx, tx, movement); err != nil {
		return err
	}
	if err := updateInstallmentInTx(ctx, tx, installment, installment.PaidAmount.Sub(movement.Amount)); err != nil {
		return err
	}
	if err := r.accountRepo.ApplyMovementInTx(ctx, tx, movement); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// RecordContractorPayment appends the expense movement and persists the
// updated contractor payment in one transaction.
func (r *PgxMovementRepository) RecordContractorPayment(ctx context.Context, movement domain.Movement, payment domain.ContractorPayment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.accountRepo.LockAccountBalancesForUpdate(ctx, tx, movementAccountIDs(movement), movement.Currency); err != nil {
		return err
	}
	if err := insertMovementInTx(ctx, tx, movement); err != nil {
		return err
	}

	m := mapping.ToModelContractorPayment(payment)
	query := `
		UPDATE contractor_payments
		SET status = $2, payment_date = $3, last_updated_at = $4, last_updated_by = $5
		WHERE contractor_payment_id = $1 AND status NOT IN ($6, $7);
	`
	ct, err := tx.Exec(ctx, query,
		m.ContractorPaymentID,
		m.Status,
		m.PaymentDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		string(domain.ContractorPaymentPaid),
		string(domain.ContractorPaymentCancelled),
	)
	if err != nil {
		return fmt.Errorf("failed to update contractor payment %s: %w", m.ContractorPaymentID, err)
	}
	if ct.RowsAffected() == 0 {
		return staleRowError(ctx, tx, "contractor_payments", "contractor_payment_id", m.ContractorPaymentID)
	}

	if err := r.accountRepo.ApplyMovementInTx(ctx, tx, movement); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// RecordDistribution appends the two linked movements of a fee split and
// persists the updated installment. Both account updates happen in the same
// transaction, so the split is never half recorded.
func (r *PgxMovementRepository) RecordDistribution(ctx context.Context, projectMovement, adminMovement domain.Movement, installment domain.Installment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.accountRepo.LockAccountBalancesForUpdate(ctx, tx, movementAccountIDs(projectMovement, adminMovement), projectMovement.Currency); err != nil {
		return err
	}
	for _, movement := range []domain.Movement{projectMovement, adminMovement} {
		if err := insertMovementInTx(ctx, tx, movement); err != nil {
			return err
		}
		if err := r.accountRepo.ApplyMovementInTx(ctx, tx, movement); err != nil {
			return err
		}
	}
	prevPaid := installment.PaidAmount.Sub(projectMovement.Amount).Sub(adminMovement.Amount)
	if err := updateInstallmentInTx(ctx, tx, installment, prevPaid); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// RecordLoanRepayment appends the repayment movement, persists the updated
// loan installment and, when the schedule is settled, the loan's new status.
func (r *PgxMovementRepository) RecordLoanRepayment(ctx context.Context, movement domain.Movement, installment domain.LoanInstallment, loanStatus *domain.LoanStatus) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.accountRepo.LockAccountBalancesForUpdate(ctx, tx, movementAccountIDs(movement), movement.Currency); err != nil {
		return err
	}
	if err := insertMovementInTx(ctx, tx, movement); err != nil {
		return err
	}

	m := mapping.ToModelLoanInstallment(installment)
	query := `
		UPDATE loan_installments
		SET status = $2, paid_amount = $3, paid_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE loan_installment_id = $1 AND paid_amount = $7 AND status NOT IN ($8, $9);
	`
	ct, err := tx.Exec(ctx, query,
		m.LoanInstallmentID,
		m.Status,
		m.PaidAmount,
		m.PaidDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		installment.PaidAmount.Sub(movement.Amount),
		string(domain.InstallmentPaid),
		string(domain.InstallmentCancelled),
	)
	if err != nil {
		return fmt.Errorf("failed to update loan installment %s: %w", m.LoanInstallmentID, err)
	}
	if ct.RowsAffected() == 0 {
		return staleRowError(ctx, tx, "loan_installments", "loan_installment_id", m.LoanInstallmentID)
	}

	if loanStatus != nil {
		loanQuery := `
			UPDATE loans
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE loan_id = $1;
		`
		if _, err := tx.Exec(ctx, loanQuery, m.LoanID, string(*loanStatus), m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
			return fmt.Errorf("failed to update loan %s status: %w", m.LoanID, err)
		}
	}

	if err := r.accountRepo.ApplyMovementInTx(ctx, tx, movement); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
