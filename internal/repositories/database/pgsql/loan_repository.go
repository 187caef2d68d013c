package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obralink/cashbox-backend/internal/apperrors"
	"github.com/obralink/cashbox-backend/internal/core/domain"
	portsrepo "github.com/obralink/cashbox-backend/internal/core/ports/repositories"
	"github.com/obralink/cashbox-backend/internal/models"
	"github.com/obralink/cashbox-backend/internal/utils/mapping"
)

type PgxLoanRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxLoanRepository creates a new repository for loan data. The account
// repository applies the disbursement movement to the master cash box inside
// the loan creation transaction.
func newPgxLoanRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

const loanColumns = `loan_id, borrower, principal, currency, installments_count, start_date, status, description, created_at, created_by, last_updated_at, last_updated_by`

const loanInstallmentColumns = `loan_installment_id, loan_id, number, amount, currency, due_date, status, paid_amount, paid_date, created_at, created_by, last_updated_at, last_updated_by`

func scanLoanRow(row pgx.Row) (models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.Borrower,
		&m.Principal,
		&m.Currency,
		&m.InstallmentsCount,
		&m.StartDate,
		&m.Status,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLoanInstallmentRow(row pgx.Row) (models.LoanInstallment, error) {
	var m models.LoanInstallment
	err := row.Scan(
		&m.LoanInstallmentID,
		&m.LoanID,
		&m.Number,
		&m.Amount,
		&m.Currency,
		&m.DueDate,
		&m.Status,
		&m.PaidAmount,
		&m.PaidDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindLoanByID retrieves a single loan.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`
	m, err := scanLoanRow(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}
	d := mapping.ToDomainLoan(m)
	return &d, nil
}

// FindLoanInstallmentByID retrieves a single loan installment.
func (r *PgxLoanRepository) FindLoanInstallmentByID(ctx context.Context, loanInstallmentID string) (*domain.LoanInstallment, error) {
	query := `SELECT ` + loanInstallmentColumns + ` FROM loan_installments WHERE loan_installment_id = $1;`
	m, err := scanLoanInstallmentRow(r.Pool.QueryRow(ctx, query, loanInstallmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan installment %s: %w", loanInstallmentID, err)
	}
	d := mapping.ToDomainLoanInstallment(m)
	return &d, nil
}

// ListLoanInstallments retrieves a loan's repayment schedule ordered by number.
func (r *PgxLoanRepository) ListLoanInstallments(ctx context.Context, loanID string) ([]domain.LoanInstallment, error) {
	query := `SELECT ` + loanInstallmentColumns + ` FROM loan_installments WHERE loan_id = $1 ORDER BY number;`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan installments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	modelInstallments := []models.LoanInstallment{}
	for rows.Next() {
		m, err := scanLoanInstallmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan installment row: %w", err)
		}
		modelInstallments = append(modelInstallments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan installment rows: %w", err)
	}
	return mapping.ToDomainLoanInstallmentSlice(modelInstallments), nil
}

// ListLoans retrieves every loan, newest first.
func (r *PgxLoanRepository) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC, loan_id DESC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		m, err := scanLoanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, mapping.ToDomainLoan(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan rows: %w", err)
	}
	return loans, nil
}

// SaveLoanWithSchedule persists the loan, its repayment schedule and the
// disbursement movement in one transaction, updating the disbursing account's
// aggregates.
func (r *PgxLoanRepository) SaveLoanWithSchedule(ctx context.Context, loan domain.Loan, schedule []domain.LoanInstallment, disbursement domain.Movement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accountIDs := []string{}
	if disbursement.SourceAccountID != nil {
		accountIDs = append(accountIDs, *disbursement.SourceAccountID)
	}
	locked, err := r.accountRepo.LockAccountBalancesForUpdate(ctx, tx, accountIDs, disbursement.Currency)
	if err != nil {
		return err
	}
	// Recheck the disbursing balance under the row lock; the service-level
	// check reads through the pool and can race a concurrent disbursement.
	if disbursement.SourceAccountID != nil {
		available := locked[*disbursement.SourceAccountID].Balance.Get(disbursement.Currency)
		if available.LessThan(disbursement.Amount) {
			return fmt.Errorf("%w: balance %s %s on account %s is below loan principal %s",
				apperrors.ErrConflict, available, disbursement.Currency, *disbursement.SourceAccountID, disbursement.Amount)
		}
	}

	m := mapping.ToModelLoan(loan)
	loanQuery := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, loanQuery,
		m.LoanID,
		m.Borrower,
		m.Principal,
		m.Currency,
		m.InstallmentsCount,
		m.StartDate,
		m.Status,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: loan %s already exists", apperrors.ErrDuplicate, m.LoanID)
		}
		return fmt.Errorf("failed to save loan %s: %w", m.LoanID, err)
	}

	installmentQuery := `
		INSERT INTO loan_installments (` + loanInstallmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, li := range schedule {
		mi := mapping.ToModelLoanInstallment(li)
		batch.Queue(installmentQuery,
			mi.LoanInstallmentID,
			mi.LoanID,
			mi.Number,
			mi.Amount,
			mi.Currency,
			mi.DueDate,
			mi.Status,
			mi.PaidAmount,
			mi.PaidDate,
			mi.CreatedAt,
			mi.CreatedBy,
			mi.LastUpdatedAt,
			mi.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert loan installment batch for loan %s: %w", m.LoanID, err)
	}

	if err := insertMovementInTx(ctx, tx, disbursement); err != nil {
		return err
	}
	if err := r.accountRepo.ApplyMovementInTx(ctx, tx, disbursement); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
