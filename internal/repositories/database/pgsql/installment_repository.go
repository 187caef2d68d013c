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

type PgxInstallmentRepository struct {
	BaseRepository
}

// newPgxInstallmentRepository creates a new repository for installment schedules.
func newPgxInstallmentRepository(pool *pgxpool.Pool) portsrepo.InstallmentRepositoryFacade {
	return &PgxInstallmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InstallmentRepositoryFacade = (*PgxInstallmentRepository)(nil)

const installmentColumns = `installment_id, project_id, number, amount, currency, due_date, status, paid_amount, paid_date, created_at, created_by, last_updated_at, last_updated_by`

func scanInstallmentRow(row pgx.Row) (models.Installment, error) {
	var m models.Installment
	err := row.Scan(
		&m.InstallmentID,
		&m.ProjectID,
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

// FindInstallmentByID retrieves a single installment.
func (r *PgxInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE installment_id = $1;`
	m, err := scanInstallmentRow(r.Pool.QueryRow(ctx, query, installmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}
	d := mapping.ToDomainInstallment(m)
	return &d, nil
}

// ListInstallmentsByProject retrieves a project's full schedule ordered by number.
func (r *PgxInstallmentRepository) ListInstallmentsByProject(ctx context.Context, projectID string) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE project_id = $1 ORDER BY number;`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments for project %s: %w", projectID, err)
	}
	defer rows.Close()

	modelInstallments := []models.Installment{}
	for rows.Next() {
		m, err := scanInstallmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment row: %w", err)
		}
		modelInstallments = append(modelInstallments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment rows: %w", err)
	}
	return mapping.ToDomainInstallmentSlice(modelInstallments), nil
}

// SaveInstallments persists a generated schedule as one atomic batch. If any
// insert fails no installment of the batch remains.
func (r *PgxInstallmentRepository) SaveInstallments(ctx context.Context, installments []domain.Installment) error {
	if len(installments) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO installments (` + installmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, inst := range installments {
		m := mapping.ToModelInstallment(inst)
		batch.Queue(query,
			m.InstallmentID,
			m.ProjectID,
			m.Number,
			m.Amount,
			m.Currency,
			m.DueDate,
			m.Status,
			m.PaidAmount,
			m.PaidDate,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: schedule already exists for project %s", apperrors.ErrDuplicate, installments[0].ProjectID)
		}
		return fmt.Errorf("failed to insert installment batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// CancelInstallment marks a pending installment as cancelled. Installments
// with payments applied cannot be cancelled.
func (r *PgxInstallmentRepository) CancelInstallment(ctx context.Context, installmentID string, userID string) error {
	query := `
		UPDATE installments
		SET status = $2, last_updated_at = NOW(), last_updated_by = $3
		WHERE installment_id = $1 AND status = $4 AND paid_amount = 0;
	`
	ct, err := r.Pool.Exec(ctx, query, installmentID, string(domain.InstallmentCancelled), userID, string(domain.InstallmentPending))
	if err != nil {
		return fmt.Errorf("failed to cancel installment %s: %w", installmentID, err)
	}
	if ct.RowsAffected() == 0 {
		if _, findErr := r.FindInstallmentByID(ctx, installmentID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: installment %s is not pending", apperrors.ErrConflict, installmentID)
	}
	return nil
}
