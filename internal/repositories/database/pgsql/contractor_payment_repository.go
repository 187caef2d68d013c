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

type PgxContractorPaymentRepository struct {
	BaseRepository
}

// newPgxContractorPaymentRepository creates a new repository for contractor payments.
func newPgxContractorPaymentRepository(pool *pgxpool.Pool) portsrepo.ContractorPaymentRepositoryFacade {
	return &PgxContractorPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ContractorPaymentRepositoryFacade = (*PgxContractorPaymentRepository)(nil)

const contractorPaymentColumns = `contractor_payment_id, project_id, project_contractor_id, amount, currency, status, payment_type, payment_date, description, created_at, created_by, last_updated_at, last_updated_by`

func scanContractorPaymentRow(row pgx.Row) (models.ContractorPayment, error) {
	var m models.ContractorPayment
	err := row.Scan(
		&m.ContractorPaymentID,
		&m.ProjectID,
		&m.ProjectContractorID,
		&m.Amount,
		&m.Currency,
		&m.Status,
		&m.PaymentType,
		&m.PaymentDate,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindContractorPaymentByID retrieves a single contractor payment.
func (r *PgxContractorPaymentRepository) FindContractorPaymentByID(ctx context.Context, contractorPaymentID string) (*domain.ContractorPayment, error) {
	query := `SELECT ` + contractorPaymentColumns + ` FROM contractor_payments WHERE contractor_payment_id = $1;`
	m, err := scanContractorPaymentRow(r.Pool.QueryRow(ctx, query, contractorPaymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contractor payment %s: %w", contractorPaymentID, err)
	}
	d := mapping.ToDomainContractorPayment(m)
	return &d, nil
}

// ListContractorPaymentsByProject retrieves a project's contractor payments,
// newest first.
func (r *PgxContractorPaymentRepository) ListContractorPaymentsByProject(ctx context.Context, projectID string) ([]domain.ContractorPayment, error) {
	query := `SELECT ` + contractorPaymentColumns + ` FROM contractor_payments WHERE project_id = $1 ORDER BY created_at DESC, contractor_payment_id DESC;`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contractor payments for project %s: %w", projectID, err)
	}
	defer rows.Close()

	payments := []domain.ContractorPayment{}
	for rows.Next() {
		m, err := scanContractorPaymentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contractor payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainContractorPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contractor payment rows: %w", err)
	}
	return payments, nil
}

// SaveContractorPayment persists a new pending contractor payment.
func (r *PgxContractorPaymentRepository) SaveContractorPayment(ctx context.Context, payment domain.ContractorPayment) error {
	m := mapping.ToModelContractorPayment(payment)
	query := `
		INSERT INTO contractor_payments (` + contractorPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ContractorPaymentID,
		m.ProjectID,
		m.ProjectContractorID,
		m.Amount,
		m.Currency,
		m.Status,
		m.PaymentType,
		m.PaymentDate,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: contractor payment %s already exists", apperrors.ErrDuplicate, m.ContractorPaymentID)
		}
		return fmt.Errorf("failed to save contractor payment %s: %w", m.ContractorPaymentID, err)
	}
	return nil
}
