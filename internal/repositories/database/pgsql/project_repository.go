package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obralink/cashbox-backend/internal/apperrors"
	"github.com/obralink/cashbox-backend/internal/core/domain"
	portsrepo "github.com/obralink/cashbox-backend/internal/core/ports/repositories"
	"github.com/obralink/cashbox-backend/internal/models"
	"github.com/obralink/cashbox-backend/internal/utils/mapping"
	"github.com/obralink/cashbox-backend/internal/utils/pagination"
)

type PgxProjectRepository struct {
	BaseRepository
}

// newPgxProjectRepository creates a new repository for project data.
func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

const projectColumns = `project_id, name, client_name, currency, total_amount, down_payment_amount, installments_count, admin_fee_percent, start_date, status, account_id, created_at, created_by, last_updated_at, last_updated_by`

func scanProjectRow(row pgx.Row) (models.Project, error) {
	var m models.Project
	err := row.Scan(
		&m.ProjectID,
		&m.Name,
		&m.ClientName,
		&m.Currency,
		&m.TotalAmount,
		&m.DownPaymentAmount,
		&m.InstallmentsCount,
		&m.AdminFeePercent,
		&m.StartDate,
		&m.Status,
		&m.AccountID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindProjectByID retrieves a single project.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1;`
	m, err := scanProjectRow(r.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	d := mapping.ToDomainProject(m)
	return &d, nil
}

// ListProjects retrieves a paginated list of projects, newest first.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, limit int, nextToken *string) ([]domain.Project, *string, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []any{}

	if nextToken != nil && *nextToken != "" {
		createdAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` WHERE (created_at, project_id) < ($1, $2)`
		args = append(args, createdAt, lastID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, project_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	modelProjects := []models.Project{}
	for rows.Next() {
		m, err := scanProjectRow(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		modelProjects = append(modelProjects, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	var newToken *string
	if len(modelProjects) > limit {
		modelProjects = modelProjects[:limit]
		last := modelProjects[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ProjectID)
		newToken = &token
	}

	projects := make([]domain.Project, len(modelProjects))
	for i, m := range modelProjects {
		projects[i] = mapping.ToDomainProject(m)
	}
	return projects, newToken, nil
}

// SaveProject persists a project together with its cash-box account in one
// transaction, so a project never exists without its account.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project, account domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := saveAccountInTx(ctx, tx, account); err != nil {
		return err
	}

	m := mapping.ToModelProject(project)
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, query,
		m.ProjectID,
		m.Name,
		m.ClientName,
		m.Currency,
		m.TotalAmount,
		m.DownPaymentAmount,
		m.InstallmentsCount,
		m.AdminFeePercent,
		m.StartDate,
		m.Status,
		m.AccountID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: project %s already exists", apperrors.ErrDuplicate, m.ProjectID)
		}
		return fmt.Errorf("failed to save project %s: %w", m.ProjectID, err)
	}

	return r.Commit(ctx, tx)
}

// ArchiveProject soft-archives a project and deactivates its account in one
// transaction. The ledger and schedule stay untouched.
func (r *PgxProjectRepository) ArchiveProject(ctx context.Context, projectID string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	projectQuery := `
		UPDATE projects
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE project_id = $1 AND status = $5;
	`
	ct, err := tx.Exec(ctx, projectQuery, projectID, string(domain.ProjectArchived), now, userID, string(domain.ProjectActive))
	if err != nil {
		return fmt.Errorf("failed to archive project %s: %w", projectID, err)
	}
	if ct.RowsAffected() == 0 {
		if _, findErr := r.FindProjectByID(ctx, projectID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: project %s is already archived", apperrors.ErrConflict, projectID)
	}

	accountQuery := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE project_id = $1;
	`
	if _, err := tx.Exec(ctx, accountQuery, projectID, now, userID); err != nil {
		return fmt.Errorf("failed to deactivate account of project %s: %w", projectID, err)
	}

	return r.Commit(ctx, tx)
}
