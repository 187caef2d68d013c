package repositories

import (
	"context"
	"time"

	"github.com/obralink/cashbox-backend/internal/core/domain"
)

// ProjectReader defines read operations for projects.
type ProjectReader interface {
	// FindProjectByID retrieves a single project.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects retrieves a paginated list of projects, newest first.
	ListProjects(ctx context.Context, limit int, nextToken *string) ([]domain.Project, *string, error)
}

// ProjectWriter defines write operations for projects.
type ProjectWriter interface {
	// SaveProject persists a project together with its cash-box account in one
	// transaction.
	SaveProject(ctx context.Context, project domain.Project, account domain.Account) error

	// ArchiveProject soft-archives a project and deactivates its account.
	ArchiveProject(ctx context.Context, projectID string, userID string, now time.Time) error
}

// ProjectRepositoryFacade combines all project repository interfaces.
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}
