package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/obralink/cashbox-backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	movementRepo := newPgxMovementRepository(dbPool, accountRepo)
	installmentRepo := newPgxInstallmentRepository(dbPool)
	contractorRepo := newPgxContractorPaymentRepository(dbPool)
	projectRepo := newPgxProjectRepository(dbPool)
	loanRepo := newPgxLoanRepository(dbPool, accountRepo)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		MovementRepo:    movementRepo,
		InstallmentRepo: installmentRepo,
		ContractorRepo:  contractorRepo,
		ProjectRepo:     projectRepo,
		LoanRepo:        loanRepo,
	}
}
