package services

import (
	portsrepo "github.com/obralink/cashbox-backend/internal/core/ports/repositories"
	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	notifier := NewLoggingMovementNotifier()

	// Schedule generation first since project creation depends on it.
	container.Schedule = NewScheduleService(repos.InstallmentRepo)

	container.Account = NewAccountService(repos.AccountRepo, repos.MovementRepo)
	container.Project = NewProjectService(repos.ProjectRepo, repos.InstallmentRepo, repos.ContractorRepo, container.Schedule)
	container.Payment = NewPaymentService(repos.InstallmentRepo, repos.ContractorRepo, repos.ProjectRepo, repos.AccountRepo, repos.MovementRepo, notifier)
	container.Loan = NewLoanService(repos.LoanRepo, repos.AccountRepo, repos.MovementRepo, notifier)
	container.Reconciliation = NewReconciliationService(repos.AccountRepo, repos.MovementRepo)

	return container
}
