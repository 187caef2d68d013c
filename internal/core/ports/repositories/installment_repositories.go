package repositories

import (
	"context"

	"github.com/obralink/cashbox-backend/internal/core/domain"
)

// InstallmentReader defines read operations for project installment schedules.
type InstallmentReader interface {
	// FindInstallmentByID retrieves a single installment.
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)

	// ListInstallmentsByProject retrieves a project's full schedule ordered by number.
	ListInstallmentsByProject(ctx context.Context, projectID string) ([]domain.Installment, error)
}

// InstallmentWriter defines write operations for project installment schedules.
type InstallmentWriter interface {
	// SaveInstallments persists a generated schedule as one atomic batch.
	// If any insert fails no installment of the batch remains.
	SaveInstallments(ctx context.Context, installments []domain.Installment) error

	// CancelInstallment marks a pending installment as cancelled.
	CancelInstallment(ctx context.Context, installmentID string, userID string) error
}

// InstallmentRepositoryFacade combines all installment repository interfaces.
type InstallmentRepositoryFacade interface {
	InstallmentReader
	InstallmentWriter
}

// ContractorPaymentReader defines read operations for contractor payments.
type ContractorPaymentReader interface {
	// FindContractorPaymentByID retrieves a single contractor payment.
	FindContractorPaymentByID(ctx context.Context, contractorPaymentID string) (*domain.ContractorPayment, error)

	// ListContractorPaymentsByProject retrieves a project's contractor payments.
	ListContractorPaymentsByProject(ctx context.Context, projectID string) ([]domain.ContractorPayment, error)
}

// ContractorPaymentWriter defines write operations for contractor payments.
type ContractorPaymentWriter interface {
	// SaveContractorPayment persists a new pending contractor payment.
	SaveContractorPayment(ctx context.Context, payment domain.ContractorPayment) error
}

// ContractorPaymentRepositoryFacade combines the contractor payment interfaces.
type ContractorPaymentRepositoryFacade interface {
	ContractorPaymentReader
	ContractorPaymentWriter
}
